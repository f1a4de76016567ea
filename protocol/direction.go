package protocol

import "fmt"

// PlayerID 玩家身份（握手时由服务端分配，取值 1 或 2）
type PlayerID byte

const (
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// NumPlayers 一局固定两名玩家
const NumPlayers = 2

// Valid 是否为合法身份
func (id PlayerID) Valid() bool { return id == Player1 || id == Player2 }

// Index 返回玩家在 [NumPlayers] 数组中的下标
func (id PlayerID) Index() int { return int(id) - 1 }

// Other 返回对手身份
func (id PlayerID) Other() PlayerID {
	if id == Player1 {
		return Player2
	}
	return Player1
}

func (id PlayerID) String() string {
	switch id {
	case Player1:
		return "P1"
	case Player2:
		return "P2"
	}
	return fmt.Sprintf("PlayerID(%d)", byte(id))
}

// Direction 移动方向，线上按单字节编码，两端共享同一取值表
type Direction byte

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Directions 全部合法方向（按线上取值升序）
var Directions = [...]Direction{DirUp, DirDown, DirLeft, DirRight}

// Valid DirNone 只在本地表示“无输入”，不允许出现在线上
func (d Direction) Valid() bool { return d >= DirUp && d <= DirRight }

// Opposite 返回反方向；DirNone 的反方向仍是 DirNone
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	}
	return DirNone
}

// Delta 单步位移，y 轴向下
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	}
	return 0, 0
}

func (d Direction) String() string {
	switch d {
	case DirNone:
		return "none"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return fmt.Sprintf("Direction(%d)", byte(d))
}
