package client

import "lightcycle/protocol"

// Point 网格坐标（x 为列，y 为行，y 轴向下）
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step 沿方向移动一格后的坐标
func (p Point) Step(d protocol.Direction) Point {
	dx, dy := d.Delta()
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Player 对局中的一名玩家（客户端本地副本，方向以服务端下发为准）
type Player struct {
	ID    protocol.PlayerID
	Pos   Point
	Dir   protocol.Direction // 下一次 Advance 使用的方向
	Glyph rune               // 仅供渲染
}

// DefaultGlyph 玩家与轨迹的默认字符
const DefaultGlyph = '█'

// Advance 沿当前方向移动一格；不做越界裁剪，撞墙由碰撞检测发现
func (p *Player) Advance() {
	p.Pos = p.Pos.Step(p.Dir)
}

// Next 下一次 Advance 之后所在的格子
func (p Player) Next() Point {
	return p.Pos.Step(p.Dir)
}

// Steer 请求转向，只修改下一步的方向。
// 直接掉头（以及非法方向）被静默忽略，返回 false。
func (p *Player) Steer(d protocol.Direction) bool {
	if !d.Valid() || d == p.Dir.Opposite() {
		return false
	}
	p.Dir = d
	return true
}

// StartingPlayers 开局位置：P1 在左四分之一处向右，P2 在右四分之一处向左，均位于中线
func StartingPlayers(a *Arena) [protocol.NumPlayers]Player {
	var players [protocol.NumPlayers]Player
	players[protocol.Player1.Index()] = Player{
		ID:    protocol.Player1,
		Pos:   Point{X: a.Width / 4, Y: a.Height / 2},
		Dir:   protocol.DirRight,
		Glyph: DefaultGlyph,
	}
	players[protocol.Player2.Index()] = Player{
		ID:    protocol.Player2,
		Pos:   Point{X: a.Width * 3 / 4, Y: a.Height / 2},
		Dir:   protocol.DirLeft,
		Glyph: DefaultGlyph,
	}
	return players
}
