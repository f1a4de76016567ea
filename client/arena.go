package client

import "lightcycle/protocol"

// MinArenaWidth / MinArenaHeight 两名玩家之间至少要留出空隙
const (
	MinArenaWidth  = 8
	MinArenaHeight = 3
)

// Arena 场地：最外一圈是边框，内部可活动；同时记录双方走过的轨迹
type Arena struct {
	Width  int
	Height int

	trail map[Point]protocol.PlayerID
}

func NewArena(width, height int) *Arena {
	return &Arena{
		Width:  width,
		Height: height,
		trail:  make(map[Point]protocol.PlayerID),
	}
}

// OnBorder 坐标落在边框上或边框之外
func (a *Arena) OnBorder(p Point) bool {
	return p.X <= 0 || p.Y <= 0 || p.X >= a.Width-1 || p.Y >= a.Height-1
}

// Mark 记录某格被玩家占据（轨迹不会消失）
func (a *Arena) Mark(p Point, id protocol.PlayerID) {
	a.trail[p] = id
}

// Occupant 返回占据该格的玩家
func (a *Arena) Occupant(p Point) (protocol.PlayerID, bool) {
	id, ok := a.trail[p]
	return id, ok
}

// TrailLen 已占据的格子数
func (a *Arena) TrailLen() int { return len(a.trail) }

// WillCollide 预判 player 下一步是否会撞上边框、对手当前位置或任意轨迹。
// 只做判断，不修改任何状态。
func WillCollide(player, other Player, a *Arena) bool {
	return WillCollideWithin(player, other, a, 1)
}

// WillCollideWithin 同 WillCollide，但检查沿当前方向接下来 steps 格中的每一格
func WillCollideWithin(player, other Player, a *Arena, steps int) bool {
	next := player.Pos
	for i := 0; i < steps; i++ {
		next = next.Step(player.Dir)
		if a.OnBorder(next) || next == other.Pos {
			return true
		}
		if _, taken := a.Occupant(next); taken {
			return true
		}
	}
	return false
}
