package client

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"lightcycle/protocol"
)

// PlayerState 广播给旁观者的轻量状态
type PlayerState struct {
	ID  int    `json:"id"`
	X   int    `json:"x"`
	Y   int    `json:"y"`
	Dir string `json:"dir"`
}

// StateFrame 每步重绘对应一帧；Steps > 1 时同一 tick 会有多帧
type StateFrame struct {
	Type    string        `json:"type"`
	Session string        `json:"session"`
	Tick    int64         `json:"tick"`
	Frame   int64         `json:"frame"`
	Players []PlayerState `json:"players"`
}

// EndFrame 对局结束帧
type EndFrame struct {
	Type    string `json:"type"`
	Session string `json:"session"`
	Winner  int    `json:"winner"`
	Local   int    `json:"local"`
}

// SpectatorHub 管理旁观者连接，并作为 Renderer / ResultPresenter 接到主循环上。
// 主循环只把玩家状态副本交给它，不会因此被阻塞。
type SpectatorHub struct {
	session string

	mu     sync.RWMutex
	conns  map[*SpectatorConn]struct{}
	closed bool

	frames  atomic.Int64
	dropped atomic.Int64
}

func NewSpectatorHub(sessionID uuid.UUID) *SpectatorHub {
	return &SpectatorHub{
		session: sessionID.String(),
		conns:   make(map[*SpectatorConn]struct{}),
	}
}

// Join 登记旁观者；对局结束后拒绝新连接
func (h *SpectatorHub) Join(c *SpectatorConn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.conns[c] = struct{}{}
	return true
}

// Leave 移除旁观者（可重复调用）
func (h *SpectatorHub) Leave(c *SpectatorConn) {
	h.mu.Lock()
	_, ok := h.conns[c]
	delete(h.conns, c)
	h.mu.Unlock()
	if ok {
		c.close()
	}
}

// Count 当前旁观者数量
func (h *SpectatorHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Dropped 因队列满而丢弃的帧数
func (h *SpectatorHub) Dropped() int64 { return h.dropped.Load() }

func (h *SpectatorHub) Redraw(tick int64, players [protocol.NumPlayers]Player) {
	frame := StateFrame{
		Type:    "state",
		Session: h.session,
		Tick:    tick,
		Frame:   h.frames.Add(1),
		Players: make([]PlayerState, 0, len(players)),
	}
	for _, p := range players {
		frame.Players = append(frame.Players, PlayerState{ID: int(p.ID), X: p.Pos.X, Y: p.Pos.Y, Dir: p.Dir.String()})
	}
	h.broadcast(frame)
}

// PresentResult 广播结束帧并关闭所有旁观连接
func (h *SpectatorHub) PresentResult(winner, local protocol.PlayerID) {
	h.broadcast(EndFrame{Type: "end", Session: h.session, Winner: int(winner), Local: int(local)})
	h.Close()
}

// Close 断开全部旁观者，之后不再接受新连接
func (h *SpectatorHub) Close() {
	h.mu.Lock()
	conns := h.conns
	h.conns = make(map[*SpectatorConn]struct{})
	h.closed = true
	h.mu.Unlock()
	for c := range conns {
		c.close()
	}
}

func (h *SpectatorHub) broadcast(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		Log.Warnw("spectator frame marshal failed", "error", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns {
		if !c.Enqueue(b) {
			h.dropped.Add(1)
		}
	}
}
