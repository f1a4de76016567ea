package client

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	spectatorQueue     = 64
	spectatorWriteWait = 5 * time.Second
	spectatorPongWait  = 60 * time.Second
)

// SpectatorConn 一个旁观者连接：写协程从队列取帧，读协程只用于发现断开
type SpectatorConn struct {
	ws   *websocket.Conn
	send chan []byte
}

func NewSpectatorConn(ws *websocket.Conn) *SpectatorConn {
	return &SpectatorConn{
		ws:   ws,
		send: make(chan []byte, spectatorQueue),
	}
}

// Enqueue 非阻塞入队，队列满则丢帧（旁观者慢不能拖住主循环）
func (c *SpectatorConn) Enqueue(b []byte) bool {
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

// close 关闭发送队列，写协程随之退出；只能由 hub 在移除后调用
func (c *SpectatorConn) close() {
	close(c.send)
}

// writePump 独立协程，负责从 send 队列写出到 WS
func (c *SpectatorConn) writePump() {
	defer c.ws.Close()
	for msg := range c.send {
		_ = c.ws.SetWriteDeadline(time.Now().Add(spectatorWriteWait))
		if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(spectatorWriteWait))
	_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over"))
}

// readPump 丢弃旁观者发来的内容，连接断开时从 hub 移除
func (c *SpectatorConn) readPump(hub *SpectatorHub) {
	defer c.ws.Close()
	defer hub.Leave(c)
	c.ws.SetReadLimit(1 << 10)
	_ = c.ws.SetReadDeadline(time.Now().Add(spectatorPongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(spectatorPongWait))
	})
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 只读旁观流，允许任意来源
		return true
	},
}

// HandleWS 旁观者接入：GET /ws
func (h *SpectatorHub) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnw("spectator upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	c := NewSpectatorConn(ws)
	if !h.Join(c) {
		_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "game over"))
		_ = ws.Close()
		return
	}
	Log.Infow("spectator joined", "remote", r.RemoteAddr, "spectators", h.Count())

	go c.writePump()
	go c.readPump(h)
}
