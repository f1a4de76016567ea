package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"lightcycle/protocol"
)

func newAdminServer(t *testing.T) (*Session, *SpectatorHub, *httptest.Server) {
	t.Helper()
	id := uuid.New()
	hub := NewSpectatorHub(id)
	s := NewSession(newScriptedConn(nil), protocol.Player1, NewArena(80, 24), Config{ID: id}, Collaborators{Renderer: hub})
	srv := httptest.NewServer(NewAdminMux(s, hub))
	t.Cleanup(srv.Close)
	return s, hub, srv
}

func waitSpectators(t *testing.T, hub *SpectatorHub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d spectators, have %d", n, hub.Count())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSpectatorFeed(t *testing.T) {
	s, hub, srv := newAdminServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()
	waitSpectators(t, hub, 1)

	// Steps > 1 时同一 tick 连续两帧
	hub.Redraw(7, s.Players())
	hub.Redraw(7, s.Players())

	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("read state frame: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("decode state frame: %v", err)
	}
	if fields["tick"] != float64(7) {
		t.Fatalf("expected tick 7 on the wire, got %s", raw)
	}
	var frame StateFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		t.Fatalf("decode state frame: %v", err)
	}
	if frame.Type != "state" || frame.Session != s.ID.String() || frame.Tick != 7 || frame.Frame != 1 {
		t.Fatalf("unexpected frame header %+v", frame)
	}
	if len(frame.Players) != 2 || frame.Players[0].X != 20 || frame.Players[0].Dir != "right" {
		t.Fatalf("unexpected players %+v", frame.Players)
	}
	var second StateFrame
	if err := ws.ReadJSON(&second); err != nil {
		t.Fatalf("read second state frame: %v", err)
	}
	if second.Tick != 7 || second.Frame != 2 {
		t.Fatalf("expected same tick on the next step frame, got %+v", second)
	}

	hub.PresentResult(protocol.Player2, protocol.Player1)
	var end EndFrame
	if err := ws.ReadJSON(&end); err != nil {
		t.Fatalf("read end frame: %v", err)
	}
	if end.Type != "end" || end.Winner != 2 || end.Local != 1 {
		t.Fatalf("unexpected end frame %+v", end)
	}
	if _, _, err := ws.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("expected normal closure, got %v", err)
	}
	if hub.Count() != 0 {
		t.Fatalf("hub should be empty after the result")
	}
}

func TestSpectatorRejectedAfterEnd(t *testing.T) {
	_, hub, srv := newAdminServer(t)
	hub.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := ws.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Fatalf("expected going-away closure, got %v", err)
	}
}

func TestSlowSpectatorDropsFrames(t *testing.T) {
	hub := NewSpectatorHub(uuid.New())
	c := &SpectatorConn{send: make(chan []byte, 1)}
	hub.Join(c)

	players := StartingPlayers(NewArena(80, 24))
	hub.Redraw(1, players)
	hub.Redraw(1, players)
	hub.Redraw(2, players)

	if hub.Dropped() != 2 {
		t.Fatalf("expected 2 dropped frames, got %d", hub.Dropped())
	}
	hub.Leave(c)
	hub.Leave(c)
}

func TestAdminEndpoints(t *testing.T) {
	s, _, srv := newAdminServer(t)

	resp, err := http.Get(srv.URL + "/session")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	defer resp.Body.Close()
	var info map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if info["session"] != s.ID.String() || info["local"].(float64) != 1 || info["state"] != "idle" {
		t.Fatalf("unexpected session info %v", info)
	}

	resp2, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer resp2.Body.Close()
	var m struct {
		Session string         `json:"session"`
		Metrics map[string]any `json:"metrics"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&m); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	if m.Session != s.ID.String() || m.Metrics["ticks_received"].(float64) != 0 {
		t.Fatalf("unexpected metrics %+v", m)
	}

	resp3, err := http.Post(srv.URL+"/metrics", "application/json", nil)
	if err != nil {
		t.Fatalf("post metrics: %v", err)
	}
	resp3.Body.Close()
	if resp3.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp3.StatusCode)
	}
}
