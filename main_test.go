package main

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"lightcycle/client"
	"lightcycle/protocol"
)

// startSpectated 在本地随机端口上准备一局带旁观服务的对局；server 端由测试写入
func startSpectated(t *testing.T) (server net.Conn, session *client.Session, hub *client.SpectatorHub, ln net.Listener) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	clientSide, server := net.Pipe()
	t.Cleanup(func() { _ = server.Close() })

	id := uuid.New()
	hub = client.NewSpectatorHub(id)
	session = client.NewSession(clientSide, protocol.Player1, client.NewArena(80, 24), client.Config{ID: id}, client.Collaborators{
		Renderer:  client.Renderers{hub},
		Presenter: client.Presenters{hub},
		Pacer:     client.TickPacer{Interval: time.Millisecond},
	})
	return server, session, hub, ln
}

func runAsync(session *client.Session, hub *client.SpectatorHub, ln net.Listener) <-chan error {
	done := make(chan error, 1)
	go func() { done <- run(session, hub, ln) }()
	return done
}

func waitRun(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not return")
		return nil
	}
}

func assertFeedDown(t *testing.T, addr string) {
	t.Helper()
	if c, err := net.DialTimeout("tcp", addr, time.Second); err == nil {
		_ = c.Close()
		t.Fatalf("spectator feed still accepting connections on %s", addr)
	}
}

func TestRunShutsDownFeedAfterEnd(t *testing.T) {
	server, session, hub, ln := startSpectated(t)
	addr := ln.Addr().String()
	done := runAsync(session, hub, ln)

	ws, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
	if err != nil {
		t.Fatalf("dial spectator feed: %v", err)
	}
	defer ws.Close()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("spectator never joined")
		}
		time.Sleep(5 * time.Millisecond)
	}

	go func() { _, _ = server.Write([]byte{byte(protocol.TagEnd), byte(protocol.Player1)}) }()

	if err := waitRun(t, done); err != nil {
		t.Fatalf("run: %v", err)
	}
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var end client.EndFrame
	if err := ws.ReadJSON(&end); err != nil {
		t.Fatalf("read end frame: %v", err)
	}
	if end.Type != "end" || end.Winner != 1 || end.Local != 1 {
		t.Fatalf("unexpected end frame %+v", end)
	}
	if _, _, err := ws.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("expected normal closure, got %v", err)
	}
	if hub.Count() != 0 {
		t.Fatalf("expected no spectators after the game, got %d", hub.Count())
	}
	if session.State() != client.StateClosed {
		t.Fatalf("expected closed session, got %v", session.State())
	}
	assertFeedDown(t, addr)
}

func TestRunReturnsProtocolErrorAndShutsDownFeed(t *testing.T) {
	server, session, hub, ln := startSpectated(t)
	addr := ln.Addr().String()
	done := runAsync(session, hub, ln)

	go func() { _, _ = server.Write([]byte{0x7f}) }()

	err := waitRun(t, done)
	var fe *protocol.ProtocolFormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected ProtocolFormatError, got %v", err)
	}
	if fatalMessage(err) != "Invalid signal from server." {
		t.Fatalf("unexpected fatal message %q", fatalMessage(err))
	}
	if session.State() != client.StateFailed {
		t.Fatalf("expected failed session, got %v", session.State())
	}
	if hub.Count() != 0 {
		t.Fatalf("expected no spectators after the failure, got %d", hub.Count())
	}
	assertFeedDown(t, addr)
}

func TestRunWithoutSpectators(t *testing.T) {
	clientSide, server := net.Pipe()
	defer server.Close()
	session := client.NewSession(clientSide, protocol.Player2, client.NewArena(80, 24), client.Config{}, client.Collaborators{})
	done := runAsync(session, client.NewSpectatorHub(session.ID), nil)

	go func() { _, _ = server.Write([]byte{byte(protocol.TagEnd), byte(protocol.Player1)}) }()

	if err := waitRun(t, done); err != nil {
		t.Fatalf("run: %v", err)
	}
	if session.State() != client.StateClosed {
		t.Fatalf("expected closed session, got %v", session.State())
	}
}
