package client

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"lightcycle/protocol"
)

// serveOnce 在回环地址上接受一个连接并写出 payload
func serveOnce(t *testing.T, payload []byte) (string, <-chan net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		_, _ = conn.Write(payload)
		accepted <- conn
	}()
	return ln.Addr().String(), accepted
}

func TestDialReceivesIdentity(t *testing.T) {
	addr, accepted := serveOnce(t, []byte{byte(protocol.Player2)})

	var notified string
	d := Dialer{Timeout: time.Second, OnConnected: func(a string) { notified = a }}
	conn, id, err := d.Dial(context.Background(), addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	server := <-accepted
	defer server.Close()

	if id != protocol.Player2 {
		t.Fatalf("expected player 2, got %v", id)
	}
	if notified != addr {
		t.Fatalf("expected OnConnected(%q), got %q", addr, notified)
	}
}

func TestDialRejectsBadIdentity(t *testing.T) {
	addr, accepted := serveOnce(t, []byte{7})

	_, _, err := Dialer{}.Dial(context.Background(), addr)
	var fe *protocol.ProtocolFormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected ProtocolFormatError, got %v", err)
	}
	server := <-accepted
	defer server.Close()
	_ = server.SetReadDeadline(time.Now().Add(time.Second))
	if _, err := server.Read(make([]byte, 1)); err == nil {
		t.Fatalf("expected client side to be closed")
	}
}

func TestDialConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	_, _, err = Dialer{Timeout: time.Second}.Dial(context.Background(), addr)
	var ce *ConnectionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConnectionError, got %v", err)
	}
	if ce.Addr != addr || ce.Unwrap() == nil {
		t.Fatalf("expected address and cause, got %+v", ce)
	}
}

func TestAddressDefaults(t *testing.T) {
	if got := Address("", 0); got != "127.0.0.1:4000" {
		t.Fatalf("unexpected default address %q", got)
	}
	if got := Address("10.0.0.5", 9000); got != "10.0.0.5:9000" {
		t.Fatalf("unexpected address %q", got)
	}
}
