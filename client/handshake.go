package client

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"lightcycle/protocol"
)

const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 4000
)

// ConnectionError 无法建立到服务端的连接（不重试，由用户重新启动客户端）
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Address 拼接服务端地址，空值使用本地回环与默认端口
func Address(host string, port int) string {
	if host == "" {
		host = DefaultHost
	}
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// Dialer 建立连接并完成握手
type Dialer struct {
	// Timeout 仅限制 TCP 建连；等待对手加入（握手字节）不设超时
	Timeout time.Duration
	// OnConnected 建连成功、等待身份字节前调用（界面提示“已连接”）
	OnConnected func(addr string)
}

// Dial 连接 addr 并阻塞到服务端发来身份字节
func (d Dialer) Dial(ctx context.Context, addr string) (net.Conn, protocol.PlayerID, error) {
	if addr == "" {
		addr = Address("", 0)
	}
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	var nd net.Dialer
	conn, err := nd.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, 0, &ConnectionError{Addr: addr, Err: err}
	}
	Log.Infow("connected, waiting for identity", "addr", addr, "local_addr", conn.LocalAddr().String())
	if d.OnConnected != nil {
		d.OnConnected(addr)
	}

	id, err := protocol.NewCodec(conn).ReadIdentity()
	if err != nil {
		_ = conn.Close()
		return nil, 0, fmt.Errorf("handshake with %s: %w", addr, err)
	}
	Log.Infow("identity assigned", "addr", addr, "player", id.String())
	return conn, id, nil
}
