package protocol

import (
	"io"
)

// Codec 在一条字节流上按定长帧收发消息。
// 不做任何跨帧缓冲：每次只读当前字段需要的字节数，多一个字节都不会提前取走。
type Codec struct {
	rw io.ReadWriter
}

func NewCodec(rw io.ReadWriter) *Codec {
	return &Codec{rw: rw}
}

// ClientMessage 客户端每个 Tick 发出的唯一一条消息
type ClientMessage struct {
	Tag Tag
	Dir Direction // 仅 TagStd 有效
}

// ---- 客户端侧 ----

// ReadIdentity 读取握手字节（服务端接受连接后立即发送）
func (c *Codec) ReadIdentity() (PlayerID, error) {
	b, err := c.readFull("read identity", IdentitySize)
	if err != nil {
		return 0, err
	}
	id := PlayerID(b[0])
	if !id.Valid() {
		return 0, &ProtocolFormatError{Op: "read identity", Field: "player id", Value: b[0]}
	}
	return id, nil
}

// ReadSignal 读取服务端的 Tick 信号，只接受 STD 与 END
func (c *Codec) ReadSignal() (Tag, error) {
	b, err := c.readFull("read signal", 1)
	if err != nil {
		return 0, err
	}
	t := Tag(b[0])
	if _, ok := ServerPayloadSize(t); !ok {
		return 0, &ProtocolFormatError{Op: "read signal", Field: "server tag", Value: b[0]}
	}
	return t, nil
}

// ReadDirections 读取 STD 负载：按 P1、P2 顺序的两个方向
func (c *Codec) ReadDirections() ([NumPlayers]Direction, error) {
	var dirs [NumPlayers]Direction
	b, err := c.readFull("read directions", ServerStdSize)
	if err != nil {
		return dirs, err
	}
	dirs[Player1.Index()] = Direction(b[offsetP1Dir])
	dirs[Player2.Index()] = Direction(b[offsetP2Dir])
	for _, d := range dirs {
		if !d.Valid() {
			return dirs, &ProtocolFormatError{Op: "read directions", Field: "direction", Value: byte(d)}
		}
	}
	return dirs, nil
}

// ReadWinner 读取 END 之后的胜者字节
func (c *Codec) ReadWinner() (PlayerID, error) {
	b, err := c.readFull("read winner", ServerEndSize)
	if err != nil {
		return 0, err
	}
	id := PlayerID(b[0])
	if !id.Valid() {
		return 0, &ProtocolFormatError{Op: "read winner", Field: "player id", Value: b[0]}
	}
	return id, nil
}

// WriteStd 发送常规帧：信号 + 本地方向，一次写出
func (c *Codec) WriteStd(d Direction) error {
	if !d.Valid() {
		return &ProtocolFormatError{Op: "write std", Field: "direction", Value: byte(d)}
	}
	frame := make([]byte, 1+ClientStdSize)
	frame[0] = byte(TagStd)
	frame[1+offsetLocalDir] = byte(d)
	return c.writeFull("write std", frame)
}

// WriteCollision 发送碰撞信号，无负载
func (c *Codec) WriteCollision() error {
	return c.writeFull("write collision", []byte{byte(TagCollision)})
}

// ---- 服务端侧（对端实现与测试使用同一张长度表） ----

// WriteIdentity 握手：告知客户端其身份
func (c *Codec) WriteIdentity(id PlayerID) error {
	if !id.Valid() {
		return &ProtocolFormatError{Op: "write identity", Field: "player id", Value: byte(id)}
	}
	return c.writeFull("write identity", []byte{byte(id)})
}

// WriteServerStd 下发本 Tick 的权威方向
func (c *Codec) WriteServerStd(p1, p2 Direction) error {
	for _, d := range [...]Direction{p1, p2} {
		if !d.Valid() {
			return &ProtocolFormatError{Op: "write server std", Field: "direction", Value: byte(d)}
		}
	}
	frame := make([]byte, 1+ServerStdSize)
	frame[0] = byte(TagStd)
	frame[1+offsetP1Dir] = byte(p1)
	frame[1+offsetP2Dir] = byte(p2)
	return c.writeFull("write server std", frame)
}

// WriteEnd 下发结束信号与胜者
func (c *Codec) WriteEnd(winner PlayerID) error {
	if !winner.Valid() {
		return &ProtocolFormatError{Op: "write end", Field: "player id", Value: byte(winner)}
	}
	return c.writeFull("write end", []byte{byte(TagEnd), byte(winner)})
}

// ReadClientMessage 读取一条客户端消息
func (c *Codec) ReadClientMessage() (ClientMessage, error) {
	b, err := c.readFull("read client tag", 1)
	if err != nil {
		return ClientMessage{}, err
	}
	msg := ClientMessage{Tag: Tag(b[0])}
	n, ok := ClientPayloadSize(msg.Tag)
	if !ok {
		return ClientMessage{}, &ProtocolFormatError{Op: "read client tag", Field: "client tag", Value: b[0]}
	}
	if n == 0 {
		return msg, nil
	}
	payload, err := c.readFull("read client payload", n)
	if err != nil {
		return ClientMessage{}, err
	}
	msg.Dir = Direction(payload[offsetLocalDir])
	if !msg.Dir.Valid() {
		return ClientMessage{}, &ProtocolFormatError{Op: "read client payload", Field: "direction", Value: byte(msg.Dir)}
	}
	return msg, nil
}

func (c *Codec) readFull(op string, n int) ([]byte, error) {
	buf := make([]byte, n)
	got, err := io.ReadFull(c.rw, buf)
	if err != nil {
		return nil, &ProtocolIOError{Op: op, Want: n, Got: got, Err: err}
	}
	return buf, nil
}

func (c *Codec) writeFull(op string, frame []byte) error {
	n, err := c.rw.Write(frame)
	if err == nil && n != len(frame) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return &ProtocolIOError{Op: op, Want: len(frame), Got: n, Err: err}
	}
	return nil
}
