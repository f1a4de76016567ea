package client

import "lightcycle/protocol"

// InputSource 本地方向输入，非阻塞轮询；没有新输入时 ok 为 false
type InputSource interface {
	SampleDirection() (dir protocol.Direction, ok bool)
}

// InputFunc 让普通函数满足 InputSource
type InputFunc func() (protocol.Direction, bool)

func (f InputFunc) SampleDirection() (protocol.Direction, bool) { return f() }

// NoInput 从不产生输入（无人值守 / 旁观模式）
type NoInput struct{}

func (NoInput) SampleDirection() (protocol.Direction, bool) { return protocol.DirNone, false }
