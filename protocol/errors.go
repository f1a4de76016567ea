package protocol

import "fmt"

// ProtocolIOError 定长字段没有完整读到或写出（短读、短写、连接断开）
type ProtocolIOError struct {
	Op   string
	Want int
	Got  int
	Err  error
}

func (e *ProtocolIOError) Error() string {
	return fmt.Sprintf("%s: transferred %d of %d bytes: %v", e.Op, e.Got, e.Want, e.Err)
}

func (e *ProtocolIOError) Unwrap() error { return e.Err }

// ProtocolFormatError 未知信号或越界的枚举值
type ProtocolFormatError struct {
	Op    string
	Field string
	Value byte
}

func (e *ProtocolFormatError) Error() string {
	return fmt.Sprintf("%s: invalid %s 0x%02x", e.Op, e.Field, e.Value)
}
