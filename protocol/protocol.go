// Package protocol 定义客户端与服务端之间的定长二进制协议。
//
// 每条消息由一个信号字节开头，负载长度完全由信号决定，线上没有长度前缀。
// 信号到长度的映射只在本包中出现；任何一端读错一个字节都会永久错位，
// 所以所有读写都是“要么整段成功，要么致命错误”。
package protocol

// Tag 消息首字节（信号）
type Tag byte

const (
	TagStd       Tag = 0x01 // 双向：常规帧
	TagEnd       Tag = 0x02 // 服务端 → 客户端：对局结束
	TagCollision Tag = 0x03 // 客户端 → 服务端：预测到碰撞
)

func (t Tag) String() string {
	switch t {
	case TagStd:
		return "STD"
	case TagEnd:
		return "END"
	case TagCollision:
		return "COLLISION"
	}
	return "UNKNOWN"
}

// 负载长度（不含信号字节）
const (
	IdentitySize        = 1 // 握手：分配的玩家身份，无信号字节
	ServerStdSize       = 2 // dir(P1), dir(P2)
	ServerEndSize       = 1 // 胜者身份
	ClientStdSize       = 1 // 本地方向
	ClientCollisionSize = 0
)

// 负载内偏移
const (
	offsetP1Dir    = 0
	offsetP2Dir    = 1
	offsetLocalDir = 0
)

var (
	serverPayload = map[Tag]int{TagStd: ServerStdSize, TagEnd: ServerEndSize}
	clientPayload = map[Tag]int{TagStd: ClientStdSize, TagCollision: ClientCollisionSize}
)

// ServerPayloadSize 服务端消息的负载长度；未知信号返回 false
func ServerPayloadSize(t Tag) (int, bool) {
	n, ok := serverPayload[t]
	return n, ok
}

// ClientPayloadSize 客户端消息的负载长度；未知信号返回 false
func ClientPayloadSize(t Tag) (int, bool) {
	n, ok := clientPayload[t]
	return n, ok
}
