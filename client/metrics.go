package client

import (
	"sync/atomic"
	"time"
)

// SessionMetrics 记录一局对战的关键计数（主循环写，HTTP 协程读）
type SessionMetrics struct {
	TicksReceived  int64 // 收到的 STD Tick 数
	StepsApplied   int64 // 实际推进的步数（每步一次重绘）
	StdSent        int64 // 发出的 STD 数
	CollisionsSent int64 // 发出的 COLLISION 数
	InputsIgnored  int64 // 被忽略的掉头请求
	TotalTickNs    int64 // Tick 处理累计耗时（不含节拍等待）
}

func (m *SessionMetrics) IncTick() { atomic.AddInt64(&m.TicksReceived, 1) }
func (m *SessionMetrics) IncStep() { atomic.AddInt64(&m.StepsApplied, 1) }
func (m *SessionMetrics) IncStd() { atomic.AddInt64(&m.StdSent, 1) }
func (m *SessionMetrics) IncCollision() { atomic.AddInt64(&m.CollisionsSent, 1) }
func (m *SessionMetrics) IncIgnored() { atomic.AddInt64(&m.InputsIgnored, 1) }
func (m *SessionMetrics) AddTickTime(d time.Duration) {
	atomic.AddInt64(&m.TotalTickNs, d.Nanoseconds())
}

// Replies 已发出的回复总数（STD + COLLISION）
func (m *SessionMetrics) Replies() int64 {
	return atomic.LoadInt64(&m.StdSent) + atomic.LoadInt64(&m.CollisionsSent)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *SessionMetrics) Snapshot() map[string]any {
	ticks := atomic.LoadInt64(&m.TicksReceived)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if ticks > 0 {
		avgMs = float64(total) / float64(ticks) / 1e6
	}
	return map[string]any{
		"ticks_received":  ticks,
		"steps_applied":   atomic.LoadInt64(&m.StepsApplied),
		"std_sent":        atomic.LoadInt64(&m.StdSent),
		"collisions_sent": atomic.LoadInt64(&m.CollisionsSent),
		"inputs_ignored":  atomic.LoadInt64(&m.InputsIgnored),
		"avg_tick_ms":     avgMs,
	}
}
