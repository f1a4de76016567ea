package client

import "time"

const (
	// TicksPerSecond 默认节拍（20 TPS）
	TicksPerSecond = 20
)

// TickInterval 由每秒 Tick 数换算节拍间隔；非正数表示不等待
func TickInterval(ticksPerSecond int) time.Duration {
	if ticksPerSecond <= 0 {
		return 0
	}
	return time.Second / time.Duration(ticksPerSecond)
}

// Pacer 控制两次 Tick 之间的停顿
type Pacer interface {
	SleepTick()
}

// TickPacer 固定间隔休眠
type TickPacer struct {
	Interval time.Duration
}

func (p TickPacer) SleepTick() {
	if p.Interval > 0 {
		time.Sleep(p.Interval)
	}
}
