package client

// State 主循环所处阶段
type State int32

const (
	StateIdle State = iota
	StateAwaitingTick
	StateApplying
	StateSampling
	StateReporting
	StateEnding
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingTick:
		return "awaiting_server_tick"
	case StateApplying:
		return "applying_state"
	case StateSampling:
		return "sampling_local_input"
	case StateReporting:
		return "reporting_local_state"
	case StateEnding:
		return "ending"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}
