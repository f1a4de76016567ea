package termui

import (
	"time"

	"github.com/nsf/termbox-go"

	"lightcycle/protocol"
)

const resultTimeout = 10 * time.Second

// StartInput 启动键盘协程；此后 SampleDirection 才会有输入，Ctrl+C 才会被识别。
// 应在菜单结束后立刻调用，等待对手与倒计时期间也要能退出。
func (s *Screen) StartInput() {
	s.pumpOnce.Do(func() {
		s.pumping = true
		go s.pump()
	})
}

func (s *Screen) pump() {
	defer close(s.pumpDone)
	for {
		if !s.handleEvent(termbox.PollEvent()) {
			return
		}
	}
}

// handleEvent 处理一个终端事件，返回 false 时键盘协程退出
func (s *Screen) handleEvent(ev termbox.Event) bool {
	switch ev.Type {
	case termbox.EventInterrupt, termbox.EventError:
		return false
	case termbox.EventKey:
		if ev.Key == termbox.KeyCtrlC {
			s.interruptOnce.Do(func() { close(s.interrupted) })
			return false
		}
		select {
		case s.events <- ev:
		default:
			// 队列满：主循环每个 Tick 都会取空，旧按键没有意义
		}
	}
	return true
}

// SampleDirection 取走自上个 Tick 以来的所有按键，最后一个方向键生效
func (s *Screen) SampleDirection() (protocol.Direction, bool) {
	dir, ok := protocol.DirNone, false
	for {
		select {
		case ev := <-s.events:
			if d, isDir := KeyDirection(ev); isDir {
				dir, ok = d, true
			}
		default:
			return dir, ok
		}
	}
}

// KeyDirection 方向键、WASD 与 hjkl
func KeyDirection(ev termbox.Event) (protocol.Direction, bool) {
	switch ev.Key {
	case termbox.KeyArrowUp:
		return protocol.DirUp, true
	case termbox.KeyArrowDown:
		return protocol.DirDown, true
	case termbox.KeyArrowLeft:
		return protocol.DirLeft, true
	case termbox.KeyArrowRight:
		return protocol.DirRight, true
	}
	switch ev.Ch {
	case 'w', 'W', 'k':
		return protocol.DirUp, true
	case 's', 'S', 'j':
		return protocol.DirDown, true
	case 'a', 'A', 'h':
		return protocol.DirLeft, true
	case 'd', 'D', 'l':
		return protocol.DirRight, true
	}
	return protocol.DirNone, false
}

// waitKey 等待任意键；键盘协程未启动时直接阻塞读取
func (s *Screen) waitKey(timeout time.Duration) {
	if !s.pumping {
		termbox.PollEvent()
		return
	}
	// 丢掉对局最后一刻的按键，避免结算画面一闪而过
	for len(s.events) > 0 {
		<-s.events
	}
	select {
	case <-s.events:
	case <-time.After(timeout):
	}
}
