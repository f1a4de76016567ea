// Package termui 用 termbox 实现对局的终端协作者：菜单、边框、倒计时、重绘、键盘采样与结算画面。
package termui

import (
	"fmt"
	"sync"

	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"

	"lightcycle/client"
	"lightcycle/protocol"
)

var playerColors = [protocol.NumPlayers]termbox.Attribute{termbox.ColorCyan, termbox.ColorYellow}

// Screen 终端画面；Redraw / PresentResult 只由主循环调用，键盘由独立协程读取
type Screen struct {
	events chan termbox.Event

	pumpOnce sync.Once
	pumpDone chan struct{}
	pumping  bool

	// 终端接管了 Ctrl+C，按下后关闭 interrupted；协议里没有退出消息，只能由调用方结束进程
	interruptOnce sync.Once
	interrupted   chan struct{}
}

// Open 接管终端
func Open() (*Screen, error) {
	if err := termbox.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	termbox.SetInputMode(termbox.InputEsc)
	termbox.HideCursor()
	return &Screen{
		events:      make(chan termbox.Event, 16),
		pumpDone:    make(chan struct{}),
		interrupted: make(chan struct{}),
	}, nil
}

// Interrupted 键盘协程读到 Ctrl+C 后关闭
func (s *Screen) Interrupted() <-chan struct{} { return s.interrupted }

// Close 停止键盘协程并还原终端
func (s *Screen) Close() {
	if s.pumping {
		select {
		case <-s.pumpDone:
		default:
			termbox.Interrupt()
			<-s.pumpDone
		}
		s.pumping = false
	}
	termbox.Close()
}

// Arena 以当前终端尺寸作为场地
func (s *Screen) Arena() *client.Arena {
	w, h := termbox.Size()
	return client.NewArena(w, h)
}

// ShowConnected 已连上服务端，等待对手
func (s *Screen) ShowConnected(addr string) {
	_ = termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	w, h := termbox.Size()
	printCentered(w, h/2, fmt.Sprintf("Connected to %s", addr), termbox.ColorGreen)
	printCentered(w, h/2+1, "Waiting for the other player...", termbox.ColorDefault)
	_ = termbox.Flush()
}

// DrawBorder 沿场地最外一圈画边框
func (s *Screen) DrawBorder(a *client.Arena) {
	right, bottom := a.Width-1, a.Height-1
	for x := 1; x < right; x++ {
		termbox.SetCell(x, 0, '─', termbox.ColorDefault, termbox.ColorDefault)
		termbox.SetCell(x, bottom, '─', termbox.ColorDefault, termbox.ColorDefault)
	}
	for y := 1; y < bottom; y++ {
		termbox.SetCell(0, y, '│', termbox.ColorDefault, termbox.ColorDefault)
		termbox.SetCell(right, y, '│', termbox.ColorDefault, termbox.ColorDefault)
	}
	termbox.SetCell(0, 0, '┌', termbox.ColorDefault, termbox.ColorDefault)
	termbox.SetCell(right, 0, '┐', termbox.ColorDefault, termbox.ColorDefault)
	termbox.SetCell(0, bottom, '└', termbox.ColorDefault, termbox.ColorDefault)
	termbox.SetCell(right, bottom, '┘', termbox.ColorDefault, termbox.ColorDefault)
	_ = termbox.Flush()
}

// Redraw 画出双方当前位置；轨迹保留在屏幕上，不清屏
func (s *Screen) Redraw(_ int64, players [protocol.NumPlayers]client.Player) {
	for i, p := range players {
		glyph := p.Glyph
		if glyph == 0 {
			glyph = client.DefaultGlyph
		}
		termbox.SetCell(p.Pos.X, p.Pos.Y, glyph, playerColors[i], termbox.ColorDefault)
	}
	_ = termbox.Flush()
}

// PresentResult 结算画面，按任意键或超时后返回
func (s *Screen) PresentResult(winner, local protocol.PlayerID) {
	w, h := termbox.Size()
	msg, color := "You lost.", termbox.ColorRed
	if winner == local {
		msg, color = "You won!", termbox.ColorGreen
	}
	printCentered(w, h/2-1, " GAME OVER ", termbox.ColorDefault|termbox.AttrBold)
	printCentered(w, h/2, " "+msg+" ", color|termbox.AttrBold)
	printCentered(w, h/2+1, fmt.Sprintf(" winner: %s  you: %s ", winner, local), termbox.ColorDefault)
	printCentered(w, h/2+3, " press any key ", termbox.ColorDefault)
	_ = termbox.Flush()
	s.waitKey(resultTimeout)
}

func printAt(x, y int, msg string, fg termbox.Attribute) {
	for _, r := range msg {
		termbox.SetCell(x, y, r, fg, termbox.ColorDefault)
		x += runewidth.RuneWidth(r)
	}
}

func printCentered(width, y int, msg string, fg termbox.Attribute) {
	x := (width - runewidth.StringWidth(msg)) / 2
	if x < 0 {
		x = 0
	}
	printAt(x, y, msg, fg)
}
