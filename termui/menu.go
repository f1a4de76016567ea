package termui

import (
	"fmt"
	"strings"
	"time"

	"github.com/nsf/termbox-go"

	"lightcycle/client"
	"lightcycle/protocol"
)

// MenuChoice 主菜单选项
type MenuChoice int

const (
	MenuStart MenuChoice = iota
	MenuQuit
)

var menuItems = []string{"Start", "Quit"}

// Menu 主菜单：上下选择，回车确认；Esc / q 退出。须在 StartInput 之前调用
func (s *Screen) Menu() MenuChoice {
	selected := MenuStart
	for {
		drawMenu(selected)
		ev := termbox.PollEvent()
		if ev.Type != termbox.EventKey {
			continue
		}
		switch {
		case ev.Key == termbox.KeyEnter:
			return selected
		case ev.Key == termbox.KeyEsc, ev.Key == termbox.KeyCtrlC, ev.Ch == 'q':
			return MenuQuit
		}
		if d, ok := KeyDirection(ev); ok {
			selected = moveSelection(selected, d)
		}
	}
}

func moveSelection(cur MenuChoice, d protocol.Direction) MenuChoice {
	switch d {
	case protocol.DirUp:
		if cur > 0 {
			return cur - 1
		}
	case protocol.DirDown:
		if int(cur) < len(menuItems)-1 {
			return cur + 1
		}
	}
	return cur
}

func drawMenu(selected MenuChoice) {
	_ = termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	w, h := termbox.Size()
	top := h/2 - len(menuItems)
	printCentered(w, top-2, "L I G H T C Y C L E", termbox.ColorCyan|termbox.AttrBold)
	for i, item := range menuItems {
		fg := termbox.ColorDefault
		label := "  " + item + "  "
		if MenuChoice(i) == selected {
			fg = termbox.ColorGreen | termbox.AttrBold
			label = "> " + item + " <"
		}
		printCentered(w, top+i, label, fg)
	}
	_ = termbox.Flush()
}

// Countdown 在本地玩家起点上方倒数
func (s *Screen) Countdown(local protocol.PlayerID, at client.Point, seconds int) {
	var msg string
	for n := seconds; n > 0; n-- {
		msg = fmt.Sprintf(" %s starts in %d ", local, n)
		printAt(at.X-len(msg)/2, at.Y-2, msg, termbox.ColorDefault|termbox.AttrBold)
		_ = termbox.Flush()
		time.Sleep(time.Second)
	}
	printAt(at.X-len(msg)/2, at.Y-2, strings.Repeat(" ", len(msg)), termbox.ColorDefault)
	_ = termbox.Flush()
}
