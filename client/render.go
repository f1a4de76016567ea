package client

import "lightcycle/protocol"

// Renderer 状态变化后的重绘通知；核心不关心怎么画。tick 为服务端 Tick 序号（开局前为 0）
type Renderer interface {
	Redraw(tick int64, players [protocol.NumPlayers]Player)
}

// ResultPresenter 对局结束后展示结果
type ResultPresenter interface {
	PresentResult(winner, local protocol.PlayerID)
}

// Renderers 依次通知多个渲染端（终端 + 旁观者）
type Renderers []Renderer

func (rs Renderers) Redraw(tick int64, players [protocol.NumPlayers]Player) {
	for _, r := range rs {
		r.Redraw(tick, players)
	}
}

// Presenters 依次通知多个结果展示端
type Presenters []ResultPresenter

func (ps Presenters) PresentResult(winner, local protocol.PlayerID) {
	for _, p := range ps {
		p.PresentResult(winner, local)
	}
}
