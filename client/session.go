package client

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lightcycle/protocol"
)

// Config 对局参数
type Config struct {
	// ID 会话标识；为空时自动生成
	ID uuid.UUID
	// Steps 每个服务端 Tick 推进的步数，至少为 1
	Steps int
	// EndDelay 连接关闭后、展示结果前的停顿，让最后一帧停留在屏幕上
	EndDelay time.Duration
}

// Collaborators 主循环依赖的外部协作者；nil 表示不需要
type Collaborators struct {
	Input     InputSource
	Renderer  Renderer
	Presenter ResultPresenter
	Pacer     Pacer
	// Sleep 结束停顿；为空时使用 time.Sleep
	Sleep func(time.Duration)
}

// Result 对局结果
type Result struct {
	Winner protocol.PlayerID
	Local  protocol.PlayerID
}

// Won 本地玩家是否获胜
func (r Result) Won() bool { return r.Winner == r.Local }

// Session 一个客户端从握手完成到终止的完整对局。
// 玩家状态与连接只由 Run 所在的协程读写；其他协程只能读取 State 与 Metrics。
type Session struct {
	ID uuid.UUID

	local   protocol.PlayerID
	conn    io.ReadWriteCloser
	codec   *protocol.Codec
	arena   *Arena
	players [protocol.NumPlayers]Player

	cfg     Config
	collab  Collaborators
	metrics *SessionMetrics
	state   atomic.Int32
	tick    int64
	log     *zap.SugaredLogger
}

// NewSession 在握手完成后创建对局；local 是服务端分配的身份
func NewSession(conn io.ReadWriteCloser, local protocol.PlayerID, arena *Arena, cfg Config, collab Collaborators) *Session {
	if cfg.Steps < 1 {
		cfg.Steps = 1
	}
	if collab.Input == nil {
		collab.Input = NoInput{}
	}
	if collab.Renderer == nil {
		collab.Renderer = Renderers(nil)
	}
	if collab.Presenter == nil {
		collab.Presenter = Presenters(nil)
	}
	if collab.Pacer == nil {
		collab.Pacer = TickPacer{}
	}
	if collab.Sleep == nil {
		collab.Sleep = time.Sleep
	}

	id := cfg.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	s := &Session{
		ID:      id,
		local:   local,
		conn:    conn,
		codec:   protocol.NewCodec(conn),
		arena:   arena,
		players: StartingPlayers(arena),
		cfg:     cfg,
		collab:  collab,
		metrics: &SessionMetrics{},
		log:     Log.With("session", id.String(), "local", local.String()),
	}
	for _, p := range s.players {
		arena.Mark(p.Pos, p.ID)
	}
	return s
}

// Local 本地玩家身份
func (s *Session) Local() protocol.PlayerID { return s.local }

// Players 当前双方状态的副本
func (s *Session) Players() [protocol.NumPlayers]Player { return s.players }

// State 主循环当前阶段（可跨协程读取）
func (s *Session) State() State { return State(s.state.Load()) }

func (s *Session) Metrics() *SessionMetrics { return s.metrics }

// Run 驱动主循环直到服务端发来 END（正常结束）或出现致命错误。
// 任何错误都会先关闭连接再返回；协议没有重同步手段，不做重试。
func (s *Session) Run() (Result, error) {
	s.log.Infow("session started",
		"arena", []int{s.arena.Width, s.arena.Height},
		"steps", s.cfg.Steps)

	for {
		s.setState(StateAwaitingTick)
		tag, err := s.codec.ReadSignal()
		if err != nil {
			return Result{}, s.fail(err)
		}
		if tag == protocol.TagEnd {
			return s.end()
		}

		start := time.Now()
		s.tick++
		s.metrics.IncTick()

		s.setState(StateApplying)
		dirs, err := s.codec.ReadDirections()
		if err != nil {
			return Result{}, s.fail(err)
		}
		s.apply(dirs)

		s.setState(StateSampling)
		s.sampleInput()

		s.setState(StateReporting)
		if err := s.report(); err != nil {
			return Result{}, s.fail(err)
		}
		s.metrics.AddTickTime(time.Since(start))

		s.collab.Pacer.SleepTick()
	}
}

// apply 采用服务端下发的方向并推进 Steps 步，每步重绘一次
func (s *Session) apply(dirs [protocol.NumPlayers]protocol.Direction) {
	for step := 0; step < s.cfg.Steps; step++ {
		for i := range s.players {
			p := &s.players[i]
			p.Dir = dirs[i]
			p.Advance()
			s.arena.Mark(p.Pos, p.ID)
		}
		s.metrics.IncStep()
		s.collab.Renderer.Redraw(s.tick, s.players)
	}
}

// sampleInput 读取本地输入；掉头请求被忽略
func (s *Session) sampleInput() {
	dir, ok := s.collab.Input.SampleDirection()
	if !ok {
		return
	}
	me := &s.players[s.local.Index()]
	if !me.Steer(dir) {
		s.metrics.IncIgnored()
		s.log.Debugw("direction change ignored", "tick", s.tick, "current", me.Dir.String(), "requested", dir.String())
	}
}

// report 每个 Tick 恰好回复一条：预判碰撞则发 COLLISION，否则发 STD。
// 下一个 Tick 会前进 Steps 格，所以沿途每一格都要检查。
func (s *Session) report() error {
	me := s.players[s.local.Index()]
	other := s.players[s.local.Other().Index()]
	if WillCollideWithin(me, other, s.arena, s.cfg.Steps) {
		s.log.Infow("collision predicted", "tick", s.tick, "pos", me.Pos, "dir", me.Dir.String())
		s.metrics.IncCollision()
		return s.codec.WriteCollision()
	}
	s.metrics.IncStd()
	return s.codec.WriteStd(me.Dir)
}

// end 读取胜者、关闭连接并交给结果展示
func (s *Session) end() (Result, error) {
	s.setState(StateEnding)
	winner, err := s.codec.ReadWinner()
	if err != nil {
		return Result{}, s.fail(err)
	}
	if err := s.conn.Close(); err != nil {
		s.log.Warnw("close connection", "error", err)
	}
	s.setState(StateClosed)

	res := Result{Winner: winner, Local: s.local}
	s.log.Infow("session ended", "tick", s.tick, "winner", winner.String(), "won", res.Won())

	if s.cfg.EndDelay > 0 {
		s.collab.Sleep(s.cfg.EndDelay)
	}
	s.collab.Presenter.PresentResult(winner, s.local)
	return res, nil
}

func (s *Session) fail(err error) error {
	s.setState(StateFailed)
	s.log.Errorw("session aborted", "tick", s.tick, "error", err)
	_ = s.conn.Close()
	return err
}

func (s *Session) setState(st State) {
	prev := State(s.state.Swap(int32(st)))
	if prev != st {
		s.log.Debugw("state", "tick", s.tick, "from", prev.String(), "to", st.String())
	}
}
