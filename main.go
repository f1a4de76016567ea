package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"lightcycle/client"
	"lightcycle/config"
	"lightcycle/protocol"
	"lightcycle/termui"
)

const (
	headlessWidth  = 80
	headlessHeight = 24
	countdownSecs  = 3
)

// lightcycle 客户端入口：lightcycle [flags] [host [port]]
func main() {
	var (
		configDir = flag.String("config", "", "directory containing lightcycle.yaml")
		host      = flag.String("host", "", "server host (default 127.0.0.1)")
		port      = flag.Int("port", 0, "server port (default 4000)")
		steps     = flag.Int("steps", 0, "simulation steps per server tick")
		tickRate  = flag.Int("tick-rate", 0, "local ticks per second")
		spectate  = flag.String("spectate", "", "serve a websocket spectator feed on this address, e.g. :8081")
		logFile   = flag.String("log", "", "log file path")
		headless  = flag.Bool("headless", false, "run without the terminal UI")
		debug     = flag.Bool("debug", false, "log every state transition")
	)
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		termui.ReportFatal(nil, "config", err)
	}
	// 命令行覆盖配置文件
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = *host
		case "port":
			cfg.Port = *port
		case "steps":
			cfg.Steps = *steps
		case "tick-rate":
			cfg.TickRate = *tickRate
		case "spectate":
			cfg.SpectateAddr = *spectate
		case "log":
			cfg.LogFile = *logFile
		case "headless":
			cfg.Headless = *headless
		case "debug":
			cfg.Debug = *debug
		}
	})
	// 位置参数 [host [port]] 优先级最高
	if args := flag.Args(); len(args) > 0 {
		cfg.Host = args[0]
		if len(args) > 1 {
			p, err := config.ParsePort(args[1])
			if err != nil {
				termui.ReportFatal(nil, "Invalid port.", err)
			}
			cfg.Port = p
		}
	}
	if err := config.Validate(cfg); err != nil {
		termui.ReportFatal(nil, "config", err)
	}

	if err := client.InitLogger(cfg.LogFile, cfg.Debug); err != nil {
		termui.ReportFatal(nil, "logger", err)
	}
	defer client.SyncLogger()

	var screen *termui.Screen
	if !cfg.Headless {
		screen, err = termui.Open()
		if err != nil {
			termui.ReportFatal(nil, "Unable to start the terminal UI.", err)
		}
		if screen.Menu() == termui.MenuQuit {
			screen.Close()
			fmt.Println("\nGoodbye!")
			return
		}
		// 等待对手与倒计时期间也要能按 Ctrl+C 退出
		screen.StartInput()
	}

	// 终端模式下 Ctrl+C 由键盘协程识别（termbox 关掉了 ISIG）；无界面模式与外部信号走 signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	var keyInterrupt <-chan struct{}
	if screen != nil {
		keyInterrupt = screen.Interrupted()
	}
	go func() {
		select {
		case sig := <-quit:
			termui.ReportFatal(screen, "interrupted", fmt.Errorf("signal %v", sig))
		case <-keyInterrupt:
			termui.ReportFatal(screen, "interrupted", errors.New("Ctrl+C"))
		}
	}()

	dialer := client.Dialer{Timeout: cfg.DialTimeout}
	if screen != nil {
		dialer.OnConnected = screen.ShowConnected
	}
	addr := client.Address(cfg.Host, cfg.Port)
	conn, local, err := dialer.Dial(context.Background(), addr)
	if err != nil {
		termui.ReportFatal(screen, "Make sure the server is running and you are connecting to the correct port.", err)
	}

	arena := client.NewArena(headlessWidth, headlessHeight)
	if screen != nil {
		arena = screen.Arena()
	}
	if arena.Width < client.MinArenaWidth || arena.Height < client.MinArenaHeight {
		_ = conn.Close()
		termui.ReportFatal(screen, "Terminal too small.", fmt.Errorf("%dx%d", arena.Width, arena.Height))
	}

	id := uuid.New()
	hub := client.NewSpectatorHub(id)
	var (
		renderers  client.Renderers
		presenters client.Presenters
		input      client.InputSource = client.NoInput{}
	)
	if cfg.SpectateAddr != "" {
		renderers = append(renderers, hub)
		presenters = append(presenters, hub)
	}
	if screen != nil {
		renderers = append(renderers, screen)
		presenters = append(presenters, screen)
		input = screen
	} else {
		presenters = append(presenters, stdoutPresenter{})
	}

	session := client.NewSession(conn, local, arena, client.Config{
		ID:       id,
		Steps:    cfg.Steps,
		EndDelay: cfg.EndDelay,
	}, client.Collaborators{
		Input:     input,
		Renderer:  renderers,
		Presenter: presenters,
		Pacer:     client.TickPacer{Interval: client.TickInterval(cfg.TickRate)},
	})

	var spectators net.Listener
	if cfg.SpectateAddr != "" {
		spectators, err = net.Listen("tcp", cfg.SpectateAddr)
		if err != nil {
			_ = conn.Close()
			termui.ReportFatal(screen, "spectator feed", err)
		}
	}

	if screen != nil {
		players := session.Players()
		screen.Redraw(0, players)
		screen.Countdown(local, players[local.Index()].Pos, countdownSecs)
		screen.DrawBorder(arena)
	}

	if err := run(session, hub, spectators); err != nil {
		termui.ReportFatal(screen, fatalMessage(err), err)
	}
	if screen != nil {
		screen.Close()
	}
}

// run 主循环与旁观服务放在同一个 errgroup 中，对局结束即关闭旁观服务
func run(session *client.Session, hub *client.SpectatorHub, spectators net.Listener) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if spectators != nil {
		srv := &http.Server{Handler: client.NewAdminMux(session, hub)}
		g.Go(func() error {
			client.Log.Infow("spectator feed listening", "addr", spectators.Addr().String())
			if err := srv.Serve(spectators); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("spectator feed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
			defer stop()
			hub.Close()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		defer cancel()
		_, err := session.Run()
		return err
	})
	return g.Wait()
}

func fatalMessage(err error) string {
	var (
		formatErr *protocol.ProtocolFormatError
		ioErr     *protocol.ProtocolIOError
	)
	switch {
	case errors.As(err, &formatErr):
		return "Invalid signal from server."
	case errors.As(err, &ioErr):
		return "Lost connection to server."
	}
	return "Game aborted."
}

// stdoutPresenter 无界面模式下把结果打印到标准输出
type stdoutPresenter struct{}

func (stdoutPresenter) PresentResult(winner, local protocol.PlayerID) {
	if winner == local {
		fmt.Printf("You won! (winner %s, you %s)\n", winner, local)
		return
	}
	fmt.Printf("You lost. (winner %s, you %s)\n", winner, local)
}
