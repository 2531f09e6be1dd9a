package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/asteroidfield/internal/config"
	"github.com/tomz197/asteroidfield/internal/draw"
	"github.com/tomz197/asteroidfield/internal/loop"
	"github.com/tomz197/asteroidfield/internal/loop/server"
)

func main() {
	configPath := flag.String("config", config.GetEnv("FIELD_CONFIG", ""), "path to a TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stderr, "ssh")

	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("failed to get working directory", "err", workErr)
	}
	logger.Info("ssh config", "host", cfg.SSH.Host, "port", cfg.SSH.Port,
		"hostKeyPath", cfg.SSH.HostKeyPath, "workingDir", workingDir, "maxSessions", cfg.SSH.MaxSessions)

	registry := server.NewRegistry(cfg.SSH.MaxSessions, logger.WithPrefix("registry"))
	app := &app{cfg: cfg, registry: registry, logger: logger}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.SSH.Host, cfg.SSH.Port)),
		wish.WithMiddleware(
			app.fieldMiddleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for scroll and mouse input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if cfg.SSH.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.SSH.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting ssh server", "addr", net.JoinHostPort(cfg.SSH.Host, cfg.SSH.Port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")

	// Notify viewers and wait for them to disconnect
	registry.Shutdown(cfg.SSH.ShutdownGrace)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// app holds what every SSH session shares.
type app struct {
	cfg      *config.Config
	registry *server.Registry
	logger   *log.Logger
}

// fieldMiddleware handles SSH sessions and runs one field per viewer.
func (a *app) fieldMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		handle, err := a.registry.Register(sess.User())
		if err != nil {
			a.logger.Warn("session refused", "user", sess.User(), "err", err)
			fmt.Fprintf(sess, "Sorry, %v. Please try again later.\r\n", err)
			return
		}
		defer a.registry.Unregister(handle.ID)

		logger := a.logger.With("user", sess.User(), "id", handle.ID)
		logger.Info("new field session", "terminal", pty.Term,
			"size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		session, err := loop.NewSession(bufio.NewReader(sess), sess, loop.Options{
			Config:         a.cfg,
			Logger:         logger,
			TermSizeFunc:   sizeTracker.getSize,
			Events:         handle.EventsCh,
			IdleWarn:       a.cfg.SSH.InactivityWarn,
			IdleDisconnect: a.cfg.SSH.InactivityDisconnect,
		})
		if err != nil {
			logger.Error("failed to create session", "err", err)
			return
		}
		if err := session.Run(sess.Context()); err != nil {
			logger.Error("field error", "err", err)
		}

		logger.Info("session ended")
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
