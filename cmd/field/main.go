package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/asteroidfield/internal/config"
	"github.com/tomz197/asteroidfield/internal/loop"
)

func main() {
	configPath := flag.String("config", config.GetEnv("FIELD_CONFIG", ""), "path to a TOML config file")
	logPath := flag.String("log", "", "write logs to this file instead of discarding them")
	seed := flag.Int64("seed", 0, "random seed (0 picks one from the clock)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the field while it runs, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := cfg.NewLogger(logOut, "field")

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := loop.NewSession(bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
		Config: cfg,
		Logger: logger,
		Seed:   *seed,
	})
	if err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "field error: %v\n", err)
		os.Exit(1)
	}

	if err := session.Run(ctx); err != nil {
		_ = term.Restore(fd, oldState)
		logger.Error("session failed", "err", err)
		fmt.Fprintf(os.Stderr, "field error: %v\n", err)
		os.Exit(1)
	}
}
