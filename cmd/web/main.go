package main

import (
	_ "embed"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/tomz197/asteroidfield/internal/config"
)

//go:embed index.html
var htmlPage string

func main() {
	configPath := flag.String("config", config.GetEnv("FIELD_CONFIG", ""), "path to a TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stderr, "web")

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Web.Host, cfg.Web.Port),
		Handler:           newHandler(cfg, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting web server", "url", "http://"+srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
