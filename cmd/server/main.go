package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgnsrekt/sitesnap/internal/api"
	"github.com/dgnsrekt/sitesnap/internal/browser"
	"github.com/dgnsrekt/sitesnap/internal/capture"
	"github.com/dgnsrekt/sitesnap/internal/config"
	"github.com/dgnsrekt/sitesnap/internal/netutil"
	"github.com/dgnsrekt/sitesnap/internal/service"
	"github.com/dgnsrekt/sitesnap/internal/store"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		slog.Error("failed to load server config", "error", err)
		os.Exit(1)
	}

	if err := setupLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		_, _ = io.WriteString(os.Stderr, "logger setup failed: "+err.Error()+"\n")
		os.Exit(1)
	}

	slog.Info("server config loaded",
		"bind_addr", cfg.BindAddr,
		"cdp_url", cfg.CDPURL(),
		"data_dir", cfg.DataDir,
		"capture_timeout_sec", cfg.CaptureTimeoutSec,
		"headless", cfg.Headless,
		"log_level", cfg.LogLevel,
		"log_file", cfg.LogFile,
	)

	bindAddr, err := netutil.SelectBindAddr(cfg.BindAddr, cfg.PortCandidates, cfg.AutoFallback)
	if err != nil {
		slog.Error("failed to select bind address", "preferred", cfg.BindAddr, "error", err)
		os.Exit(1)
	}

	launcher := browser.NewLauncher(browser.Config{
		CDPAddress: cfg.CDPAddress,
		CDPPort:    cfg.CDPPort,
		ProfileDir: cfg.ProfileDir,
		Headless:   cfg.Headless,
		NoSandbox:  cfg.NoSandbox,
	})
	if err := launcher.Launch(context.Background()); err != nil {
		slog.Error("failed to launch browser", "error", err)
		os.Exit(1)
	}
	defer launcher.Stop()

	engine := capture.NewEngine(cfg.CDPURL(),
		time.Duration(cfg.CaptureTimeoutSec)*time.Second,
		time.Duration(cfg.SettleDelayMS)*time.Millisecond,
	)
	if err := engine.Connect(context.Background()); err != nil {
		slog.Error("failed to connect capture engine", "cdp_url", cfg.CDPURL(), "error", err)
		os.Exit(1)
	}
	defer func() { _ = engine.Close() }()

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		slog.Error("failed to open screenshot store", "data_dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}
	defer func() { _ = st.Close() }()

	svc := service.New(engine, capture.NewProbe(cfg.CDPURL()), st)
	h := api.NewServer(svc)

	srv := &http.Server{Addr: bindAddr, Handler: h}

	go func() {
		slog.Info("server listening", "addr", bindAddr, "docs", "http://"+bindAddr+"/docs")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
}

func setupLogger(level, filename string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return err
	}

	logWriter := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	h := slog.NewTextHandler(io.MultiWriter(os.Stdout, logWriter), &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(h))
	return nil
}
