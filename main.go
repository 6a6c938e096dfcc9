package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("gsbwifi")

// portalLogger adapts the leveled logger to the client's Logger interface.
type portalLogger struct{}

func (portalLogger) Log(format string, args ...any) {
	log.Infof(format, args...)
}

func main() {
	_ = godotenv.Load()

	cfg, err := InitConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	setupLogging(cfg.LogLevel)

	provider := NewStaticCredentials(cfg.Username, cfg.Password)
	logger := portalLogger{}

	client, err := NewPortalClient(cfg.PortalURL, provider.Credentials(), logger)
	if err != nil {
		log.Fatalf("failed to create portal client: %v", err)
	}

	monitor := NewAssumeAssociatedMonitor(cfg.NetworkName)
	notifier := NewLogNotifier(logger)
	poller := NewPoller(client, notifier, monitor, logger, time.Duration(cfg.PollIntervalSeconds)*time.Second, cfg.AutoTerminate)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	log.Infof("watching %s every %ds (portal: %s, auto-terminate: %v)",
		cfg.NetworkName, cfg.PollIntervalSeconds, cfg.PortalURL, cfg.AutoTerminate)
	poller.Start(context.Background())

	sig := <-sigChan
	log.Infof("received signal: %v, shutting down", sig)

	poller.Close()

	if out := client.Logout(); !out.Success {
		log.Warningf("logout on shutdown failed: %s", out.Message)
	}
	log.Info("shutdown complete")
}

func setupLogging(level string) {
	format := logging.MustStringFormatter(
		`%{time:2006-01-02 15:04:05} %{level:.5s} %{message}`,
	)
	backend := logging.NewBackendFormatter(logging.NewLogBackend(os.Stdout, "", 0), format)
	leveled := logging.AddModuleLevel(backend)

	lvl, err := logging.LogLevel(level)
	if err != nil {
		lvl = logging.INFO
	}
	leveled.SetLevel(lvl, "")
	logging.SetBackend(leveled)
}
