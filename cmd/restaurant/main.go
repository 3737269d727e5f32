package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"restaurant-ordering/internal/app/admin"
	"restaurant-ordering/internal/app/notify"
	"restaurant-ordering/internal/app/web"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/config"
)

const modes = "web | notifier | create-admin"

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run returns the process exit code. Deferred cleanups, including the
// logger flush, have finished by the time it returns.
func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("restaurant", flag.ContinueOnError)
	fs.SetOutput(stderr)
	mode := fs.String("mode", "web", modes)
	cfgPath := fs.String("config", "", "path to YAML config (optional)")
	port := fs.Int("port", 0, "web: http port, overrides http.port")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return 2
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return 2
	}
	if err := logger.Configure(cfg.Log.Level); err != nil {
		fmt.Fprintln(stderr, "logger:", err)
		return 2
	}

	var runMode func(context.Context, *config.Config) error
	switch *mode {
	case "web":
		runMode = web.Run
	case "notifier":
		runMode = notify.Run
	case "create-admin":
		runMode = admin.Run
	default:
		fmt.Fprintln(stderr, "--mode must be one of:", modes)
		return 2
	}

	lg := logger.New("bootstrap")
	defer func() { _ = lg.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	lg.Info("mode_started", map[string]any{"mode": *mode})
	if err := runMode(ctx, cfg); err != nil {
		lg.Error("fatal", err, map[string]any{"mode": *mode})
		return 1
	}
	lg.Info("mode_stopped", map[string]any{"mode": *mode})
	return 0
}
