package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/srithedesigner/bunniesBurger/internal/common/logger"
	"github.com/srithedesigner/bunniesBurger/internal/config"
	"github.com/srithedesigner/bunniesBurger/internal/counter"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: search known locations)")
	port := flag.Int("port", 0, "override app.port from the config")
	migrations := flag.String("migrations", "migrations", "migrations directory, empty to skip")
	flag.Parse()

	lg := logger.New("bootstrap")

	path := *configPath
	if path == "" {
		found, err := config.FindConfig()
		if err != nil {
			lg.Error("config_not_found", err, nil)
			os.Exit(2)
		}
		path = found
	}
	cfg, err := config.Load(path)
	if err != nil {
		lg.Error("config_load_failed", err, map[string]any{"path": path})
		os.Exit(2)
	}
	if *port != 0 {
		cfg.App.Port = *port
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := counter.Run(ctx, cfg, *migrations); err != nil {
		lg.Error("fatal", err, nil)
		os.Exit(1)
	}
}
