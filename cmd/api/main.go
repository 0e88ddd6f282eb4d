package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AlibekovAA/taskflow/backend/internal/common/bootstrap"
	"github.com/AlibekovAA/taskflow/backend/internal/common/config"
	srv "github.com/AlibekovAA/taskflow/backend/internal/common/server"
)

func main() {
	log, err := bootstrap.NewLogger("taskflow")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	app, err := bootstrap.NewApp(ctx, log, cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	server := srv.NewServer(srv.DefaultServerConfig(cfg.HTTPPort), app.Handler)

	if err := srv.Run(ctx, server, log, "taskflow", app.ShutdownHooks()...); err != nil {
		os.Exit(1)
	}
}
