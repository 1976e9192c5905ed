package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/High-Roller-Club/lotto-coordinator/app"
	"github.com/High-Roller-Club/lotto-coordinator/config"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	go func() {
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
		<-interrupt
		cancel()
	}()

	if err := application.Run(ctx); err != nil {
		application.Logger.Error("Application exited with error", "error", err)
	}

	application.Close()
}
