package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wfunc/turnsim/config"
	"github.com/wfunc/turnsim/logger"
	"github.com/wfunc/turnsim/monitor"
	"github.com/wfunc/turnsim/server"
)

func main() {
	configDir := flag.String("config", ".", "directory holding config.yaml")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		logger.Init("info")
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Init(cfg.Log.Level)
	defer logger.Sync()

	mon := monitor.NewMonitor("turnsim", nil)
	mon.StartServer(cfg.Server.MetricsAddress)
	defer mon.Close()

	// Initialize Game Server
	gameServer, err := server.NewGameServer(cfg, mon)
	if err != nil {
		logger.Log.Fatalf("Failed to create server: %v", err)
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Log.Info("Shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := gameServer.Shutdown(ctx); err != nil {
			logger.Log.Errorf("Shutdown: %v", err)
		}
	}()

	// Start Server
	logger.Log.Infof("Starting game server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
