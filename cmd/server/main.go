package main

import (
	"fmt"
	"log"

	"plog/internal/app"
	"plog/internal/config"
	"plog/internal/util"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Initialize structured logger
	if err := util.InitLogger(cfg); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer util.Logger.Sync()

	// Initialize router
	router := app.NewRouter(cfg)

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	util.Sugar.Infof("Server starting on %s", addr)
	if err := router.Run(addr); err != nil {
		util.Sugar.Fatalf("Failed to start server: %v", err)
	}
}
