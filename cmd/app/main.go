package main

import (
	"flag"
	"log"
	"os"

	"StockPredict/internal/di"
	"StockPredict/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	log.Printf("env=%s input=%s output=%s port=%d kafka=%v",
		cfg.Environment, cfg.Data.InputDir, cfg.Data.OutputDir, cfg.Server.Port, cfg.Kafka.Enabled)

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
