package main

import (
	"flag"
	"log"
	"os"

	"BreakScan/internal/di"
	"BreakScan/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("assets=%d window=%d span=%s..%s",
		len(cfg.Analysis.Assets), cfg.Analysis.RollingWindow,
		cfg.Analysis.StartDate, cfg.Analysis.EndDate)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
