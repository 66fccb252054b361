package main

import (
	"context"
	"flag"
	"log"

	"logsnap/internal/config"
	"logsnap/internal/daemonrun"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := daemonrun.Run(context.Background(), cfg, daemonrun.Options{
		ConfigPath: *configPath,
		LogLevel:   *logLevel,
	}); err != nil {
		log.Fatalf("logsnapd: %v", err)
	}
}
