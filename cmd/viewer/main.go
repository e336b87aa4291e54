package main

import (
	"flag"
	"os"
	"runtime"

	"github.com/pkg/errors"

	"biomorph/internal/logger"
	"biomorph/pkg/config"
	"biomorph/pkg/engine"
)

func init() {
	// GLFW requires the program to be running on the main thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	writeDefaults := flag.String("write-config", "", "Write the default configuration to this path and exit")
	flag.Parse()

	log := logger.NewLogger("info")

	if *writeDefaults != "" {
		if err := config.SaveConfig(config.DefaultConfig(), *writeDefaults); err != nil {
			log.Fatalf("Failed to write configuration: %v", err)
		}
		log.Infof("Default configuration written to %s", *writeDefaults)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			log.Warnf("%v", err)
		} else {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}

	log.SetLevel(cfg.Log.Level)
	if cfg.Log.File != "" {
		fileLog, err := logger.NewMultiLogger(cfg.Log.Level, cfg.Log.File)
		if err != nil {
			log.Warnf("Logging to console only: %v", err)
		} else {
			log = fileLog
		}
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Info("Starting biomorph viewer...")
	viewer, err := engine.NewEngine(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}

	log.Info("Engine initialized, starting main loop...")
	viewer.Run()
	log.Close()
}
