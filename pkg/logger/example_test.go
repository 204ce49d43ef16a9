package logger_test

import (
	"go.uber.org/zap"

	"aichannel/pkg/logger"
)

// Example_basicUsage demonstrates console logging.
func Example_basicUsage() {
	cfg := logger.DefaultConfig()
	cfg.Development = true

	log, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("Bot starting", zap.String("model", "lgai/exaone-3-5-32b-instruct"))
}

// Example_perEventFields demonstrates attaching event fields to every entry.
func Example_perEventFields() {
	log, _ := logger.New(logger.DefaultConfig())
	defer log.Sync()

	eventLog := log.WithFields(
		zap.String("request_id", "3f1c0c1e-6a39-4c1b-9f55-5d0c8a8f2b10"),
		zap.String("guild_id", "100"),
	)
	eventLog.Info("Routed message")
}

// Example_fileRotation demonstrates file output with rotation.
func Example_fileRotation() {
	cfg := logger.DefaultConfig()
	cfg.OutputPath = "/tmp/aichannel.log"
	cfg.MaxSize = 10
	cfg.MaxBackups = 5
	cfg.Compress = true

	log, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("This is written to stdout and the rotated file")
}
