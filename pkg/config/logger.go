package config

import (
	"aichannel/pkg/logger"
)

// ToLoggerConfig converts LoggerConfig to logger.Config.
func (lc *LoggerConfig) ToLoggerConfig() *logger.Config {
	return &logger.Config{
		Level:       logger.ParseLevel(lc.Level),
		OutputPath:  expandPath(lc.OutputPath),
		MaxSize:     lc.MaxSize,
		MaxBackups:  lc.MaxBackups,
		MaxAge:      lc.MaxAge,
		Compress:    lc.Compress,
		Development: lc.Development,
	}
}
