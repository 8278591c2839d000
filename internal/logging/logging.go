package logging

import (
	"craft-store/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewSugaredLogger builds the process-wide logger from the Log config
// section. Development environments get console output, everything else
// the configured format (json by default).
func NewSugaredLogger(cfg *config.Config) *zap.SugaredLogger {
	var zapCfg zap.Config
	if cfg.Environment.Name == "development" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
		zapCfg.Encoding = cfg.Log.Format
	}

	if level, err := zapcore.ParseLevel(cfg.Log.Level); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	logger, err := zapCfg.Build()
	if err != nil {
		panic("cannot initialize zap")
	}

	return logger.Sugar()
}
