package config

import (
	"go.uber.org/zap"
)

// InitLogger builds the process logger and installs it as zap's global.
func InitLogger() (*zap.Logger, error) {
	var zapConfig zap.Config
	if AppConfig.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	if level, err := zap.ParseAtomicLevel(AppConfig.LogLevel); err == nil {
		zapConfig.Level = level
	}
	zapConfig.OutputPaths = []string{"stdout"}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
