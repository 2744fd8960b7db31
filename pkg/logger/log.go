package logger

import (
	"os"

	"go.uber.org/zap"
)

// NewLogger строит основной логгер приложения.
// В проде — JSON в stdout, при APP_ENV=dev — человекочитаемая консоль.
func NewLogger() *zap.Logger {
	cfg := zap.Config{
		Encoding:         "json",
		Level:            zap.NewAtomicLevelAt(zap.InfoLevel),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}

	if os.Getenv("APP_ENV") == "dev" {
		cfg.Encoding = "console"
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return l
}
