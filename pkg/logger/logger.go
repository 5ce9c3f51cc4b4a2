package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const TimeFormat = "2006-01-02 15:04:05.999"

// AtomicLevel controls the level of every logger built by New.
var AtomicLevel = zap.NewAtomicLevel()

// New builds a console logger at level. An empty or unknown level falls back
// to info. Components receive the result, or a named child of it, explicitly.
func New(level string) (*zap.Logger, error) {
	if err := AtomicLevel.UnmarshalText([]byte(level)); err != nil || level == "" {
		AtomicLevel.SetLevel(zap.InfoLevel)
	}

	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.Level = AtomicLevel
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(TimeFormat)
	config.DisableStacktrace = true
	config.Sampling = nil

	return config.Build()
}
