package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/koriwi/nutriplan-cli/internal/config"
)

// Logger is the process-wide logger. It is a no-op until Init runs, so
// packages can log from tests without setup.
var Logger = zap.NewNop()

// Init points the global logger at the configured log file. The terminal
// belongs to the UI, so nothing is written to stdout or stderr.
func Init(cfg config.LogConfig) error {
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0700); err != nil {
		return err
	}

	var zc zap.Config
	if cfg.Production {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{cfg.File}
	zc.ErrorOutputPaths = []string{cfg.File}

	l, err := zc.Build()
	if err != nil {
		return err
	}
	Logger = l
	return nil
}

// Close flushes buffered entries.
func Close() {
	_ = Logger.Sync()
}

func Info(msg string, fields ...zapcore.Field) {
	Logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zapcore.Field) {
	Logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zapcore.Field) {
	Logger.Error(msg, fields...)
}

func Debug(msg string, fields ...zapcore.Field) {
	Logger.Debug(msg, fields...)
}
