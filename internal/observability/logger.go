package observability

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/san-kum/projsim/internal/config"
)

const serviceName = "projsim"

// New builds a logger writing to console, plus a rotating JSON file when
// cfg.File is set. An unknown level falls back to info.
func New(cfg config.LoggerConfig, console zapcore.WriteSyncer) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	var enc zapcore.Encoder
	switch cfg.Format {
	case "", "console":
		enc = zapcore.NewConsoleEncoder(encoderConfig(zapcore.CapitalColorLevelEncoder))
	case "json":
		enc = zapcore.NewJSONEncoder(encoderConfig(zapcore.CapitalLevelEncoder))
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	cores := []zapcore.Core{zapcore.NewCore(enc, console, level)}

	if cfg.File != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		})
		fileEnc := zapcore.NewJSONEncoder(encoderConfig(zapcore.CapitalLevelEncoder))
		cores = append(cores, zapcore.NewCore(fileEnc, fileWriter, level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel)).Named(serviceName), nil
}

// NewStderr is New with console output on a locked stderr, keeping stdout
// free for command results.
func NewStderr(cfg config.LoggerConfig) (*zap.Logger, error) {
	return New(cfg, zapcore.Lock(os.Stderr))
}

func encoderConfig(levelEnc zapcore.LevelEncoder) zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	ec.EncodeLevel = levelEnc
	return ec
}
