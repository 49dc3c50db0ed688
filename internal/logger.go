package internal

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerParams struct {
	Development bool
	Level       string

	// FilePath enables a rotated log file next to stderr output.
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func CreateLogger(params LoggerParams) (*zap.Logger, error) {
	level := zap.InfoLevel
	if params.Development {
		level = zap.DebugLevel
	}
	if params.Level != "" {
		parsed, err := zapcore.ParseLevel(params.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	if params.FilePath == "" {
		config := zap.NewProductionConfig()
		if params.Development {
			config = zap.NewDevelopmentConfig()
		}
		config.Level = zap.NewAtomicLevelAt(level)
		return config.Build()
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	consoleEncoder := zapcore.NewJSONEncoder(encoderConfig)
	if params.Development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		consoleEncoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	maxSize := params.MaxSizeMB
	if maxSize == 0 {
		maxSize = 100
	}

	fileSink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   params.FilePath,
		MaxSize:    maxSize,
		MaxBackups: params.MaxBackups,
		MaxAge:     params.MaxAgeDays,
		Compress:   true,
	})

	core := zapcore.NewTee(
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), level),
		zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), fileSink, level),
	)

	return zap.New(core, zap.AddCaller()), nil
}
