package utils

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a wrapper for zap.SugaredLogger.
type Logger struct {
	zLogger *zap.SugaredLogger
}

// A LoggerConfig contains the running environment
// which is either "development" or "production",
// the path of file to write the logging output to,
// and an option to explicitly enable stacktrace output.
// The file is rotated once it reaches MaxSizeMB megabytes.
type LoggerConfig struct {
	EnableStacktrace bool   `toml:"enable_stacktrace,omitempty"`
	Environment      string `toml:"env"`
	Path             string `toml:"path,omitempty"`
	MaxSizeMB        int    `toml:"max_size_mb,omitempty"`
	MaxBackups       int    `toml:"max_backups,omitempty"`
}

// NewLogger builds a Logger writing DebugLevel and above in the
// development environment, InfoLevel and above in production,
// to stderr and the file specified in conf, in a human-friendly format.
func NewLogger(conf *LoggerConfig) (*Logger, error) {
	var level zapcore.Level
	switch {
	case strings.EqualFold("development", conf.Environment):
		level = zap.DebugLevel
	case strings.EqualFold("production", conf.Environment):
		level = zap.InfoLevel
	default:
		return nil, fmt.Errorf("logger environment must be either development or production, got %q", conf.Environment)
	}

	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "path",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	})
	zLevel := zap.NewAtomicLevelAt(level)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), zLevel),
	}
	if conf.Path != "" {
		maxSize := conf.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 100
		}
		file := zapcore.AddSync(&lumberjack.Logger{
			Filename:   conf.Path,
			MaxSize:    maxSize,
			MaxBackups: conf.MaxBackups,
		})
		cores = append(cores, zapcore.NewCore(encoder, file, zLevel))
	}

	opts := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(1)}
	if conf.EnableStacktrace {
		opts = append(opts, zap.AddStacktrace(zap.ErrorLevel))
	}
	logger := zap.New(zapcore.NewTee(cores...), opts...)
	return &Logger{logger.Sugar()}, nil
}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

// Debug logs a message that is most useful to debug,
// with some additional context addressed by key-value pairs.
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.zLogger.Debugw(msg, keysAndValues...)
}

// Info logs a message that highlights the progress of the application,
// with some additional context addressed by key-value pairs.
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.zLogger.Infow(msg, keysAndValues...)
}

// Warn logs a message that indicates potentially harmful situations.
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.zLogger.Warnw(msg, keysAndValues...)
}

// Error logs a message that is fatal to the operation,
// but not the application.
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.zLogger.Errorw(msg, keysAndValues...)
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.zLogger.Sync()
}
