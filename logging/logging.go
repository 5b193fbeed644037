// Package logging contains the structured, leveled logger used across the objective layer.
package logging

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging interface handed to every component that logs. Implementations are safe for concurrent use.
type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	Name() string
	Sublogger(subname string) Logger
	SetLevel(level zapcore.Level)
	GetLevel() zapcore.Level
	Desugar() *zap.Logger
	Sync() error
}

type coreFactory func(zapcore.LevelEnabler) zapcore.Core

type impl struct {
	*zap.SugaredLogger
	name    string
	level   zap.AtomicLevel
	newCore coreFactory
}

func newImpl(name string, level zapcore.Level, newCore coreFactory) *impl {
	atomicLevel := zap.NewAtomicLevelAt(level)
	return &impl{
		SugaredLogger: zap.New(newCore(atomicLevel), zap.AddCaller()).Named(name).Sugar(),
		name:          name,
		level:         atomicLevel,
		newCore:       newCore,
	}
}

// Sublogger returns a child logger whose name is prefixed by this logger's name. The child starts at this logger's
// level but can be adjusted independently.
func (imp *impl) Sublogger(subname string) Logger {
	newName := subname
	if imp.name != "" {
		newName = fmt.Sprintf("%s.%s", imp.name, subname)
	}
	return newImpl(newName, imp.level.Level(), imp.newCore)
}

func (imp *impl) Name() string {
	return imp.name
}

func (imp *impl) SetLevel(level zapcore.Level) {
	imp.level.SetLevel(level)
}

func (imp *impl) GetLevel() zapcore.Level {
	return imp.level.Level()
}

// NewLoggerConfig returns a new default logger config.
func NewLoggerConfig() zap.Config {
	// from https://github.com/uber-go/zap/blob/2314926ec34c23ee21f3dd4399438469668f8097/config.go#L135
	// but disable stacktraces, use same keys as prod, and color levels.
	return zap.Config{
		Level:    zap.NewAtomicLevelAt(zap.InfoLevel),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     utcISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}

func utcISO8601TimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	zapcore.ISO8601TimeEncoder(t.UTC(), enc)
}

func stdoutCore(level zapcore.LevelEnabler) zapcore.Core {
	encoder := zapcore.NewConsoleEncoder(NewLoggerConfig().EncoderConfig)
	return zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)
}

// NewLogger returns a new logger that outputs Info+ logs to stdout in UTC.
func NewLogger(name string) Logger {
	return newImpl(name, zapcore.InfoLevel, stdoutCore)
}

// NewBlankLogger returns a new logger that discards everything. Useful when a caller does not care about setup
// diagnostics.
func NewBlankLogger(name string) Logger {
	return newImpl(name, zapcore.DebugLevel, func(zapcore.LevelEnabler) zapcore.Core { return zapcore.NewNopCore() })
}
