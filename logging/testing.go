package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// NewTestLogger returns a new logger that outputs Debug+ logs through the underlying `testing.TB`, so log lines are
// attributed to the right test even when tests run in parallel.
func NewTestLogger(tb testing.TB) Logger {
	logger, _ := NewObservedTestLogger(tb)
	return logger
}

// NewObservedTestLogger is like NewTestLogger but also saves logs to an in memory observer.
func NewObservedTestLogger(tb testing.TB) (Logger, *observer.ObservedLogs) {
	observerCore, observedLogs := observer.New(zapcore.DebugLevel)
	newCore := func(level zapcore.LevelEnabler) zapcore.Core {
		testCore := zaptest.NewLogger(tb, zaptest.Level(level)).Core()
		observed, err := zapcore.NewIncreaseLevelCore(observerCore, level)
		if err != nil {
			observed = observerCore
		}
		return zapcore.NewTee(testCore, observed)
	}
	return newImpl("", zapcore.DebugLevel, newCore), observedLogs
}
