package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

func TestObservedTestLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Debugw("debug line", "key", 1)
	logger.Infow("info line")
	test.That(t, logs.Len(), test.ShouldEqual, 2)
	test.That(t, logs.FilterMessage("debug line").Len(), test.ShouldEqual, 1)

	logger.SetLevel(zapcore.WarnLevel)
	test.That(t, logger.GetLevel(), test.ShouldEqual, zapcore.WarnLevel)
	logger.Infow("suppressed")
	test.That(t, logs.FilterMessage("suppressed").Len(), test.ShouldEqual, 0)
	logger.Warnw("kept")
	test.That(t, logs.FilterMessage("kept").Len(), test.ShouldEqual, 1)
}

func TestSublogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	sub := logger.Sublogger("ik")
	subsub := sub.Sublogger("dispatcher")
	subsub.Infow("hello")

	entries := logs.FilterMessage("hello").All()
	test.That(t, entries, test.ShouldHaveLength, 1)
	test.That(t, entries[0].LoggerName, test.ShouldEqual, "ik.dispatcher")

	sub.SetLevel(zapcore.ErrorLevel)
	sub.Warnw("dropped")
	logger.Warnw("not dropped")
	test.That(t, logs.FilterMessage("dropped").Len(), test.ShouldEqual, 0)
	test.That(t, logs.FilterMessage("not dropped").Len(), test.ShouldEqual, 1)
}

func TestBlankLogger(t *testing.T) {
	logger := NewBlankLogger("blank")
	logger.Errorw("goes nowhere")
	test.That(t, logger.Sync(), test.ShouldBeNil)
}
