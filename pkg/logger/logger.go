package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Error(args ...interface{})
}

// New returns a zap-backed logger. Debug mode enables the development encoder
// with debug-level output, otherwise only warnings and errors are printed.
func New(isDebug bool) Logger {
	logLevel := zapcore.WarnLevel
	if isDebug {
		logLevel = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(logLevel)
	cfg.DisableStacktrace = true

	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}

	return l.Sugar()
}
