package logging

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Logger is the structured logging interface used across the project.
// Kept small: key/value structured events only.
type Logger interface {
	Infow(msg string, keysAndValues ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Sync() error
}

type noopLogger struct{}

func (noopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Errorw(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Sync() error                                     { return nil }

var (
	sugar *zap.SugaredLogger
	once  sync.Once

	// current holds the active Logger. Defaults to a noop so logging
	// calls are safe before Init.
	current Logger = noopLogger{}
)

// Init initializes the global sugared logger based on LOG_LEVEL and
// redirects the standard library logger into zap. Safe to call multiple
// times.
func Init() *zap.SugaredLogger {
	once.Do(func() {
		level := strings.ToLower(os.Getenv("LOG_LEVEL"))
		var logger *zap.Logger
		if level == "debug" {
			l, _ := zap.NewDevelopment()
			logger = l
		} else {
			l, _ := zap.NewProduction()
			logger = l
		}
		_ = zap.RedirectStdLog(logger)
		sugar = logger.Sugar()
		current = sugar
	})
	return sugar
}

// SetLogger replaces the package-level logger. Pass nil to restore the
// zap logger from Init (if any). Useful for tests.
func SetLogger(l Logger) {
	if l == nil {
		if sugar != nil {
			current = sugar
		} else {
			current = noopLogger{}
		}
		return
	}
	current = l
}

func Infow(msg string, keysAndValues ...interface{})  { current.Infow(msg, keysAndValues...) }
func Debugw(msg string, keysAndValues ...interface{}) { current.Debugw(msg, keysAndValues...) }
func Warnw(msg string, keysAndValues ...interface{})  { current.Warnw(msg, keysAndValues...) }
func Errorw(msg string, keysAndValues ...interface{}) { current.Errorw(msg, keysAndValues...) }

// Sync flushes any buffered logs.
func Sync() error { return current.Sync() }
