//go:build flshm_debug

package flshm

import "go.uber.org/zap"

var defaultLogger = newDefaultLogger()

func newDefaultLogger() *zap.SugaredLogger {
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Named("flshm").Sugar()
}

// SetLogger sets the logger for the flshm package.
func SetLogger(l *zap.Logger) {
	defaultLogger = l.Sugar()
}

// Debug logs a message at Debug level with alternating keys and values.
func Debug(msg string, keysAndValues ...any) {
	defaultLogger.Debugw(msg, keysAndValues...)
}

// Info logs a message at Info level.
func Info(msg string, keysAndValues ...any) {
	defaultLogger.Infow(msg, keysAndValues...)
}
