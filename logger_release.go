//go:build !flshm_debug

package flshm

import "go.uber.org/zap"

// SetLogger is accepted and ignored unless built with the flshm_debug tag.
func SetLogger(l *zap.Logger) {}

// Debug compiles to nothing without flshm_debug.
func Debug(msg string, keysAndValues ...any) {}

// Info compiles to nothing without flshm_debug.
func Info(msg string, keysAndValues ...any) {}
