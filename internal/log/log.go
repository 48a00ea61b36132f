// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package log

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// Logger returns the process-wide logger. It is a no-op logger unless
// [SetLogger] was called.
func Logger() *zap.Logger {
	return logger.Load()
}

// SetLogger replaces the process-wide logger. A nil logger restores the no-op
// logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l.Named("ikvm-native"))
}

// Debug logs at debug level on the process-wide logger.
func Debug(msg string, fields ...zap.Field) {
	Logger().Debug(msg, fields...)
}

// Warn logs at warn level on the process-wide logger.
func Warn(msg string, fields ...zap.Field) {
	Logger().Warn(msg, fields...)
}
