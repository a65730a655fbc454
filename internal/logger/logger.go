package logger

import (
	"go.uber.org/zap"
)

var log *zap.Logger = zap.NewNop()

// Init builds the process-wide logger. debug=true switches to the
// development encoder.
func Init(debug bool) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	log = l
	return l, nil
}

// L returns the process logger (a nop logger before Init).
func L() *zap.Logger {
	return log
}

// Sync flushes buffered log entries.
func Sync() {
	_ = log.Sync()
}
