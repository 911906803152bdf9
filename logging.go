package hapble

import "github.com/pion/logging"

// LoggerFactory is re-exported so callers can configure hapble's logging
// the same way they configure pion's other libraries, without importing
// pion/logging directly (spec's ambient-stack section).
type LoggerFactory = logging.LoggerFactory

// defaultLoggerFactory backs every component that is not given an
// explicit LoggerFactory.
var defaultLoggerFactory = logging.NewDefaultLoggerFactory()

func scopedLogger(factory LoggerFactory, scope string) logging.LeveledLogger {
	if factory == nil {
		factory = defaultLoggerFactory
	}
	return factory.NewLogger(scope)
}
