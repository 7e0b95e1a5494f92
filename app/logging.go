package app

import (
	"time"

	"github.com/iov-one/lockbank"
)

// logDuration writes information about the time and result to the logger.
// Failures are logged as errors, successful writes as info and reads as
// debug.
func logDuration(ctx lockbank.Context, start time.Time, err error, lowPrio bool) {
	delta := time.Now().Sub(start)
	logger := lockbank.GetLogger(ctx).With("duration", delta/time.Microsecond)

	if err != nil {
		logger.Error("operation failed", "err", err)
		return
	}
	if lowPrio {
		logger.Debug("query")
	} else {
		logger.Info("operation executed")
	}
}
