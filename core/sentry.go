package core

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
)

var reportingEnabled atomic.Bool

// InitCrashReporting enables Sentry crash reports, an empty DSN leaves reporting off
func InitCrashReporting(dsn, release string) error {
	if dsn == "" {
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Release:          release,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	reportingEnabled.Store(true)
	return nil
}

// CrashReportingEnabled reports whether Sentry was initialized
func CrashReportingEnabled() bool {
	return reportingEnabled.Load()
}

// FlushCrashReports waits for buffered events, call before a normal exit
func FlushCrashReports(timeout time.Duration) {
	if reportingEnabled.Load() {
		sentry.Flush(timeout)
	}
}
