// Package monitoring holds the process-wide diagnostic logger indirection.
package monitoring

import "log"

// Logf is the diagnostic logger used by the sensor host loop and transports.
// It defaults to log.Printf; tests or embedding code can redirect or mute it
// via SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
