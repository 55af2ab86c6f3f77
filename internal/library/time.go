package library

import "time"

// timeNow is a package-level variable for testability.
// Tests can replace this to control timestamps in assertions.
var timeNow = time.Now

// nowStamp returns the current time as an RFC3339 UTC string, the format
// used for every persisted timestamp.
func nowStamp() string {
	return timeNow().UTC().Format(time.RFC3339)
}

// nowID returns the current time formatted for log entry ids
// (log_YYYYMMDD_HHMMSS).
func nowID() string {
	return timeNow().UTC().Format("20060102_150405")
}
