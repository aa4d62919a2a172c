package utils

import "time"

const layoutDateTime = "2006-01-02 15:04:05"

// FormatDateTime formats time as "YYYY-MM-DD HH:MM:SS" UTC.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(layoutDateTime)
}
