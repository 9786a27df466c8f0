package utils

import "time"

const timestampLayout = "02 Jan 2006, 15:04"

// FormatTimestamp renders a time the way transaction and reminder dates
// are shown to users.
func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}
