// Package utils provides shared utility functions and constants
package utils

import "github.com/dustin/go-humanize"

// FormatBytes converts bytes to a human-readable IEC string (e.g. "1.5 GiB").
func FormatBytes(bytes uint64) string {
	return humanize.IBytes(bytes)
}

// FormatFileSize converts an object size to a human-readable string. Sizes
// the store reports as negative (unknown) render as zero.
func FormatFileSize(size int64) string {
	if size < 0 {
		return humanize.IBytes(0)
	}
	return humanize.IBytes(uint64(size))
}
