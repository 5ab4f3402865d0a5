package triscan

import (
	"fmt"
	"time"
)

// FormatRate formats a per-second rate for log fields and benchmark output.
func FormatRate(count int64, duration time.Duration) string {
	if duration <= 0 {
		return "∞"
	}
	return fmt.Sprintf("%.1f", float64(count)/duration.Seconds())
}

// FormatBytesPerSecond renders a byte throughput in the largest unit that
// keeps the value below 1024 (B/s through TB/s).
func FormatBytesPerSecond(bytes int64, duration time.Duration) string {
	if duration <= 0 {
		return "∞ B/s"
	}

	rate := float64(bytes) / duration.Seconds()
	units := []string{"B/s", "KB/s", "MB/s", "GB/s", "TB/s"}
	i := 0
	for rate >= 1024 && i < len(units)-1 {
		rate /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", rate, units[i])
}
