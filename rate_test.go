package triscan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRate(t *testing.T) {
	tests := []struct {
		name     string
		count    int64
		duration time.Duration
		expected string
	}{
		{name: "whole rate", count: 1000, duration: 2 * time.Second, expected: "500.0"},
		{name: "fractional rate", count: 1, duration: 4 * time.Second, expected: "0.3"},
		{name: "sub-second duration", count: 100, duration: 100 * time.Millisecond, expected: "1000.0"},
		{name: "zero duration", count: 100, duration: 0, expected: "∞"},
		{name: "negative duration", count: 100, duration: -time.Second, expected: "∞"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatRate(tt.count, tt.duration))
		})
	}
}

func TestFormatBytesPerSecond(t *testing.T) {
	tests := []struct {
		name     string
		bytes    int64
		duration time.Duration
		expected string
	}{
		{name: "bytes", bytes: 1023, duration: time.Second, expected: "1023.0 B/s"},
		{name: "kilobytes", bytes: 2048, duration: time.Second, expected: "2.0 KB/s"},
		{name: "megabytes", bytes: 3 * 1024 * 1024, duration: time.Second, expected: "3.0 MB/s"},
		{name: "gigabytes", bytes: 5 * 1024 * 1024 * 1024, duration: 2 * time.Second, expected: "2.5 GB/s"},
		{name: "zero duration", bytes: 1, duration: 0, expected: "∞ B/s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatBytesPerSecond(tt.bytes, tt.duration))
		})
	}
}
