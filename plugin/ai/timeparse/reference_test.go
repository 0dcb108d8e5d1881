package timeparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{"saturday", time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC), "Thứ Bảy, ngày 12/04/2025"},
		{"monday", time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC), "Thứ Hai, ngày 14/04/2025"},
		{"sunday", time.Date(2025, 4, 13, 0, 0, 0, 0, time.UTC), "Chủ Nhật, ngày 13/04/2025"},
		{"single digit day", time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), "Thứ Sáu, ngày 07/03/2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDate(tt.input))
		})
	}
}

func TestMondayOf(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{"thursday", time.Date(2025, 4, 10, 15, 30, 0, 0, time.UTC), time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC)},
		{"monday itself", time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC), time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC)},
		{"sunday belongs to preceding monday", time.Date(2025, 4, 13, 0, 0, 0, 0, time.UTC), time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mondayOf(tt.input))
		})
	}
}

func TestSpanOrdersEndpoints(t *testing.T) {
	start := time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)

	ref := span(end, start, TypeDateRange, "x")
	assert.Equal(t, start, ref.Start)
	assert.Equal(t, end, ref.End)
}
