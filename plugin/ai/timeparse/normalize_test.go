package timeparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"strips tone marks", "thứ bảy tuần sau", "thu bay tuan sau"},
		{"lowercases", "HÔM NAY", "hom nay"},
		{"handles d with stroke", "thứ đến đâu", "thu den dau"},
		{"leaves ascii untouched", "schedule for monday", "schedule for monday"},
		{"empty input", "", ""},
		{"mixed accents", "Tuần CÓ ngày 19", "tuan co ngay 19"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"thứ bảy tuần sau",
		"ngày 7 tháng 3 năm 2025",
		"lịch thi giữa kỳ",
		"chủ nhật",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "normalizing twice must be a no-op for %q", input)
	}
}
