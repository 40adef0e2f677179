package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClockToDecimal(t *testing.T) {
	tests := []struct {
		name  string
		clock string
		want  float64
	}{
		{"midnight", "00:00", 0},
		{"morning", "09:30", 9.5},
		{"quarter hour", "14:15", 14.25},
		{"last minute", "23:59", 23 + 59.0/60},
		{"end of day", "24:00", 24},
		{"whitespace tolerated", " 08:00 ", 8},
		{"missing colon", "0900", 0},
		{"empty", "", 0},
		{"hour out of range", "25:00", 0},
		{"past end of day", "24:01", 0},
		{"minute out of range", "10:60", 0},
		{"negative hour", "-1:30", 0},
		{"garbage", "noon", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ClockToDecimal(tt.clock), 1e-9)
		})
	}
}

func TestDecimalToClock(t *testing.T) {
	tests := []struct {
		name  string
		hours float64
		want  string
	}{
		{"midnight", 0, "00:00"},
		{"half hour", 9.5, "09:30"},
		{"rounds to minute", 14.249, "14:15"},
		{"negative clamps", -3, "00:00"},
		{"minute carry", 9.9999, "10:00"},
		{"end of day", 24, "24:00"},
		{"carry into end of day", 23.9999, "24:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecimalToClock(tt.hours))
		})
	}
}

func TestShiftHours(t *testing.T) {
	assert.InDelta(t, 8.0, ShiftHours("09:00", "17:00"), 1e-9)
	assert.InDelta(t, 5.5, ShiftHours("16:30", "22:00"), 1e-9)

	// Closing shifts end on the day boundary
	assert.InDelta(t, 8.0, ShiftHours("16:00", "24:00"), 1e-9)

	// Inverted interval clamps to zero instead of going negative
	assert.Equal(t, 0.0, ShiftHours("17:00", "09:00"))
	assert.Equal(t, 0.0, ShiftHours("12:00", "12:00"))
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     string
		want                           bool
	}{
		{"clear overlap", "09:00", "13:00", "12:00", "17:00", true},
		{"containment", "09:00", "17:00", "11:00", "12:00", true},
		{"back to back does not overlap", "09:00", "13:00", "13:00", "17:00", false},
		{"disjoint", "09:00", "11:00", "14:00", "17:00", false},
		{"identical", "09:00", "17:00", "09:00", "17:00", true},
		{"one minute overlap", "09:00", "13:01", "13:00", "17:00", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// Symmetric
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestIsAM(t *testing.T) {
	cutoff := "17:00"
	assert.True(t, IsAM("09:00", cutoff))
	assert.True(t, IsAM("16:59", cutoff))

	// A shift starting exactly at the cutoff is PM
	assert.False(t, IsAM("17:00", cutoff))
	assert.False(t, IsAM("22:00", cutoff))
}
