package services

import (
	"fmt"
	"strconv"
	"strings"
)

// ClockToDecimal converts an "HH:MM" clock string to decimal hours.
// "24:00" is the end-of-day boundary and maps to 24.0; availability windows
// and midnight-ending shifts are stored with it. Malformed input degrades to
// 0 so one bad record cannot poison an aggregate.
func ClockToDecimal(clock string) float64 {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(parts) != 2 {
		return 0
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 24 {
		return 0
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 || (hours == 24 && minutes != 0) {
		return 0
	}
	return float64(hours) + float64(minutes)/60.0
}

// DecimalToClock converts decimal hours back to an "HH:MM" clock string,
// clamped to the ["00:00", "24:00"] day boundaries
func DecimalToClock(hours float64) string {
	if hours < 0 {
		hours = 0
	}
	h := int(hours)
	m := int((hours-float64(h))*60 + 0.5)
	if m == 60 {
		h++
		m = 0
	}
	if h >= 24 {
		return "24:00"
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// ShiftHours returns the duration of a [start,end) clock interval in decimal
// hours, clamped to zero when end does not follow start.
func ShiftHours(startTime, endTime string) float64 {
	hours := ClockToDecimal(endTime) - ClockToDecimal(startTime)
	if hours < 0 {
		return 0
	}
	return hours
}

// Overlaps reports whether two half-open clock intervals intersect.
// Back-to-back shifts (a ends exactly when b starts) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	as, ae := ClockToDecimal(aStart), ClockToDecimal(aEnd)
	bs, be := ClockToDecimal(bStart), ClockToDecimal(bEnd)
	start := as
	if bs > start {
		start = bs
	}
	end := ae
	if be < end {
		end = be
	}
	return start < end
}

// IsAM classifies a shift into the AM period when its start time precedes the
// midday cutoff. This is the single canonical split rule; every summary and
// metric uses it.
func IsAM(startTime, cutoff string) bool {
	return ClockToDecimal(startTime) < ClockToDecimal(cutoff)
}
