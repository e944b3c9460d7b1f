package model

import (
	"math"
	"strconv"
	"strings"
)

// Screenshot is a still image taken from the media at Timestamp seconds
type Screenshot struct {
	Timestamp float64
	Data      []byte
}

// FormatTimestamp renders t with at least one decimal digit ("30.0", "12.5"),
// the form used for screenshot file stems and prompt references
func FormatTimestamp(t float64) string {
	s := strconv.FormatFloat(t, 'f', -1, 64)
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return s
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ParseTimestamp parses a screenshot file stem back into seconds
func ParseTimestamp(stem string) (float64, error) {
	return strconv.ParseFloat(stem, 64)
}
