package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Segment is one time-aligned piece of recognized speech
type Segment struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
	Text  string  `json:"text" yaml:"text"`
}

// Transcript is an ordered sequence of segments
type Transcript struct {
	Segments []Segment
}

var segmentLine = regexp.MustCompile(`^\[(\d+(?:\.\d+)?)s - (\d+(?:\.\d+)?)s\] ?(.*)$`)

// String renders one "[start - end] text" line per segment
func (t Transcript) String() string {
	lines := make([]string, 0, len(t.Segments))
	for _, s := range t.Segments {
		lines = append(lines, fmt.Sprintf("[%.2fs - %.2fs] %s", s.Start, s.End, s.Text))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ParseTranscript reads text produced by Transcript.String. Lines that do
// not start with a time range continue the previous segment's text.
func ParseTranscript(text string) Transcript {
	var t Transcript
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		m := segmentLine.FindStringSubmatch(line)
		if m == nil {
			if len(t.Segments) == 0 {
				if strings.TrimSpace(line) == "" {
					continue
				}
				t.Segments = append(t.Segments, Segment{Text: line})
				continue
			}
			last := &t.Segments[len(t.Segments)-1]
			last.Text += "\n" + line
			continue
		}

		start, _ := strconv.ParseFloat(m[1], 64)
		end, _ := strconv.ParseFloat(m[2], 64)
		t.Segments = append(t.Segments, Segment{Start: start, End: end, Text: m[3]})
	}
	return t
}

// Block renders the transcript as the fenced "Transcription with Timestamps" context block
func (t Transcript) Block() string {
	return "Transcription with Timestamps:\n```\n" + t.String() + "\n```\n"
}
