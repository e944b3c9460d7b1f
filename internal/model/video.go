// Package model holds the data passed between pipeline stages
package model

import (
	"strconv"
	"strings"
)

// VideoMetadata describes a remote video. ID is mandatory and names the run workspace.
// The numeric fields are nil when the source did not report them.
type VideoMetadata struct {
	ID          string   `json:"id" yaml:"id"`
	WebpageURL  string   `json:"webpage_url" yaml:"webpage_url"`
	Title       string   `json:"title" yaml:"title"`
	Channel     string   `json:"channel" yaml:"channel"`
	Thumbnail   string   `json:"thumbnail" yaml:"thumbnail"`
	Description string   `json:"description" yaml:"description"`
	Categories  []string `json:"categories" yaml:"categories"`
	Duration    *float64 `json:"duration" yaml:"duration"`
	ViewCount   *int64   `json:"view_count" yaml:"view_count"`
	LikeCount   *int64   `json:"like_count" yaml:"like_count"`
}

// Field is one named metadata value rendered as text
type Field struct {
	Key   string
	Value string
}

// Fields returns the populated metadata fields in display order
func (m *VideoMetadata) Fields() []Field {
	var fields []Field
	add := func(key, value string) {
		if value != "" {
			fields = append(fields, Field{Key: key, Value: value})
		}
	}

	add("id", m.ID)
	add("webpage_url", m.WebpageURL)
	add("title", m.Title)
	add("channel", m.Channel)
	add("thumbnail", m.Thumbnail)
	add("description", m.Description)
	if len(m.Categories) > 0 {
		add("categories", strings.Join(m.Categories, ", "))
	}
	if m.Duration != nil {
		add("duration", strconv.FormatFloat(*m.Duration, 'f', -1, 64))
	}
	if m.ViewCount != nil {
		add("view_count", strconv.FormatInt(*m.ViewCount, 10))
	}
	if m.LikeCount != nil {
		add("like_count", strconv.FormatInt(*m.LikeCount, 10))
	}
	return fields
}

// Block renders the metadata as the fenced "Video Information" context block
func (m *VideoMetadata) Block() string {
	var b strings.Builder
	b.WriteString("Video Information:\n```\n")
	for _, f := range m.Fields() {
		b.WriteString(f.Key)
		b.WriteString(": ")
		b.WriteString(f.Value)
		b.WriteString("\n")
	}
	b.WriteString("```\n")
	return b.String()
}
