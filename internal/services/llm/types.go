package llm

import (
	"encoding/base64"
	"fmt"
)

// FieldType is the JSON type of a structured result field
type FieldType string

const (
	FieldString      FieldType = "string"
	FieldNumberArray FieldType = "number[]"
)

// Field describes one required property of a structured result
type Field struct {
	Name        string
	Type        FieldType
	Description string
}

// Schema describes the JSON object a generation call must return
type Schema struct {
	Name        string
	Description string
	Fields      []Field
}

// Image is an inline image attachment
type Image struct {
	Data     []byte
	MIMEType string
}

// DataURL renders the image as a base64 data URL
func (i Image) DataURL() string {
	mime := i.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(i.Data))
}

// Message is one user turn made of text and optional images
type Message struct {
	Text   string
	Images []Image
}

// Request is a single generation call
type Request struct {
	Model    string
	System   string
	Messages []Message
	Schema   *Schema
}

func (r Request) validate() error {
	if r.Model == "" {
		return fmt.Errorf("model is required")
	}
	if len(r.Messages) == 0 {
		return fmt.Errorf("at least one message is required")
	}
	if r.Schema == nil || len(r.Schema.Fields) == 0 {
		return fmt.Errorf("a result schema is required")
	}
	return nil
}
