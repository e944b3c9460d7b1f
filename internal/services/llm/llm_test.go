package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gnzdotmx/videonote/internal/config"
	"github.com/gnzdotmx/videonote/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

var noteSchema = &Schema{
	Name:        "note",
	Description: "Markdown note",
	Fields:      []Field{{Name: "markdown", Type: FieldString, Description: "Markdown summary"}},
}

func TestImage_DataURL(t *testing.T) {
	img := Image{Data: []byte("abc")}
	assert.Equal(t, "data:image/jpeg;base64,YWJj", img.DataURL())

	img.MIMEType = "image/png"
	assert.Equal(t, "data:image/png;base64,YWJj", img.DataURL())
}

func TestRequest_Validate(t *testing.T) {
	ok := Request{Model: "gpt-4.1", Messages: []Message{{Text: "hi"}}, Schema: noteSchema}
	assert.NoError(t, ok.validate())

	noModel := ok
	noModel.Model = ""
	assert.Error(t, noModel.validate())

	noMessages := ok
	noMessages.Messages = nil
	assert.Error(t, noMessages.validate())

	noSchema := ok
	noSchema.Schema = nil
	assert.Error(t, noSchema.validate())
}

func TestOpenAISchema(t *testing.T) {
	def := openAISchema(&Schema{
		Name: "times",
		Fields: []Field{
			{Name: "timestamps", Type: FieldNumberArray, Description: "seconds"},
		},
	})

	data, err := json.Marshal(&def)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "object", decoded["type"])
	assert.Equal(t, false, decoded["additionalProperties"])
	assert.Equal(t, []interface{}{"timestamps"}, decoded["required"])

	props := decoded["properties"].(map[string]interface{})
	ts := props["timestamps"].(map[string]interface{})
	assert.Equal(t, "array", ts["type"])
	assert.Equal(t, "number", ts["items"].(map[string]interface{})["type"])
}

func TestOpenAIMessages(t *testing.T) {
	msgs := openAIMessages(Request{
		System: "be brief",
		Messages: []Message{
			{Text: "plain"},
			{Text: "Timestamp: 1.5s", Images: []Image{{Data: []byte{0xff, 0xd8}}}},
		},
	})

	require.Len(t, msgs, 3)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "be brief", msgs[0].Content)
	assert.Equal(t, "plain", msgs[1].Content)
	require.Len(t, msgs[2].MultiContent, 2)
	assert.Equal(t, "Timestamp: 1.5s", msgs[2].MultiContent[0].Text)
	assert.True(t, strings.HasPrefix(msgs[2].MultiContent[1].ImageURL.URL, "data:image/jpeg;base64,"))
}

func TestOpenAI_Generate(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"markdown\":\"# Note\"}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer server.Close()

	backend, err := NewOpenAI("test-key", server.URL)
	require.NoError(t, err)

	out, err := backend.Generate(context.Background(), Request{
		Model:    "gpt-4.1",
		System:   "system prompt",
		Messages: []Message{{Text: "hello"}},
		Schema:   noteSchema,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"markdown":"# Note"}`, out)

	assert.Equal(t, "gpt-4.1", captured["model"])
	format := captured["response_format"].(map[string]interface{})
	assert.Equal(t, "json_schema", format["type"])
	schema := format["json_schema"].(map[string]interface{})
	assert.Equal(t, "note", schema["name"])
	assert.Equal(t, true, schema["strict"])
}

func TestOpenAI_GenerateUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "boom", "type": "server_error"}}`))
	}))
	defer server.Close()

	backend, err := NewOpenAI("test-key", server.URL)
	require.NoError(t, err)

	_, err = backend.Generate(context.Background(), Request{
		Model:    "gpt-4.1",
		Messages: []Message{{Text: "hello"}},
		Schema:   noteSchema,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrUpstream))
}

func TestOpenAI_GenerateRejectsInvalidRequest(t *testing.T) {
	backend, err := NewOpenAI("test-key", "http://127.0.0.1:0")
	require.NoError(t, err)

	_, err = backend.Generate(context.Background(), Request{Model: "gpt-4.1"})
	assert.True(t, errors.Is(err, utils.ErrValidation))
}

func TestNewOpenAI_RequiresKey(t *testing.T) {
	_, err := NewOpenAI("", "")
	assert.Error(t, err)
}

func TestGeminiSchemaAndContents(t *testing.T) {
	schema := geminiSchema(&Schema{
		Fields: []Field{
			{Name: "markdown", Type: FieldString},
			{Name: "timestamps", Type: FieldNumberArray},
		},
	})
	assert.Equal(t, genai.TypeObject, schema.Type)
	assert.Equal(t, []string{"markdown", "timestamps"}, schema.Required)
	assert.Equal(t, genai.TypeString, schema.Properties["markdown"].Type)
	assert.Equal(t, genai.TypeArray, schema.Properties["timestamps"].Type)
	assert.Equal(t, genai.TypeNumber, schema.Properties["timestamps"].Items.Type)

	contents := geminiContents(Request{Messages: []Message{
		{Text: "a"},
		{Text: "b", Images: []Image{{Data: []byte{1, 2, 3}}}},
	}})
	require.Len(t, contents, 2)
	assert.Len(t, contents[0].Parts, 1)
	require.Len(t, contents[1].Parts, 2)
	assert.Equal(t, "image/jpeg", contents[1].Parts[1].InlineData.MIMEType)
}

func TestNew_SelectsProvider(t *testing.T) {
	gen, err := New(context.Background(), &config.Config{LLMProvider: config.ProviderOpenAI, OpenAIAPIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, gen)

	_, err = New(context.Background(), &config.Config{LLMProvider: config.ProviderGemini})
	assert.Error(t, err)

	_, err = New(context.Background(), &config.Config{LLMProvider: "other"})
	assert.Error(t, err)
}
