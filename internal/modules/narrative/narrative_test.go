package narrative

import (
	"context"
	"errors"
	"testing"

	"github.com/gnzdotmx/videonote/internal/model"
	"github.com/gnzdotmx/videonote/internal/services/llm"
	"github.com/gnzdotmx/videonote/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGenerator is a mock implementation of llm.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, req llm.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

var (
	testMeta = &model.VideoMetadata{ID: "abc123", Title: "Go Concurrency", Channel: "gophers"}

	testTranscript = model.Transcript{Segments: []model.Segment{
		{Start: 0, End: 2.5, Text: "Welcome"},
		{Start: 2.5, End: 6, Text: "Channels are typed pipes"},
	}}
)

func TestSummarize(t *testing.T) {
	gen := new(MockGenerator)
	var got llm.Request
	gen.On("Generate", mock.Anything, mock.AnythingOfType("llm.Request")).
		Run(func(args mock.Arguments) { got = args.Get(1).(llm.Request) }).
		Return(`{"markdown": "# Go Concurrency\n\nChannels."}`, nil)

	g := New(gen, "gpt-4.1", "summarize please", "enhance please")
	out, err := g.Summarize(context.Background(), testMeta, testTranscript)
	require.NoError(t, err)
	assert.Equal(t, "# Go Concurrency\n\nChannels.", out)

	assert.Equal(t, "gpt-4.1", got.Model)
	assert.Equal(t, "summarize please", got.System)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, testMeta.Block(), got.Messages[0].Text)
	assert.Equal(t, testTranscript.String(), got.Messages[1].Text)
	assert.Empty(t, got.Messages[0].Images)
	require.NotNil(t, got.Schema)
	assert.Equal(t, "markdown", got.Schema.Fields[0].Name)
	gen.AssertExpectations(t)
}

func TestSummarize_NilMetadata(t *testing.T) {
	gen := new(MockGenerator)
	g := New(gen, "gpt-4.1", "", "")

	_, err := g.Summarize(context.Background(), nil, testTranscript)
	assert.True(t, errors.Is(err, utils.ErrValidation))
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestEnhance_AttachesImagesWithPaths(t *testing.T) {
	gen := new(MockGenerator)
	var got llm.Request
	gen.On("Generate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(llm.Request) }).
		Return(`{"markdown": "enhanced"}`, nil)

	shots := []model.Screenshot{
		{Timestamp: 12.5, Data: []byte{0xff, 0xd8, 1}},
		{Timestamp: 30, Data: []byte{0xff, 0xd8, 2}},
	}

	g := New(gen, "gpt-4.1", "summarize please", "enhance please")
	out, err := g.Enhance(context.Background(), "# Raw", testTranscript, shots)
	require.NoError(t, err)
	assert.Equal(t, "enhanced", out)

	assert.Equal(t, "enhance please", got.System)
	require.Len(t, got.Messages, 4)
	assert.Equal(t, "Existing Summary:\n```\n# Raw\n```\n", got.Messages[0].Text)
	assert.Equal(t, testTranscript.Block(), got.Messages[1].Text)
	assert.Equal(t, "Timestamp: 12.5s, FilePath: `./screenshots/12.5.jpg`", got.Messages[2].Text)
	assert.Equal(t, "Timestamp: 30.0s, FilePath: `./screenshots/30.0.jpg`", got.Messages[3].Text)
	require.Len(t, got.Messages[3].Images, 1)
	assert.Equal(t, shots[1].Data, got.Messages[3].Images[0].Data)
	assert.Equal(t, "image/jpeg", got.Messages[3].Images[0].MIMEType)
}

func TestEnhance_NoImages(t *testing.T) {
	gen := new(MockGenerator)
	var got llm.Request
	gen.On("Generate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(llm.Request) }).
		Return(`{"markdown": "same"}`, nil)

	g := New(gen, "gpt-4.1", "", "enhance")
	_, err := g.Enhance(context.Background(), "# Raw", testTranscript, nil)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 2)
}

func TestGenerate_InvalidResults(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing field", `{}`},
		{"empty markdown", `{"markdown": "  "}`},
		{"null markdown", `{"markdown": null}`},
		{"not json", `# just markdown`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := new(MockGenerator)
			gen.On("Generate", mock.Anything, mock.Anything).Return(tt.raw, nil)

			g := New(gen, "gpt-4.1", "", "")
			_, err := g.Summarize(context.Background(), testMeta, testTranscript)
			require.Error(t, err)
			assert.True(t, errors.Is(err, utils.ErrUpstream))
		})
	}
}

func TestGenerate_PropagatesServiceError(t *testing.T) {
	gen := new(MockGenerator)
	serviceErr := utils.UpstreamError("openai", errors.New("rate limited"))
	gen.On("Generate", mock.Anything, mock.Anything).Return("", serviceErr)

	g := New(gen, "gpt-4.1", "", "")
	_, err := g.Enhance(context.Background(), "# Raw", testTranscript, nil)
	assert.ErrorIs(t, err, serviceErr)
	assert.True(t, errors.Is(err, utils.ErrUpstream))
}
