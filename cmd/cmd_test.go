package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gnzdotmx/videonote/internal/model"
	"github.com/gnzdotmx/videonote/internal/utils"
	"github.com/gnzdotmx/videonote/internal/workflow"
	"github.com/gnzdotmx/videonote/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptURL(t *testing.T) {
	var out bytes.Buffer
	url, err := promptURL(strings.NewReader("  https://youtu.be/abc123  \n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "https://youtu.be/abc123", url)
	assert.Equal(t, "Please enter a YouTube URL: ", out.String())

	url, err = promptURL(strings.NewReader("https://youtu.be/noNewline"), &out)
	require.NoError(t, err)
	assert.Equal(t, "https://youtu.be/noNewline", url)
}

func TestPromptURL_Empty(t *testing.T) {
	var out bytes.Buffer
	_, err := promptURL(strings.NewReader("\n"), &out)
	assert.True(t, errors.Is(err, utils.ErrValidation))

	_, err = promptURL(strings.NewReader(""), &out)
	assert.True(t, errors.Is(err, utils.ErrValidation))
}

func TestMetadataRows(t *testing.T) {
	rows := metadataRows(&model.VideoMetadata{ID: "abc123", Title: "Talk", Categories: []string{"Education", "Tech"}})
	assert.Equal(t, [][2]string{
		{"id", "abc123"},
		{"title", "Talk"},
		{"categories", "Education, Tech"},
	}, rows)
}

func TestSelectForCleanup(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	list := []workspace.Info{
		{ID: "a", ModTime: now.Add(-1 * time.Hour)},
		{ID: "b", ModTime: now.AddDate(0, 0, -2)},
		{ID: "c", ModTime: now.AddDate(0, 0, -10)},
		{ID: "d", ModTime: now.AddDate(0, 0, -40)},
	}

	ids := func(infos []workspace.Info) []string {
		var out []string
		for _, i := range infos {
			out = append(out, i.ID)
		}
		return out
	}

	assert.Equal(t, []string{"c", "d"}, ids(selectForCleanup(list, 2, 0, now)))
	assert.Equal(t, []string{"d"}, ids(selectForCleanup(list, 0, 30, now)))
	assert.Equal(t, []string{"b", "c", "d"}, ids(selectForCleanup(list, 1, 30, now)))
	assert.Empty(t, selectForCleanup(list, 10, 0, now))
}

func TestLastRunStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "abc123")
	require.NoError(t, os.MkdirAll(dir, 0755))
	info := workspace.Info{ID: "abc123", Dir: dir}
	assert.Equal(t, "-", lastRunStatus(info))

	state := workflow.NewRunState("https://youtu.be/abc123")
	state.Finish(nil)
	require.NoError(t, workflow.SaveRunState(state, filepath.Join(dir, workspace.StateFile)))
	assert.Equal(t, "complete", lastRunStatus(info))
}
