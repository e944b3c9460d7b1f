// Package workflow sequences the note pipeline over a checkpointed workspace
package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/gnzdotmx/videonote/internal/model"
	"github.com/gnzdotmx/videonote/internal/modules/frames"
	"github.com/gnzdotmx/videonote/internal/workspace"
)

// Collaborators

// Transcriber turns a media file into time-aligned text
type Transcriber interface {
	Transcribe(ctx context.Context, mediaPath, language string) (model.Transcript, error)
}

// Narrator writes the raw and enhanced summaries
type Narrator interface {
	Summarize(ctx context.Context, meta *model.VideoMetadata, transcript model.Transcript) (string, error)
	Enhance(ctx context.Context, summary string, transcript model.Transcript, images []model.Screenshot) (string, error)
}

// HighlightSelector proposes screenshot timestamps
type HighlightSelector interface {
	Select(ctx context.Context, meta *model.VideoMetadata, summary string, transcript model.Transcript) ([]float64, error)
}

// FrameExtractor grabs stills from a media file
type FrameExtractor interface {
	ExtractMany(ctx context.Context, mediaPath string, timestamps []float64, region *frames.Region) ([][]byte, error)
}

// Stage names, in execution order

// StageName identifies a pipeline stage
type StageName string

const (
	StageMetadata    StageName = "metadata"
	StageDownload    StageName = "download"
	StageSubtitles   StageName = "subtitles"
	StageTranscribe  StageName = "transcribe"
	StageSummarize   StageName = "summarize"
	StageHighlights  StageName = "highlights"
	StageScreenshots StageName = "screenshots"
	StageEnhance     StageName = "enhance"
)

var stageOrder = []StageName{
	StageMetadata,
	StageDownload,
	StageSubtitles,
	StageTranscribe,
	StageSummarize,
	StageHighlights,
	StageScreenshots,
	StageEnhance,
}

// State-related types

// RunState records one pipeline run. It is written to the workspace as YAML.
type RunState struct {
	mu sync.RWMutex

	ID         string        `yaml:"id"`
	Identifier string        `yaml:"identifier"`
	VideoID    string        `yaml:"videoId,omitempty"`
	Status     RunStatus     `yaml:"status"`
	StartTime  time.Time     `yaml:"startTime"`
	EndTime    time.Time     `yaml:"endTime,omitempty"`
	Error      string        `yaml:"error,omitempty"`
	Stages     []*StageState `yaml:"stages"`
	History    []RunEvent    `yaml:"history"`
}

// StageState is the outcome of one stage
type StageState struct {
	Name      StageName         `yaml:"name"`
	Status    StageStatus       `yaml:"status"`
	StartTime time.Time         `yaml:"startTime,omitempty"`
	EndTime   time.Time         `yaml:"endTime,omitempty"`
	Outputs   map[string]string `yaml:"outputs,omitempty"`
	Message   string            `yaml:"message,omitempty"`
}

// RunEvent represents an event that occurred during a run
type RunEvent struct {
	ID        string    `yaml:"id"`
	Timestamp time.Time `yaml:"timestamp"`
	Stage     StageName `yaml:"stage"`
	Type      string    `yaml:"type"`
	Message   string    `yaml:"message"`
}

// RunResult is what Execute hands back to the caller
type RunResult struct {
	Metadata    *model.VideoMetadata
	Workspace   *workspace.Workspace
	SummaryPath string
	Screenshots int
	State       *RunState
}

// Status types

// StageStatus represents the current status of a stage
type StageStatus string

const (
	StageStatusPending  StageStatus = "pending"
	StageStatusRunning  StageStatus = "running"
	StageStatusComplete StageStatus = "complete"
	StageStatusSkipped  StageStatus = "skipped"
	StageStatusFailed   StageStatus = "failed"
)

// RunStatus represents the current status of the run
type RunStatus string

const (
	RunStatusPending  RunStatus = "pending"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)
