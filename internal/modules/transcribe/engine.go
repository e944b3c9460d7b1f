package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnzdotmx/videonote/internal/config"
	"github.com/gnzdotmx/videonote/internal/model"
	"github.com/gnzdotmx/videonote/internal/utils"
	"github.com/gnzdotmx/videonote/pkg/executor"
)

// Engine recognizes speech in a 16kHz mono WAV file
type Engine interface {
	Recognize(ctx context.Context, audioPath, language string) ([]model.Segment, error)
}

// Loader initializes an Engine. It is called at most once per successful load.
type Loader func(ctx context.Context) (Engine, error)

// NewEngineLoader returns a Loader for the named engine ("whisper" or "whisper-cli")
func NewEngineLoader(exec executor.Executor, engine, modelName string) Loader {
	return func(ctx context.Context) (Engine, error) {
		switch engine {
		case config.EngineWhisper, "":
			path, err := exec.LookPath("whisper")
			if err != nil {
				return nil, &utils.DependencyError{Name: "whisper", Err: err}
			}
			utils.LogVerbose("Using whisper at %s with model %s", path, modelName)
			return &whisperCLI{exec: exec, binary: path, model: modelName}, nil

		case config.EngineWhisperCpp:
			path, err := exec.LookPath("whisper-cli")
			if err != nil {
				return nil, &utils.DependencyError{Name: "whisper-cli", Err: err}
			}
			modelPath, err := findGGMLModel(modelName)
			if err != nil {
				return nil, &utils.DependencyError{Name: "whisper-cli model", Err: err}
			}
			utils.LogVerbose("Using whisper-cli at %s with model %s", path, modelPath)
			return &whisperCpp{exec: exec, binary: path, modelPath: modelPath}, nil

		default:
			return nil, &utils.DependencyError{Name: engine, Err: fmt.Errorf("unsupported transcription engine")}
		}
	}
}

// findGGMLModel accepts a model file path or a model name under ./models
func findGGMLModel(name string) (string, error) {
	candidates := []string{
		name,
		filepath.Join("models", "ggml-"+name+".bin"),
	}
	for _, c := range candidates {
		if utils.FileExists(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("no ggml model found for %q (tried %s)", name, strings.Join(candidates, ", "))
}

// whisperCLI drives the openai-whisper command line tool
type whisperCLI struct {
	exec   executor.Executor
	binary string
	model  string
}

type whisperJSON struct {
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func (w *whisperCLI) Recognize(ctx context.Context, audioPath, language string) ([]model.Segment, error) {
	outDir, err := os.MkdirTemp("", "videonote-whisper-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer removeAll(outDir)

	args := []string{
		audioPath,
		"--model", w.model,
		"--output_format", "json",
		"--output_dir", outDir,
		"--verbose", "False",
	}
	if language != "" {
		args = append(args, "--language", language)
	}

	if _, err := w.exec.Run(ctx, w.binary, args...); err != nil {
		return nil, fmt.Errorf("whisper failed: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	data, err := os.ReadFile(filepath.Join(outDir, base+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read whisper output: %w", err)
	}

	var out whisperJSON
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse whisper output: %w", err)
	}

	segments := make([]model.Segment, 0, len(out.Segments))
	for _, s := range out.Segments {
		segments = append(segments, model.Segment{Start: s.Start, End: s.End, Text: strings.TrimSpace(s.Text)})
	}
	return segments, nil
}

// whisperCpp drives the whisper.cpp command line tool
type whisperCpp struct {
	exec      executor.Executor
	binary    string
	modelPath string
}

type whisperCppJSON struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

func (w *whisperCpp) Recognize(ctx context.Context, audioPath, language string) ([]model.Segment, error) {
	outDir, err := os.MkdirTemp("", "videonote-whispercpp-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer removeAll(outDir)

	if language == "" {
		language = "auto"
	}
	prefix := filepath.Join(outDir, "transcript")
	args := []string{
		"-m", w.modelPath,
		"-f", audioPath,
		"-l", language,
		"-oj",
		"-of", prefix,
		"-np",
	}

	if _, err := w.exec.Run(ctx, w.binary, args...); err != nil {
		return nil, fmt.Errorf("whisper-cli failed: %w", err)
	}

	data, err := os.ReadFile(prefix + ".json")
	if err != nil {
		return nil, fmt.Errorf("failed to read whisper-cli output: %w", err)
	}

	var out whisperCppJSON
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse whisper-cli output: %w", err)
	}

	segments := make([]model.Segment, 0, len(out.Transcription))
	for _, s := range out.Transcription {
		segments = append(segments, model.Segment{
			Start: float64(s.Offsets.From) / 1000,
			End:   float64(s.Offsets.To) / 1000,
			Text:  strings.TrimSpace(s.Text),
		})
	}
	return segments, nil
}

func removeAll(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		utils.LogWarning("Failed to remove temp directory %s: %v", dir, err)
	}
}
