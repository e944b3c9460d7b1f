package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gnzdotmx/videonote/internal/config"
	"github.com/gnzdotmx/videonote/internal/model"
	"github.com/gnzdotmx/videonote/internal/modules/frames"
	"github.com/gnzdotmx/videonote/internal/modules/highlight"
	"github.com/gnzdotmx/videonote/internal/modules/media"
	"github.com/gnzdotmx/videonote/internal/modules/narrative"
	"github.com/gnzdotmx/videonote/internal/modules/transcribe"
	"github.com/gnzdotmx/videonote/internal/services/llm"
	"github.com/gnzdotmx/videonote/internal/utils"
	"github.com/gnzdotmx/videonote/internal/workflow"
	"github.com/gnzdotmx/videonote/pkg/executor"

	"github.com/spf13/cobra"
)

const (
	bannerTitle = "YT Video Note"
	urlPrompt   = "Please enter a YouTube URL: "
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Create a note for a video",
	Long:  `Prompt for a video URL and run every pipeline stage that has no checkpoint yet.`,
	RunE:  runNote,
}

func runNote(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, utils.Banner(bannerTitle))
	utils.Rule(out)

	identifier, err := promptURL(cmd.InOrStdin(), out)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	pipeline, err := buildPipeline(ctx, cfg, out)
	if err != nil {
		return err
	}

	result, err := pipeline.Execute(ctx, identifier)
	if err != nil {
		if result != nil && result.Workspace != nil {
			utils.LogWarning("Completed stages are kept in %s; run again to resume", result.Workspace.Dir)
		}
		return err
	}

	utils.Rule(out)
	fmt.Fprintln(out, utils.Success("Note ready: "+result.SummaryPath))
	return nil
}

// promptURL reads one non-empty line from in
func promptURL(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, urlPrompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read URL: %w", err)
	}

	url := strings.TrimSpace(line)
	if url == "" {
		return "", &utils.ValidationError{Field: "url", Message: "a video URL is required"}
	}
	return url, nil
}

// metadataRows turns the populated metadata fields into table rows
func metadataRows(meta *model.VideoMetadata) [][2]string {
	fields := meta.Fields()
	rows := make([][2]string, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, [2]string{f.Key, f.Value})
	}
	return rows
}

// buildPipeline wires the configured collaborators into a Pipeline
func buildPipeline(ctx context.Context, cfg *config.Config, out io.Writer) (*workflow.Pipeline, error) {
	exec := executor.New()

	prompts, err := config.LoadPrompts(cfg.PromptsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts: %w", err)
	}

	gen, err := llm.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.LLMProvider, err)
	}

	source, err := newSource(ctx, cfg, exec)
	if err != nil {
		return nil, err
	}

	transcriber := transcribe.New(exec, cfg.FFmpegPath,
		transcribe.NewEngineLoader(exec, cfg.WhisperEngine, cfg.WhisperModel))
	narrator := narrative.New(gen, cfg.SummitNoteModel, prompts.Summarizer, prompts.Enhancer)
	selector := highlight.New(gen, cfg.TimePickerModel, prompts.TimePicker)
	extractor := frames.NewExtractor(exec, cfg.FFmpegPath, frames.WithConcurrency(cfg.ScreenshotConcurrency))

	return workflow.NewPipeline(source, transcriber, narrator, selector, extractor, workflow.Options{
		ResultsDir:       cfg.ResultsDir,
		Language:         cfg.TranscribeLanguage,
		SubtitleLanguage: cfg.SubtitleLanguage,
		HighlightCheck:   cfg.HighlightCheck,
		OnMetadata: func(meta *model.VideoMetadata) {
			utils.RenderKeyValueTable(out, "Video Information", metadataRows(meta))
		},
	}), nil
}

// newSource returns the metadata source selected by METADATA_SOURCE. Media
// is always downloaded with yt-dlp.
func newSource(ctx context.Context, cfg *config.Config, exec executor.Executor) (media.Source, error) {
	ytdlp := media.NewYtDlp(exec, cfg.YtDlpPath)
	if cfg.MetadataSource != config.MetadataSourceYouTubeAPI {
		return ytdlp, nil
	}

	opts, err := media.YouTubeClientOptions(ctx, cfg.YouTubeAPIKey, cfg.YouTubeCredentialsFile)
	if err != nil {
		return nil, err
	}
	source, err := media.NewYouTubeAPI(ctx, ytdlp, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube client: %w", err)
	}
	return source, nil
}

func init() {
	rootCmd.AddCommand(runCmd)
}
