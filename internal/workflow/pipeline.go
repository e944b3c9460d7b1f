package workflow

import (
	"context"
	"fmt"
	"os"

	"github.com/gnzdotmx/videonote/internal/config"
	"github.com/gnzdotmx/videonote/internal/model"
	"github.com/gnzdotmx/videonote/internal/modules/media"
	"github.com/gnzdotmx/videonote/internal/utils"
	"github.com/gnzdotmx/videonote/internal/workspace"
)

// Options tune a Pipeline
type Options struct {
	ResultsDir       string
	Language         string
	SubtitleLanguage string
	HighlightCheck   string

	// OnMetadata is called once the video is resolved, before any other stage
	OnMetadata func(*model.VideoMetadata)
}

// Pipeline runs the note stages for one video at a time
type Pipeline struct {
	source      media.Source
	transcriber Transcriber
	narrator    Narrator
	selector    HighlightSelector
	frames      FrameExtractor
	opts        Options
}

// NewPipeline creates a Pipeline from its collaborators
func NewPipeline(source media.Source, transcriber Transcriber, narrator Narrator, selector HighlightSelector, frames FrameExtractor, opts Options) *Pipeline {
	if opts.ResultsDir == "" {
		opts.ResultsDir = "./results"
	}
	if opts.HighlightCheck == "" {
		opts.HighlightCheck = config.HighlightCheckDirectory
	}
	return &Pipeline{
		source:      source,
		transcriber: transcriber,
		narrator:    narrator,
		selector:    selector,
		frames:      frames,
		opts:        opts,
	}
}

// run carries the values produced by each stage
type run struct {
	identifier  string
	state       *RunState
	meta        *model.VideoMetadata
	ws          *workspace.Workspace
	transcript  model.Transcript
	rawSummary  string
	screenshots []model.Screenshot
	needSelect  bool
	summaryHash string
}

// Execute runs every stage for identifier, skipping those whose checkpoint
// already exists. A failed stage stops the run. Completed checkpoints are
// left in place so the next call resumes from them.
func (p *Pipeline) Execute(ctx context.Context, identifier string) (*RunResult, error) {
	r := &run{identifier: identifier, state: NewRunState(identifier)}

	err := p.execute(ctx, r)
	r.state.Finish(err)

	if r.ws != nil {
		if saveErr := SaveRunState(r.state, r.ws.State()); saveErr != nil {
			utils.LogWarning("Failed to save run state: %v", saveErr)
		}
	}

	result := &RunResult{
		Metadata:    r.meta,
		Workspace:   r.ws,
		Screenshots: len(r.screenshots),
		State:       r.state,
	}
	if err != nil {
		return result, err
	}
	result.SummaryPath = r.ws.Summary()
	return result, nil
}

func (p *Pipeline) execute(ctx context.Context, r *run) error {
	stages := []struct {
		name StageName
		fn   func(context.Context, *run) (stageOutcome, error)
	}{
		{StageMetadata, p.resolveMetadata},
		{StageDownload, p.download},
		{StageSubtitles, p.fetchSubtitles},
		{StageTranscribe, p.transcribe},
		{StageSummarize, p.summarize},
		{StageHighlights, p.selectHighlights},
		{StageScreenshots, p.extractScreenshots},
		{StageEnhance, p.enhance},
	}

	for i, s := range stages {
		if err := ctx.Err(); err != nil {
			r.state.FailStage(s.name, err)
			return fmt.Errorf("%s: %w", s.name, err)
		}

		utils.LogInfo("[%d/%d] %s", i+1, len(stages), s.name)
		r.state.StartStage(s.name)

		out, err := s.fn(ctx, r)
		if err != nil {
			r.state.FailStage(s.name, err)
			utils.LogError("Stage %s failed: %v", s.name, err)
			return fmt.Errorf("%s: %w", s.name, err)
		}

		if out.skipped != "" {
			r.state.SkipStage(s.name, out.skipped, out.outputs)
			utils.LogVerbose("Skipped %s: %s", s.name, out.skipped)
			continue
		}
		r.state.CompleteStage(s.name, out.outputs)
	}

	utils.LogSuccess("Summary written to %s", r.ws.Summary())
	return nil
}

// stageOutcome is a stage's outputs. A non-empty skipped holds the reason the work was not done.
type stageOutcome struct {
	outputs map[string]string
	skipped string
}

func output(key, value string) map[string]string {
	return map[string]string{key: value}
}

func (p *Pipeline) resolveMetadata(ctx context.Context, r *run) (stageOutcome, error) {
	meta, err := p.source.Resolve(ctx, r.identifier)
	if err != nil {
		return stageOutcome{}, err
	}
	if meta == nil || meta.ID == "" {
		return stageOutcome{}, &utils.ValidationError{Field: "id", Message: "metadata has no video id"}
	}

	ws, err := workspace.New(p.opts.ResultsDir, meta.ID)
	if err != nil {
		return stageOutcome{}, err
	}
	if err := ws.Ensure(); err != nil {
		return stageOutcome{}, err
	}

	r.meta = meta
	r.ws = ws
	r.state.SetVideoID(meta.ID)

	if p.opts.OnMetadata != nil {
		p.opts.OnMetadata(meta)
	}
	return stageOutcome{outputs: output("workspace", ws.Dir)}, nil
}

func (p *Pipeline) download(ctx context.Context, r *run) (stageOutcome, error) {
	out := output("video", r.ws.Video())
	if utils.FileExists(r.ws.Video()) {
		return stageOutcome{outputs: out, skipped: "video already downloaded"}, nil
	}

	if err := os.Remove(r.ws.VideoPart()); err != nil && !os.IsNotExist(err) {
		return stageOutcome{}, fmt.Errorf("failed to remove stale partial download: %w", err)
	}
	if err := p.source.Fetch(ctx, r.identifier, r.ws.VideoPart()); err != nil {
		return stageOutcome{}, err
	}
	if err := r.ws.CommitVideo(); err != nil {
		return stageOutcome{}, err
	}
	return stageOutcome{outputs: out}, nil
}

func (p *Pipeline) fetchSubtitles(ctx context.Context, r *run) (stageOutcome, error) {
	lang := p.opts.SubtitleLanguage
	if lang == "" {
		return stageOutcome{skipped: "no subtitle language configured"}, nil
	}
	fetcher, ok := p.source.(media.SubtitleFetcher)
	if !ok {
		return stageOutcome{skipped: "source does not provide subtitles"}, nil
	}

	path := r.ws.Subtitles(lang)
	out := output("subtitles", path)
	if utils.FileExists(path) {
		return stageOutcome{outputs: out, skipped: "subtitles already saved"}, nil
	}

	text, found, err := fetcher.FetchSubtitles(ctx, r.identifier, lang)
	if err != nil {
		utils.LogWarning("Could not fetch %s subtitles: %v", lang, err)
		return stageOutcome{skipped: fmt.Sprintf("subtitle fetch failed: %v", err)}, nil
	}
	if !found {
		utils.LogWarning("No %s subtitles available for %s", lang, r.meta.ID)
		return stageOutcome{skipped: "no subtitle track for " + lang}, nil
	}

	if err := utils.WriteTextFile(path, text); err != nil {
		return stageOutcome{}, err
	}
	return stageOutcome{outputs: out}, nil
}

func (p *Pipeline) transcribe(ctx context.Context, r *run) (stageOutcome, error) {
	out := output("transcript", r.ws.Transcript())
	if utils.FileExists(r.ws.Transcript()) {
		transcript, err := r.ws.LoadTranscript()
		if err != nil {
			return stageOutcome{}, err
		}
		r.transcript = transcript
		return stageOutcome{outputs: out, skipped: "transcript already exists"}, nil
	}

	transcript, err := p.transcriber.Transcribe(ctx, r.ws.Video(), p.opts.Language)
	if err != nil {
		return stageOutcome{}, err
	}
	if err := r.ws.SaveTranscript(transcript); err != nil {
		return stageOutcome{}, err
	}
	r.transcript = transcript
	return stageOutcome{outputs: out}, nil
}

func (p *Pipeline) summarize(ctx context.Context, r *run) (stageOutcome, error) {
	out := output("summary", r.ws.RawSummary())
	if utils.FileExists(r.ws.RawSummary()) {
		text, err := utils.ReadTextFile(r.ws.RawSummary())
		if err != nil {
			return stageOutcome{}, err
		}
		r.rawSummary = text
		return stageOutcome{outputs: out, skipped: "raw summary already exists"}, nil
	}

	text, err := p.narrator.Summarize(ctx, r.meta, r.transcript)
	if err != nil {
		return stageOutcome{}, err
	}
	if err := utils.WriteTextFile(r.ws.RawSummary(), text); err != nil {
		return stageOutcome{}, err
	}
	r.rawSummary = text
	return stageOutcome{outputs: out}, nil
}

// selectHighlights decides whether the screenshot checkpoint can be reused.
// When it cannot, it asks for timestamps and leaves them for extraction.
func (p *Pipeline) selectHighlights(ctx context.Context, r *run) (stageOutcome, error) {
	r.summaryHash = workspace.SummaryHash(r.rawSummary)

	if r.ws.HasScreenshots() {
		recorded, ok := r.ws.RecordedSummaryHash()
		stale := ok && recorded != r.summaryHash

		switch {
		case stale && p.opts.HighlightCheck == config.HighlightCheckSummaryHash:
			utils.LogWarning("Raw summary changed since screenshots were taken, selecting highlights again")
			if err := r.ws.RemoveScreenshots(); err != nil {
				return stageOutcome{}, err
			}
		default:
			if stale {
				utils.LogWarning("Raw summary changed since screenshots were taken; reusing them (set HIGHLIGHT_CHECK=%s to refresh)", config.HighlightCheckSummaryHash)
			}
			shots, err := r.ws.LoadScreenshots()
			if err != nil {
				return stageOutcome{}, err
			}
			r.screenshots = shots
			return stageOutcome{skipped: "screenshots already exist"}, nil
		}
	}

	timestamps, err := p.selector.Select(ctx, r.meta, r.rawSummary, r.transcript)
	if err != nil {
		return stageOutcome{}, err
	}
	r.needSelect = true
	r.screenshots = make([]model.Screenshot, 0, len(timestamps))
	for _, ts := range timestamps {
		r.screenshots = append(r.screenshots, model.Screenshot{Timestamp: ts})
	}
	return stageOutcome{outputs: output("count", fmt.Sprint(len(timestamps)))}, nil
}

func (p *Pipeline) extractScreenshots(ctx context.Context, r *run) (stageOutcome, error) {
	out := output("screenshots", r.ws.Screenshots())
	if !r.needSelect {
		return stageOutcome{outputs: out, skipped: "screenshots already exist"}, nil
	}
	if len(r.screenshots) == 0 {
		utils.LogWarning("No highlights were selected, the summary will have no images")
		return stageOutcome{skipped: "no highlights selected"}, nil
	}

	timestamps := make([]float64, len(r.screenshots))
	for i, s := range r.screenshots {
		timestamps[i] = s.Timestamp
	}

	images, err := p.frames.ExtractMany(ctx, r.ws.Video(), timestamps, nil)
	if err != nil {
		return stageOutcome{}, err
	}
	for i := range r.screenshots {
		r.screenshots[i].Data = images[i]
	}

	if err := r.ws.SaveScreenshots(r.screenshots, r.summaryHash); err != nil {
		return stageOutcome{}, err
	}

	// Reload so a fresh run sees the same set a resumed run would
	shots, err := r.ws.LoadScreenshots()
	if err != nil {
		return stageOutcome{}, err
	}
	r.screenshots = shots
	return stageOutcome{outputs: out}, nil
}

func (p *Pipeline) enhance(ctx context.Context, r *run) (stageOutcome, error) {
	text, err := p.narrator.Enhance(ctx, r.rawSummary, r.transcript, r.screenshots)
	if err != nil {
		return stageOutcome{}, err
	}
	if err := utils.WriteTextFile(r.ws.Summary(), text); err != nil {
		return stageOutcome{}, err
	}
	return stageOutcome{outputs: output("summary", r.ws.Summary())}, nil
}
