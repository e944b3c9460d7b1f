// Package workspace manages the per-video checkpoint directory
package workspace

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gnzdotmx/videonote/internal/model"
	"github.com/gnzdotmx/videonote/internal/utils"
)

// Well-known checkpoint names inside a workspace
const (
	VideoFile         = "video.mp4"
	VideoPartFile     = "video.part.mp4"
	TranscriptFile    = "transcription.txt"
	RawSummaryFile    = "summary-raw.md"
	SummaryFile       = "summary.md"
	ScreenshotsDir    = "screenshots"
	StateFile         = "run.state.yaml"
	screenshotsTmpDir = "screenshots.tmp"
	summaryHashFile   = ".summary.sha256"
	screenshotExt     = ".jpg"
)

// Workspace is the results directory of one video
type Workspace struct {
	ID  string
	Dir string
}

// New returns the workspace for id under root without touching the disk
func New(root, id string) (*Workspace, error) {
	if id == "" {
		return nil, &utils.ValidationError{Field: "id", Message: "is required"}
	}
	if id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return nil, &utils.ValidationError{Field: "id", Message: fmt.Sprintf("%q is not usable as a directory name", id)}
	}
	return &Workspace{ID: id, Dir: filepath.Join(root, id)}, nil
}

// Ensure creates the workspace directory
func (w *Workspace) Ensure() error {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create workspace %s: %w", w.Dir, err)
	}
	return nil
}

func (w *Workspace) Path(name string) string { return filepath.Join(w.Dir, name) }

func (w *Workspace) Video() string          { return w.Path(VideoFile) }
func (w *Workspace) VideoPart() string      { return w.Path(VideoPartFile) }
func (w *Workspace) Transcript() string     { return w.Path(TranscriptFile) }
func (w *Workspace) RawSummary() string     { return w.Path(RawSummaryFile) }
func (w *Workspace) Summary() string        { return w.Path(SummaryFile) }
func (w *Workspace) Screenshots() string    { return w.Path(ScreenshotsDir) }
func (w *Workspace) State() string          { return w.Path(StateFile) }
func (w *Workspace) screenshotsTmp() string { return w.Path(screenshotsTmpDir) }

// Subtitles is the path of the subtitle track for lang
func (w *Workspace) Subtitles(lang string) string {
	return w.Path(fmt.Sprintf("subtitles.%s.vtt", lang))
}

// LoadTranscript reads the transcript checkpoint
func (w *Workspace) LoadTranscript() (model.Transcript, error) {
	text, err := utils.ReadTextFile(w.Transcript())
	if err != nil {
		return model.Transcript{}, err
	}
	return model.ParseTranscript(text), nil
}

// SaveTranscript writes the transcript checkpoint
func (w *Workspace) SaveTranscript(t model.Transcript) error {
	return utils.WriteTextFile(w.Transcript(), t.String())
}

// CommitVideo moves a completed partial download into place
func (w *Workspace) CommitVideo() error {
	if !utils.FileExists(w.VideoPart()) {
		return &utils.NotFoundError{Path: w.VideoPart()}
	}
	if err := os.Rename(w.VideoPart(), w.Video()); err != nil {
		return fmt.Errorf("failed to move download into place: %w", err)
	}
	return nil
}

// HasScreenshots reports whether the screenshot checkpoint exists
func (w *Workspace) HasScreenshots() bool {
	return utils.DirExists(w.Screenshots())
}

// LoadScreenshots reads every image in the screenshot directory, ordered by
// timestamp. Files whose stem is not a number are skipped with a warning.
func (w *Workspace) LoadScreenshots() ([]model.Screenshot, error) {
	entries, err := os.ReadDir(w.Screenshots())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &utils.NotFoundError{Path: w.Screenshots(), Err: err}
		}
		return nil, fmt.Errorf("failed to read screenshots: %w", err)
	}

	var shots []model.Screenshot
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || !strings.EqualFold(ext, screenshotExt) {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), ext)
		ts, err := model.ParseTimestamp(stem)
		if err != nil {
			utils.LogWarning("Skipping screenshot with unexpected name %s", e.Name())
			continue
		}
		data, err := os.ReadFile(filepath.Join(w.Screenshots(), e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read screenshot %s: %w", e.Name(), err)
		}
		shots = append(shots, model.Screenshot{Timestamp: ts, Data: data})
	}

	sort.SliceStable(shots, func(i, j int) bool { return shots[i].Timestamp < shots[j].Timestamp })
	return shots, nil
}

// SaveScreenshots writes the images into a staging directory and renames it
// to the screenshot checkpoint once all of them are on disk. summaryHash is
// recorded next to the images. No directory is created for an empty set.
func (w *Workspace) SaveScreenshots(shots []model.Screenshot, summaryHash string) error {
	if len(shots) == 0 {
		return nil
	}

	tmp := w.screenshotsTmp()
	if err := os.RemoveAll(tmp); err != nil {
		return fmt.Errorf("failed to clear screenshot staging directory: %w", err)
	}
	if err := os.MkdirAll(tmp, 0755); err != nil {
		return fmt.Errorf("failed to create screenshot staging directory: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := os.RemoveAll(tmp); err != nil {
				utils.LogWarning("Failed to remove %s: %v", tmp, err)
			}
		}
	}()

	for _, s := range shots {
		name := model.FormatTimestamp(s.Timestamp) + screenshotExt
		if err := utils.WriteBinaryFile(filepath.Join(tmp, name), s.Data); err != nil {
			return fmt.Errorf("failed to write screenshot %s: %w", name, err)
		}
	}
	if summaryHash != "" {
		if err := utils.WriteTextFile(filepath.Join(tmp, summaryHashFile), summaryHash+"\n"); err != nil {
			return fmt.Errorf("failed to record summary hash: %w", err)
		}
	}
	if err := utils.SyncDir(tmp); err != nil {
		return err
	}

	if err := os.Rename(tmp, w.Screenshots()); err != nil {
		return fmt.Errorf("failed to move screenshots into place: %w", err)
	}
	if err := utils.SyncDir(w.Dir); err != nil {
		utils.LogWarning("Screenshots saved but %s was not synced: %v", w.Dir, err)
	}
	committed = true
	return nil
}

// RemoveScreenshots deletes the screenshot checkpoint
func (w *Workspace) RemoveScreenshots() error {
	if err := os.RemoveAll(w.Screenshots()); err != nil {
		return fmt.Errorf("failed to remove screenshots: %w", err)
	}
	return nil
}

// RecordedSummaryHash returns the raw summary hash stored with the screenshots
func (w *Workspace) RecordedSummaryHash() (string, bool) {
	data, err := os.ReadFile(filepath.Join(w.Screenshots(), summaryHashFile))
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

// SummaryHash is the hex SHA-256 of a summary text
func SummaryHash(summary string) string {
	sum := sha256.Sum256([]byte(summary))
	return hex.EncodeToString(sum[:])
}

// Info describes a workspace found on disk
type Info struct {
	ID      string
	Dir     string
	ModTime time.Time
}

// List returns the workspaces under root, newest first. A missing root yields no workspaces.
func List(root string) ([]Info, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read results directory: %w", err)
	}

	var list []Info
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			utils.LogWarning("Skipping %s: %v", e.Name(), err)
			continue
		}
		list = append(list, Info{ID: e.Name(), Dir: filepath.Join(root, e.Name()), ModTime: info.ModTime()})
	}

	sort.Slice(list, func(i, j int) bool { return list[i].ModTime.After(list[j].ModTime) })
	return list, nil
}
