package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gnzdotmx/videonote/internal/config"
	"github.com/gnzdotmx/videonote/internal/utils"
	"github.com/gnzdotmx/videonote/internal/workflow"
	"github.com/gnzdotmx/videonote/internal/workspace"

	"github.com/spf13/cobra"
)

var (
	resultsDir    string
	keepLatest    int
	olderThanDays int
	cleanupDryRun bool
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Clean up old video workspaces",
	Long:  `Remove video workspaces from the results directory based on age or count.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if keepLatest <= 0 && olderThanDays <= 0 {
			return &utils.ValidationError{Field: "flags", Message: "set --keep-latest or --older-than"}
		}

		dir := resultsDir
		if dir == "" {
			cfg, err := config.Read()
			if err != nil {
				return err
			}
			dir = cfg.ResultsDir
		}

		list, err := workspace.List(dir)
		if err != nil {
			return err
		}

		toDelete := selectForCleanup(list, keepLatest, olderThanDays, time.Now())
		out := cmd.OutOrStdout()
		if len(toDelete) == 0 {
			fmt.Fprintln(out, "No workspaces to delete.")
			return nil
		}

		rows := make([][]string, 0, len(toDelete))
		for _, ws := range toDelete {
			rows = append(rows, []string{ws.ID, ws.ModTime.Format("2006-01-02 15:04"), lastRunStatus(ws)})
		}
		fmt.Fprintf(out, "Found %d workspaces to delete:\n", len(toDelete))
		utils.RenderTable(out, []string{"Video", "Modified", "Last run"}, rows)

		if cleanupDryRun {
			fmt.Fprintln(out, "Dry run - no workspaces were deleted.")
			return nil
		}

		for _, ws := range toDelete {
			utils.LogVerbose("Deleting %s", ws.Dir)
			if err := os.RemoveAll(ws.Dir); err != nil {
				utils.LogError("Error deleting %s: %v", ws.Dir, err)
			}
		}

		utils.LogSuccess("Cleanup completed.")
		return nil
	},
}

// selectForCleanup picks workspaces beyond the newest keep, plus any last
// modified more than olderThanDays ago. list must be ordered newest first.
func selectForCleanup(list []workspace.Info, keep, olderThanDays int, now time.Time) []workspace.Info {
	var cutoff time.Time
	if olderThanDays > 0 {
		cutoff = now.AddDate(0, 0, -olderThanDays)
	}

	var selected []workspace.Info
	for i, ws := range list {
		beyondKeep := keep > 0 && i >= keep
		tooOld := olderThanDays > 0 && ws.ModTime.Before(cutoff)
		if beyondKeep || tooOld {
			selected = append(selected, ws)
		}
	}
	return selected
}

func lastRunStatus(ws workspace.Info) string {
	state, err := workflow.LoadRunState(filepath.Join(ws.Dir, workspace.StateFile))
	if err != nil {
		return "-"
	}
	return string(state.Status)
}

func init() {
	cleanupCmd.Flags().StringVarP(&resultsDir, "dir", "d", "", "Results directory to clean up (defaults to RESULTS_DIR)")
	cleanupCmd.Flags().IntVarP(&keepLatest, "keep-latest", "k", 0, "Keep this many latest workspaces")
	cleanupCmd.Flags().IntVarP(&olderThanDays, "older-than", "o", 0, "Delete workspaces older than this many days")
	cleanupCmd.Flags().BoolVarP(&cleanupDryRun, "dry-run", "n", false, "Show what would be deleted without actually deleting")

	rootCmd.AddCommand(cleanupCmd)
}
