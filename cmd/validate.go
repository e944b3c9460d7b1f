package cmd

import (
	"fmt"
	"strconv"

	"github.com/gnzdotmx/videonote/internal/config"
	"github.com/gnzdotmx/videonote/internal/utils"
	"github.com/gnzdotmx/videonote/internal/validator"
	"github.com/gnzdotmx/videonote/pkg/executor"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate environment setup",
	Long:  `Check if all required external tools and configurations are properly set up.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		utils.LogInfo("Validating environment...")

		cfg, err := config.Read()
		if err != nil {
			return err
		}

		checks, err := validator.New(executor.New(), cfg).Run(cmd.Context())

		rows := make([][]string, 0, len(checks))
		for _, c := range checks {
			status := utils.Success("ok")
			switch {
			case !c.OK && c.Required:
				status = utils.Error("missing")
			case !c.OK:
				status = utils.Warning("optional")
			}
			rows = append(rows, []string{c.Name, status, strconv.FormatBool(c.Required), c.Detail})
		}
		utils.RenderTable(cmd.OutOrStdout(), []string{"Check", "Status", "Required", "Detail"}, rows)

		if err != nil {
			return fmt.Errorf("environment validation failed: %w", err)
		}
		utils.LogSuccess("Environment validation completed successfully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
