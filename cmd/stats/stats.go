// Package stats implements the stats command
package stats

import (
	"fjacquet/fintrack/cmd/common"
	"fjacquet/fintrack/internal/container"
	"fjacquet/fintrack/internal/logging"
	"fjacquet/fintrack/internal/models"

	"github.com/spf13/cobra"
)

var (
	showRules       bool
	recentCorrected int
)

// Report is the JSON document printed by the stats command.
type Report struct {
	models.EngineStats
	Rules       []models.CategorizationRule `json:"rules,omitempty"`
	Corrections []models.Correction         `json:"corrections,omitempty"`
}

// Cmd represents the stats command
var Cmd = &cobra.Command{
	Use:   "stats",
	Short: "Show rule, classifier and correction statistics",
	RunE:  statsFunc,
}

func init() {
	Cmd.Flags().BoolVarP(&showRules, "rules", "r", false, "Include every learned rule")
	Cmd.Flags().IntVarP(&recentCorrected, "corrections", "n", 0, "Include the N most recent corrections")
}

func statsFunc(cmd *cobra.Command, args []string) error {
	return common.WithContainer(func(c *container.Container) error {
		ctx := cmd.Context()
		stats, err := c.GetEngine().GetStats(ctx)
		if err != nil {
			return err
		}
		stats.LogSummary(c.GetLogger().WithField(logging.FieldOperation, "stats"))

		report := Report{EngineStats: stats}
		if showRules {
			if report.Rules, err = c.GetEngine().ListRules(ctx); err != nil {
				return err
			}
		}
		if recentCorrected > 0 {
			if report.Corrections, err = c.GetStorage().ListCorrections(ctx, recentCorrected); err != nil {
				return err
			}
		}
		return common.PrintJSON(cmd.OutOrStdout(), report)
	})
}
