// Package train implements the train command
package train

import (
	"fjacquet/fintrack/cmd/common"
	"fjacquet/fintrack/cmd/root"
	"fjacquet/fintrack/internal/container"

	"github.com/spf13/cobra"
)

// Cmd represents the train command
var Cmd = &cobra.Command{
	Use:   "train",
	Short: "Train the classifier from labeled transactions",
	Long: `Train rebuilds the TF-IDF classifier from every imported transaction that
carries a category id. Categories with fewer than the minimum number of
samples are left out of the model.`,
	RunE: trainFunc,
}

func trainFunc(cmd *cobra.Command, args []string) error {
	return common.WithContainer(func(c *container.Container) error {
		result, err := c.GetEngine().TrainMLModel(cmd.Context())
		if err = common.DemoteWarning(err); err != nil {
			return err
		}
		if result.Success {
			root.Log.Info(result.Message)
		} else {
			root.Log.Warn(result.Message)
		}
		return common.PrintJSON(cmd.OutOrStdout(), result)
	})
}
