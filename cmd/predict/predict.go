// Package predict implements the predict command
package predict

import (
	"errors"
	"strings"

	"fjacquet/fintrack/cmd/common"
	"fjacquet/fintrack/internal/container"

	"github.com/spf13/cobra"
)

// Output is the JSON document printed for each description.
type Output struct {
	Description  string  `json:"description"`
	CategoryID   *int64  `json:"category_id"`
	CategoryName string  `json:"category_name,omitempty"`
	Tier         string  `json:"tier,omitempty"`
	Score        float64 `json:"score,omitempty"`
}

// Cmd represents the predict command
var Cmd = &cobra.Command{
	Use:   "predict <description>...",
	Short: "Predict the category of one or more transaction descriptions",
	Long: `Predict runs each description through the classifier, the learned rules
and finally the default category, and prints the first hit.`,
	Args: cobra.MinimumNArgs(1),
	RunE: predictFunc,
}

func predictFunc(cmd *cobra.Command, args []string) error {
	for _, desc := range args {
		if strings.TrimSpace(desc) == "" {
			return errors.New("description must not be empty")
		}
	}

	return common.WithContainer(func(c *container.Container) error {
		batch, err := c.GetEngine().PredictBatch(cmd.Context(), args)
		if err != nil {
			return err
		}

		out := make([]Output, 0, len(batch))
		for _, b := range batch {
			o := Output{Description: b.Description}
			if b.Found {
				id := b.Prediction.CategoryID
				o.CategoryID = &id
				o.Tier = b.Prediction.Tier
				o.Score = b.Prediction.Score
				if cat, ok := c.GetStore().CategoryByID(id); ok {
					o.CategoryName = cat.Name
				}
			}
			out = append(out, o)
		}
		return common.PrintJSON(cmd.OutOrStdout(), out)
	})
}
