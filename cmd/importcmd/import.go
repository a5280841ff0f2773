// Package importcmd implements the import command
package importcmd

import (
	"fmt"
	"os"

	"fjacquet/fintrack/cmd/common"
	"fjacquet/fintrack/internal/container"
	"fjacquet/fintrack/internal/validation"

	"github.com/spf13/cobra"
)

var trainAfter bool

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import <file.csv>...",
	Short: "Import labeled transactions used as training data",
	Long: `Import reads CSV files with a header row containing at least a description
column and optionally id, category_id, amount and date. Comma and semicolon
separators are detected from the header.`,
	Args: cobra.MinimumNArgs(1),
	RunE: importFunc,
}

func init() {
	Cmd.Flags().BoolVar(&trainAfter, "train", false, "Train the classifier after importing")
}

func importFunc(cmd *cobra.Command, args []string) error {
	return common.WithContainer(func(c *container.Container) error {
		for _, path := range args {
			if err := validation.IsValidInputFile(path, ".csv", ".txt"); err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening %s: %w", path, err)
			}
			res, err := c.GetImporter().Import(cmd.Context(), f)
			f.Close()
			if err != nil {
				return fmt.Errorf("importing %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d imported (%d labeled), %d skipped\n",
				path, res.Imported, res.Labeled, res.Skipped)
		}

		if !trainAfter {
			return nil
		}
		result, err := c.GetEngine().TrainMLModel(cmd.Context())
		if err = common.DemoteWarning(err); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	})
}
