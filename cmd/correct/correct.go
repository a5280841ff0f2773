// Package correct implements the correct command
package correct

import (
	"fmt"

	"fjacquet/fintrack/cmd/common"
	"fjacquet/fintrack/cmd/root"
	"fjacquet/fintrack/internal/container"
	"fjacquet/fintrack/internal/models"

	"github.com/spf13/cobra"
)

var (
	transactionID int64
	oldCategoryID int64
	newCategoryID int64
	description   string
)

// Cmd represents the correct command
var Cmd = &cobra.Command{
	Use:   "correct",
	Short: "Record a user correction and learn from it",
	Long: `Correct records that a transaction belongs to a different category. The
description becomes a rule and a classifier sample for the new category.`,
	RunE: correctFunc,
}

func init() {
	Cmd.Flags().Int64VarP(&transactionID, "transaction", "t", 0, "Transaction id being corrected")
	Cmd.Flags().Int64VarP(&oldCategoryID, "old", "o", 0, "Previous category id (optional)")
	Cmd.Flags().Int64VarP(&newCategoryID, "category", "k", 0, "Correct category id")
	Cmd.Flags().StringVarP(&description, "description", "d", "", "Transaction description")
	_ = Cmd.MarkFlagRequired("transaction")
	_ = Cmd.MarkFlagRequired("category")
	_ = Cmd.MarkFlagRequired("description")
}

func correctFunc(cmd *cobra.Command, args []string) error {
	in := models.CorrectionInput{
		TransactionID: transactionID,
		NewCategoryID: newCategoryID,
		Description:   description,
	}
	if cmd.Flags().Changed("old") {
		old := oldCategoryID
		in.OldCategoryID = &old
	}

	return common.WithContainer(func(c *container.Container) error {
		if _, ok := c.GetStore().CategoryByID(in.NewCategoryID); !ok {
			root.Log.Warnf("Category %d is not in the catalog", in.NewCategoryID)
		}
		if err := common.DemoteWarning(c.GetEngine().LearnFromCorrection(cmd.Context(), in)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Correction recorded: %q -> %d\n", in.Description, in.NewCategoryID)
		return nil
	})
}
