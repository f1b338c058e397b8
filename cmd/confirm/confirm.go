// Package confirm commits a staged import to the ledger
package confirm

import (
	"fjacquet/statement-import/cmd/common"
	"fjacquet/statement-import/cmd/root"

	"github.com/spf13/cobra"
)

// Flags of the confirm command
var (
	KeepDuplicates bool
	Selected       []int
)

// Cmd represents the confirm command
var Cmd = &cobra.Command{
	Use:   "confirm <import-id>",
	Short: "Commit a staged import to the ledger",
	Long: `Commit a staged import to the ledger. Rows flagged as duplicates are skipped
unless --keep-duplicates is given. --select restricts the import to the listed
row numbers as shown by preview; --select "" imports nothing and only closes
the import.`,
	Args: cobra.ExactArgs(1),
	RunE: confirmFunc,
}

func init() {
	Cmd.Flags().BoolVar(&KeepDuplicates, "keep-duplicates", false, "Also import rows flagged as duplicates")
	Cmd.Flags().IntSliceVar(&Selected, "select", nil, "Row numbers to import (default: all)")
}

func confirmFunc(cmd *cobra.Command, args []string) error {
	var selected []int
	if cmd.Flags().Changed("select") {
		selected = append([]int{}, Selected...)
	}
	result, err := root.GetContainer().GetOrchestrator().Confirm(cmd.Context(), args[0], !KeepDuplicates, selected)
	if err != nil {
		return err
	}
	return common.WriteConfirm(cmd.OutOrStdout(), result, root.SharedFlags.JSON)
}
