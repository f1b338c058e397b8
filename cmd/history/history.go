// Package history lists completed imports
package history

import (
	"fjacquet/statement-import/cmd/common"
	"fjacquet/statement-import/cmd/root"

	"github.com/spf13/cobra"
)

// Limit caps the number of entries shown; 0 uses the configured limit.
var Limit int

// Cmd represents the history command
var Cmd = &cobra.Command{
	Use:   "history",
	Short: "List completed imports",
	Long:  `List completed imports, newest first.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit := Limit
		if limit <= 0 {
			limit = root.GetConfig().Import.HistoryLimit
		}
		entries, err := root.GetContainer().GetOrchestrator().History(limit)
		if err != nil {
			return err
		}
		return common.WriteHistory(cmd.OutOrStdout(), entries, root.SharedFlags.JSON)
	},
}

func init() {
	Cmd.Flags().IntVarP(&Limit, "limit", "n", 0, "Maximum number of imports to show")
}
