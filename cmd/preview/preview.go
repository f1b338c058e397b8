// Package preview shows a pending import
package preview

import (
	"fjacquet/statement-import/cmd/common"
	"fjacquet/statement-import/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the preview command
var Cmd = &cobra.Command{
	Use:   "preview <import-id>",
	Short: "Show a staged import",
	Long:  `Show the transactions of a staged import that has not been confirmed yet.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		batch, err := root.GetContainer().GetOrchestrator().GetPreview(args[0])
		if err != nil {
			return err
		}
		return common.WriteBatch(cmd.OutOrStdout(), batch, root.SharedFlags.JSON)
	},
}
