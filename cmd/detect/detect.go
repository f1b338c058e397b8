// Package detect reports the extraction strategy chosen for a file
package detect

import (
	"fmt"

	"fjacquet/statement-import/cmd/common"
	"fjacquet/statement-import/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the detect command
var Cmd = &cobra.Command{
	Use:   "detect <file>",
	Short: "Detect the format of a statement file",
	Long: `Detect the format of a statement file from its extension.

Supported extensions: .csv (delimited text), .xlsx and .xls (spreadsheet),
.pdf (text layout), .ofx and .qfx (structured exchange).`,
	Args: cobra.ExactArgs(1),
	RunE: detectFunc,
}

func detectFunc(cmd *cobra.Command, args []string) error {
	format, err := root.GetContainer().GetOrchestrator().DetectFormat(args[0])
	if err != nil {
		return err
	}
	if root.SharedFlags.JSON {
		return common.WriteJSON(cmd.OutOrStdout(), map[string]string{"file": args[0], "format": format.String()})
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], format)
	return err
}
