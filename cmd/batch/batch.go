// Package batch handles batch processing of files
package batch

import (
	"fjacquet/statement-import/cmd/common"
	"fjacquet/statement-import/cmd/root"
	"fjacquet/statement-import/cmd/stage"

	"github.com/spf13/cobra"
)

// Flags of the batch command
var (
	InputDir       string
	AccountID      string
	Profile        string
	NoCategorize   bool
	KeepDuplicates bool
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Import every statement in a directory",
	Long: `Stage and confirm every supported statement in a directory.

Without --account, each file is assigned to the account named by the part of
its file name before the first underscore ("cheque_2024-01.csv" goes to
"cheque"). Rows flagged as duplicates are skipped. A file that fails does not
stop the others.

Example:
  statement-import batch -i statements/`,
	Args: cobra.NoArgs,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().StringVarP(&InputDir, "input", "i", "", "Directory holding the statements")
	Cmd.Flags().StringVarP(&AccountID, "account", "a", "", "Account for every file (default: derived from file names)")
	Cmd.Flags().StringVar(&Profile, "profile", "", "Bank profile to use for every file")
	Cmd.Flags().BoolVar(&NoCategorize, "no-categorize", false, "Do not suggest categories")
	Cmd.Flags().BoolVar(&KeepDuplicates, "keep-duplicates", false, "Also import rows flagged as duplicates")
	_ = Cmd.MarkFlagRequired("input")
}

func batchFunc(cmd *cobra.Command, args []string) error {
	opts, err := stage.Options(Profile, nil)
	if err != nil {
		return err
	}

	runner := root.GetContainer().GetBatchRunner()
	runner.AutoCategorize = !NoCategorize
	runner.SkipDuplicates = !KeepDuplicates
	runner.StageOptions = opts

	summary, err := runner.Run(cmd.Context(), InputDir, AccountID)
	if err != nil {
		return err
	}
	return common.WriteSummary(cmd.OutOrStdout(), summary, root.SharedFlags.JSON)
}
