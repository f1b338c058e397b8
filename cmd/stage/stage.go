// Package stage parses a statement into a pending import
package stage

import (
	"fmt"
	"path/filepath"

	"fjacquet/statement-import/cmd/common"
	"fjacquet/statement-import/cmd/root"
	"fjacquet/statement-import/internal/fileutils"
	"fjacquet/statement-import/internal/importer"
	"fjacquet/statement-import/internal/models"

	"github.com/spf13/cobra"
)

// Flags of the stage command
var (
	Input          string
	AccountID      string
	Profile        string
	Mapping        map[string]string
	NoCategorize   bool
	Confirm        bool
	KeepDuplicates bool
)

// Cmd represents the stage command
var Cmd = &cobra.Command{
	Use:   "stage",
	Short: "Stage a statement for review",
	Long: `Stage a statement for review. The file is parsed, categorized and checked
for duplicates against the ledger; nothing is written to the ledger until the
import is confirmed.

Examples:
  statement-import stage -i statement.csv -a cheque
  statement-import stage -i export.csv -a savings --profile fnb
  statement-import stage -i odd.csv --map date=Posted,description=Memo,amount=Value`,
	RunE: stageFunc,
}

func init() {
	Cmd.Flags().StringVarP(&Input, "input", "i", "", "Statement file to import")
	Cmd.Flags().StringVarP(&AccountID, "account", "a", "default", "Account the transactions belong to")
	Cmd.Flags().StringVar(&Profile, "profile", "", "Bank profile to use instead of header detection")
	Cmd.Flags().StringToStringVar(&Mapping, "map", nil, "Explicit column mapping as role=column pairs")
	Cmd.Flags().BoolVar(&NoCategorize, "no-categorize", false, "Do not suggest categories")
	Cmd.Flags().BoolVar(&Confirm, "confirm", false, "Confirm the import right after staging")
	Cmd.Flags().BoolVar(&KeepDuplicates, "keep-duplicates", false, "With --confirm, also import rows flagged as duplicates")
	_ = Cmd.MarkFlagRequired("input")
}

// Options converts the profile and mapping flags to stage options.
func Options(profile string, mapping map[string]string) ([]importer.StageOption, error) {
	var opts []importer.StageOption
	if profile != "" {
		opts = append(opts, importer.WithProfile(profile))
	}
	m, err := common.ParseMapping(mapping)
	if err != nil {
		return nil, err
	}
	if m != nil {
		opts = append(opts, importer.WithMapping(*m))
	}
	return opts, nil
}

func stageFunc(cmd *cobra.Command, args []string) error {
	opts, err := Options(Profile, Mapping)
	if err != nil {
		return err
	}
	content, err := fileutils.ReadFile(Input)
	if err != nil {
		return err
	}

	orchestrator := root.GetContainer().GetOrchestrator()
	batch, err := orchestrator.Stage(cmd.Context(), content, filepath.Base(Input), AccountID, !NoCategorize, opts...)
	if err != nil {
		return err
	}
	if !Confirm {
		return common.WriteBatch(cmd.OutOrStdout(), batch, root.SharedFlags.JSON)
	}

	result, err := orchestrator.Confirm(cmd.Context(), batch.ImportID, !KeepDuplicates, nil)
	if err != nil {
		return fmt.Errorf("staged %s but confirm failed: %w", batch.ImportID, err)
	}
	if root.SharedFlags.JSON {
		return common.WriteJSON(cmd.OutOrStdout(), struct {
			Batch  *models.ImportBatch   `json:"batch"`
			Result *models.ConfirmResult `json:"result"`
		}{batch, result})
	}
	if err := common.WriteBatch(cmd.OutOrStdout(), batch, false); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return common.WriteConfirm(cmd.OutOrStdout(), result, false)
}
