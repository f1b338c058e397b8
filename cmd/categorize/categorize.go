// Package categorize handles transaction categorization commands
package categorize

import (
	"fmt"

	"fjacquet/statement-import/cmd/common"
	"fjacquet/statement-import/cmd/root"
	"fjacquet/statement-import/internal/currencyutils"
	"fjacquet/statement-import/internal/models"

	"github.com/spf13/cobra"
)

// Flags of the categorize command
var (
	Description string
	Amount      string
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Suggest a category for a single transaction",
	Long: `Suggest a category for a single transaction from its description and amount.
Patterns learned from the ledger are applied first, then merchant and keyword
rules, the AI client when enabled, and finally the amount rules.

Example:
  statement-import categorize -d "WOOLWORTHS SANDTON" -a -250.00`,
	Args: cobra.NoArgs,
	RunE: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&Description, "description", "d", "", "Transaction description")
	Cmd.Flags().StringVarP(&Amount, "amount", "a", "0", "Transaction amount, negative for expenses")
	_ = Cmd.MarkFlagRequired("description")
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	amount, err := currencyutils.ParseAmount(Amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", Amount, err)
	}

	c := root.GetContainer()
	records, err := c.GetLedger().List()
	if err != nil {
		return err
	}
	cat := c.GetCategorizer().WithHistory(records)

	suggestion, results := cat.Explain(cmd.Context(), Description, amount)
	if root.SharedFlags.JSON {
		return common.WriteJSON(cmd.OutOrStdout(), struct {
			models.Suggestion
			Label      string `json:"label"`
			Strategies string `json:"strategies"`
		}{suggestion, suggestion.Label(), results.Summary()})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Category:   %s\n", suggestion.CategoryID)
	fmt.Fprintf(out, "Confidence: %.2f (%s)\n", suggestion.Confidence, suggestion.Label())
	fmt.Fprintf(out, "Tier:       %s\n", suggestion.Tier)
	if suggestion.Rule != "" {
		fmt.Fprintf(out, "Rule:       %s\n", suggestion.Rule)
	}
	_, err = fmt.Fprintf(out, "Strategies: %s\n", results.Summary())
	return err
}
