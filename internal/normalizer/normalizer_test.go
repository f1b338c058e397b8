package normalizer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textRow(n int, cells ...string) models.RawRow {
	row := models.RawRow{SourceRow: n}
	for _, c := range cells {
		row.Cells = append(row.Cells, models.TextCell(c))
	}
	return row
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalize_AmountColumn(t *testing.T) {
	ex := &models.Extraction{
		Header: []string{"Date", "Description", "Amount", "Balance"},
		Rows: []models.RawRow{
			textRow(1, "2025-10-06", "  Woolworths ", "-450.00", "1200.00"),
			textRow(2, "2025-10-07", "Refund", "(1,234.56)", "n/a"),
			textRow(3, "07/10/2025", "Salary", "R 25 000.00", ""),
		},
	}
	mapping := models.ColumnMapping{Date: "Date", Description: "Description", Amount: "Amount", Balance: "Balance"}

	res, err := NewNormalizer(logging.NewMockLogger(), 0).Normalize(context.Background(), ex, mapping, "acc_1")
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	require.Len(t, res.Transactions, 3)

	first := res.Transactions[0]
	assert.Equal(t, day(2025, 10, 6), first.Date)
	assert.Equal(t, "Woolworths", first.Description)
	assert.True(t, decimal.RequireFromString("-450.00").Equal(first.Amount))
	require.NotNil(t, first.Balance)
	assert.True(t, decimal.NewFromInt(1200).Equal(*first.Balance))
	assert.Equal(t, models.TypeExpense, first.Type)
	assert.Equal(t, "acc_1", first.AccountID)
	assert.Equal(t, 1, first.SourceRow)

	assert.True(t, decimal.RequireFromString("-1234.56").Equal(res.Transactions[1].Amount))
	assert.Nil(t, res.Transactions[1].Balance, "unreadable balance is ignored")

	assert.Equal(t, models.TypeIncome, res.Transactions[2].Type)
	assert.True(t, decimal.NewFromInt(25000).Equal(res.Transactions[2].Amount))
}

func TestNormalize_RowFailureIsolation(t *testing.T) {
	ex := &models.Extraction{Header: []string{"Date", "Description", "Amount"}}
	for i := 1; i <= 10; i++ {
		amount := fmt.Sprintf("-%d.00", i)
		if i == 4 {
			amount = "abc"
		}
		ex.Rows = append(ex.Rows, textRow(i, "2025-10-01", fmt.Sprintf("row %d", i), amount))
	}
	ex.Rows = append(ex.Rows,
		textRow(11, "not a date", "bad date", "1.00"),
		textRow(12, "2025-10-01", "   ", "1.00"),
	)
	mapping := models.ColumnMapping{Date: "Date", Description: "Description", Amount: "Amount"}

	mock := logging.NewMockLogger()
	res, err := NewNormalizer(mock, 0).Normalize(context.Background(), ex, mapping, "acc")
	require.NoError(t, err)
	assert.Len(t, res.Transactions, 9)
	require.Len(t, res.Errors, 3)

	assert.Equal(t, models.RowError{Row: 4, Field: "amount", Value: "abc", Message: res.Errors[0].Message}, res.Errors[0])
	assert.Equal(t, 11, res.Errors[1].Row)
	assert.Equal(t, "date", res.Errors[1].Field)
	assert.Equal(t, "description", res.Errors[2].Field)
	assert.True(t, mock.HasEntry("WARN", "Dropping unparseable row"))

	for i, tx := range res.Transactions[:3] {
		assert.Equal(t, i+1, tx.SourceRow, "source order is preserved")
	}
}

func TestNormalize_DebitCredit(t *testing.T) {
	ex := &models.Extraction{
		Header: []string{"Date", "Details", "Debit", "Credit"},
		Rows: []models.RawRow{
			textRow(1, "06/10/2025", "Rent", "8,500.00", ""),
			textRow(2, "07/10/2025", "Salary", "", "25,000.00"),
			textRow(3, "08/10/2025", "Reversal", "0.00", "120.00"),
			textRow(4, "09/10/2025", "Nothing", "", ""),
			textRow(5, "10/10/2025", "Bad", "x", ""),
		},
	}
	mapping := models.ColumnMapping{
		Date: "Date", Description: "Details", Debit: "Debit", Credit: "Credit", DateFormat: "%d/%m/%Y",
	}

	res, err := NewNormalizer(nil, 0).Normalize(context.Background(), ex, mapping, "acc")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 3)
	assert.Equal(t, day(2025, 10, 6), res.Transactions[0].Date, "day-first hint")
	assert.True(t, decimal.NewFromInt(-8500).Equal(res.Transactions[0].Amount))
	assert.True(t, decimal.NewFromInt(25000).Equal(res.Transactions[1].Amount))
	assert.True(t, decimal.NewFromInt(120).Equal(res.Transactions[2].Amount))

	require.Len(t, res.Errors, 2)
	assert.Equal(t, 4, res.Errors[0].Row)
	assert.Equal(t, "debit", res.Errors[1].Field)
}

func TestNormalize_MixedLayoutAndTypedCells(t *testing.T) {
	posted := time.Date(2025, 10, 6, 14, 30, 0, 0, time.UTC)
	amount := decimal.RequireFromString("-85.50")
	ex := &models.Extraction{
		Header: []string{"Date", "Description", "Amount", "Debit", "Credit", "Balance", "ExternalID"},
		Rows: []models.RawRow{
			{SourceRow: 1, Cells: []models.Cell{
				models.DateCell(posted), models.TextCell("Uber"), models.AmountCell(amount),
				{}, {}, {}, models.TextCell(" FIT-1 "),
			}},
			textRow(2, "07/10/2025", "Fee", "", "15.00", "", "985.00"),
		},
	}
	mapping := models.ColumnMapping{
		Date: "Date", Description: "Description", Amount: "Amount", Debit: "Debit",
		Credit: "Credit", Balance: "Balance", ExternalID: "ExternalID",
	}

	res, err := NewNormalizer(nil, 0).Normalize(context.Background(), ex, mapping, "acc")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, day(2025, 10, 6), res.Transactions[0].Date)
	assert.True(t, amount.Equal(res.Transactions[0].Amount))
	assert.Equal(t, "FIT-1", res.Transactions[0].ExternalID)
	assert.True(t, decimal.NewFromInt(-15).Equal(res.Transactions[1].Amount))
}

func TestNormalize_InvalidDateFormatHintIsIgnored(t *testing.T) {
	ex := &models.Extraction{
		Header: []string{"Date", "Description", "Amount"},
		Rows:   []models.RawRow{textRow(1, "2025-10-06", "Shop", "1.00")},
	}
	mock := logging.NewMockLogger()
	mapping := models.ColumnMapping{Date: "Date", Description: "Description", Amount: "Amount", DateFormat: "%Q"}

	res, err := NewNormalizer(mock, 0).Normalize(context.Background(), ex, mapping, "acc")
	require.NoError(t, err)
	assert.Len(t, res.Transactions, 1)
	assert.True(t, mock.HasEntry("WARN", "Ignoring date format hint"))
}

func TestNormalize_LargeInputKeepsOrder(t *testing.T) {
	ex := &models.Extraction{Header: []string{"Date", "Description", "Amount"}}
	for i := 1; i <= 500; i++ {
		ex.Rows = append(ex.Rows, textRow(i, "2025-10-01", fmt.Sprintf("tx %d", i), fmt.Sprintf("%d.00", i)))
	}
	mapping := models.ColumnMapping{Date: "Date", Description: "Description", Amount: "Amount"}

	res, err := NewNormalizer(nil, 10).Normalize(context.Background(), ex, mapping, "acc")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 500)
	for i, tx := range res.Transactions {
		assert.Equal(t, i+1, tx.SourceRow)
	}
}
