// Package currencyutils parses and formats the amount tokens found in bank statements.
package currencyutils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrEmptyAmount is returned for blank amount cells.
var ErrEmptyAmount = errors.New("empty amount")

var (
	symbolsAndSpaces = regexp.MustCompile(`[€$£¥₣₤₧₹₺₽₩฿₫₲₴₸₼₪\s\x{00A0}]`)
	leadingCode      = regexp.MustCompile(`^(?i:ZAR|CHF|EUR|USD|GBP|AUD|CAD|NZD|JPY|R)`)
	trailingCode     = regexp.MustCompile(`(?i:ZAR|CHF|EUR|USD|GBP|AUD|CAD|NZD|JPY)$`)
	plainNumber      = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)$`)
)

// ParseAmount parses a raw amount token into a signed decimal.
//
// Accepted notations include "1,234.56", "1.234,56", "1'234.56", "R 450.00",
// "ZAR -12", "(1,234.56)", "450.00-", "450.00 DR" and "450.00 CR". Parentheses,
// a trailing minus and a DR suffix make the amount negative.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	s := symbolsAndSpaces.ReplaceAllString(amountStr, "")
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	negative, body := stripSign(s)
	standardized := StandardizeAmount(body)
	if !plainNumber.MatchString(standardized) {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': not a number", amountStr)
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

// stripSign peels currency codes and sign notations off s until only the
// number is left, and reports whether the amount is negative.
func stripSign(s string) (bool, string) {
	negative := false
	credit := false
	for {
		before := s
		upper := strings.ToUpper(s)
		switch {
		case strings.HasSuffix(upper, "DR"):
			negative = true
			s = s[:len(s)-2]
		case strings.HasSuffix(upper, "CR"):
			credit = true
			s = s[:len(s)-2]
		case strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) > 2:
			negative = !negative
			s = s[1 : len(s)-1]
		case strings.HasPrefix(s, "-"):
			negative = !negative
			s = s[1:]
		case strings.HasPrefix(s, "+"):
			s = s[1:]
		case strings.HasSuffix(s, "-"):
			negative = !negative
			s = s[:len(s)-1]
		case leadingCode.MatchString(s):
			s = leadingCode.ReplaceAllString(s, "")
		case trailingCode.MatchString(s):
			s = trailingCode.ReplaceAllString(s, "")
		}
		if s == before || s == "" {
			break
		}
	}
	if credit {
		negative = false
	}
	return negative, s
}

// StandardizeAmount converts an unsigned number with any thousands and decimal
// separators into the form accepted by decimal.NewFromString.
func StandardizeAmount(amountStr string) string {
	amountStr = strings.ReplaceAll(amountStr, "'", "")
	amountStr = strings.ReplaceAll(amountStr, "’", "")

	lastComma := strings.LastIndex(amountStr, ",")
	lastDot := strings.LastIndex(amountStr, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastDot < lastComma {
			// 1.234,56
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			// 1,234.56
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	case lastComma >= 0:
		parts := strings.Split(amountStr, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			// 1234,56
			amountStr = strings.Replace(amountStr, ",", ".", 1)
		} else {
			// 1,234 or 1,234,567
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	case strings.Count(amountStr, ".") > 1:
		// 1.234.567
		amountStr = strings.ReplaceAll(amountStr, ".", "")
	}

	return amountStr
}

// FormatAmount formats a decimal amount to a consistent display format with the specified currency.
// The amount is formatted with two decimal places without inserting thousands separators.
func FormatAmount(amount decimal.Decimal, currency string) string {
	formattedAmount := amount.StringFixed(2)

	if currency != "" {
		switch strings.ToUpper(currency) {
		case "EUR":
			return "€" + formattedAmount
		case "USD":
			return "$" + formattedAmount
		case "GBP":
			return "£" + formattedAmount
		case "ZAR":
			return "R " + formattedAmount
		default:
			return currency + " " + formattedAmount
		}
	}

	return formattedAmount
}

// WithinTolerance reports whether |a-b| <= tolerance.
func WithinTolerance(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}
