package core

// convert.go turns cleaned cell text into typed values.
//
// Catalog files come out of spreadsheets, so number cells may carry currency
// symbols, thousands separators or accounting negatives, and flag cells may
// be written "SI", "Sí", "yes" or "1".

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation with at most a
// two-digit exponent.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d{1,2})?$`)

// thousandsRegex matches comma thousands grouping. Any other comma, such as
// a decimal comma in "1,5", makes the cell invalid.
var thousandsRegex = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d*)?$`)

// Bounds of the stored columns: INTEGER quantities and NUMERIC(12, 2) prices.
var (
	maxQuantity = decimal.NewFromInt(math.MaxInt32)
	maxPrice    = decimal.New(1, 10)
)

// affirmativeTokens are accepted as "true" in flag columns after accent
// folding and lowercasing.
var affirmativeTokens = map[string]bool{
	"si":   true,
	"s":    true,
	"yes":  true,
	"y":    true,
	"true": true,
	"1":    true,
	"x":    true,
}

// estimatedCostRatio derives a product cost from its wholesale price when
// the file carries no cost column.
var estimatedCostRatio = decimal.RequireFromString("0.8")

// ParseNumber parses a numeric cell. Empty input is not a number; callers
// decide whether empty is allowed.
func ParseNumber(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.TrimSpace(s)

	if strings.Contains(s, ",") {
		if !thousandsRegex.MatchString(s) {
			return decimal.Zero, false
		}
		s = strings.ReplaceAll(s, ",", "")
	}

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// numberOrZero parses an optional numeric cell, mapping blank to zero.
// Validation has already rejected malformed values.
func numberOrZero(s string) decimal.Decimal {
	d, ok := ParseNumber(s)
	if !ok {
		return decimal.Zero
	}
	return d
}

// quantityOrZero parses an optional stock cell, truncating any fractional
// part toward zero.
func quantityOrZero(s string) int {
	return int(numberOrZero(s).IntPart())
}

// IsAffirmative reports whether a flag cell means "yes".
func IsAffirmative(s string) bool {
	return affirmativeTokens[strings.ToLower(foldAccents(strings.TrimSpace(s)))]
}

// foldAccents strips combining marks: "Sí" becomes "Si".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// CleanCell removes common spreadsheet artifacts from an unquoted cell:
// surrounding whitespace and the Excel text formula wrapper (="...").
// Quotes left after CSV unquoting are data and are kept.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.TrimSpace(s)
}

// inQuantityRange reports whether d fits a stock column.
func inQuantityRange(d decimal.Decimal) bool {
	return !d.IsNegative() && d.Cmp(maxQuantity) <= 0
}

// inPriceRange reports whether d fits a price column.
func inPriceRange(d decimal.Decimal) bool {
	return d.Abs().Cmp(maxPrice) < 0
}

// formatMoney renders a price for export with two decimals.
func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// yesNo renders a flag for export.
func yesNo(b bool) string {
	if b {
		return "SI"
	}
	return "NO"
}
