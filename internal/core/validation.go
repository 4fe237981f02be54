package core

// validation.go checks parsed rows before anything is written.
//
// Validation happens at two levels:
//  1. Header validation: the product name column must be present
//  2. Row validation: required names per row kind, numeric cells, and the
//     identifier requirement under the strict identity policy
//
// Every error is collected so the operator can fix the whole file at once.
// A non-empty result aborts the import with zero writes.

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidationFailed is returned when any row fails validation.
var ErrValidationFailed = errors.New("validation failed: file has invalid rows")

// RowError is a single validation problem tied to a file line.
type RowError struct {
	Line    int    `json:"line"`
	Field   string `json:"field,omitempty"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("Fila %d: %s", e.Line, e.Message)
}

// numericField pairs a numeric column with its label in messages.
// Quantity columns are stored as INTEGER, the rest as prices.
type numericField struct {
	column   string
	label    string
	quantity bool
}

var productNumericFields = []numericField{
	{ColPublicPrice, "Precio público", false},
	{ColWholesalePrice, "Precio puesto", false},
	{ColStock, "Stock", true},
	{ColMinStock, "Stock mínimo", true},
}

var variantNumericFields = []numericField{
	{ColVariantPublicPrice, "Precio público de variante", false},
	{ColVariantWholesalePrice, "Precio puesto de variante", false},
	{ColVariantStock, "Stock de variante", true},
	{ColVariantMinStock, "Stock mínimo de variante", true},
}

// RowValidator validates catalog rows under an identity policy.
type RowValidator struct {
	policy IdentityPolicy
}

// NewRowValidator creates a validator for the given identity policy.
func NewRowValidator(policy IdentityPolicy) *RowValidator {
	if policy == "" {
		policy = PolicyLenient
	}
	return &RowValidator{policy: policy}
}

// ValidateHeaders checks that the file can describe products at all.
func ValidateHeaders(file *ParsedFile) error {
	if !file.HasColumn(ColName) {
		return fmt.Errorf("missing required column %q", ColName)
	}
	return nil
}

// ValidateRows validates every row and returns all errors in file order.
func (v *RowValidator) ValidateRows(rows []Row) []RowError {
	var errs []RowError
	for _, row := range rows {
		errs = append(errs, v.ValidateRow(row)...)
	}
	return errs
}

// ValidateRow returns the problems found in one row. Blank rows are
// ignored, whatever else they carry.
func (v *RowValidator) ValidateRow(row Row) []RowError {
	var errs []RowError

	switch row.Kind() {
	case RowProduct:
		errs = append(errs, checkNumbers(row, productNumericFields)...)
		if v.policy == PolicyStrict && row.Get(ColBarcode) == "" && row.Get(ColSKU) == "" {
			errs = append(errs, RowError{
				Line:    row.Line,
				Field:   ColSKU,
				Message: fmt.Sprintf("El producto %q requiere código de barras o SKU", row.Get(ColName)),
			})
		}

	case RowVariant:
		errs = append(errs, checkNumbers(row, variantNumericFields)...)
		if v.policy == PolicyStrict && row.Get(ColVariantBarcode) == "" && row.Get(ColVariantSKU) == "" {
			errs = append(errs, RowError{
				Line:    row.Line,
				Field:   ColVariantSKU,
				Message: fmt.Sprintf("La variante %q requiere código de barras o SKU", row.Get(ColVariantName)),
			})
		}

	}

	return errs
}

func checkNumbers(row Row, fields []numericField) []RowError {
	var errs []RowError
	for _, f := range fields {
		raw := row.Get(f.column)
		if raw == "" {
			continue
		}
		d, ok := ParseNumber(raw)
		var msg string
		switch {
		case !ok:
			msg = fmt.Sprintf("%s debe ser un número válido", f.label)
		case f.quantity && !inQuantityRange(d):
			msg = fmt.Sprintf("%s debe estar entre 0 y %s", f.label, maxQuantity)
		case !f.quantity && !inPriceRange(d):
			msg = fmt.Sprintf("%s debe ser menor que %s", f.label, maxPrice)
		default:
			continue
		}
		errs = append(errs, RowError{Line: row.Line, Field: f.column, Value: raw, Message: msg})
	}
	return errs
}

// ValidationErrors joins row errors for logging.
func ValidationErrors(errs []RowError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%w:\n  - %s", ErrValidationFailed, strings.Join(msgs, "\n  - "))
}
