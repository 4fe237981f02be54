package core

import (
	"errors"
	"strings"
	"testing"
)

func row(line int, values map[string]string) Row {
	return Row{Line: line, Values: values}
}

func TestRowKind(t *testing.T) {
	tests := []struct {
		name string
		row  Row
		want RowKind
	}{
		{name: "product", row: row(2, map[string]string{ColName: "Casco"}), want: RowProduct},
		{name: "variant", row: row(3, map[string]string{ColVariantName: "Talla M"}), want: RowVariant},
		{name: "both names is product", row: row(4, map[string]string{ColName: "Casco", ColVariantName: "Talla M"}), want: RowProduct},
		{name: "blank", row: row(5, map[string]string{ColSKU: "X-1"}), want: RowBlank},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.row.Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRowValidator_NumericFields(t *testing.T) {
	v := NewRowValidator(PolicyLenient)

	tests := []struct {
		name      string
		row       Row
		wantField []string
	}{
		{
			name: "valid product",
			row: row(2, map[string]string{
				ColName: "Casco", ColPublicPrice: "$49.99", ColWholesalePrice: "29.99",
				ColStock: "3", ColMinStock: "",
			}),
		},
		{
			name: "invalid product price and stock",
			row: row(2, map[string]string{
				ColName: "Casco", ColPublicPrice: "cuarenta", ColStock: "tres",
			}),
			wantField: []string{ColPublicPrice, ColStock},
		},
		{
			name: "product ignores variant columns",
			row: row(2, map[string]string{
				ColName: "Casco", ColVariantStock: "abc",
			}),
		},
		{
			name: "invalid variant fields",
			row: row(3, map[string]string{
				ColVariantName: "Talla M", ColVariantPublicPrice: "x",
				ColVariantWholesalePrice: "y", ColVariantStock: "z", ColVariantMinStock: "w",
			}),
			wantField: []string{ColVariantPublicPrice, ColVariantWholesalePrice, ColVariantStock, ColVariantMinStock},
		},
		{
			name: "stock above integer column",
			row: row(2, map[string]string{
				ColName: "Casco", ColStock: "3000000000", ColMinStock: "2147483647",
			}),
			wantField: []string{ColStock},
		},
		{
			name: "negative variant stock",
			row: row(3, map[string]string{
				ColVariantName: "Talla M", ColVariantStock: "-1",
			}),
			wantField: []string{ColVariantStock},
		},
		{
			name: "huge exponent",
			row: row(2, map[string]string{
				ColName: "Casco", ColStock: "1e900000000", ColPublicPrice: "1e99",
			}),
			wantField: []string{ColPublicPrice, ColStock},
		},
		{
			name: "decimal comma",
			row: row(2, map[string]string{
				ColName: "Casco", ColPublicPrice: "1,5", ColWholesalePrice: "1,250.50",
			}),
			wantField: []string{ColPublicPrice},
		},
		{
			name: "blank row is ignored",
			row:  row(4, map[string]string{ColPublicPrice: "not a number"}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.ValidateRow(tt.row)
			if len(errs) != len(tt.wantField) {
				t.Fatalf("got %d errors %v, want %d", len(errs), errs, len(tt.wantField))
			}
			for i, e := range errs {
				if e.Field != tt.wantField[i] {
					t.Errorf("error %d field = %q, want %q", i, e.Field, tt.wantField[i])
				}
				if e.Line != tt.row.Line {
					t.Errorf("error %d line = %d, want %d", i, e.Line, tt.row.Line)
				}
			}
		})
	}
}

func TestRowValidator_StrictPolicy(t *testing.T) {
	rows := []Row{
		row(2, map[string]string{ColName: "Con SKU", ColSKU: "A-1"}),
		row(3, map[string]string{ColName: "Sin identificador"}),
		row(4, map[string]string{ColVariantName: "Con barras", ColVariantBarcode: "777"}),
		row(5, map[string]string{ColVariantName: "Sin identificador"}),
	}

	if errs := NewRowValidator(PolicyLenient).ValidateRows(rows); len(errs) != 0 {
		t.Errorf("lenient policy returned errors: %v", errs)
	}

	errs := NewRowValidator(PolicyStrict).ValidateRows(rows)
	if len(errs) != 2 {
		t.Fatalf("strict policy returned %d errors, want 2: %v", len(errs), errs)
	}
	if errs[0].Line != 3 || errs[1].Line != 5 {
		t.Errorf("error lines = %d, %d, want 3, 5", errs[0].Line, errs[1].Line)
	}
}

func TestRowError_Error(t *testing.T) {
	e := RowError{Line: 7, Field: ColStock, Value: "x", Message: "Stock debe ser un número válido"}
	if got := e.Error(); got != "Fila 7: Stock debe ser un número válido" {
		t.Errorf("Error() = %q", got)
	}
}

func TestValidateHeaders(t *testing.T) {
	if err := ValidateHeaders(&ParsedFile{Columns: []string{ColSKU, ColName}}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := ValidateHeaders(&ParsedFile{Columns: []string{ColSKU, ColBarcode}})
	if err == nil || !strings.Contains(err.Error(), "missing required column") {
		t.Errorf("expected missing column error, got %v", err)
	}
}

func TestValidationErrors(t *testing.T) {
	if ValidationErrors(nil) != nil {
		t.Error("ValidationErrors(nil) should be nil")
	}

	err := ValidationErrors([]RowError{
		{Line: 2, Message: "uno"},
		{Line: 4, Message: "dos"},
	})
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "Fila 2: uno") || !strings.Contains(err.Error(), "Fila 4: dos") {
		t.Errorf("joined error missing rows: %v", err)
	}
}
