package settings

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDecodeDefaults(t *testing.T) {
	s, err := Decode(nil)
	require.NoError(t, err)
	require.Equal(t, Defaults(), s)
	require.NoError(t, s.Validate())
}

func TestDecodeRows(t *testing.T) {
	s, err := Decode([]Row{
		{Key: "tax_enabled", Value: "true", DataType: TypeBoolean},
		{Key: "tax_rate", Value: "8.5", DataType: TypeNumber},
		{Key: "business_email", Value: "ventas@h2r.mx", DataType: TypeString},
		{Key: "low_stock_threshold", Value: "3", DataType: TypeNumber},
		{Key: "quote_validity_days", Value: "15.0", DataType: TypeNumber},
		{Key: "legacy_theme", Value: "dark", DataType: TypeString},
	})
	require.NoError(t, err)

	require.True(t, s.TaxEnabled)
	require.Equal(t, 8.5, s.TaxRate)
	require.Equal(t, "ventas@h2r.mx", s.BusinessEmail)
	require.Equal(t, 3, s.LowStockThreshold)
	require.Equal(t, 15, s.QuoteValidityDays)
	require.Equal(t, "MXN", s.Currency)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		row  Row
		want error
	}{
		{name: "unknown tag", row: Row{Key: "tax_rate", Value: "16", DataType: "json"}, want: ErrUnknownSettingType},
		{name: "unknown tag on unknown key", row: Row{Key: "other", Value: "1", DataType: "int"}, want: ErrUnknownSettingType},
		{name: "mismatched tag", row: Row{Key: "tax_enabled", Value: "true", DataType: TypeString}, want: ErrTypeMismatch},
		{name: "bad number", row: Row{Key: "tax_rate", Value: "dieciseis", DataType: TypeNumber}},
		{name: "bad boolean", row: Row{Key: "tax_enabled", Value: "si", DataType: TypeBoolean}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]Row{tt.row})
			require.Error(t, err)
			if tt.want != nil {
				require.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	s := Defaults()
	s.TaxEnabled = true
	s.TaxRate = 12.5
	s.BusinessPhone = "555-0100"

	rows := Encode(s)
	require.Len(t, rows, len(fields))

	decoded, err := Decode(rows)
	require.NoError(t, err)
	require.Equal(t, s, decoded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{name: "tax rate above 100", modify: func(s *Settings) { s.TaxRate = 101 }},
		{name: "negative tax rate", modify: func(s *Settings) { s.TaxRate = -1 }},
		{name: "currency length", modify: func(s *Settings) { s.Currency = "PESO" }},
		{name: "missing symbol", modify: func(s *Settings) { s.CurrencySymbol = "" }},
		{name: "bad email", modify: func(s *Settings) { s.BusinessEmail = "not-an-email" }},
		{name: "negative threshold", modify: func(s *Settings) { s.LowStockThreshold = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.modify(&s)
			require.Error(t, s.Validate())
		})
	}
}

func TestCalculateTax(t *testing.T) {
	s := Defaults()
	amount := decimal.RequireFromString("250.00")

	require.True(t, s.CalculateTax(amount).IsZero())

	s.TaxEnabled = true
	require.Equal(t, "40", s.CalculateTax(amount).String())
	require.Equal(t, "1.16", s.TaxMultiplier().String())
}

func TestFormatCurrency(t *testing.T) {
	s := Defaults()
	require.Equal(t, "$1234.50", s.FormatCurrency(decimal.RequireFromString("1234.5")))
}

func TestService(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(Row{Key: "tax_rate", Value: "10", DataType: TypeNumber})
	svc := NewService(store)

	s, err := svc.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, 10.0, s.TaxRate)

	s.BusinessName = "Bicis del Centro"
	_, err = svc.Update(ctx, s)
	require.NoError(t, err)

	again, err := svc.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "Bicis del Centro", again.BusinessName)
	require.Equal(t, 10.0, again.TaxRate)

	s.Currency = "X"
	_, err = svc.Update(ctx, s)
	require.Error(t, err)
}

func TestServiceRejectsBadRows(t *testing.T) {
	svc := NewService(NewMemoryStore(Row{Key: "tax_rate", Value: "16", DataType: "decimal"}))
	_, err := svc.Get(context.Background())
	require.ErrorIs(t, err, ErrUnknownSettingType)
}
