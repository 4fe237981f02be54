// Package settings decodes the business settings table into a typed struct.
//
// Each stored row is a key, a text value and a type tag. Decoding starts from
// Defaults and applies every row through the field's declared type; a tag
// that is unknown or does not match the field is an error.
package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// DataType is the type tag stored with each setting.
type DataType string

const (
	TypeBoolean DataType = "boolean"
	TypeNumber  DataType = "number"
	TypeString  DataType = "string"
)

var (
	// ErrUnknownSettingType is returned for a row whose tag is not a DataType.
	ErrUnknownSettingType = errors.New("unknown setting type")

	// ErrTypeMismatch is returned when a row's tag differs from the field's.
	ErrTypeMismatch = errors.New("setting type mismatch")
)

// Row is one stored setting.
type Row struct {
	Key      string   `json:"key"`
	Value    string   `json:"value"`
	DataType DataType `json:"data_type"`
}

// Settings are the typed business settings.
type Settings struct {
	TaxEnabled bool    `json:"tax_enabled"`
	TaxRate    float64 `json:"tax_rate" validate:"gte=0,lte=100"`

	BusinessName    string `json:"business_name" validate:"max=200"`
	BusinessAddress string `json:"business_address" validate:"max=500"`
	BusinessPhone   string `json:"business_phone" validate:"max=40"`
	BusinessEmail   string `json:"business_email" validate:"omitempty,email"`

	Currency       string `json:"currency" validate:"required,len=3,alpha"`
	CurrencySymbol string `json:"currency_symbol" validate:"required,max=5"`

	LowStockThreshold int `json:"low_stock_threshold" validate:"gte=0"`
	QuoteValidityDays int `json:"quote_validity_days" validate:"gte=0"`
}

// Defaults returns the settings used before any row is applied.
func Defaults() Settings {
	return Settings{
		TaxEnabled:        false,
		TaxRate:           16,
		BusinessName:      "H2R ACCESORIOS PARA EL CICLISTA",
		Currency:          "MXN",
		CurrencySymbol:    "$",
		LowStockThreshold: 5,
		QuoteValidityDays: 7,
	}
}

// field binds a stored key to a Settings member.
type field struct {
	key      string
	dataType DataType
	set      func(s *Settings, value string) error
	get      func(s Settings) string
}

var fields = []field{
	boolField("tax_enabled", func(s *Settings) *bool { return &s.TaxEnabled }),
	floatField("tax_rate", func(s *Settings) *float64 { return &s.TaxRate }),
	stringField("business_name", func(s *Settings) *string { return &s.BusinessName }),
	stringField("business_address", func(s *Settings) *string { return &s.BusinessAddress }),
	stringField("business_phone", func(s *Settings) *string { return &s.BusinessPhone }),
	stringField("business_email", func(s *Settings) *string { return &s.BusinessEmail }),
	stringField("currency", func(s *Settings) *string { return &s.Currency }),
	stringField("currency_symbol", func(s *Settings) *string { return &s.CurrencySymbol }),
	intField("low_stock_threshold", func(s *Settings) *int { return &s.LowStockThreshold }),
	intField("quote_validity_days", func(s *Settings) *int { return &s.QuoteValidityDays }),
}

var fieldsByKey = func() map[string]field {
	m := make(map[string]field, len(fields))
	for _, f := range fields {
		m[f.key] = f
	}
	return m
}()

func boolField(key string, ptr func(*Settings) *bool) field {
	return field{
		key:      key,
		dataType: TypeBoolean,
		set: func(s *Settings, value string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(value))
			if err != nil {
				return err
			}
			*ptr(s) = b
			return nil
		},
		get: func(s Settings) string { return strconv.FormatBool(*ptr(&s)) },
	}
}

func floatField(key string, ptr func(*Settings) *float64) field {
	return field{
		key:      key,
		dataType: TypeNumber,
		set: func(s *Settings, value string) error {
			f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				return err
			}
			*ptr(s) = f
			return nil
		},
		get: func(s Settings) string { return strconv.FormatFloat(*ptr(&s), 'f', -1, 64) },
	}
}

// intField accepts "7" and "7.0"; fractions truncate toward zero.
func intField(key string, ptr func(*Settings) *int) field {
	return field{
		key:      key,
		dataType: TypeNumber,
		set: func(s *Settings, value string) error {
			f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				return err
			}
			*ptr(s) = int(f)
			return nil
		},
		get: func(s Settings) string { return strconv.Itoa(*ptr(&s)) },
	}
}

func stringField(key string, ptr func(*Settings) *string) field {
	return field{
		key:      key,
		dataType: TypeString,
		set: func(s *Settings, value string) error {
			*ptr(s) = value
			return nil
		},
		get: func(s Settings) string { return *ptr(&s) },
	}
}

// Decode applies rows over Defaults. Unknown keys are logged and skipped.
func Decode(rows []Row) (Settings, error) {
	s := Defaults()
	for _, row := range rows {
		switch row.DataType {
		case TypeBoolean, TypeNumber, TypeString:
		default:
			return Settings{}, fmt.Errorf("%w %q for key %q", ErrUnknownSettingType, row.DataType, row.Key)
		}

		f, ok := fieldsByKey[row.Key]
		if !ok {
			slog.Warn("ignoring unknown setting", "key", row.Key)
			continue
		}
		if f.dataType != row.DataType {
			return Settings{}, fmt.Errorf("%w: %q is %s, stored as %s", ErrTypeMismatch, row.Key, f.dataType, row.DataType)
		}
		if err := f.set(&s, row.Value); err != nil {
			return Settings{}, fmt.Errorf("decode setting %q: %w", row.Key, err)
		}
	}
	return s, nil
}

// Encode returns one row per known setting, in declaration order.
func Encode(s Settings) []Row {
	rows := make([]Row, len(fields))
	for i, f := range fields {
		rows[i] = Row{Key: f.key, Value: f.get(s), DataType: f.dataType}
	}
	return rows
}

var validate = validator.New()

// Validate checks value ranges and formats.
func (s Settings) Validate() error {
	return validate.Struct(s)
}

var hundred = decimal.NewFromInt(100)

// CalculateTax returns the tax on amount, or zero when tax is disabled.
func (s Settings) CalculateTax(amount decimal.Decimal) decimal.Decimal {
	if !s.TaxEnabled {
		return decimal.Zero
	}
	return amount.Mul(decimal.NewFromFloat(s.TaxRate)).Div(hundred).Round(2)
}

// TaxMultiplier is 1 + rate/100, applied to invoice costs regardless of
// whether sales tax is charged.
func (s Settings) TaxMultiplier() decimal.Decimal {
	return decimal.NewFromInt(1).Add(decimal.NewFromFloat(s.TaxRate).Div(hundred))
}

// FormatCurrency renders amount with the currency symbol and two decimals.
func (s Settings) FormatCurrency(amount decimal.Decimal) string {
	return s.CurrencySymbol + amount.StringFixed(2)
}
