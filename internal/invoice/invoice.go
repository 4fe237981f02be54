// Package invoice turns supplier invoice text into catalog products.
//
// Extraction is pattern based: header fields and line items are read from
// the text a PDF-to-text service produced for the invoice. Saving creates one
// product per selected item and records the stock it brought in as an
// "entrada" inventory movement.
package invoice

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNoProducts is returned when no line item could be read from the text.
var ErrNoProducts = errors.New("no products could be extracted from the invoice")

// Info holds the invoice header fields.
type Info struct {
	Supplier string          `json:"supplier"`
	Date     string          `json:"date"`
	Folio    string          `json:"folio"`
	Total    decimal.Decimal `json:"total"`
}

// Item is one extracted line item with suggested catalog data.
type Item struct {
	Quantity    int    `json:"quantity" validate:"gt=0,lte=2147483647"`
	Clave       string `json:"clave" validate:"max=64"`
	Description string `json:"description" validate:"required,min=4"`

	UnitPrice    decimal.Decimal `json:"unit_price" validate:"gte=0,lt=10000000000"`
	Cost         decimal.Decimal `json:"cost" validate:"gte=0,lt=10000000000"`
	SellingPrice decimal.Decimal `json:"selling_price" validate:"gte=0,lt=10000000000"`
	Total        decimal.Decimal `json:"total"`

	SuggestedName     string `json:"suggested_name"`
	SuggestedCategory string `json:"suggested_category"`
	SuggestedBrand    string `json:"suggested_brand"`
}

// Extraction is the result of reading one invoice.
type Extraction struct {
	Info     Info     `json:"info"`
	Items    []Item   `json:"items"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
