package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by a CatalogStore lookup that matched nothing.
var ErrNotFound = errors.New("record not found")

// IdentityField names a unique field used to find an existing record.
type IdentityField string

const (
	ByBarcode IdentityField = "barcode"
	BySKU     IdentityField = "sku"
)

// IdentityPolicy decides what happens to rows that carry no identifier.
type IdentityPolicy string

const (
	// PolicyLenient creates a new record for every row without barcode or SKU.
	PolicyLenient IdentityPolicy = "lenient"

	// PolicyStrict rejects such rows during validation.
	PolicyStrict IdentityPolicy = "strict"
)

// ParseIdentityPolicy maps a configuration value onto a policy.
func ParseIdentityPolicy(s string) (IdentityPolicy, error) {
	switch IdentityPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyLenient, "":
		return PolicyLenient, nil
	case PolicyStrict:
		return PolicyStrict, nil
	default:
		return "", fmt.Errorf("unknown identity policy %q", s)
	}
}

// ProductInput is the field set written when a product is created or updated.
type ProductInput struct {
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	SKU            string          `json:"sku,omitempty"`
	Barcode        string          `json:"barcode,omitempty"`
	PublicPrice    decimal.Decimal `json:"public_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	Cost           decimal.Decimal `json:"cost"`
	Category       string          `json:"category,omitempty"`
	Brand          string          `json:"brand,omitempty"`
	StockQuantity  int             `json:"stock_quantity"`
	MinStock       int             `json:"min_stock"`
	HasVariants    bool            `json:"has_variants"`
}

// Product is a stored catalog product.
type Product struct {
	ID uuid.UUID `json:"id"`
	ProductInput
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VariantInput is the field set written when a variant is created or updated.
type VariantInput struct {
	Name           string          `json:"name"`
	SKU            string          `json:"sku,omitempty"`
	Barcode        string          `json:"barcode,omitempty"`
	PublicPrice    decimal.Decimal `json:"public_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	StockQuantity  int             `json:"stock_quantity"`
	MinStock       int             `json:"min_stock"`
}

// Variant is a stored product variant.
type Variant struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	VariantInput
	Active bool `json:"active"`
}

// CatalogStore is the persistence surface the reconciler needs: read one
// record by a unique field, insert, and update by id.
type CatalogStore interface {
	FindProduct(ctx context.Context, field IdentityField, value string) (Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput) (Product, error)

	FindVariant(ctx context.Context, field IdentityField, value string) (Variant, error)
	CreateVariant(ctx context.Context, productID uuid.UUID, in VariantInput) (Variant, error)
	UpdateVariant(ctx context.Context, id, productID uuid.UUID, in VariantInput) (Variant, error)
}

// CatalogReader lists the active catalog for export.
type CatalogReader interface {
	ListProducts(ctx context.Context) ([]Product, error)
	ListVariants(ctx context.Context) ([]Variant, error)
}

// RowKind classifies a parsed data line.
type RowKind int

const (
	RowBlank RowKind = iota
	RowProduct
	RowVariant
)

func (k RowKind) String() string {
	switch k {
	case RowProduct:
		return "product"
	case RowVariant:
		return "variant"
	default:
		return "blank"
	}
}

// Row is one parsed data line keyed by canonical column name.
type Row struct {
	Line   int               `json:"line"`
	Values map[string]string `json:"values"`
}

// Get returns the cleaned value of a column or "" when absent.
func (r Row) Get(column string) string {
	return r.Values[column]
}

// Kind reports whether the row describes a product, a variant or nothing.
func (r Row) Kind() RowKind {
	if r.Get(ColName) != "" {
		return RowProduct
	}
	if r.Get(ColVariantName) != "" {
		return RowVariant
	}
	return RowBlank
}

// DroppedRow records a line discarded because its field count differs from
// the header's.
type DroppedRow struct {
	Line     int `json:"line"`
	Expected int `json:"expected"`
	Actual   int `json:"actual"`
}

// ProductGroup is a product row plus the variant rows that follow it.
type ProductGroup struct {
	Product  Row   `json:"product"`
	Variants []Row `json:"variants,omitempty"`
}

// ImportResult is the outcome of one catalog import.
type ImportResult struct {
	ID       string `json:"id"`
	FileName string `json:"file_name,omitempty"`

	// Success counts product groups reconciled without a persistence error.
	Success  int      `json:"success"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`

	// Aborted is set when validation failed and nothing was written.
	Aborted    bool         `json:"aborted"`
	Validation []RowError   `json:"validation,omitempty"`
	Dropped    []DroppedRow `json:"dropped,omitempty"`
	Orphans    int          `json:"orphans"`

	Groups          int `json:"groups"`
	ProductsCreated int `json:"products_created"`
	ProductsUpdated int `json:"products_updated"`
	VariantsCreated int `json:"variants_created"`
	VariantsUpdated int `json:"variants_updated"`

	BytesRead  int64     `json:"bytes_read"`
	IPAddress  string    `json:"ip_address,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Preview summarises what an import would do without writing anything.
type Preview struct {
	FileName   string         `json:"file_name,omitempty"`
	Columns    []string       `json:"columns"`
	Rows       int            `json:"rows"`
	Products   int            `json:"products"`
	Variants   int            `json:"variants"`
	Orphans    int            `json:"orphans"`
	Dropped    []DroppedRow   `json:"dropped,omitempty"`
	Validation []RowError     `json:"validation,omitempty"`
	Valid      bool           `json:"valid"`
	Groups     []GroupSummary `json:"groups"`
}

// GroupSummary is the preview view of one product group.
type GroupSummary struct {
	Line     int    `json:"line"`
	Name     string `json:"name"`
	SKU      string `json:"sku,omitempty"`
	Barcode  string `json:"barcode,omitempty"`
	Variants int    `json:"variants"`
}
