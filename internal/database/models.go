package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Product struct {
	ID             pgtype.UUID
	Name           string
	Description    pgtype.Text
	Sku            pgtype.Text
	Barcode        pgtype.Text
	PublicPrice    pgtype.Numeric
	WholesalePrice pgtype.Numeric
	Cost           pgtype.Numeric
	Category       pgtype.Text
	Brand          pgtype.Text
	StockQuantity  int32
	MinStock       int32
	HasVariants    bool
	Active         bool
	CreatedAt      pgtype.Timestamptz
	UpdatedAt      pgtype.Timestamptz
}

type ProductVariant struct {
	ID             pgtype.UUID
	ProductID      pgtype.UUID
	Name           string
	Sku            pgtype.Text
	Barcode        pgtype.Text
	PublicPrice    pgtype.Numeric
	WholesalePrice pgtype.Numeric
	StockQuantity  int32
	MinStock       int32
	Active         bool
	CreatedAt      pgtype.Timestamptz
	UpdatedAt      pgtype.Timestamptz
}

type InventoryMovement struct {
	ID           pgtype.UUID
	ProductID    pgtype.UUID
	VariantID    pgtype.UUID
	MovementType string
	Quantity     int32
	Reason       pgtype.Text
	ReferenceID  pgtype.Text
	CreatedAt    pgtype.Timestamptz
}

type Sale struct {
	ID            pgtype.UUID
	Total         pgtype.Numeric
	PaymentMethod string
	SaleType      string
	Status        string
	CreatedAt     pgtype.Timestamptz
}

type CashMovement struct {
	ID        pgtype.UUID
	Type      string
	Amount    pgtype.Numeric
	Concept   string
	CreatedAt pgtype.Timestamptz
}

type Setting struct {
	Key       string
	Value     pgtype.Text
	DataType  string
	UpdatedAt pgtype.Timestamptz
}
