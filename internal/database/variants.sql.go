package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const variantColumns = `id, product_id, name, sku, barcode, public_price, wholesale_price,
    stock_quantity, min_stock, active, created_at, updated_at`

func scanVariant(row interface{ Scan(...any) error }) (ProductVariant, error) {
	var i ProductVariant
	err := row.Scan(
		&i.ID,
		&i.ProductID,
		&i.Name,
		&i.Sku,
		&i.Barcode,
		&i.PublicPrice,
		&i.WholesalePrice,
		&i.StockQuantity,
		&i.MinStock,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getVariantByBarcode = `-- name: GetVariantByBarcode :one
SELECT ` + variantColumns + `
FROM product_variants
WHERE barcode = $1
LIMIT 1
`

func (q *Queries) GetVariantByBarcode(ctx context.Context, barcode pgtype.Text) (ProductVariant, error) {
	return scanVariant(q.db.QueryRow(ctx, getVariantByBarcode, barcode))
}

const getVariantBySku = `-- name: GetVariantBySku :one
SELECT ` + variantColumns + `
FROM product_variants
WHERE sku = $1
LIMIT 1
`

func (q *Queries) GetVariantBySku(ctx context.Context, sku pgtype.Text) (ProductVariant, error) {
	return scanVariant(q.db.QueryRow(ctx, getVariantBySku, sku))
}

const insertVariant = `-- name: InsertVariant :one
INSERT INTO product_variants (
    product_id, name, sku, barcode, public_price, wholesale_price, stock_quantity, min_stock
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8
)
RETURNING ` + variantColumns + `
`

type InsertVariantParams struct {
	ProductID      pgtype.UUID
	Name           string
	Sku            pgtype.Text
	Barcode        pgtype.Text
	PublicPrice    pgtype.Numeric
	WholesalePrice pgtype.Numeric
	StockQuantity  int32
	MinStock       int32
}

func (q *Queries) InsertVariant(ctx context.Context, arg InsertVariantParams) (ProductVariant, error) {
	row := q.db.QueryRow(ctx, insertVariant,
		arg.ProductID,
		arg.Name,
		arg.Sku,
		arg.Barcode,
		arg.PublicPrice,
		arg.WholesalePrice,
		arg.StockQuantity,
		arg.MinStock,
	)
	return scanVariant(row)
}

const updateVariant = `-- name: UpdateVariant :one
UPDATE product_variants SET
    product_id = $2,
    name = $3,
    sku = $4,
    barcode = $5,
    public_price = $6,
    wholesale_price = $7,
    stock_quantity = $8,
    min_stock = $9,
    updated_at = now()
WHERE id = $1
RETURNING ` + variantColumns + `
`

type UpdateVariantParams struct {
	ID             pgtype.UUID
	ProductID      pgtype.UUID
	Name           string
	Sku            pgtype.Text
	Barcode        pgtype.Text
	PublicPrice    pgtype.Numeric
	WholesalePrice pgtype.Numeric
	StockQuantity  int32
	MinStock       int32
}

func (q *Queries) UpdateVariant(ctx context.Context, arg UpdateVariantParams) (ProductVariant, error) {
	row := q.db.QueryRow(ctx, updateVariant,
		arg.ID,
		arg.ProductID,
		arg.Name,
		arg.Sku,
		arg.Barcode,
		arg.PublicPrice,
		arg.WholesalePrice,
		arg.StockQuantity,
		arg.MinStock,
	)
	return scanVariant(row)
}

const listActiveVariants = `-- name: ListActiveVariants :many
SELECT ` + variantColumns + `
FROM product_variants
WHERE active
ORDER BY product_id, name, id
`

func (q *Queries) ListActiveVariants(ctx context.Context) ([]ProductVariant, error) {
	rows, err := q.db.Query(ctx, listActiveVariants)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ProductVariant
	for rows.Next() {
		i, err := scanVariant(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
