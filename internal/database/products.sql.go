package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const productColumns = `id, name, description, sku, barcode, public_price, wholesale_price, cost,
    category, brand, stock_quantity, min_stock, has_variants, active, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (Product, error) {
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Sku,
		&i.Barcode,
		&i.PublicPrice,
		&i.WholesalePrice,
		&i.Cost,
		&i.Category,
		&i.Brand,
		&i.StockQuantity,
		&i.MinStock,
		&i.HasVariants,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getProductByBarcode = `-- name: GetProductByBarcode :one
SELECT ` + productColumns + `
FROM products
WHERE barcode = $1
LIMIT 1
`

func (q *Queries) GetProductByBarcode(ctx context.Context, barcode pgtype.Text) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProductByBarcode, barcode))
}

const getProductBySku = `-- name: GetProductBySku :one
SELECT ` + productColumns + `
FROM products
WHERE sku = $1
LIMIT 1
`

func (q *Queries) GetProductBySku(ctx context.Context, sku pgtype.Text) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProductBySku, sku))
}

const getProductByID = `-- name: GetProductByID :one
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`

func (q *Queries) GetProductByID(ctx context.Context, id pgtype.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProductByID, id))
}

const insertProduct = `-- name: InsertProduct :one
INSERT INTO products (
    name, description, sku, barcode, public_price, wholesale_price, cost,
    category, brand, stock_quantity, min_stock, has_variants
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
)
RETURNING ` + productColumns + `
`

type InsertProductParams struct {
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
}

func (q *Queries) InsertProduct(ctx context.Context, arg InsertProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, insertProduct,
		arg.Name,
		arg.Description,
		arg.Sku,
		arg.Barcode,
		arg.PublicPrice,
		arg.WholesalePrice,
		arg.Cost,
		arg.Category,
		arg.Brand,
		arg.StockQuantity,
		arg.MinStock,
		arg.HasVariants,
	)
	return scanProduct(row)
}

const updateProduct = `-- name: UpdateProduct :one
UPDATE products SET
    name = $2,
    description = $3,
    sku = $4,
    barcode = $5,
    public_price = $6,
    wholesale_price = $7,
    cost = $8,
    category = $9,
    brand = $10,
    stock_quantity = $11,
    min_stock = $12,
    has_variants = $13,
    updated_at = now()
WHERE id = $1
RETURNING ` + productColumns + `
`

type UpdateProductParams struct {
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
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, updateProduct,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.Sku,
		arg.Barcode,
		arg.PublicPrice,
		arg.WholesalePrice,
		arg.Cost,
		arg.Category,
		arg.Brand,
		arg.StockQuantity,
		arg.MinStock,
		arg.HasVariants,
	)
	return scanProduct(row)
}

const listActiveProducts = `-- name: ListActiveProducts :many
SELECT ` + productColumns + `
FROM products
WHERE active
ORDER BY name, id
`

func (q *Queries) ListActiveProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, listActiveProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Product
	for rows.Next() {
		i, err := scanProduct(rows)
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
