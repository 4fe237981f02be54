package core

import (
	"context"
	"errors"
	"fmt"

	db "github.com/JonMunkholm/pos/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PostgresCatalog implements CatalogStore and CatalogReader over the
// database queries. It is safe for concurrent use when built on a pool.
type PostgresCatalog struct {
	queries *db.Queries
}

// NewPostgresCatalog creates a catalog store over conn, usually a *pgxpool.Pool.
func NewPostgresCatalog(conn db.DBTX) *PostgresCatalog {
	return &PostgresCatalog{queries: db.New(conn)}
}

// FindProduct implements CatalogStore.
func (s *PostgresCatalog) FindProduct(ctx context.Context, field IdentityField, value string) (Product, error) {
	var (
		row db.Product
		err error
	)
	switch field {
	case ByBarcode:
		row, err = s.queries.GetProductByBarcode(ctx, db.Text(value))
	case BySKU:
		row, err = s.queries.GetProductBySku(ctx, db.Text(value))
	default:
		return Product{}, fmt.Errorf("unknown identity field %q", field)
	}
	if err != nil {
		return Product{}, notFound(err)
	}
	return productFromRow(row), nil
}

// CreateProduct implements CatalogStore.
func (s *PostgresCatalog) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	row, err := s.queries.InsertProduct(ctx, db.InsertProductParams{
		Name:           in.Name,
		Description:    db.Text(in.Description),
		Sku:            db.Text(in.SKU),
		Barcode:        db.Text(in.Barcode),
		PublicPrice:    db.Numeric(in.PublicPrice),
		WholesalePrice: db.Numeric(in.WholesalePrice),
		Cost:           db.Numeric(in.Cost),
		Category:       db.Text(in.Category),
		Brand:          db.Text(in.Brand),
		StockQuantity:  int32(in.StockQuantity),
		MinStock:       int32(in.MinStock),
		HasVariants:    in.HasVariants,
	})
	if err != nil {
		return Product{}, err
	}
	return productFromRow(row), nil
}

// UpdateProduct implements CatalogStore.
func (s *PostgresCatalog) UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput) (Product, error) {
	row, err := s.queries.UpdateProduct(ctx, db.UpdateProductParams{
		ID:             db.UUID(id),
		Name:           in.Name,
		Description:    db.Text(in.Description),
		Sku:            db.Text(in.SKU),
		Barcode:        db.Text(in.Barcode),
		PublicPrice:    db.Numeric(in.PublicPrice),
		WholesalePrice: db.Numeric(in.WholesalePrice),
		Cost:           db.Numeric(in.Cost),
		Category:       db.Text(in.Category),
		Brand:          db.Text(in.Brand),
		StockQuantity:  int32(in.StockQuantity),
		MinStock:       int32(in.MinStock),
		HasVariants:    in.HasVariants,
	})
	if err != nil {
		return Product{}, notFound(err)
	}
	return productFromRow(row), nil
}

// FindVariant implements CatalogStore.
func (s *PostgresCatalog) FindVariant(ctx context.Context, field IdentityField, value string) (Variant, error) {
	var (
		row db.ProductVariant
		err error
	)
	switch field {
	case ByBarcode:
		row, err = s.queries.GetVariantByBarcode(ctx, db.Text(value))
	case BySKU:
		row, err = s.queries.GetVariantBySku(ctx, db.Text(value))
	default:
		return Variant{}, fmt.Errorf("unknown identity field %q", field)
	}
	if err != nil {
		return Variant{}, notFound(err)
	}
	return variantFromRow(row), nil
}

// CreateVariant implements CatalogStore.
func (s *PostgresCatalog) CreateVariant(ctx context.Context, productID uuid.UUID, in VariantInput) (Variant, error) {
	row, err := s.queries.InsertVariant(ctx, db.InsertVariantParams{
		ProductID:      db.UUID(productID),
		Name:           in.Name,
		Sku:            db.Text(in.SKU),
		Barcode:        db.Text(in.Barcode),
		PublicPrice:    db.Numeric(in.PublicPrice),
		WholesalePrice: db.Numeric(in.WholesalePrice),
		StockQuantity:  int32(in.StockQuantity),
		MinStock:       int32(in.MinStock),
	})
	if err != nil {
		return Variant{}, err
	}
	return variantFromRow(row), nil
}

// UpdateVariant implements CatalogStore.
func (s *PostgresCatalog) UpdateVariant(ctx context.Context, id, productID uuid.UUID, in VariantInput) (Variant, error) {
	row, err := s.queries.UpdateVariant(ctx, db.UpdateVariantParams{
		ID:             db.UUID(id),
		ProductID:      db.UUID(productID),
		Name:           in.Name,
		Sku:            db.Text(in.SKU),
		Barcode:        db.Text(in.Barcode),
		PublicPrice:    db.Numeric(in.PublicPrice),
		WholesalePrice: db.Numeric(in.WholesalePrice),
		StockQuantity:  int32(in.StockQuantity),
		MinStock:       int32(in.MinStock),
	})
	if err != nil {
		return Variant{}, notFound(err)
	}
	return variantFromRow(row), nil
}

// ListProducts implements CatalogReader.
func (s *PostgresCatalog) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.queries.ListActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	products := make([]Product, len(rows))
	for i, row := range rows {
		products[i] = productFromRow(row)
	}
	return products, nil
}

// ListVariants implements CatalogReader.
func (s *PostgresCatalog) ListVariants(ctx context.Context) ([]Variant, error) {
	rows, err := s.queries.ListActiveVariants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	variants := make([]Variant, len(rows))
	for i, row := range rows {
		variants[i] = variantFromRow(row)
	}
	return variants, nil
}

// notFound maps pgx.ErrNoRows onto ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func productFromRow(row db.Product) Product {
	return Product{
		ID: db.UUIDValue(row.ID),
		ProductInput: ProductInput{
			Name:           row.Name,
			Description:    db.TextValue(row.Description),
			SKU:            db.TextValue(row.Sku),
			Barcode:        db.TextValue(row.Barcode),
			PublicPrice:    db.Decimal(row.PublicPrice),
			WholesalePrice: db.Decimal(row.WholesalePrice),
			Cost:           db.Decimal(row.Cost),
			Category:       db.TextValue(row.Category),
			Brand:          db.TextValue(row.Brand),
			StockQuantity:  int(row.StockQuantity),
			MinStock:       int(row.MinStock),
			HasVariants:    row.HasVariants,
		},
		Active:    row.Active,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

func variantFromRow(row db.ProductVariant) Variant {
	return Variant{
		ID:        db.UUIDValue(row.ID),
		ProductID: db.UUIDValue(row.ProductID),
		VariantInput: VariantInput{
			Name:           row.Name,
			SKU:            db.TextValue(row.Sku),
			Barcode:        db.TextValue(row.Barcode),
			PublicPrice:    db.Decimal(row.PublicPrice),
			WholesalePrice: db.Decimal(row.WholesalePrice),
			StockQuantity:  int(row.StockQuantity),
			MinStock:       int(row.MinStock),
		},
		Active: row.Active,
	}
}
