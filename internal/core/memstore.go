package core

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryCatalog is an in-process CatalogStore and CatalogReader. Lookups
// return the earliest created match, like LIMIT 1 over insertion order.
type MemoryCatalog struct {
	mu       sync.RWMutex
	products []Product
	variants []Variant
}

// NewMemoryCatalog returns an empty catalog.
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{}
}

// FindProduct implements CatalogStore.
func (m *MemoryCatalog) FindProduct(_ context.Context, field IdentityField, value string) (Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.products {
		if matchesIdentity(field, value, p.Barcode, p.SKU) {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

// CreateProduct implements CatalogStore.
func (m *MemoryCatalog) CreateProduct(_ context.Context, in ProductInput) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	p := Product{
		ID:           uuid.New(),
		ProductInput: in,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.products = append(m.products, p)
	return p, nil
}

// UpdateProduct implements CatalogStore.
func (m *MemoryCatalog) UpdateProduct(_ context.Context, id uuid.UUID, in ProductInput) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.products {
		if m.products[i].ID == id {
			m.products[i].ProductInput = in
			m.products[i].UpdatedAt = time.Now()
			return m.products[i], nil
		}
	}
	return Product{}, ErrNotFound
}

// FindVariant implements CatalogStore.
func (m *MemoryCatalog) FindVariant(_ context.Context, field IdentityField, value string) (Variant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, v := range m.variants {
		if matchesIdentity(field, value, v.Barcode, v.SKU) {
			return v, nil
		}
	}
	return Variant{}, ErrNotFound
}

// CreateVariant implements CatalogStore.
func (m *MemoryCatalog) CreateVariant(_ context.Context, productID uuid.UUID, in VariantInput) (Variant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.hasProduct(productID) {
		return Variant{}, errMissingProduct
	}
	v := Variant{
		ID:           uuid.New(),
		ProductID:    productID,
		VariantInput: in,
		Active:       true,
	}
	m.variants = append(m.variants, v)
	return v, nil
}

// UpdateVariant implements CatalogStore.
func (m *MemoryCatalog) UpdateVariant(_ context.Context, id, productID uuid.UUID, in VariantInput) (Variant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.hasProduct(productID) {
		return Variant{}, errMissingProduct
	}
	for i := range m.variants {
		if m.variants[i].ID == id {
			m.variants[i].ProductID = productID
			m.variants[i].VariantInput = in
			return m.variants[i], nil
		}
	}
	return Variant{}, ErrNotFound
}

// ListProducts implements CatalogReader, ordered by name.
func (m *MemoryCatalog) ListProducts(_ context.Context) ([]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Product, 0, len(m.products))
	for _, p := range m.products {
		if p.Active {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListVariants implements CatalogReader, ordered by name.
func (m *MemoryCatalog) ListVariants(_ context.Context) ([]Variant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Variant, 0, len(m.variants))
	for _, v := range m.variants {
		if v.Active {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Counts returns how many products and variants are stored.
func (m *MemoryCatalog) Counts() (products, variants int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.products), len(m.variants)
}

func (m *MemoryCatalog) hasProduct(id uuid.UUID) bool {
	for _, p := range m.products {
		if p.ID == id {
			return true
		}
	}
	return false
}

// errMissingProduct mirrors the variants foreign key.
var errMissingProduct = errors.New(`insert or update on table "product_variants" violates foreign key constraint`)

func matchesIdentity(field IdentityField, value, barcode, sku string) bool {
	if value == "" {
		return false
	}
	switch field {
	case ByBarcode:
		return barcode == value
	case BySKU:
		return sku == value
	}
	return false
}
