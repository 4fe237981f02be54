package invoice

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/pos/internal/core"
	db "github.com/JonMunkholm/pos/internal/database"
)

// MovementEntrada is the inventory movement type for received stock.
const MovementEntrada = "entrada"

// Pool is what PostgresStore needs from a connection pool.
type Pool interface {
	db.DBTX
	db.TxBeginner
}

// PostgresStore saves invoice products in PostgreSQL.
type PostgresStore struct {
	pool Pool
}

// NewPostgresStore creates a store over a pool.
func NewPostgresStore(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// SKUExists implements Store.
func (p *PostgresStore) SKUExists(ctx context.Context, sku string) (bool, error) {
	_, err := db.New(p.pool).GetProductBySku(ctx, db.Text(sku))
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateWithEntry implements Store. The product and its movement commit
// together.
func (p *PostgresStore) CreateWithEntry(ctx context.Context, in core.ProductInput, entry Entry) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.WithTx(ctx, p.pool, func(tx pgx.Tx) error {
		product, err := core.NewPostgresCatalog(tx).CreateProduct(ctx, in)
		if err != nil {
			return err
		}

		if _, err := db.New(tx).InsertInventoryMovement(ctx, db.InsertInventoryMovementParams{
			ProductID:    db.UUID(product.ID),
			MovementType: MovementEntrada,
			Quantity:     int32(entry.Quantity),
			Reason:       db.Text(entry.Reason),
			ReferenceID:  db.Text(entry.ReferenceID),
		}); err != nil {
			return fmt.Errorf("insert movement: %w", err)
		}

		id = product.ID
		return nil
	})
	return id, err
}

// Movement is an inventory movement recorded by MemoryStore.
type Movement struct {
	ProductID uuid.UUID
	Type      string
	Entry
}

// MemoryStore keeps invoice products in a core.MemoryCatalog.
type MemoryStore struct {
	Catalog *core.MemoryCatalog

	mu        sync.Mutex
	movements []Movement
}

// NewMemoryStore creates a store over catalog.
func NewMemoryStore(catalog *core.MemoryCatalog) *MemoryStore {
	return &MemoryStore{Catalog: catalog}
}

// SKUExists implements Store.
func (m *MemoryStore) SKUExists(ctx context.Context, sku string) (bool, error) {
	_, err := m.Catalog.FindProduct(ctx, core.BySKU, sku)
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// CreateWithEntry implements Store.
func (m *MemoryStore) CreateWithEntry(ctx context.Context, in core.ProductInput, entry Entry) (uuid.UUID, error) {
	product, err := m.Catalog.CreateProduct(ctx, in)
	if err != nil {
		return uuid.Nil, err
	}

	m.mu.Lock()
	m.movements = append(m.movements, Movement{ProductID: product.ID, Type: MovementEntrada, Entry: entry})
	m.mu.Unlock()
	return product.ID, nil
}

// Movements returns the recorded movements.
func (m *MemoryStore) Movements() []Movement {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Movement(nil), m.movements...)
}
