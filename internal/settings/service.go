package settings

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	db "github.com/JonMunkholm/pos/internal/database"
)

// Store reads and writes setting rows.
type Store interface {
	ListSettings(ctx context.Context) ([]Row, error)
	SaveSettings(ctx context.Context, rows []Row) error
}

// Service loads and updates the typed settings.
type Service struct {
	store Store
}

// NewService creates a settings service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get decodes and validates the stored settings.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	rows, err := s.store.ListSettings(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("list settings: %w", err)
	}
	settings, err := Decode(rows)
	if err != nil {
		return Settings{}, err
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("stored settings: %w", err)
	}
	return settings, nil
}

// Update validates and stores every setting.
func (s *Service) Update(ctx context.Context, settings Settings) (Settings, error) {
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	if err := s.store.SaveSettings(ctx, Encode(settings)); err != nil {
		return Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return settings, nil
}

// Pool is what PostgresStore needs from a connection pool.
type Pool interface {
	db.DBTX
	db.TxBeginner
}

// PostgresStore is the settings table.
type PostgresStore struct {
	pool Pool
}

// NewPostgresStore creates a store over a pool.
func NewPostgresStore(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// ListSettings implements Store.
func (p *PostgresStore) ListSettings(ctx context.Context) ([]Row, error) {
	stored, err := db.New(p.pool).ListSettings(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, len(stored))
	for i, st := range stored {
		rows[i] = Row{Key: st.Key, Value: db.TextValue(st.Value), DataType: DataType(st.DataType)}
	}
	return rows, nil
}

// SaveSettings implements Store. All rows are written in one transaction.
func (p *PostgresStore) SaveSettings(ctx context.Context, rows []Row) error {
	return db.WithTx(ctx, p.pool, func(tx pgx.Tx) error {
		q := db.New(tx)
		for _, row := range rows {
			if err := q.UpsertSetting(ctx, db.UpsertSettingParams{
				Key:      row.Key,
				Value:    db.Text(row.Value),
				DataType: string(row.DataType),
			}); err != nil {
				return fmt.Errorf("upsert %s: %w", row.Key, err)
			}
		}
		return nil
	})
}

// MemoryStore keeps rows in process memory.
type MemoryStore struct {
	mu   sync.Mutex
	rows []Row
}

// NewMemoryStore creates a store seeded with rows.
func NewMemoryStore(rows ...Row) *MemoryStore {
	return &MemoryStore{rows: rows}
}

// ListSettings implements Store.
func (m *MemoryStore) ListSettings(context.Context) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Row(nil), m.rows...), nil
}

// SaveSettings implements Store, replacing rows with matching keys.
func (m *MemoryStore) SaveSettings(_ context.Context, rows []Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range rows {
		replaced := false
		for i := range m.rows {
			if m.rows[i].Key == row.Key {
				m.rows[i] = row
				replaced = true
				break
			}
		}
		if !replaced {
			m.rows = append(m.rows, row)
		}
	}
	return nil
}
