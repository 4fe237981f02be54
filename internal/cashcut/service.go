package cashcut

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	db "github.com/JonMunkholm/pos/internal/database"
	"github.com/JonMunkholm/pos/internal/logging"
)

// Store reads the day's sales and movements and records new movements.
// Ranges are half open: from <= created_at < to.
type Store interface {
	ListCompletedSales(ctx context.Context, from, to time.Time) ([]Sale, error)
	ListMovements(ctx context.Context, from, to time.Time) ([]Movement, error)
	InsertMovement(ctx context.Context, in MovementInput) (Movement, error)
}

// MovementInput is a quick entry or exit submitted by the cashier.
type MovementInput struct {
	Type    string          `json:"type" validate:"required,oneof=entrada salida"`
	Amount  decimal.Decimal `json:"amount" validate:"gt=0"`
	Concept string          `json:"concept" validate:"required,max=255"`
}

// Service produces cash cuts and records movements.
type Service struct {
	store    Store
	loc      *time.Location
	validate *validator.Validate
}

// NewService creates a cash service. Days are cut in loc; nil means the
// server's local zone.
func NewService(store Store, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}

	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return &Service{store: store, loc: loc, validate: v}
}

// Cut computes the cash cut for the day containing day.
func (s *Service) Cut(ctx context.Context, day time.Time) (CashCut, error) {
	from, to := DayBounds(day, s.loc)

	sales, err := s.store.ListCompletedSales(ctx, from, to)
	if err != nil {
		return CashCut{}, fmt.Errorf("list sales: %w", err)
	}
	movements, err := s.store.ListMovements(ctx, from, to)
	if err != nil {
		return CashCut{}, fmt.Errorf("list cash movements: %w", err)
	}

	cut := Compute(from, sales, movements)
	logging.FromContext(ctx).Info("cash cut generated",
		"date", cut.Date,
		"sales", cut.Sales.Count,
		"expected_cash", cut.ExpectedCash.StringFixed(2),
	)
	return cut, nil
}

// ListMovements returns the movements of the day containing day.
func (s *Service) ListMovements(ctx context.Context, day time.Time) ([]Movement, error) {
	from, to := DayBounds(day, s.loc)
	return s.store.ListMovements(ctx, from, to)
}

// RecordMovement validates and stores a quick entry or exit.
func (s *Service) RecordMovement(ctx context.Context, in MovementInput) (Movement, error) {
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	in.Concept = strings.TrimSpace(in.Concept)

	if err := s.validate.Struct(in); err != nil {
		return Movement{}, err
	}

	m, err := s.store.InsertMovement(ctx, in)
	if err != nil {
		return Movement{}, fmt.Errorf("insert cash movement: %w", err)
	}
	logging.FromContext(ctx).Info("cash movement recorded",
		"type", m.Type,
		"amount", m.Amount.StringFixed(2),
	)
	return m, nil
}

// PostgresStore reads sales and cash movements from PostgreSQL.
type PostgresStore struct {
	q *db.Queries
}

// NewPostgresStore creates a store over conn.
func NewPostgresStore(conn db.DBTX) *PostgresStore {
	return &PostgresStore{q: db.New(conn)}
}

// ListCompletedSales implements Store.
func (p *PostgresStore) ListCompletedSales(ctx context.Context, from, to time.Time) ([]Sale, error) {
	rows, err := p.q.ListCompletedSalesBetween(ctx, db.ListCompletedSalesBetweenParams{
		FromTime: db.Timestamptz(from),
		ToTime:   db.Timestamptz(to),
	})
	if err != nil {
		return nil, err
	}
	sales := make([]Sale, len(rows))
	for i, r := range rows {
		sales[i] = Sale{
			Total:         db.Decimal(r.Total),
			PaymentMethod: r.PaymentMethod,
			SaleType:      r.SaleType,
		}
	}
	return sales, nil
}

// ListMovements implements Store.
func (p *PostgresStore) ListMovements(ctx context.Context, from, to time.Time) ([]Movement, error) {
	rows, err := p.q.ListCashMovementsBetween(ctx, db.ListCashMovementsBetweenParams{
		FromTime: db.Timestamptz(from),
		ToTime:   db.Timestamptz(to),
	})
	if err != nil {
		return nil, err
	}
	movements := make([]Movement, len(rows))
	for i, r := range rows {
		movements[i] = movementFromDB(r)
	}
	return movements, nil
}

// InsertMovement implements Store.
func (p *PostgresStore) InsertMovement(ctx context.Context, in MovementInput) (Movement, error) {
	row, err := p.q.InsertCashMovement(ctx, db.InsertCashMovementParams{
		Type:    in.Type,
		Amount:  db.Numeric(in.Amount),
		Concept: in.Concept,
	})
	if err != nil {
		return Movement{}, err
	}
	return movementFromDB(row), nil
}

func movementFromDB(r db.CashMovement) Movement {
	return Movement{
		ID:        db.UUIDValue(r.ID),
		Type:      r.Type,
		Amount:    db.Decimal(r.Amount),
		Concept:   r.Concept,
		CreatedAt: r.CreatedAt.Time,
	}
}

// MemorySale is a sale held by MemoryStore.
type MemorySale struct {
	Sale
	Status    string
	CreatedAt time.Time
}

// MemoryStore keeps sales and movements in process memory.
type MemoryStore struct {
	mu        sync.Mutex
	sales     []MemorySale
	movements []Movement
	now       func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// AddSale records a sale.
func (m *MemoryStore) AddSale(s MemorySale) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sales = append(m.sales, s)
}

// AddMovement records a movement with its own timestamp.
func (m *MemoryStore) AddMovement(mv Movement) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mv.ID == uuid.Nil {
		mv.ID = uuid.New()
	}
	m.movements = append(m.movements, mv)
}

// ListCompletedSales implements Store.
func (m *MemoryStore) ListCompletedSales(_ context.Context, from, to time.Time) ([]Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Sale
	for _, s := range m.sales {
		if s.Status == "completada" && within(s.CreatedAt, from, to) {
			out = append(out, s.Sale)
		}
	}
	return out, nil
}

// ListMovements implements Store, newest first.
func (m *MemoryStore) ListMovements(_ context.Context, from, to time.Time) ([]Movement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []Movement{}
	for _, mv := range m.movements {
		if within(mv.CreatedAt, from, to) {
			out = append(out, mv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// InsertMovement implements Store.
func (m *MemoryStore) InsertMovement(_ context.Context, in MovementInput) (Movement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mv := Movement{
		ID:        uuid.New(),
		Type:      in.Type,
		Amount:    in.Amount,
		Concept:   in.Concept,
		CreatedAt: m.now(),
	}
	m.movements = append(m.movements, mv)
	return mv, nil
}

func within(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
