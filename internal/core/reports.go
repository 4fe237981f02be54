package core

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrReportNotFound is returned for unknown or expired import reports.
var ErrReportNotFound = errors.New("import report not found")

// DefaultReportTTL is how long import reports are kept.
const DefaultReportTTL = 24 * time.Hour

// ReportStore keeps finished import results so they can be fetched by id.
type ReportStore interface {
	Save(ctx context.Context, result *ImportResult) error
	Get(ctx context.Context, id string) (*ImportResult, error)
}

// MemoryReportStore is a process-local ReportStore with expiry.
type MemoryReportStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	reports map[string]storedReport
}

type storedReport struct {
	result    ImportResult
	expiresAt time.Time
}

// NewMemoryReportStore creates a store that forgets reports after ttl.
func NewMemoryReportStore(ttl time.Duration) *MemoryReportStore {
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	return &MemoryReportStore{
		ttl:     ttl,
		now:     time.Now,
		reports: make(map[string]storedReport),
	}
}

// Save stores a copy of result under its id.
func (s *MemoryReportStore) Save(_ context.Context, result *ImportResult) error {
	if result == nil || result.ID == "" {
		return errors.New("report has no id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeLocked(now)
	s.reports[result.ID] = storedReport{result: *result, expiresAt: now.Add(s.ttl)}
	return nil
}

// Purge drops expired reports and returns how many were removed.
func (s *MemoryReportStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purgeLocked(s.now())
}

func (s *MemoryReportStore) purgeLocked(now time.Time) int {
	purged := 0
	for id, r := range s.reports {
		if now.After(r.expiresAt) {
			delete(s.reports, id)
			purged++
		}
	}
	return purged
}

// Len returns the number of stored reports, expired or not.
func (s *MemoryReportStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}

// Get returns a copy of the stored report.
func (s *MemoryReportStore) Get(_ context.Context, id string) (*ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reports[id]
	if !ok {
		return nil, ErrReportNotFound
	}
	if s.now().After(r.expiresAt) {
		delete(s.reports, id)
		return nil, ErrReportNotFound
	}
	result := r.result
	return &result, nil
}
