package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisReportStore keeps import reports in Redis as JSON with a TTL, so
// every server instance can answer for any import.
type RedisReportStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisReportStore creates a store over an existing client.
func NewRedisReportStore(client *redis.Client, ttl time.Duration) *RedisReportStore {
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	return &RedisReportStore{client: client, ttl: ttl}
}

func (s *RedisReportStore) key(id string) string {
	return fmt.Sprintf("catalog_import:report:%s", id)
}

// Save implements ReportStore.
func (s *RedisReportStore) Save(ctx context.Context, result *ImportResult) error {
	if result == nil || result.ID == "" {
		return errors.New("report has no id")
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if err := s.client.Set(ctx, s.key(result.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// Get implements ReportStore.
func (s *RedisReportStore) Get(ctx context.Context, id string) (*ImportResult, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}

	var result ImportResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &result, nil
}
