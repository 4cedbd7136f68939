// Package tally counts order outcomes across processes so a chaos run can
// be summarised after the fact.
package tally

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter records and reports outcome counts.
type Counter interface {
	Incr(ctx context.Context, outcome string) error
	Counts(ctx context.Context) (map[string]int64, error)
}

type redisCounter struct {
	client *redis.Client
	key    string
}

// NewRedisCounter returns a Counter that keeps one Redis hash per service.
func NewRedisCounter(client *redis.Client, serviceName string) Counter {
	return &redisCounter{
		client: client,
		key:    GenerateKey(serviceName, "outcomes"),
	}
}

// NewRedisClient connects to addr. Calls honour their context deadline and
// an unresponsive server fails them within a few hundred milliseconds.
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:                  addr,
		DialTimeout:           500 * time.Millisecond,
		ReadTimeout:           250 * time.Millisecond,
		WriteTimeout:          250 * time.Millisecond,
		ContextTimeoutEnabled: true,
		MaxRetries:            1,
	})
}

func (r *redisCounter) Incr(ctx context.Context, outcome string) error {
	if err := r.client.HIncrBy(ctx, r.key, outcome, 1).Err(); err != nil {
		return fmt.Errorf("tally: incr %s: %w", outcome, err)
	}
	return nil
}

func (r *redisCounter) Counts(ctx context.Context) (map[string]int64, error) {
	raw, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("tally: read %s: %w", r.key, err)
	}

	counts := make(map[string]int64, len(raw))
	for outcome, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("tally: field %s: %w", outcome, err)
		}
		counts[outcome] = n
	}
	return counts, nil
}

// GenerateKey namespaces a key by service.
func GenerateKey(serviceName, key string) string {
	return fmt.Sprintf("%s:%s", serviceName, key)
}
