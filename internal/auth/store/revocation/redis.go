package revocation

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var isRevokedDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "igamedb_is_token_revoked_duration_ms",
	Help:    "Latency of token revocation checks in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
})

const revokedTokenKeyPrefix = "trl:jti:"

// RedisTRL is a Redis-backed revocation list. Use it when several instances
// must share logout state.
type RedisTRL struct {
	client *redis.Client
}

// NewRedisTRL constructs a Redis-backed token revocation list.
func NewRedisTRL(client *redis.Client) *RedisTRL {
	return &RedisTRL{client: client}
}

// RevokeToken adds a token to the revocation list with TTL.
func (t *RedisTRL) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	if err := validateTTL(ttl); err != nil {
		return err
	}
	key := revokedTokenKeyPrefix + jti
	// Store "1" as a simple marker; the key existence is what matters
	return t.client.Set(ctx, key, "1", ttl).Err()
}

// IsRevoked checks if a token is in the revocation list. Returns false when
// the key is absent, which covers both never-revoked and already-expired.
func (t *RedisTRL) IsRevoked(ctx context.Context, jti string) (bool, error) {
	start := time.Now()
	defer func() {
		isRevokedDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	if jti == "" {
		return false, nil
	}
	key := revokedTokenKeyPrefix + jti
	_, err := t.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

var _ TokenRevocationList = (*RedisTRL)(nil)
