package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryTRL is an in-process token revocation list for single-instance
// deployments and tests.
type MemoryTRL struct {
	mu      sync.RWMutex
	revoked map[string]time.Time // jti -> expiry
	clock   Clock
}

// MemoryTRLOption configures a MemoryTRL instance.
type MemoryTRLOption func(*MemoryTRL)

// WithMemoryClock sets the clock function for testability.
func WithMemoryClock(clock Clock) MemoryTRLOption {
	return func(trl *MemoryTRL) {
		if clock != nil {
			trl.clock = clock
		}
	}
}

// NewMemoryTRL constructs an in-memory token revocation list.
func NewMemoryTRL(opts ...MemoryTRLOption) *MemoryTRL {
	trl := &MemoryTRL{
		revoked: make(map[string]time.Time),
		clock:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(trl)
		}
	}
	return trl
}

// RevokeToken adds a token to the revocation list with TTL.
func (t *MemoryTRL) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	if err := validateTTL(ttl); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.revoked[jti] = t.clock().Add(ttl)
	t.sweepLocked()
	return nil
}

// IsRevoked checks if a token is in the revocation list.
func (t *MemoryTRL) IsRevoked(_ context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}

	t.mu.RLock()
	expiresAt, ok := t.revoked[jti]
	t.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return !t.clock().After(expiresAt), nil
}

// sweepLocked drops expired entries. Callers must hold the write lock.
func (t *MemoryTRL) sweepLocked() {
	now := t.clock()
	for jti, expiresAt := range t.revoked {
		if now.After(expiresAt) {
			delete(t.revoked, jti)
		}
	}
}

var _ TokenRevocationList = (*MemoryTRL)(nil)
