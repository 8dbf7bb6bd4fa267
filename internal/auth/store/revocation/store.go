// Package revocation tracks session tokens invalidated by logout. Tokens are
// identified by their JTI claim and entries expire together with the token
// itself, so the list stays small.
package revocation

import (
	"context"
	"fmt"
	"time"
)

// TokenRevocationList records revoked token IDs until their natural expiry.
type TokenRevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Clock lets tests control expiry evaluation.
type Clock func() time.Time

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive, got %s", ttl)
	}
	return nil
}
