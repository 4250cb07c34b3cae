package denylist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/summaries/internal/logging"
	"github.com/Skotchmaster/summaries/internal/metrics"
)

const (
	keyPrefix    = "denylist:"
	revokedValue = "revoked"
)

var ErrStoreUnavailable = errors.New("denylist store unavailable")

// Status is the outcome of a denylist lookup.
type Status int

const (
	NotRevoked Status = iota
	Revoked
	StoreUnavailable
)

func (s Status) String() string {
	switch s {
	case Revoked:
		return "revoked"
	case StoreUnavailable:
		return "store_unavailable"
	default:
		return "not_revoked"
	}
}

type Denylist struct {
	store Store
}

func New(store Store) *Denylist {
	return &Denylist{store: store}
}

func key(jti string) string { return keyPrefix + jti }

// Check looks jti up without applying any failure policy.
func (d *Denylist) Check(ctx context.Context, jti string) Status {
	v, found, err := d.store.Get(ctx, key(jti))
	if err != nil {
		logging.FromContext(ctx).Warn("denylist_lookup_failed", "jti", jti, "err", err)
		return StoreUnavailable
	}
	if found && v == revokedValue {
		return Revoked
	}
	return NotRevoked
}

// IsRevoked fails open: an unreachable store counts as not revoked.
func (d *Denylist) IsRevoked(ctx context.Context, jti string) bool {
	switch d.Check(ctx, jti) {
	case Revoked:
		return true
	case StoreUnavailable:
		metrics.DenylistUnavailable.Inc()
		return false
	default:
		return false
	}
}

// Revoke marks jti as revoked for ttl. It reports false when jti was
// already present. Entries are never deleted; expiry is the only cleanup.
func (d *Denylist) Revoke(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, fmt.Errorf("revoke %s: non-positive ttl %s", jti, ttl)
	}
	created, err := d.store.SetWithTTL(ctx, key(jti), revokedValue, ttl)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return created, nil
}
