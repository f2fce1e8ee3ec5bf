package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"stayhub/internal/domain"
)

// FailoverStateRepository serves auth state from the primary (redis)
// and degrades to the fallback (memory) when the primary errors. The
// primary is retried after a cooldown.
type FailoverStateRepository struct {
	primary   domain.StateRepository
	fallback  domain.StateRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

const recoveryInterval = time.Minute

func NewFailoverStateRepository(primary, fallback domain.StateRepository, logger *zerolog.Logger) *FailoverStateRepository {
	return &FailoverStateRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// usePrimary reports whether the primary should serve the next call,
// allowing one probe per recovery interval while down.
func (r *FailoverStateRepository) usePrimary() bool {
	if !r.isDown.Load() {
		return true
	}
	last := time.Unix(r.lastCheck.Load(), 0)
	return time.Since(last) > recoveryInterval
}

func (r *FailoverStateRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary state repository failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().Unix())
}

func (r *FailoverStateRepository) markUp() {
	if r.isDown.Load() {
		r.logger.Info().Msg("Primary state repository recovered")
		r.isDown.Store(false)
	}
}

func (r *FailoverStateRepository) RecordLoginFailure(ctx context.Context, email string, window time.Duration) (int, error) {
	if r.usePrimary() {
		count, err := r.primary.RecordLoginFailure(ctx, email, window)
		if err == nil {
			r.markUp()
			return count, nil
		}
		r.markDown(err)
	}
	return r.fallback.RecordLoginFailure(ctx, email, window)
}

func (r *FailoverStateRepository) ClearLoginFailures(ctx context.Context, email string) error {
	if r.usePrimary() {
		err := r.primary.ClearLoginFailures(ctx, email)
		if err == nil {
			r.markUp()
			return nil
		}
		r.markDown(err)
	}
	return r.fallback.ClearLoginFailures(ctx, email)
}

func (r *FailoverStateRepository) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if r.usePrimary() {
		err := r.primary.RevokeToken(ctx, tokenID, ttl)
		if err == nil {
			r.markUp()
			// Mirror revocations so a later failover still blocks
			// the token.
			_ = r.fallback.RevokeToken(ctx, tokenID, ttl)
			return nil
		}
		r.markDown(err)
	}
	return r.fallback.RevokeToken(ctx, tokenID, ttl)
}

func (r *FailoverStateRepository) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	if r.usePrimary() {
		revoked, err := r.primary.IsTokenRevoked(ctx, tokenID)
		if err == nil {
			r.markUp()
			return revoked, nil
		}
		r.markDown(err)
	}
	return r.fallback.IsTokenRevoked(ctx, tokenID)
}
