package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryStateRepository is the in-process fallback used when redis is
// not configured or unreachable.
type MemoryStateRepository struct {
	failures sync.Map
	revoked  sync.Map
}

func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{}
}

type counterEntry struct {
	mu        sync.Mutex
	count     int
	expiresAt time.Time
}

func (r *MemoryStateRepository) RecordLoginFailure(ctx context.Context, email string, window time.Duration) (int, error) {
	now := time.Now()
	val, _ := r.failures.LoadOrStore(email, &counterEntry{})
	entry := val.(*counterEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.count == 0 || now.After(entry.expiresAt) {
		entry.count = 1
		entry.expiresAt = now.Add(window)
	} else {
		entry.count++
	}
	return entry.count, nil
}

func (r *MemoryStateRepository) ClearLoginFailures(ctx context.Context, email string) error {
	r.failures.Delete(email)
	return nil
}

func (r *MemoryStateRepository) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	r.revoked.Store(tokenID, time.Now().Add(ttl))
	return nil
}

func (r *MemoryStateRepository) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	val, ok := r.revoked.Load(tokenID)
	if !ok {
		return false, nil
	}
	if time.Now().After(val.(time.Time)) {
		r.revoked.Delete(tokenID)
		return false, nil
	}
	return true, nil
}
