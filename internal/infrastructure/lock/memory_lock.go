package lock

import (
	"context"
	"sync"
	"time"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
)

// MemoryLocker is the single-instance RegenerationLocker.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]struct{})}
}

func (l *MemoryLocker) Acquire(_ context.Context, accountID string, from, to time.Time) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[accountID]; ok {
		return nil, &domain.RegenerationConflictError{AccountID: accountID, From: from, To: to}
	}
	l.held[accountID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, accountID)
			l.mu.Unlock()
		})
	}, nil
}
