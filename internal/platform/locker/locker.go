// Package locker serialises settlement work on a key, either within the
// process or across processes through Redis.
package locker

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	portssvc "github.com/SscSPs/settlement_app/internal/core/ports/services"
)

// Local is an in-process keyed mutex. Waiters give up when their context ends.
type Local struct {
	mu   sync.Mutex
	keys map[string]*localKey
}

type localKey struct {
	held chan struct{}
	refs int
}

// NewLocal creates a Local locker.
func NewLocal() *Local {
	return &Local{keys: make(map[string]*localKey)}
}

var _ portssvc.Locker = (*Local)(nil)

// Obtain blocks until key is free or ctx is done.
func (l *Local) Obtain(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	k, ok := l.keys[key]
	if !ok {
		k = &localKey{held: make(chan struct{}, 1)}
		l.keys[key] = k
	}
	k.refs++
	l.mu.Unlock()

	select {
	case k.held <- struct{}{}:
	case <-ctx.Done():
		l.unref(key, k)
		return nil, fmt.Errorf("%w: lock %s: %v", apperrors.ErrConcurrentModification, key, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-k.held
			l.unref(key, k)
		})
	}, nil
}

func (l *Local) unref(key string, k *localKey) {
	l.mu.Lock()
	defer l.mu.Unlock()
	k.refs--
	if k.refs == 0 {
		delete(l.keys, key)
	}
}
