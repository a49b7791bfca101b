// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dobrohub/dobrohub/internal/metrics"
)

// ErrLockTimeout is returned when a mutation gives up waiting for its key's
// lock. It is retryable: the caller's state was not touched.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// KeyedLock provides per-key mutual exclusion with bounded waiting.
//
// Every read-modify-write cycle against a collection must run under the lock
// for its key: the collection name for coarse operations, or a project
// reference for finer granularity. The lifecycle scheduler takes the same
// locks as request handlers; it holds no privileged write path.
type KeyedLock struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewKeyedLock creates an empty lock table.
func NewKeyedLock() *KeyedLock {
	return &KeyedLock{slots: make(map[string]chan struct{})}
}

func (l *KeyedLock) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = make(chan struct{}, 1)
		l.slots[key] = s
	}
	return s
}

// Acquire takes the lock for key, waiting at most timeout. It returns a
// release function on success and ErrLockTimeout when the wait expires or
// the context is canceled first.
func (l *KeyedLock) Acquire(ctx context.Context, key string, timeout time.Duration) (func(), error) {
	s := l.slot(key)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case s <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() { <-s })
		}, nil
	case <-timer.C:
		metrics.LockTimeouts.Inc()
		return nil, ErrLockTimeout
	case <-ctx.Done():
		metrics.LockTimeouts.Inc()
		return nil, ErrLockTimeout
	}
}
