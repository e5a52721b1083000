// Package locks serializes work that must not run concurrently for the
// same key, such as two submissions checking for the same pending
// enrollment.
package locks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"
)

var ErrNotObtained = errors.New("lock not obtained")

// Locker acquires a named lock, waiting up to its configured limit.
// The returned release function is safe to call once.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

const (
	DefaultTTL  = 30 * time.Second
	DefaultWait = 5 * time.Second
)

type options struct {
	ttl  time.Duration
	wait time.Duration
}

type Option func(*options)

// WithTTL sets how long a Redis lock lives without a refresh. Holders
// refresh it at a third of the TTL until they release.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithWait bounds how long Lock waits for a held key.
func WithWait(wait time.Duration) Option {
	return func(o *options) {
		if wait > 0 {
			o.wait = wait
		}
	}
}

func newOptions(opts []Option) options {
	o := options{ttl: DefaultTTL, wait: DefaultWait}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// RedisLocker holds locks in Redis so they apply across server instances.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	wait   time.Duration
}

func NewRedisLocker(client *goredis.Client, opts ...Option) *RedisLocker {
	o := newOptions(opts)
	return &RedisLocker{client: redislock.New(client), ttl: o.ttl, wait: o.wait}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	lock, err := l.client.Obtain(waitCtx, "lock:"+key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(50 * time.Millisecond),
	})
	if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %s", ErrNotObtained, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain lock: %w", err)
	}

	done := make(chan struct{})
	go l.keepAlive(context.WithoutCancel(ctx), lock, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			_ = lock.Release(context.WithoutCancel(ctx))
		})
	}, nil
}

// keepAlive extends the lock until done is closed or the lock is lost.
func (l *RedisLocker) keepAlive(ctx context.Context, lock *redislock.Lock, done <-chan struct{}) {
	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := lock.Refresh(ctx, l.ttl, nil); err != nil {
				return
			}
		}
	}
}

// LocalLocker is an in-process keyed mutex for single-instance deployments.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*localEntry
	wait  time.Duration
}

type localEntry struct {
	ch   chan struct{}
	refs int
}

// NewLocalLocker ignores WithTTL; local locks live until released.
func NewLocalLocker(opts ...Option) *LocalLocker {
	return &LocalLocker{locks: make(map[string]*localEntry), wait: newOptions(opts).wait}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &localEntry{ch: make(chan struct{}, 1)}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	select {
	case entry.ch <- struct{}{}:
	case <-waitCtx.Done():
		l.unref(key, entry)
		return nil, fmt.Errorf("%w: %s: %v", ErrNotObtained, key, waitCtx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.ch
			l.unref(key, entry)
		})
	}, nil
}

func (l *LocalLocker) unref(key string, entry *localEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, key)
	}
}

// held reports how many keys currently have holders or waiters.
func (l *LocalLocker) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
