package ratelimit

import (
	"baysawaar-server/internal/clients/redis"
	"baysawaar-server/internal/observability"
	"context"
	"fmt"
	"sync"
	"time"
)

const window = time.Minute

// Result represents the outcome of a rate limit check
type Result struct {
	Allowed      bool      `json:"allowed"`
	Limit        int       `json:"limit"`
	Remaining    int       `json:"remaining"`
	ResetAt      time.Time `json:"reset_at"`
	RetryAfterMs int       `json:"retry_after_ms,omitempty"`
}

// Service throttles public submissions per client using a one minute
// sliding window. Redis holds the window when available, otherwise an
// in-process window is used.
type Service struct {
	redis  *redis.Client
	logger *observability.Logger
	now    func() time.Time

	mu    sync.Mutex
	local map[string][]time.Time
}

func NewService(redisClient *redis.Client, logger *observability.Logger) *Service {
	return &Service{
		redis:  redisClient,
		logger: logger,
		now:    time.Now,
		local:  make(map[string][]time.Time),
	}
}

// Check records a hit for key and reports whether it is within limit.
// A limit of zero or less disables throttling.
func (s *Service) Check(ctx context.Context, key string, limit int) (Result, error) {
	if limit <= 0 {
		return Result{Allowed: true}, nil
	}
	now := s.now()

	if s.redis.IsEnabled() {
		result, err := s.checkRedis(ctx, key, limit, now)
		if err == nil {
			return result, nil
		}
		s.logger.Warn(ctx, "Redis rate limit check failed, falling back to in-process window",
			observability.Field{Key: "error", Value: err.Error()},
		)
	}
	return s.checkLocal(key, limit, now), nil
}

func (s *Service) checkRedis(ctx context.Context, key string, limit int, now time.Time) (Result, error) {
	count, oldest, err := s.redis.SlidingWindow(ctx, fmt.Sprintf("rl:%s", key), now, window, limit)
	if err != nil {
		return Result{}, err
	}
	return buildResult(count, oldest, limit, now), nil
}

func (s *Service) checkLocal(key string, limit int, now time.Time) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-window)
	hits := s.local[key][:0]
	for _, h := range s.local[key] {
		if h.After(cutoff) {
			hits = append(hits, h)
		}
	}

	var oldest time.Time
	if len(hits) > 0 {
		oldest = hits[0]
	}
	count := len(hits)
	if count < limit {
		hits = append(hits, now)
		if oldest.IsZero() {
			oldest = now
		}
	}

	if len(hits) == 0 {
		delete(s.local, key)
	} else {
		s.local[key] = hits
	}
	return buildResult(count, oldest, limit, now)
}

func buildResult(count int, oldest time.Time, limit int, now time.Time) Result {
	if oldest.IsZero() {
		oldest = now
	}
	resetAt := oldest.Add(window)

	if count >= limit {
		retryAfter := resetAt.Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
		return Result{
			Allowed:      false,
			Limit:        limit,
			Remaining:    0,
			ResetAt:      resetAt,
			RetryAfterMs: int(retryAfter.Milliseconds()),
		}
	}

	return Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - count - 1,
		ResetAt:   resetAt,
	}
}
