package ratelimit

import (
	"context"
	"sync"
	"time"
)

const pollInterval = 100 * time.Millisecond

// TokenLimiter budgets LLM tokens per refill window. The Gemini free tier
// enforces a token-per-minute quota on top of the request quota, so callers
// reserve an estimated token count before each prompt goes out.
type TokenLimiter struct {
	mu         sync.Mutex
	capacity   int
	remaining  int
	window     time.Duration
	windowOpen time.Time
}

func NewTokenLimiter(tokensPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		capacity:   tokensPerMinute,
		remaining:  tokensPerMinute,
		window:     time.Minute,
		windowOpen: time.Now(),
	}
}

// Wait blocks until the budget covers the requested tokens or ctx expires.
// Requests larger than the full window capacity still proceed once a fresh
// window opens, otherwise they would wait forever.
func (l *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	for {
		if l.tryReserve(tokens) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func (l *TokenLimiter) tryReserve(tokens int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.windowOpen) >= l.window {
		l.remaining = l.capacity
		l.windowOpen = now
	}

	if l.remaining >= tokens || (tokens > l.capacity && l.remaining == l.capacity) {
		l.remaining -= tokens
		if l.remaining < 0 {
			l.remaining = 0
		}
		return true
	}
	return false
}

func (l *TokenLimiter) GetRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.remaining
}
