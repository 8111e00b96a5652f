package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// TokenLimiter bounds LLM token consumption to a per-minute budget.
type TokenLimiter struct {
	limiter      *rate.Limiter
	maxPerMinute int
}

// NewTokenLimiter creates a limiter allowing maxPerMinute tokens per minute,
// with a full burst available at start.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		limiter:      rate.NewLimiter(rate.Limit(float64(maxPerMinute)/60.0), maxPerMinute),
		maxPerMinute: maxPerMinute,
	}
}

// Wait blocks until the given number of tokens can be spent. Requests larger
// than the full budget are clamped so they can eventually proceed.
func (t *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	if tokens > t.maxPerMinute {
		tokens = t.maxPerMinute
	}
	if tokens <= 0 {
		return nil
	}
	return t.limiter.WaitN(ctx, tokens)
}

// GetRemaining returns the number of tokens currently available.
func (t *TokenLimiter) GetRemaining() int {
	return int(t.limiter.Tokens())
}
