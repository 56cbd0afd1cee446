// Package ratelimit bounds how often the paid summarizer may be called.
package ratelimit

import (
	"sync"
	"time"
)

// Budget is a daily request allowance. Allow consumes one request when
// the budget permits; the counter resets 24 hours after the first use of
// each window.
type Budget struct {
	mu        sync.Mutex
	max       int // 0 = unlimited
	count     int
	resetTime time.Time
	now       func() time.Time
}

func NewBudget(max int) *Budget {
	return &Budget{max: max, now: time.Now}
}

func (b *Budget) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max <= 0 {
		return true
	}

	now := b.now()
	if b.resetTime.IsZero() || now.After(b.resetTime) {
		b.count = 0
		b.resetTime = now.Add(24 * time.Hour)
	}

	if b.count >= b.max {
		return false
	}
	b.count++
	return true
}

// Used reports requests consumed in the current window.
func (b *Budget) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}
