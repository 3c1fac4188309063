package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Bucket is a refill-on-interval token bucket. Every call into the
// generation backend consumes one token; when the bucket drains,
// callers block until the next refill or their context expires.
type Bucket struct {
	mu         sync.Mutex
	maxTokens  int
	currTokens int
	increment  int
	interval   time.Duration
	refillCh   chan struct{}
	stopCh     chan struct{}
	stopOnce   sync.Once
}

func New(maxTokens, initialTokens, increment int, interval time.Duration) *Bucket {
	if maxTokens <= 0 {
		panic("maxTokens must be greater than 0")
	}
	if increment <= 0 || interval <= 0 {
		panic("refill increment and interval must be greater than 0")
	}
	if initialTokens > maxTokens {
		initialTokens = maxTokens
	}
	b := &Bucket{
		maxTokens:  maxTokens,
		currTokens: initialTokens,
		increment:  increment,
		interval:   interval,
		refillCh:   make(chan struct{}, 1),
		stopCh:     make(chan struct{}),
	}
	go b.refillLoop()
	return b
}

func (b *Bucket) refillLoop() {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-b.stopCh:
			return
		case <-ticker.C:
			b.mu.Lock()
			b.currTokens += b.increment
			if b.currTokens > b.maxTokens {
				b.currTokens = b.maxTokens
			}
			b.mu.Unlock()
			select {
			case b.refillCh <- struct{}{}:
			default:
			}
		}
	}
}

// Acquire takes one token, blocking through refills until one is
// available.
func (b *Bucket) Acquire(ctx context.Context) error {
	for {
		b.mu.Lock()
		if b.currTokens > 0 {
			b.currTokens--
			b.mu.Unlock()
			return nil
		}
		b.mu.Unlock()

		select {
		case <-b.refillCh:
			// wake the next waiter too, the refill may cover several
			select {
			case b.refillCh <- struct{}{}:
			default:
			}
		case <-b.stopCh:
			return fmt.Errorf("stopped")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (b *Bucket) Stop() {
	b.stopOnce.Do(func() {
		close(b.stopCh)
	})
}
