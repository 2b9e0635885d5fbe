package cache

import (
	"context"
	"log"
	"sync"

	"oraclequiz/internal/model"
)

// FetchFunc produces the next speculative quiz payload.
type FetchFunc func(ctx context.Context) (*model.QuizPayload, error)

// PrefetchState is the phase of the single prefetch slot.
type PrefetchState int

const (
	PrefetchEmpty PrefetchState = iota
	PrefetchPending
	PrefetchReady
)

// PrefetchCache holds at most one speculatively fetched quiz so the next
// round can start without a visible network wait. Triggering while a fetch
// is in flight is dropped, not queued; a failed fetch just empties the slot
// again and the caller falls back to a direct fetch.
type PrefetchCache struct {
	mu      sync.Mutex
	state   PrefetchState
	payload *model.QuizPayload
}

func NewPrefetchCache() *PrefetchCache {
	return &PrefetchCache{state: PrefetchEmpty}
}

// Trigger starts a background fetch unless one is already pending or the
// slot already holds a payload. The Ready payload stays consumable the whole
// time; it only leaves the slot through Consume.
func (c *PrefetchCache) Trigger(ctx context.Context, fetch FetchFunc) {
	c.mu.Lock()
	if c.state != PrefetchEmpty {
		c.mu.Unlock()
		return
	}
	c.state = PrefetchPending
	c.mu.Unlock()

	go func() {
		payload, err := fetch(ctx)

		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			log.Printf("[Prefetch] background fetch failed: %v", err)
			c.state = PrefetchEmpty
			c.payload = nil
			return
		}
		c.state = PrefetchReady
		c.payload = payload
	}()
}

// Consume returns and clears the slot's payload, or reports not-ready.
func (c *PrefetchCache) Consume() (*model.QuizPayload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != PrefetchReady {
		return nil, false
	}
	payload := c.payload
	c.payload = nil
	c.state = PrefetchEmpty
	return payload, true
}

// State reports the slot's current phase.
func (c *PrefetchCache) State() PrefetchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
