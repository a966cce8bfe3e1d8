package activity

import (
	"context"
	"sync"
)

// Bus is the observer list the stores publish to. Subscribers can come and go
// while the bus is in use.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	hooks  map[int]Hook
	order  []int
}

func NewBus() *Bus {
	return &Bus{hooks: map[int]Hook{}}
}

// Subscribe registers hook and returns a function that removes it again.
func (b *Bus) Subscribe(hook Hook) (unsubscribe func()) {
	if hook == nil {
		return func() {}
	}
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.hooks[id] = hook
	b.order = append(b.order, id)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.hooks, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i:i], b.order[i+1:]...)
					break
				}
			}
			b.mu.Unlock()
		})
	}
}

// Len reports the number of current subscribers.
func (b *Bus) Len() int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.order)
}

// Emit delivers event to every subscriber in subscription order. A nil bus is a no-op.
func (b *Bus) Emit(ctx context.Context, event Event) error {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	hooks := make(Hooks, 0, len(b.order))
	for _, id := range b.order {
		hooks = append(hooks, b.hooks[id])
	}
	b.mu.RUnlock()
	return hooks.Notify(ctx, event)
}
