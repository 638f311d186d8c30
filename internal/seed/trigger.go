package seed

import (
	"context"
	"sync"
)

// Trigger runs its function the first time Fire is called and returns
// the same outcome to every later caller.
type Trigger struct {
	once sync.Once
	fn   func(context.Context) error
	err  error
}

func NewTrigger(fn func(context.Context) error) *Trigger {
	return &Trigger{fn: fn}
}

func (t *Trigger) Fire(ctx context.Context) error {
	t.once.Do(func() {
		t.err = t.fn(ctx)
	})
	return t.err
}
