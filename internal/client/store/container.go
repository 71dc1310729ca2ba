package store

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/goblog/internal/client/models"
	"github.com/dmitrijs2005/goblog/internal/common"
	"github.com/dmitrijs2005/goblog/internal/logging"
)

// Container owns an ordered list of entities, the currently selected one,
// a loading flag and the message of the last failed action.
type Container[T models.Entity] struct {
	name   string
	logger logging.Logger

	// action serializes actions; mu guards the fields below it.
	action sync.Mutex

	mu         sync.RWMutex
	items      []T
	current    T
	hasCurrent bool
	loading    bool
	errMsg     string
	warning    error
}

func NewContainer[T models.Entity](name string, logger logging.Logger) *Container[T] {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &Container[T]{name: name, logger: logger.With("container", name)}
}

// Items returns a copy of the list.
func (c *Container[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Current returns the selected entity, if one was fetched.
func (c *Container[T]) Current() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current, c.hasCurrent
}

func (c *Container[T]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Error is the message of the last failed action, "" after a success.
func (c *Container[T]) Error() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.errMsg
}

// LastWarning reports a non-fatal condition of the last action, such as
// common.ErrNotFoundInCache when the server accepted a change to an entity
// the local list did not hold.
func (c *Container[T]) LastWarning() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.warning
}

// run wraps fn in the loading/error protocol: loading is set and error
// cleared on entry, loading is cleared on every exit path (panics included).
func (c *Container[T]) run(ctx context.Context, op string, fn func(ctx context.Context) error) (err error) {
	c.action.Lock()
	defer c.action.Unlock()

	c.mu.Lock()
	c.loading = true
	c.errMsg = ""
	c.warning = nil
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading = false
		if err != nil {
			c.errMsg = common.Message(err)
		}
		c.mu.Unlock()
		if err != nil {
			c.logger.Warn(ctx, "action failed", "op", op, "error", err)
		}
	}()

	return fn(ctx)
}

func (c *Container[T]) warn(ctx context.Context, op string, id int) {
	c.mu.Lock()
	c.warning = common.ErrNotFoundInCache
	c.mu.Unlock()
	c.logger.Warn(ctx, "entity not in local list", "op", op, "id", id)
}

// FetchWith replaces the list with what list returns.
func (c *Container[T]) FetchWith(ctx context.Context, list func(ctx context.Context) ([]T, error)) error {
	return c.run(ctx, "fetch", func(ctx context.Context) error {
		items, err := list(ctx)
		if err != nil {
			return err
		}
		c.mu.Lock()
		c.items = dedupe(items)
		c.mu.Unlock()
		return nil
	})
}

// FetchOneWith makes the entity returned by get the current one.
func (c *Container[T]) FetchOneWith(ctx context.Context, get func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := c.run(ctx, "fetch one", func(ctx context.Context) error {
		v, err := get(ctx)
		if err != nil {
			return err
		}
		c.mu.Lock()
		c.current, c.hasCurrent = v, true
		c.mu.Unlock()
		out = v
		return nil
	})
	return out, err
}

// CreateWith prepends the created entity. A stale entry with the same id is
// dropped first so ids stay unique.
func (c *Container[T]) CreateWith(ctx context.Context, create func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := c.run(ctx, "create", func(ctx context.Context) error {
		v, err := create(ctx)
		if err != nil {
			return err
		}
		c.mu.Lock()
		items := slices.DeleteFunc(slices.Clone(c.items), func(it T) bool { return it.GetID() == v.GetID() })
		c.items = append([]T{v}, items...)
		c.mu.Unlock()
		out = v
		return nil
	})
	return out, err
}

// UpdateWith replaces the entity in place. When the id is not in the list the
// list is left alone and LastWarning reports common.ErrNotFoundInCache; the
// action still succeeds because the server accepted the change.
func (c *Container[T]) UpdateWith(ctx context.Context, update func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := c.run(ctx, "update", func(ctx context.Context) error {
		v, err := update(ctx)
		if err != nil {
			return err
		}
		out = v

		c.mu.Lock()
		if c.hasCurrent && c.current.GetID() == v.GetID() {
			c.current = v
		}
		i := slices.IndexFunc(c.items, func(it T) bool { return it.GetID() == v.GetID() })
		if i >= 0 {
			c.items = slices.Clone(c.items)
			c.items[i] = v
		}
		c.mu.Unlock()

		if i < 0 {
			c.warn(ctx, "update", v.GetID())
		}
		return nil
	})
	return out, err
}

// DeleteWith removes id after del succeeds. Deleting an id the list does not
// hold changes nothing and sets the same warning as UpdateWith.
func (c *Container[T]) DeleteWith(ctx context.Context, id int, del func(ctx context.Context) error) error {
	return c.run(ctx, "delete", func(ctx context.Context) error {
		if err := del(ctx); err != nil {
			return err
		}

		c.mu.Lock()
		n := len(c.items)
		c.items = slices.DeleteFunc(slices.Clone(c.items), func(it T) bool { return it.GetID() == id })
		removed := len(c.items) != n
		if c.hasCurrent && c.current.GetID() == id {
			var zero T
			c.current, c.hasCurrent = zero, false
		}
		c.mu.Unlock()

		if !removed {
			c.warn(ctx, "delete", id)
		}
		return nil
	})
}

// Reset drops all state, e.g. after logout.
func (c *Container[T]) Reset() {
	c.action.Lock()
	defer c.action.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.items, c.current, c.hasCurrent = nil, zero, false
	c.errMsg, c.warning = "", nil
}

// dedupe keeps the first occurrence of every id.
func dedupe[T models.Entity](items []T) []T {
	seen := make(map[int]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.GetID()]; ok {
			continue
		}
		seen[it.GetID()] = struct{}{}
		out = append(out, it)
	}
	return out
}
