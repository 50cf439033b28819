package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/phrazzld/shop-api/internal/store"
)

// schema tells a table how to read and stamp the bookkeeping fields of E.
type schema[E any] struct {
	entity     string
	id         func(E) int64
	setID      func(*E, int64)
	version    func(E) int
	setVersion func(*E, int)
	naturalKey func(E) string
	compare    func(a, b E) int
	notFound   error
	duplicate  error
}

// table is a single-lock row set keyed by surrogate ID.
type table[E any] struct {
	schema[E]

	mu     sync.RWMutex
	nextID int64
	rows   map[int64]E
}

func newTable[E any](s schema[E]) *table[E] {
	return &table[E]{schema: s, rows: make(map[int64]E)}
}

func (t *table[E]) find(ctx context.Context, match func(E) bool) ([]E, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]E, 0)
	for _, row := range t.rows {
		if match(row) {
			out = append(out, row)
		}
	}
	slices.SortFunc(out, t.compare)
	return out, nil
}

func (t *table[E]) get(ctx context.Context, id int64) (E, error) {
	var zero E
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		return zero, t.notFound
	}
	return row, nil
}

func (t *table[E]) save(ctx context.Context, e E) (E, error) {
	var zero E
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.id(e)
	if id == 0 {
		if t.keyTaken(e, 0) {
			return zero, store.NewStoreError(t.entity, "create", "natural key already exists", t.duplicate)
		}
		t.nextID++
		t.setID(&e, t.nextID)
		t.setVersion(&e, 0)
		t.rows[t.nextID] = e
		return e, nil
	}

	current, ok := t.rows[id]
	if !ok {
		return zero, t.notFound
	}
	if t.version(current) != t.version(e) {
		return zero, fmt.Errorf("%w: %s %d is at version %d, not %d",
			store.ErrVersionConflict, t.entity, id, t.version(current), t.version(e))
	}
	if t.keyTaken(e, id) {
		return zero, store.NewStoreError(t.entity, "update", "natural key already exists", t.duplicate)
	}
	t.setVersion(&e, t.version(current)+1)
	t.rows[id] = e
	return e, nil
}

// keyTaken reports whether a row other than except already holds e's key.
// Callers must hold the write lock.
func (t *table[E]) keyTaken(e E, except int64) bool {
	key := t.naturalKey(e)
	for id, row := range t.rows {
		if id != except && t.naturalKey(row) == key {
			return true
		}
	}
	return false
}

func (t *table[E]) delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return t.notFound
	}
	delete(t.rows, id)
	return nil
}

func (t *table[E]) clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.rows)
	return nil
}

func (t *table[E]) count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows), nil
}
