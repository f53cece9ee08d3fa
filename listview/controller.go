package listview

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Status is the record store's load state.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrNotFound is returned when an operation names a record id that is not
// in the store.
var ErrNotFound = errors.New("record not found")

// FetchError wraps a failed load. The previous record set is preserved,
// so the page can keep rendering last-good data behind an error banner.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch failed: %v", e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// PatchError wraps a failed gateway write. The store was never mutated,
// so no rollback is needed.
type PatchError struct {
	ID    string
	Field string
	Err   error
}

func (e *PatchError) Error() string {
	return fmt.Sprintf("patch %s.%s failed: %v", e.ID, e.Field, e.Err)
}
func (e *PatchError) Unwrap() error { return e.Err }

// Fetch loads the complete record set from the backing collection.
type Fetch[T any] func(ctx context.Context) ([]T, error)

// Controller is the managed list behind one dashboard page: records,
// filter state, summary stats and pagination, with write-through
// mutations via a Gateway.
//
// All methods are safe for concurrent use. The filtered view and stats
// are memoized and invalidated by any store change.
type Controller[T any] struct {
	mu       sync.Mutex
	schema   Schema[T]
	fetch    Fetch[T]
	gateway  Gateway
	pageSize int

	records []T
	index   map[string]int
	status  Status
	loadErr error

	filter FilterState
	page   int

	view    []T
	viewOK  bool
	stats   Stats
	statsOK bool
}

// New builds a controller. pageSize values below 1 fall back to 10.
func New[T any](schema Schema[T], fetch Fetch[T], gateway Gateway, pageSize int) *Controller[T] {
	if pageSize < 1 {
		pageSize = 10
	}
	if gateway == nil {
		gateway = LocalGateway{}
	}
	return &Controller[T]{
		schema:   schema,
		fetch:    fetch,
		gateway:  gateway,
		pageSize: pageSize,
		index:    make(map[string]int),
		filter:   FilterState{Categorical: make(map[string]string)},
		page:     1,
		status:   StatusIdle,
	}
}

// Load replaces the record set from the fetch function. On failure the
// previous records are preserved and a *FetchError is returned; the
// status still flips to StatusError so the page can show a banner.
// Concurrent loads are allowed; the last one to complete wins.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.status = StatusLoading
	fetch := c.fetch
	c.mu.Unlock()

	records, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.status = StatusError
		c.loadErr = err
		return &FetchError{Err: err}
	}

	c.records = records
	c.index = make(map[string]int, len(records))
	for i, rec := range records {
		id := c.schema.ID(rec)
		// First occurrence wins; the store contract forbids duplicates.
		if _, exists := c.index[id]; !exists {
			c.index[id] = i
		}
	}
	c.status = StatusReady
	c.loadErr = nil
	c.page = 1
	c.invalidate()
	return nil
}

// Refresh is an explicit reload; identical to Load.
func (c *Controller[T]) Refresh(ctx context.Context) error { return c.Load(ctx) }

// Status returns the load state and, in StatusError, the cause.
func (c *Controller[T]) Status() (Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, c.loadErr
}

// Records returns a copy of the full, unfiltered record set.
func (c *Controller[T]) Records() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.records))
	copy(out, c.records)
	return out
}

// Len returns the unfiltered record count.
func (c *Controller[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// SetSearch updates the free-text search term. Changing it resets the
// current page to 1.
func (c *Controller[T]) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.filter.Search == term {
		return
	}
	c.filter.Search = term
	c.page = 1
	c.viewOK = false
}

// SetFilter updates one categorical constraint. Undeclared field names
// are ignored. Changing a constraint resets the current page to 1.
func (c *Controller[T]) SetFilter(field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.schema.Categorical[field]; !ok {
		return
	}
	if c.filter.Categorical[field] == value {
		return
	}
	c.filter.Categorical[field] = value
	c.page = 1
	c.viewOK = false
}

// ClearFilters drops the search term and every categorical constraint.
func (c *Controller[T]) ClearFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.filter.Search == "" && len(c.filter.Categorical) == 0 {
		return
	}
	c.filter = FilterState{Categorical: make(map[string]string)}
	c.page = 1
	c.viewOK = false
}

// Filter returns a copy of the current filter state.
func (c *Controller[T]) Filter() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter.clone()
}

// SetPage moves to the requested page; out-of-range values are clamped
// when the page is rendered.
func (c *Controller[T]) SetPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 1 {
		n = 1
	}
	c.page = n
}

// Page computes the current page of the filtered view.
func (c *Controller[T]) Page() PageView[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	view := c.currentView()
	pv := paginate(view, c.pageSize, c.page)
	c.page = pv.CurrentPage
	return pv
}

// FilteredLen returns the size of the filtered view.
func (c *Controller[T]) FilteredLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.currentView())
}

// Stats returns the summary counters for the complete record set.
func (c *Controller[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.statsOK {
		c.stats = c.schema.computeStats(c.records)
		c.statsOK = true
	}
	return c.stats
}

// Get returns the record with the given id.
func (c *Controller[T]) Get(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i, ok := c.index[id]; ok {
		return c.records[i], true
	}
	var zero T
	return zero, false
}

// ApplyPatch merges fields into the record with the matching id. Other
// records are untouched. Unknown fields within the patch are skipped.
// Returns ErrNotFound when the id is absent. A patch never resets the
// current page.
func (c *Controller[T]) ApplyPatch(id string, patch map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[id]
	if !ok {
		return fmt.Errorf("apply patch %s: %w", id, ErrNotFound)
	}
	if c.schema.Apply != nil {
		for field, value := range patch {
			c.schema.Apply(&c.records[i], field, value)
		}
	}
	c.invalidate()
	return nil
}

// UpdateField writes one field through the gateway and patches the local
// record on success. The store is untouched when the id is unknown or
// the gateway fails; a single failed attempt is terminal, the caller may
// re-trigger.
func (c *Controller[T]) UpdateField(ctx context.Context, id, field string, value any) error {
	c.mu.Lock()
	if _, ok := c.index[id]; !ok {
		c.mu.Unlock()
		return fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	gateway := c.gateway
	c.mu.Unlock()

	if err := gateway.UpdateField(ctx, id, field, value); err != nil {
		return &PatchError{ID: id, Field: field, Err: err}
	}
	return c.ApplyPatch(id, map[string]any{field: value})
}

// invalidate drops the memoized view and stats. Callers hold c.mu.
func (c *Controller[T]) invalidate() {
	c.viewOK = false
	c.statsOK = false
}

// currentView returns the memoized filtered view, recomputing it when
// stale. Callers hold c.mu.
func (c *Controller[T]) currentView() []T {
	if !c.viewOK {
		c.view = c.schema.filtered(c.records, c.filter)
		c.viewOK = true
	}
	return c.view
}
