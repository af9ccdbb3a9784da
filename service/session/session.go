// Package session holds one browsing session over a catalog snapshot: the
// active scope, the facet selection and the derived view, recomputed on
// every mutation.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"storefront.GO/core/pagination"
	"storefront.GO/model/entity/product"
	"storefront.GO/service/facet"
)

// State is the session lifecycle state.
type State int

const (
	Uninitialized State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	// ErrFetchFailure wraps any snapshot source error. The session moves to
	// Failed and stays there until Refresh succeeds.
	ErrFetchFailure = errors.New("session: snapshot fetch failed")
	// ErrNotLoaded is returned by Refresh before any scope was loaded.
	ErrNotLoaded = errors.New("session: no scope loaded")
	// ErrSuperseded is returned to a caller whose fetch finished after a
	// newer fetch or scope change; its result was discarded.
	ErrSuperseded = errors.New("session: fetch superseded")
)

// View is a consistent copy of the session's observable state.
type View struct {
	State  State
	Scope  string
	Filter facet.FilterState
	Result facet.Result
	Err    error
}

// Page returns one page of the filtered products.
func (v View) Page(number, size int) ([]product.Product, pagination.Page) {
	return pagination.Slice(v.Result.Products, number, size)
}

// Options configures a Session. Engine and Loader are required.
type Options struct {
	Engine *facet.Engine
	Loader *Loader
	Logger *zap.Logger
}

// Session is safe for concurrent use. The snapshot and derived view are
// replaced wholesale under the mutex; fetches run outside it.
type Session struct {
	engine *facet.Engine
	loader *Loader
	log    *zap.Logger

	mu       sync.Mutex
	state    State
	scope    string
	loaded   bool
	filter   facet.FilterState
	products []product.Product
	fetched  bool
	result   facet.Result
	err      error
	token    uint64
}

func New(opts Options) *Session {
	if opts.Engine == nil {
		opts.Engine = facet.NewEngine(facet.Deps{})
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Session{
		engine: opts.Engine,
		loader: opts.Loader,
		log:    opts.Logger,
		filter: facet.DefaultFilterState(),
	}
}

// Load starts the session on scope with a default filter state and fetches
// its snapshot.
func (s *Session) Load(ctx context.Context, scope string) error {
	s.mu.Lock()
	s.scope = scope
	s.loaded = true
	s.filter = facet.DefaultFilterState()
	s.recompute()
	s.mu.Unlock()
	return s.fetch(ctx, scope)
}

// Refresh re-fetches the current scope and replaces the snapshot.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	scope := s.scope
	s.mu.Unlock()
	return s.fetch(ctx, scope)
}

// Navigate changes scope like SetScope and then fetches the new scope's
// snapshot.
func (s *Session) Navigate(ctx context.Context, scope string) error {
	s.SetScope(scope)
	return s.fetch(ctx, scope)
}

func (s *Session) fetch(ctx context.Context, scope string) error {
	if s.loader == nil {
		return fmt.Errorf("%w: scope %q: no loader configured", ErrFetchFailure, scope)
	}

	s.mu.Lock()
	s.token++
	token := s.token
	if s.state != Ready {
		s.state = Loading
	}
	s.mu.Unlock()

	products, err := s.loader.Load(ctx, scope)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.token || scope != s.scope {
		s.log.Debug("discarding stale snapshot",
			zap.String("scope", scope),
			zap.String("current_scope", s.scope),
			zap.Uint64("token", token))
		return ErrSuperseded
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			if s.state == Loading {
				s.state = s.settled()
			}
			return err
		}
		s.state = Failed
		s.err = fmt.Errorf("%w: scope %q: %w", ErrFetchFailure, scope, err)
		return s.err
	}
	s.products = products
	s.fetched = true
	s.state = Ready
	s.err = nil
	s.recompute()
	return nil
}

// settled is the state a session returns to when a fetch is abandoned:
// Failed while an error is recorded, Ready once a snapshot has been loaded,
// otherwise Uninitialized.
func (s *Session) settled() State {
	switch {
	case s.err != nil:
		return Failed
	case s.fetched:
		return Ready
	}
	return Uninitialized
}

// SetScope switches the active scope. Colors, sizes and the scope-relative
// type selector reset; stock level and sort order carry over.
func (s *Session) SetScope(scope string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scope = scope
	s.loaded = true
	s.filter.Colors = nil
	s.filter.Sizes = nil
	s.filter.Types = nil
	s.recompute()
}

func (s *Session) ToggleColor(label string) {
	s.mutate(func(f *facet.FilterState) { f.Colors = facet.Toggle(f.Colors, label) })
}

func (s *Session) ToggleSize(label string) {
	s.mutate(func(f *facet.FilterState) { f.Sizes = facet.Toggle(f.Sizes, label) })
}

// SetType selects a single type within the scope; "" clears it.
func (s *Session) SetType(t string) {
	s.mutate(func(f *facet.FilterState) {
		if t == "" {
			f.Types = nil
			return
		}
		f.Types = []string{t}
	})
}

func (s *Session) SetStockLevel(level facet.StockLevel) {
	s.mutate(func(f *facet.FilterState) { f.Stock = level })
}

func (s *Session) SetSort(order facet.SortOrder) {
	s.mutate(func(f *facet.FilterState) { f.Sort = order })
}

// ClearFilters drops every facet selection but keeps the sort order.
func (s *Session) ClearFilters() {
	s.mutate(func(f *facet.FilterState) {
		sort := f.Sort
		*f = facet.DefaultFilterState()
		f.Sort = sort
	})
}

func (s *Session) mutate(fn func(*facet.FilterState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.filter.Clone()
	fn(&next)
	s.filter = next
	s.recompute()
}

// recompute rebuilds the derived view. Callers hold mu.
func (s *Session) recompute() {
	if s.state != Ready {
		return
	}
	s.result = s.engine.Apply(s.products, s.filter, s.scope)
}

// View returns the current state. The returned filter is a copy; Result is
// never mutated after it is published.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		State:  s.state,
		Scope:  s.scope,
		Filter: s.filter.Clone(),
		Result: s.result,
		Err:    s.err,
	}
}
