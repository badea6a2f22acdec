package listing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"hey-sainty/cmd/internal/logger"
)

var ErrViewNotFound = errors.New("listing: view not found")

// RegistryOptions bounds how many views are held and for how long an idle
// view survives.
type RegistryOptions struct {
	MaxViews int
	ViewTTL  time.Duration
	Delay    time.Duration
}

// Registry keeps one Controller per mounted browser view, keyed by view id.
// Views evicted by size or idle TTL are closed, which is the server-side
// equivalent of the page being unmounted.
type Registry struct {
	fetcher Fetcher
	delay   time.Duration
	views   *expirable.LRU[string, *Controller]
}

func NewRegistry(fetcher Fetcher, opts RegistryOptions) *Registry {
	if opts.MaxViews <= 0 {
		opts.MaxViews = 1024
	}
	if opts.ViewTTL <= 0 {
		opts.ViewTTL = 30 * time.Minute
	}
	onEvict := func(id string, c *Controller) {
		c.Close()
		logger.DebugWithFields("listing view closed", logger.Fields{"view_id": id})
	}
	return &Registry{
		fetcher: fetcher,
		delay:   opts.Delay,
		views:   expirable.NewLRU[string, *Controller](opts.MaxViews, onEvict, opts.ViewTTL),
	}
}

// Open mounts a new view for param and returns its id. The view is
// registered even when the first fetch fails, so the page can still render
// its empty state and retry.
func (r *Registry) Open(ctx context.Context, param string) (string, State, error) {
	id := uuid.NewString()
	c := NewController(r.fetcher, r.delay)
	r.views.Add(id, c)

	state, err := c.Mount(ctx, param)
	return id, state, err
}

// Get returns the view's controller and refreshes its idle TTL.
// A controller closed outside the registry is dropped.
func (r *Registry) Get(id string) (*Controller, bool) {
	c, ok := r.views.Get(id)
	if !ok {
		return nil, false
	}
	if c.Closed() {
		r.views.Remove(id)
		return nil, false
	}
	r.views.Add(id, c)
	return c, true
}

// LoadMore runs Controller.LoadMore on the view with the given id.
func (r *Registry) LoadMore(ctx context.Context, id string) (State, error) {
	c, ok := r.Get(id)
	if !ok {
		return State{}, ErrViewNotFound
	}
	return c.LoadMore(ctx)
}

// SetParam switches the view to another filter parameter.
func (r *Registry) SetParam(ctx context.Context, id, param string) (State, error) {
	c, ok := r.Get(id)
	if !ok {
		return State{}, ErrViewNotFound
	}
	return c.SetParam(ctx, param)
}

// Close unmounts the view. It reports whether the view existed.
func (r *Registry) Close(id string) bool {
	return r.views.Remove(id)
}

// Len returns the number of live views.
func (r *Registry) Len() int {
	return r.views.Len()
}

// CloseAll unmounts every view, used on shutdown.
func (r *Registry) CloseAll() {
	r.views.Purge()
}
