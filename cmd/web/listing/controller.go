package listing

import (
	"context"
	"errors"
	"sync"
	"time"

	"hey-sainty/cmd/web/clients/blogclient"
)

// DefaultLoadMoreDelay is the pause before a load-more fetch starts, long
// enough for the loading indicator to render.
const DefaultLoadMoreDelay = 750 * time.Millisecond

var (
	ErrLoadInProgress = errors.New("listing: load already in progress")
	ErrNoMoreItems    = errors.New("listing: no more items")
	ErrClosed         = errors.New("listing: view closed")
	ErrSuperseded     = errors.New("listing: parameter changed during fetch")
)

// Page is one page of posts returned by a Fetcher together with the
// collaborator's total-count hint for the current parameter.
// A non-positive Total means the hint is unknown; the accumulated count is used instead.
type Page struct {
	Posts []blogclient.Post
	Total int
}

// Fetcher loads a single 1-based page of posts for a filter parameter.
// An empty param means "all posts".
type Fetcher interface {
	FetchPage(ctx context.Context, param string, page int) (Page, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, param string, page int) (Page, error)

func (f FetcherFunc) FetchPage(ctx context.Context, param string, page int) (Page, error) {
	return f(ctx, param, page)
}

// State is a copy of a view's Listing State.
type State struct {
	Posts   []blogclient.Post
	Page    int
	Total   int
	Loading bool
	Param   string
	// Fetched is true once the first page for Param has resolved, successfully or not.
	Fetched bool
	Err     error
}

// HasMore reports whether the collaborator announced more posts than are accumulated.
func (s State) HasMore() bool {
	return len(s.Posts) < s.Total
}

// Empty reports whether the first page resolved with nothing to display.
func (s State) Empty() bool {
	return s.Fetched && len(s.Posts) == 0
}

// Controller owns the Listing State of one mounted view.
//
// Only one fetch runs at a time. A parameter change bumps the generation so
// results of an older fetch are dropped, and Close cancels whatever is
// pending so nothing is written after the view is gone.
type Controller struct {
	fetcher Fetcher
	delay   time.Duration

	viewCtx context.Context
	cancel  context.CancelFunc

	mu      sync.Mutex
	state   State
	gen     uint64
	mounted bool
	closed  bool
}

func NewController(fetcher Fetcher, delay time.Duration) *Controller {
	if delay < 0 {
		delay = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		fetcher: fetcher,
		delay:   delay,
		viewCtx: ctx,
		cancel:  cancel,
		state:   State{Page: 1},
	}
}

// Mount fetches the first page for param. A failed fetch leaves an empty
// state carrying the error, and the error is returned.
func (c *Controller) Mount(ctx context.Context, param string) (State, error) {
	return c.reset(ctx, param, true)
}

// SetParam resets the list for a new filter parameter and fetches its first
// page. Setting the parameter the view already shows is a no-op.
func (c *Controller) SetParam(ctx context.Context, param string) (State, error) {
	return c.reset(ctx, param, false)
}

func (c *Controller) reset(ctx context.Context, param string, force bool) (State, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return State{}, ErrClosed
	}
	if !force && c.mounted && c.state.Param == param {
		s := c.snapshotLocked()
		c.mu.Unlock()
		return s, nil
	}
	c.gen++
	gen := c.gen
	c.mounted = true
	c.state = State{Param: param, Page: 1, Loading: true}
	c.mu.Unlock()

	fetchCtx, done := c.bind(ctx)
	page, err := c.fetcher.FetchPage(fetchCtx, param, 1)
	done()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return State{}, ErrClosed
	}
	if gen != c.gen {
		return c.snapshotLocked(), ErrSuperseded
	}
	c.state.Loading = false
	c.state.Fetched = true
	if err != nil {
		c.state.Err = err
		return c.snapshotLocked(), err
	}
	c.state.Posts = appendCapped(nil, page.Posts, page.Total)
	c.state.Total = max(page.Total, len(c.state.Posts))
	if len(page.Posts) == 0 {
		c.state.Total = 0
	}
	return c.snapshotLocked(), nil
}

// LoadMore waits the configured delay, then fetches the next page and
// appends it. It returns ErrLoadInProgress while another fetch runs and
// ErrNoMoreItems once the total hint is reached; neither changes the state.
//
// On fetch failure the page counter is not advanced and the accumulated list
// is kept, so a retry asks for the same page again.
func (c *Controller) LoadMore(ctx context.Context) (State, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return State{}, ErrClosed
	}
	if c.state.Loading {
		s := c.snapshotLocked()
		c.mu.Unlock()
		return s, ErrLoadInProgress
	}
	if !c.state.HasMore() {
		s := c.snapshotLocked()
		c.mu.Unlock()
		return s, ErrNoMoreItems
	}
	c.state.Loading = true
	c.state.Err = nil
	gen := c.gen
	param := c.state.Param
	next := c.state.Page + 1
	c.mu.Unlock()

	fetchCtx, done := c.bind(ctx)
	defer done()

	var (
		page Page
		err  error
	)
	if err = c.wait(fetchCtx); err == nil {
		page, err = c.fetcher.FetchPage(fetchCtx, param, next)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return State{}, ErrClosed
	}
	if gen != c.gen {
		return c.snapshotLocked(), ErrSuperseded
	}
	c.state.Loading = false
	if err != nil {
		c.state.Err = err
		return c.snapshotLocked(), err
	}

	c.state.Page = next
	if len(page.Posts) == 0 {
		// collaborator ran out before the hint; stop offering more
		c.state.Total = len(c.state.Posts)
		return c.snapshotLocked(), nil
	}
	limit := page.Total
	if limit > 0 {
		limit = max(limit, len(c.state.Posts))
	}
	c.state.Posts = appendCapped(c.state.Posts, page.Posts, limit)
	c.state.Total = max(page.Total, len(c.state.Posts))
	return c.snapshotLocked(), nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close unmounts the view. Pending delays and fetches are cancelled and
// their results discarded. Close is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
}

// Closed reports whether Close was called.
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Controller) snapshotLocked() State {
	s := c.state
	if c.state.Posts != nil {
		s.Posts = make([]blogclient.Post, len(c.state.Posts))
		copy(s.Posts, c.state.Posts)
	}
	return s
}

// bind derives a context that ends with either the caller's context or the view.
func (c *Controller) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.viewCtx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (c *Controller) wait(ctx context.Context) error {
	if c.delay == 0 {
		return ctx.Err()
	}
	t := time.NewTimer(c.delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// appendCapped appends src to dst without letting dst grow past limit.
// A non-positive limit means no cap.
func appendCapped(dst, src []blogclient.Post, limit int) []blogclient.Post {
	if limit > 0 {
		room := limit - len(dst)
		if room <= 0 {
			return dst
		}
		if len(src) > room {
			src = src[:room]
		}
	}
	return append(dst, src...)
}
