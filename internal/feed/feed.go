// Package feed maintains a bounded window of catalogue pages for
// bidirectional infinite scrolling. The window holds at most W items
// (a multiple of the page size); scrolling past either edge fetches the
// adjacent page and evicts a page from the opposite edge.
package feed

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// Query identifies one catalogue view. Changing it requires a Reset.
type Query struct {
	Search string
	Sort   string
}

// Page is one fetched catalogue page. HasMore is the server's forward
// continuation flag.
type Page struct {
	Products []model.Product
	Total    int
	HasMore  bool
}

// Fetcher retrieves one numbered catalogue page for a query.
type Fetcher interface {
	FetchPage(ctx context.Context, page int, q Query) (*Page, error)
}

// Controller is the windowed feed state. It is single-writer by design
// (one browsing client); the mutex only serialises trigger attempts.
type Controller struct {
	fetcher  Fetcher
	pageSize int
	window   int
	logger   zerolog.Logger

	mu       sync.Mutex
	inFlight bool
	query    Query
	items    []model.Product
	lowest   int // lowest page currently in the window, 0 when empty
	highest  int // highest page currently in the window
	hasMore  bool
}

// NewController creates a feed controller. window must be a positive
// multiple of pageSize; it defaults to five pages.
func NewController(fetcher Fetcher, pageSize, window int, logger zerolog.Logger) (*Controller, error) {
	if pageSize < 1 {
		return nil, fmt.Errorf("page size must be positive, got %d", pageSize)
	}
	if window <= 0 {
		window = 5 * pageSize
	}
	if window%pageSize != 0 {
		return nil, fmt.Errorf("window %d must be a multiple of page size %d", window, pageSize)
	}

	return &Controller{
		fetcher:  fetcher,
		pageSize: pageSize,
		window:   window,
		logger:   logger.With().Str("component", "feed").Logger(),
	}, nil
}

// Items returns a copy of the current window contents, oldest page first.
func (c *Controller) Items() []model.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Product(nil), c.items...)
}

// Bounds returns the lowest and highest page currently held.
func (c *Controller) Bounds() (low, high int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lowest, c.highest
}

// HasMore reports whether the server signalled further forward pages. It is
// authoritative for append continuation only.
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// HasPrevious reports whether earlier pages exist. This is inferred purely
// from local bookkeeping (lower bound > 1) and may go stale if the server's
// total changes between fetches; Reset recovers from drift.
func (c *Controller) HasPrevious() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lowest > 1
}

// beginFetch marks a fetch in flight. It reports false when another fetch
// is already running, in which case the trigger is dropped silently.
func (c *Controller) beginFetch() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return false
	}
	c.inFlight = true
	return true
}

func (c *Controller) endFetch() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}

// Reset discards the window and fetches page 1 for the new query. Triggered
// on search or sort changes.
func (c *Controller) Reset(ctx context.Context, q Query) error {
	if !c.beginFetch() {
		return nil
	}
	defer c.endFetch()

	page, err := c.fetcher.FetchPage(ctx, 1, q)
	if err != nil {
		c.logger.Error().Err(err).Msg("feed reset fetch failed")
		return fmt.Errorf("failed to fetch page 1: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = q
	c.items = append([]model.Product(nil), page.Products...)
	c.lowest = 1
	c.highest = 1
	c.hasMore = page.HasMore

	c.logger.Debug().
		Int("items", len(c.items)).
		Bool("has_more", c.hasMore).
		Msg("feed reset")

	return nil
}

// Append fetches the page after the window's upper bound. When the window
// would exceed its bound, the oldest page is evicted from the front and the
// lower bound advances. A no-op when the server has no more pages.
func (c *Controller) Append(ctx context.Context) error {
	c.mu.Lock()
	if c.lowest == 0 || !c.hasMore {
		c.mu.Unlock()
		return nil
	}
	next := c.highest + 1
	q := c.query
	c.mu.Unlock()

	if !c.beginFetch() {
		return nil
	}
	defer c.endFetch()

	page, err := c.fetcher.FetchPage(ctx, next, q)
	if err != nil {
		c.logger.Error().Err(err).Int("page", next).Msg("feed append fetch failed")
		return fmt.Errorf("failed to fetch page %d: %w", next, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = append(c.items, dedupe(c.items, page.Products)...)
	c.highest = next
	c.hasMore = page.HasMore

	for len(c.items) > c.window {
		c.items = append([]model.Product(nil), c.items[c.pageSize:]...)
		c.lowest++
	}

	c.logger.Debug().
		Int("page", next).
		Int("items", len(c.items)).
		Int("lowest", c.lowest).
		Msg("feed appended")

	return nil
}

// Prepend fetches the page before the window's lower bound. When the window
// would exceed its bound, the newest page is evicted from the back and the
// upper bound retreats. A no-op when page 1 is already held.
func (c *Controller) Prepend(ctx context.Context) error {
	c.mu.Lock()
	if c.lowest <= 1 {
		c.mu.Unlock()
		return nil
	}
	prev := c.lowest - 1
	q := c.query
	c.mu.Unlock()

	if !c.beginFetch() {
		return nil
	}
	defer c.endFetch()

	page, err := c.fetcher.FetchPage(ctx, prev, q)
	if err != nil {
		c.logger.Error().Err(err).Int("page", prev).Msg("feed prepend fetch failed")
		return fmt.Errorf("failed to fetch page %d: %w", prev, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	fresh := dedupe(c.items, page.Products)
	c.items = append(append([]model.Product(nil), fresh...), c.items...)
	c.lowest = prev

	for len(c.items) > c.window {
		c.items = c.items[:len(c.items)-c.pageSize]
		c.highest--
		// The back page is gone, so the server may have more again.
		c.hasMore = true
	}

	c.logger.Debug().
		Int("page", prev).
		Int("items", len(c.items)).
		Int("highest", c.highest).
		Msg("feed prepended")

	return nil
}

// dedupe filters out fetched products already present in the window,
// handling overlapping boundary pages.
func dedupe(existing, fetched []model.Product) []model.Product {
	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[p.ID.String()] = true
	}

	out := make([]model.Product, 0, len(fetched))
	for _, p := range fetched {
		if !seen[p.ID.String()] {
			out = append(out, p)
		}
	}
	return out
}
