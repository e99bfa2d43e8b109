// Package userlist owns the user table screen: pagination and sort state,
// the parameter derivation for each fetch, and the reconciliation of fetched
// rows back into view state.
package userlist

import (
	"context"
	"log/slog"
	"sync"

	"github.com/umsys/user-management-console/internal"
	"github.com/umsys/user-management-console/internal/backend"
	"github.com/umsys/user-management-console/internal/notify"
	"github.com/umsys/user-management-console/internal/user"
)

type UsersAPI interface {
	List(ctx context.Context, params backend.ListParams) ([]user.User, int, error)
	Delete(ctx context.Context, id string) error
}

type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// Controller is the single owner of the table's pagination/sort state and
// row collection. Page is one-based here; the wire translation happens in
// Params. Every user interaction mutates intent first, then issues exactly
// one fetch through Refresh.
type Controller struct {
	mu     sync.Mutex
	users  UsersAPI
	logger *slog.Logger

	page      int
	pageSize  int
	sortKey   string
	sortOrder backend.SortOrder

	rows       []user.User
	total      int
	state      State
	loading    bool
	loadedOnce bool

	// generation stamps each fetch; a response carrying a stale stamp is
	// discarded instead of overwriting newer state.
	generation uint64
}

func NewController(users UsersAPI, logger *slog.Logger) *Controller {
	return &Controller{
		users:     users,
		logger:    logger,
		page:      1,
		pageSize:  backend.DefaultLimit,
		sortKey:   backend.DefaultSortKey,
		sortOrder: backend.SortDesc,
	}
}

// SetPage records a page turn. Pages below one clamp to the first page.
func (c *Controller) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if page < 1 {
		page = 1
	}
	c.page = page
}

// SetPageSize records a page-size change and resets to the first page, since
// the old offset no longer means anything.
func (c *Controller) SetPageSize(size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if size < 1 {
		size = backend.DefaultLimit
	}
	c.pageSize = size
	c.page = 1
}

// SetSort records a column-sort click. An empty key clears the sort back to
// the default (createdAt, DESC); the toggle maps "ascend" to ASC and
// anything else to DESC.
func (c *Controller) SetSort(key, toggle string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if key == "" {
		c.sortKey = backend.DefaultSortKey
		c.sortOrder = backend.SortDesc
		return
	}
	c.sortKey = key
	c.sortOrder = backend.OrderFromToggle(toggle)
}

// Params derives the wire parameters from the current intent:
// limit = pageSize, page = displayed page - 1.
func (c *Controller) Params() backend.ListParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paramsLocked()
}

func (c *Controller) paramsLocked() backend.ListParams {
	return backend.ListParams{
		Limit:     c.pageSize,
		Page:      c.page - 1,
		SortKey:   c.sortKey,
		SortOrder: c.sortOrder,
	}
}

// Refresh issues one fetch for the current intent and reconciles the result.
// A fetch that loses the race against a later interaction is discarded, so
// the table never shows rows for a page or sort the user has moved past.
// On failure the prior rows and total stay untouched; only a notification
// goes out and the loading flag clears.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.loading = true
	if !c.loadedOnce {
		c.state = StateLoading
	}
	params := c.paramsLocked()
	c.mu.Unlock()

	rows, count, err := c.users.List(ctx, params)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.Debug("discarding stale user fetch",
			"generation", gen,
			"current", c.generation)
		return nil
	}

	c.loading = false

	if err != nil {
		c.logger.Error("failed to fetch users", "error", err, "page", params.Page)
		notify.FromContext(ctx).Error(internal.KindOf(err), "An error occured while fetching users.")
		if c.loadedOnce {
			c.state = StateLoaded
		} else {
			c.state = StateIdle
		}
		return err
	}

	c.rows = rows
	c.total = count
	c.state = StateLoaded
	c.loadedOnce = true
	return nil
}

// Delete removes the user and re-issues the current page's fetch instead of
// splicing the row locally, so rows and total stay consistent with the
// server. Deleting the last row of the last page legitimately leaves that
// page empty; no step-back happens. Confirmation is the view's job.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.users.Delete(ctx, id); err != nil {
		c.logger.Error("failed to delete user", "error", err, "user_id", id)
		notify.FromContext(ctx).Error(internal.KindOf(err), "An error occured while deleting user")
		return err
	}

	notify.FromContext(ctx).Success("User deleted!")
	return c.Refresh(ctx)
}

// Snapshot is a copy of the view state at one point in time.
type Snapshot struct {
	Rows      []user.User
	Total     int
	Page      int
	PageSize  int
	SortKey   string
	SortOrder backend.SortOrder
	Loading   bool
	State     State
}

// TotalPages reports how many pages the pagination control should offer.
func (s Snapshot) TotalPages() int {
	if s.PageSize <= 0 || s.Total <= 0 {
		return 1
	}
	pages := (s.Total + s.PageSize - 1) / s.PageSize
	if pages < 1 {
		return 1
	}
	return pages
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows := make([]user.User, len(c.rows))
	copy(rows, c.rows)
	return Snapshot{
		Rows:      rows,
		Total:     c.total,
		Page:      c.page,
		PageSize:  c.pageSize,
		SortKey:   c.sortKey,
		SortOrder: c.sortOrder,
		Loading:   c.loading,
		State:     c.state,
	}
}
