package backend

import (
	"net/url"
	"strconv"
)

type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// Default list sort, used whenever a caller has no explicit sort intent.
const (
	DefaultSortKey = "createdAt"
	DefaultLimit   = 10
)

// OrderFromToggle maps the table control's toggle state onto the wire value.
// Only an explicit "ascend" yields ASC; anything else is DESC.
func OrderFromToggle(toggle string) SortOrder {
	if toggle == "ascend" {
		return SortAsc
	}
	return SortDesc
}

// ListParams is the request-parameter set for paginated list endpoints.
// Page is zero-based here; the display layer owns the one-based translation.
type ListParams struct {
	Limit     int
	Page      int
	SortKey   string
	SortOrder SortOrder
}

// Values serializes the parameters into the query string the backend
// expects. This is the only place list parameters are encoded.
func (p ListParams) Values() url.Values {
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	page := p.Page
	if page < 0 {
		page = 0
	}
	sortKey := p.SortKey
	if sortKey == "" {
		sortKey = DefaultSortKey
	}
	sortOrder := p.SortOrder
	if sortOrder != SortAsc {
		sortOrder = SortDesc
	}

	v := url.Values{}
	v.Set("limit", strconv.Itoa(limit))
	v.Set("page", strconv.Itoa(page))
	v.Set("sortKey", sortKey)
	v.Set("sortOrder", string(sortOrder))
	return v
}
