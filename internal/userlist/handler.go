package userlist

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/umsys/user-management-console/internal/backend"
	"github.com/umsys/user-management-console/internal/notify"
	"github.com/umsys/user-management-console/internal/transport"
	"github.com/umsys/user-management-console/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	users UsersAPI
}

func NewHandler(base *transport.BaseHandler, users UsersAPI) *Handler {
	return &Handler{BaseHandler: base, users: users}
}

// listQuery is the table state as carried in the page URL. Page is the
// displayed, one-based index; Order uses the control's ascend/descend
// vocabulary.
type listQuery struct {
	Page  int
	Size  int
	Sort  string
	Order string
}

func queryFromRequest(r *http.Request) listQuery {
	q := listQuery{Page: 1, Size: backend.DefaultLimit}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && page > 0 {
		q.Page = page
	}
	if size, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && size > 0 {
		q.Size = size
	}
	q.Sort = r.URL.Query().Get("sort")
	q.Order = r.URL.Query().Get("order")
	return q
}

func (q listQuery) apply(ctrl *Controller) {
	ctrl.SetPageSize(q.Size)
	ctrl.SetPage(q.Page)
	ctrl.SetSort(q.Sort, q.Order)
}

func (q listQuery) encode() string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.Size))
	if q.Sort != "" {
		v.Set("sort", q.Sort)
		v.Set("order", q.Order)
	}
	return v.Encode()
}

type columnView struct {
	Title  string
	URL    string
	Active bool
	Order  backend.SortOrder
}

type pageView struct {
	Num    int
	URL    string
	Active bool
}

// List renders the user table for the state carried in the query string.
// Every page turn, size change or sort click arrives here as a fresh GET.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	flash := notify.NewFlash(w)
	ctx := notify.WithNotifier(r.Context(), flash)

	q := queryFromRequest(r)
	ctrl := NewController(h.users, logger.From(ctx))
	q.apply(ctrl)

	// A failed fetch already produced a notification; render whatever
	// snapshot is left.
	_ = ctrl.Refresh(ctx)
	snap := ctrl.Snapshot()

	h.Render(w, r, http.StatusOK, "users.html", map[string]any{
		"Rows":    snap.Rows,
		"Total":   snap.Total,
		"Query":   q.encode(),
		"Columns": h.columns(q, snap),
		"Pages":   h.pages(q, snap),
	}, flash)
}

// tableColumns in display order; an empty key renders as a plain header
// without a sort link.
var tableColumns = []struct {
	Key   string
	Title string
}{
	{"firstName", "First Name"},
	{"lastName", "Last Name"},
	{"email", "Email"},
	{"status", "Status"},
	{"", "Permissions"},
	{"createdAt", "Date created"},
}

func (h *Handler) columns(q listQuery, snap Snapshot) []columnView {
	out := make([]columnView, 0, len(tableColumns))
	for _, col := range tableColumns {
		if col.Key == "" {
			out = append(out, columnView{Title: col.Title})
			continue
		}
		active := snap.SortKey == col.Key
		toggle := "ascend"
		if active && snap.SortOrder == backend.SortAsc {
			toggle = "descend"
		}
		link := listQuery{Page: q.Page, Size: q.Size, Sort: col.Key, Order: toggle}
		out = append(out, columnView{
			Title:  col.Title,
			URL:    "/?" + link.encode(),
			Active: active,
			Order:  snap.SortOrder,
		})
	}
	return out
}

func (h *Handler) pages(q listQuery, snap Snapshot) []pageView {
	total := snap.TotalPages()
	out := make([]pageView, 0, total)
	for num := 1; num <= total; num++ {
		link := listQuery{Page: num, Size: q.Size, Sort: q.Sort, Order: q.Order}
		out = append(out, pageView{
			Num:    num,
			URL:    "/?" + link.encode(),
			Active: num == snap.Page,
		})
	}
	return out
}

// ConfirmDelete renders the confirmation step that gates the destructive
// call.
func (h *Handler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	q := queryFromRequest(r)

	h.Render(w, r, http.StatusOK, "confirm_delete.html", map[string]any{
		"Title":     "Confirm",
		"UserID":    userID,
		"ActionURL": "/user/" + userID + "/delete?" + q.encode(),
		"CancelURL": "/?" + q.encode(),
	}, nil)
}

// Delete performs the confirmed deletion and sends the browser back to the
// same page of the list. The controller re-fetches after deleting, so the
// redirect target shows server truth even when the last row of a page just
// disappeared.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	flash := notify.NewFlash(w)
	ctx := notify.WithNotifier(r.Context(), flash)

	userID := chi.URLParam(r, "userId")
	q := queryFromRequest(r)

	ctrl := NewController(h.users, logger.From(ctx))
	q.apply(ctrl)
	_ = ctrl.Delete(ctx, userID)

	http.Redirect(w, r, "/?"+q.encode(), http.StatusSeeOther)
}
