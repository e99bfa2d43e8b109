package userperm

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/umsys/user-management-console/internal/notify"
	"github.com/umsys/user-management-console/internal/permission"
	"github.com/umsys/user-management-console/internal/transport"
	"github.com/umsys/user-management-console/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	users UsersAPI
	perms PermissionsAPI
}

func NewHandler(base *transport.BaseHandler, users UsersAPI, perms PermissionsAPI) *Handler {
	return &Handler{BaseHandler: base, users: users, perms: perms}
}

type checkboxView struct {
	Permission permission.Permission
	Checked    bool
}

// Show renders the assignment screen: the user's details plus one checkbox
// per catalog entry.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	flash := notify.NewFlash(w)
	ctx := notify.WithNotifier(r.Context(), flash)

	userID := chi.URLParam(r, "userId")
	ctrl := NewController(h.users, h.perms, logger.From(ctx))
	_ = ctrl.Load(ctx, userID)

	if ctrl.NotFound() || ctrl.User() == nil {
		h.NotFound(w, r)
		return
	}

	h.render(w, r, ctrl, userID, flash)
}

// Toggle handles one checkbox change and re-renders the screen from the
// re-fetched user.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	flash := notify.NewFlash(w)
	ctx := notify.WithNotifier(r.Context(), flash)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	userID := chi.URLParam(r, "userId")
	permissionID := r.PostFormValue("permissionId")
	checked := r.PostFormValue("checked") == "true"

	ctrl := NewController(h.users, h.perms, logger.From(ctx))
	if err := ctrl.Load(ctx, userID); err == nil && ctrl.NotFound() {
		h.NotFound(w, r)
		return
	}

	_ = ctrl.Toggle(ctx, userID, permissionID, checked)

	http.Redirect(w, r, "/permissions/user/"+userID, http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, ctrl *Controller, userID string, flash *notify.Flash) {
	catalog := ctrl.Catalog()
	boxes := make([]checkboxView, 0, len(catalog))
	for _, p := range catalog {
		boxes = append(boxes, checkboxView{Permission: p, Checked: ctrl.Checked(p.ID)})
	}

	h.Render(w, r, http.StatusOK, "permissions.html", map[string]any{
		"Title":     "Assign permissions",
		"User":      ctrl.User(),
		"Boxes":     boxes,
		"ToggleURL": "/permissions/user/" + userID + "/toggle",
	}, flash)
}
