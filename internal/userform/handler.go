package userform

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/umsys/user-management-console/internal/notify"
	"github.com/umsys/user-management-console/internal/transport"
	"github.com/umsys/user-management-console/internal/user"
	"github.com/umsys/user-management-console/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	users UsersAPI
}

func NewHandler(base *transport.BaseHandler, users UsersAPI) *Handler {
	return &Handler{BaseHandler: base, users: users}
}

// New renders the empty create form.
func (h *Handler) New(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, http.StatusOK, "user_form.html", map[string]any{
		"Title":     "New user",
		"Mode":      "create",
		"ActionURL": "/user",
		"Form":      user.CreateUserDTO{},
	}, nil)
}

// Create handles the create form submit: success navigates back to the
// list, failure stays on the form with a notification.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	flash := notify.NewFlash(w)
	ctx := notify.WithNotifier(r.Context(), flash)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	dto := user.CreateUserDTO{
		FirstName: r.PostFormValue("firstName"),
		LastName:  r.PostFormValue("lastName"),
		Username:  r.PostFormValue("username"),
		Password:  r.PostFormValue("password"),
		Email:     r.PostFormValue("email"),
		Status:    r.PostFormValue("status"),
	}

	ctrl := NewCreateController(h.users, logger.From(ctx))
	if _, err := ctrl.Submit(ctx, dto); err != nil {
		// password is intentionally not echoed back into the form
		dto.Password = ""
		h.Render(w, r, http.StatusOK, "user_form.html", map[string]any{
			"Title":     "New user",
			"Mode":      "create",
			"ActionURL": "/user",
			"Form":      dto,
		}, flash)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Edit fetches the user and renders the pre-filled form, or the terminal
// not-found screen when the id resolves to nothing.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	flash := notify.NewFlash(w)
	ctx := notify.WithNotifier(r.Context(), flash)

	userID := chi.URLParam(r, "userId")
	ctrl := NewEditController(h.users, logger.From(ctx))
	if err := ctrl.Load(ctx, userID); err != nil {
		h.Render(w, r, http.StatusOK, "user_form.html", map[string]any{
			"Title":     "Edit user",
			"Mode":      "edit",
			"ActionURL": "/user/" + userID,
			"Form":      user.EditUserDTO{},
		}, flash)
		return
	}
	if ctrl.NotFound() {
		h.NotFound(w, r)
		return
	}

	u := ctrl.User()
	h.Render(w, r, http.StatusOK, "user_form.html", map[string]any{
		"Title":     "Edit user",
		"Mode":      "edit",
		"ActionURL": "/user/" + userID,
		"Form": user.EditUserDTO{
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Status:    u.Status,
		},
	}, flash)
}

// Update re-fetches the entity, merges the submitted fields onto it and
// sends the whole object back.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	flash := notify.NewFlash(w)
	ctx := notify.WithNotifier(r.Context(), flash)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	userID := chi.URLParam(r, "userId")
	ctrl := NewEditController(h.users, logger.From(ctx))
	if err := ctrl.Load(ctx, userID); err == nil && ctrl.NotFound() {
		h.NotFound(w, r)
		return
	}

	dto := user.EditUserDTO{
		FirstName: r.PostFormValue("firstName"),
		LastName:  r.PostFormValue("lastName"),
		Email:     r.PostFormValue("email"),
		Status:    r.PostFormValue("status"),
	}

	if err := ctrl.Submit(ctx, dto); err != nil {
		h.Render(w, r, http.StatusOK, "user_form.html", map[string]any{
			"Title":     "Edit user",
			"Mode":      "edit",
			"ActionURL": "/user/" + userID,
			"Form":      dto,
		}, flash)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
