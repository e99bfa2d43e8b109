// Package web assembles the console's routes.
package web

import (
	"log/slog"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/umsys/user-management-console/internal/permission"
	"github.com/umsys/user-management-console/internal/transport"
	"github.com/umsys/user-management-console/internal/transport/middleware"
	"github.com/umsys/user-management-console/internal/user"
	"github.com/umsys/user-management-console/internal/userform"
	"github.com/umsys/user-management-console/internal/userlist"
	"github.com/umsys/user-management-console/internal/userperm"
	"github.com/umsys/user-management-console/internal/view"
)

type Deps struct {
	Logger      *slog.Logger
	View        *view.Renderer
	Users       *user.Client
	Permissions *permission.Client
}

// NewRouter wires every screen. Anything outside the known routes falls
// through to the not-found view.
func NewRouter(deps Deps) *chi.Mux {
	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Recoverer)
	router.Use(middleware.Logging(deps.Logger))

	base := transport.NewBaseHandler(deps.Logger, deps.View)
	listHandler := userlist.NewHandler(base, deps.Users)
	formHandler := userform.NewHandler(base, deps.Users)
	permHandler := userperm.NewHandler(base, deps.Users, deps.Permissions)

	router.Get("/", listHandler.List)
	router.Get("/user", formHandler.New)
	router.Post("/user", formHandler.Create)
	router.Get("/user/{userId}", formHandler.Edit)
	router.Post("/user/{userId}", formHandler.Update)
	router.Get("/user/{userId}/delete", listHandler.ConfirmDelete)
	router.Post("/user/{userId}/delete", listHandler.Delete)
	router.Get("/permissions/user/{userId}", permHandler.Show)
	router.Post("/permissions/user/{userId}/toggle", permHandler.Toggle)
	router.NotFound(base.NotFound)

	return router
}
