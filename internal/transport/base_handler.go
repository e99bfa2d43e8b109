package transport

import (
	"log/slog"
	"net/http"

	"github.com/umsys/user-management-console/internal/notify"
	"github.com/umsys/user-management-console/internal/view"
	"github.com/umsys/user-management-console/pkg/logger"
)

// BaseHandler provides the rendering and notification plumbing shared by all
// screen handlers.
type BaseHandler struct {
	Logger *slog.Logger
	View   *view.Renderer
}

func NewBaseHandler(lg *slog.Logger, v *view.Renderer) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg, View: v}
}

// Render writes the named page. Notices from earlier requests and from the
// current flash are merged into the template data.
func (h *BaseHandler) Render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any, flash *notify.Flash) {
	if data == nil {
		data = map[string]any{}
	}

	notices := notify.Pop(w, r)
	if flash != nil {
		notices = append(notices, flash.Notices()...)
		flash.Clear()
	}
	data["Notices"] = notices

	if err := h.View.Render(w, status, name, data); err != nil {
		h.Logger.Error("failed to render view", "view", name, "error", err)
	}
}

// NotFound renders the terminal not-found screen.
func (h *BaseHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, http.StatusNotFound, "notfound.html", map[string]any{
		"Title": "404",
	}, nil)
}
