// Package view renders the console's HTML screens from cached templates.
package view

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"sync"
	"time"
)

// Renderer parses each page template together with layout.html once and
// caches the result.
type Renderer struct {
	baseDir string

	mu    sync.RWMutex
	cache map[string]*template.Template
}

func New(baseDir string) *Renderer {
	return &Renderer{
		baseDir: baseDir,
		cache:   map[string]*template.Template{},
	}
}

// Funcs returns the helpers shared by every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"year": func() int { return time.Now().Year() },
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02T15:04")
		},
	}
}

// Render executes the named page template inside the layout. name is the
// filename under the template dir, e.g. "users.html".
func (v *Renderer) Render(w http.ResponseWriter, status int, name string, data map[string]any) error {
	tpl, err := v.lookup(name)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}

	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Title"]; !exists {
		data["Title"] = "User Management System"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tpl.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return nil
}

func (v *Renderer) lookup(name string) (*template.Template, error) {
	v.mu.RLock()
	tpl, ok := v.cache[name]
	v.mu.RUnlock()
	if ok {
		return tpl, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if tpl, ok := v.cache[name]; ok {
		return tpl, nil
	}

	tpl, err := template.New(name).Funcs(Funcs()).ParseFiles(
		filepath.Join(v.baseDir, "layout.html"),
		filepath.Join(v.baseDir, name),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	v.cache[name] = tpl
	return tpl, nil
}
