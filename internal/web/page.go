package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/viewstore"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/view.html.tmpl"))

type pageData struct {
	ID           string
	View         calculator.Snapshot
	ThemeLabel   string
	Shortcuts    []calculator.Shortcut
	ShortcutKeys []string
	Labels       map[calculator.Action]string
}

func newPageData(id string, s calculator.Snapshot) pageData {
	shortcuts := calculator.Shortcuts()

	keys := make([]string, 0, len(shortcuts))
	labels := make(map[calculator.Action]string, len(shortcuts))
	for _, sc := range shortcuts {
		keys = append(keys, sc.Key)
		if op, ok := sc.Action.Operation(); ok {
			labels[sc.Action] = op.Label()
		} else {
			labels[sc.Action] = "Clear"
		}
	}

	// The button offers the theme you would switch to.
	label := "Dark Mode"
	if s.DarkMode {
		label = "Light Mode"
	}

	return pageData{
		ID:           id,
		View:         s,
		ThemeLabel:   label,
		Shortcuts:    shortcuts,
		ShortcutKeys: keys,
		Labels:       labels,
	}
}

// MountPage handles GET / by mounting a fresh view and sending the browser
// to it.
func (h *Handler) MountPage(w http.ResponseWriter, r *http.Request) {
	id := h.mount(r.Context())
	http.Redirect(w, r, "/view/"+id, http.StatusSeeOther)
}

// RenderPage handles GET /view/{id}. Unknown ids (a reload after the view was
// unmounted) start over with a new view.
func (h *Handler) RenderPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var data pageData
	err := h.views.Do(id, func(v *calculator.View) error {
		data = newPageData(id, v.Snapshot())
		return nil
	})
	if errors.Is(err, viewstore.ErrViewNotFound) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTemplate.Execute(w, data); err != nil {
		observability.LoggerWithTrace(r.Context()).Error("render view page",
			zap.String("view_id", id),
			zap.Error(err),
		)
	}
}

// SubmitPage handles POST /view/{id}: the form carries both operands plus the
// button that was pressed ("action") or the shortcut key that was typed
// ("key").
func (h *Handler) SubmitPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	action := r.PostFormValue("action")
	key := r.PostFormValue("key")
	a, b := r.PostFormValue("a"), r.PostFormValue("b")

	err := h.views.Do(id, func(v *calculator.View) error {
		if err := calculator.CheckOperands(a, b); err != nil {
			return err
		}
		v.SetOperands(a, b)

		if action == "" && key != "" {
			v.HandleKey(ctx, key)
			return nil
		}
		return applyFormAction(v, r, action)
	})
	switch {
	case errors.Is(err, viewstore.ErrViewNotFound):
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	case err != nil:
		observability.LoggerWithTrace(ctx).Warn("rejected form action",
			zap.String("view_id", id),
			zap.String("action", action),
			zap.Error(err),
		)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	http.Redirect(w, r, "/view/"+id, http.StatusSeeOther)
}

// UnmountPage handles POST /view/{id}/unmount, the beacon a page sends when
// it is closed.
func (h *Handler) UnmountPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.views.Unmount(id); err != nil && !errors.Is(err, viewstore.ErrViewNotFound) {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func applyFormAction(v *calculator.View, r *http.Request, action string) error {
	switch {
	case action == "" || action == "update":
		return nil
	case action == calculator.ActionClear.String():
		v.Clear()
		return nil
	case action == "theme":
		v.ToggleTheme()
		return nil
	case strings.HasPrefix(action, "history:"):
		i, err := strconv.Atoi(strings.TrimPrefix(action, "history:"))
		if err != nil {
			return fmt.Errorf("%w: %q", errInvalidInput, action)
		}
		_, err = v.SelectHistory(i)
		return err
	}

	op, err := calculator.ParseOperation(action)
	if err != nil {
		return err
	}
	v.Perform(r.Context(), op)
	return nil
}
