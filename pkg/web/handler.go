package web

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-stepform/pkg/answers"
	"github.com/goliatone/go-stepform/pkg/flow"
	"github.com/goliatone/go-stepform/pkg/render"
	"github.com/goliatone/go-stepform/pkg/validation"
)

// Form actions posted by the step form.
const (
	ActionNext   = "next"
	ActionBack   = "back"
	ActionSubmit = "submit"
)

// Option configures a Handler.
type Option func(*Handler)

// WithLogger attaches a request logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithTheme forwards a theme and variant to the renderer on every request.
func WithTheme(name, variant string) Option {
	return func(h *Handler) {
		h.theme = strings.TrimSpace(name)
		h.variant = strings.TrimSpace(variant)
	}
}

// WithAssets serves files under /assets/, e.g. the renderer stylesheet.
func WithAssets(files fs.FS) Option {
	return func(h *Handler) {
		h.assets = files
	}
}

// Handler serves a single survey session over HTTP. GET / renders the current
// step; POST / stores the posted answers, applies the action and redirects
// back to GET /.
type Handler struct {
	mu       sync.Mutex
	ctrl     *flow.Controller
	renderer render.Renderer
	logger   *zap.Logger
	theme    string
	variant  string
	assets   fs.FS
	mux      *http.ServeMux

	// flash holds form-level messages shown by the next GET.
	flash []string
}

// NewHandler wires ctrl and renderer into an http.Handler.
func NewHandler(ctrl *flow.Controller, renderer render.Renderer, options ...Option) (*Handler, error) {
	if ctrl == nil {
		return nil, errors.New("web: controller is required")
	}
	if renderer == nil {
		return nil, errors.New("web: renderer is required")
	}

	h := &Handler{
		ctrl:     ctrl,
		renderer: renderer,
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(h)
	}

	h.mux = http.NewServeMux()
	h.mux.HandleFunc("GET /{$}", h.show)
	h.mux.HandleFunc("POST /{$}", h.update)
	if h.assets != nil {
		h.mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(h.assets))))
	}
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	view := render.NewView(h.ctrl)
	flash := h.flash
	h.flash = nil
	h.mu.Unlock()

	body, err := h.renderer.Render(r.Context(), view, render.RenderOptions{
		Action:     "/",
		Theme:      h.theme,
		Variant:    h.variant,
		FormErrors: flash,
	})
	if err != nil {
		h.logger.Error("render failed", zap.String("renderer", h.renderer.Name()), zap.Error(err))
		http.Error(w, "could not render the survey", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", h.renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(body)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	action := strings.TrimSpace(r.PostForm.Get("action"))
	switch action {
	case ActionNext, ActionBack, ActionSubmit:
	default:
		http.Error(w, fmt.Sprintf("unknown action %q", action), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	err := h.apply(r, action)
	h.mu.Unlock()
	if err != nil {
		h.logger.Error("apply form failed", zap.String("action", action), zap.Error(err))
		http.Error(w, "could not save your answers", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// apply runs with h.mu held.
func (h *Handler) apply(r *http.Request, action string) error {
	if h.ctrl.Submitted() {
		return nil
	}
	// A post from a stale page must not overwrite answers of another step.
	if step, err := strconv.Atoi(r.PostForm.Get("step")); err != nil || step != h.ctrl.Step() {
		h.logger.Debug("ignoring stale form post", zap.String("step", r.PostForm.Get("step")), zap.Int("current", h.ctrl.Step()))
		return nil
	}

	view := render.NewView(h.ctrl)
	for _, field := range view.Fields {
		if err := h.ctrl.SetAnswer(field.ID, valueFromForm(field, r)); err != nil {
			return err
		}
	}

	var err error
	switch action {
	case ActionBack:
		h.ctrl.Retreat()
	case ActionNext:
		err = h.ctrl.Advance()
	case ActionSubmit:
		err = h.ctrl.Submit(r.Context())
	}

	var vErr *validation.Error
	switch {
	case err == nil:
		h.logger.Debug("form applied", zap.String("action", action), zap.Int("step", h.ctrl.Step()), zap.Bool("submitted", h.ctrl.Submitted()))
	case errors.As(err, &vErr):
		h.logger.Debug("answers rejected", zap.Strings("fields", vErr.Result().IDs()))
		h.flash = issuesOffStep(h.ctrl, view, vErr)
	case errors.Is(err, flow.ErrLastStep), errors.Is(err, flow.ErrNotLastStep):
		h.logger.Debug("action not available on this step", zap.String("action", action))
	default:
		h.logger.Warn("submit failed", zap.Error(err))
		h.flash = []string{"Could not submit your answers. Please try again."}
	}
	return nil
}

func valueFromForm(field render.Field, r *http.Request) answers.Value {
	switch field.Control {
	case render.ControlCheckbox:
		return answers.MultiChoice(r.PostForm[field.ID]...)
	case render.ControlRadio:
		return answers.SingleChoice(r.PostForm.Get(field.ID))
	default:
		return answers.Text(strings.TrimSpace(r.PostForm.Get(field.ID)))
	}
}

// issuesOffStep turns failures of questions outside the current step into
// form-level messages; the rest are shown inline.
func issuesOffStep(ctrl *flow.Controller, view render.View, vErr *validation.Error) []string {
	onStep := make(map[string]struct{}, len(view.Fields))
	for _, field := range view.Fields {
		onStep[field.ID] = struct{}{}
	}
	var out []string
	for _, issue := range vErr.Issues {
		if _, ok := onStep[issue.QuestionID]; ok {
			continue
		}
		title := issue.QuestionID
		if q, ok := ctrl.Catalog().Question(issue.QuestionID); ok {
			title = q.Title
		}
		out = append(out, title+": "+issue.Message)
	}
	return out
}
