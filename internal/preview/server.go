// Package preview serves configured forms over HTTP for local development.
// Forms are rendered on every request from a Store that follows changes to
// the configuration file.
package preview

import (
	"encoding/json"
	"errors"
	"fmt"
	stdhtml "html"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formbar"
	"github.com/goliatone/go-formbar/pkg/config"
	"github.com/goliatone/go-formbar/pkg/orchestrator"
	"github.com/goliatone/go-formbar/pkg/render"
	"github.com/goliatone/go-formbar/pkg/renderers/html"
)

const assetsPrefix = "/assets/"

// Option configures the preview server.
type Option func(*Server)

// WithOrchestrator replaces the orchestrator used to render forms.
func WithOrchestrator(orch *orchestrator.Orchestrator) Option {
	return func(s *Server) {
		if orch != nil {
			s.orch = orch
		}
	}
}

// WithOrchestratorOptions forwards options to the default orchestrator, for
// example a theme selector. Ignored when WithOrchestrator is used.
func WithOrchestratorOptions(options ...orchestrator.Option) Option {
	return func(s *Server) {
		s.orchOptions = append(s.orchOptions, options...)
	}
}

// WithLogger sets the logger used for request logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHiddenFields adds hidden inputs to every rendered form.
func WithHiddenFields(fields ...render.HiddenField) Option {
	return func(s *Server) {
		s.hidden = render.WithHiddenFields(s.hidden, fields...)
	}
}

// Server renders the forms of a Store.
type Server struct {
	store       *Store
	orch        *orchestrator.Orchestrator
	orchOptions []orchestrator.Option
	logger      *slog.Logger
	hidden      map[string]string
}

// New constructs a preview server over store.
func New(store *Store, options ...Option) (*Server, error) {
	if store == nil {
		return nil, errors.New("preview: store is required")
	}
	s := &Server{store: store, logger: slog.Default()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.orch == nil {
		renderer, err := html.New(
			html.WithStylesheets(assetsPrefix+formbar.StylesheetName),
			html.WithLogger(s.logger),
		)
		if err != nil {
			return nil, fmt.Errorf("preview: html renderer: %w", err)
		}
		registry := render.NewRegistry()
		registry.MustRegister(renderer)
		options := append([]orchestrator.Option{
			orchestrator.WithRegistry(registry),
			orchestrator.WithLogger(s.logger),
		}, s.orchOptions...)
		s.orch = orchestrator.New(options...)
	}
	return s, nil
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(recoverer(s.logger))
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", s.health)
	r.Get("/", s.index)
	r.Get("/forms/{id}", s.showForm)
	r.Post("/forms/{id}", s.submitForm)
	r.Handle(assetsPrefix+"*", http.StripPrefix(assetsPrefix, http.FileServerFS(formbar.StylesheetFS())))
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.store.Err(); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "degraded", "error": err.Error()})
		return
	}
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) index(w http.ResponseWriter, _ *http.Request) {
	cfg := s.store.Config()

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<title>formbar preview</title>\n<ul>\n")
	for _, id := range cfg.FormIDs() {
		escaped := stdhtml.EscapeString(id)
		fmt.Fprintf(&b, "  <li><a href=\"/forms/%s\">%s</a></li>\n", url.PathEscape(id), escaped)
	}
	b.WriteString("</ul>\n")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(b.String()))
}

// showForm renders a form; query parameters prefill values except for the
// reserved theme, variant and fields parameters.
func (s *Server) showForm(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := s.request(r, query)
	req.Values = valuesFrom(query)
	s.render(w, r, req)
}

// submitForm renders the form again with the submitted values in place.
func (s *Server) submitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	req := s.request(r, r.URL.Query())
	req.RenderOptions.Values = valuesFrom(r.PostForm)
	s.render(w, r, req)
}

func (s *Server) request(r *http.Request, query url.Values) orchestrator.Request {
	return orchestrator.Request{
		Config:       s.store.Config(),
		FormID:       chi.URLParam(r, "id"),
		ThemeName:    query.Get("theme"),
		ThemeVariant: query.Get("variant"),
		RenderOptions: render.RenderOptions{
			HiddenFields: s.hidden,
			Subset:       render.ParseSubset(query.Get("fields")),
		},
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, req orchestrator.Request) {
	output, contentType, err := s.orch.GenerateWithContentType(r.Context(), req)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, config.ErrFormNotFound) {
			code = http.StatusNotFound
		}
		s.logger.Warn("render failed", "form", req.FormID, "error", err)
		http.Error(w, err.Error(), code)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(output)
}

var reservedParams = map[string]struct{}{
	"theme":   {},
	"variant": {},
	"fields":  {},
}

func valuesFrom(params url.Values) map[string]any {
	values := make(map[string]any, len(params))
	for key, items := range params {
		if _, reserved := reservedParams[key]; reserved {
			continue
		}
		switch len(items) {
		case 0:
		case 1:
			values[key] = items[0]
		default:
			values[key] = append([]string(nil), items...)
		}
	}
	return values
}
