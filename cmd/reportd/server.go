package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ruslano69/sqlreports/pkg/config"
	"github.com/ruslano69/sqlreports/pkg/render"
	"github.com/ruslano69/sqlreports/pkg/report"
	"github.com/ruslano69/sqlreports/pkg/runlog"
	"github.com/ruslano69/sqlreports/pkg/storage"
	"github.com/ruslano69/sqlreports/pkg/xlsx"
)

const (
	formatHTML = "html"
	formatXLSX = "xlsx"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// databaseParam selects the connection; every other query parameter is a macro
	databaseParam = "database"

	publishTimeout = 5 * time.Second
)

// Server serves report definitions from a store
type Server struct {
	cfg       *config.Config
	store     storage.Store
	engine    *render.Engine
	env       report.Environment
	publisher runlog.Publisher
	logger    zerolog.Logger
	startedAt time.Time
}

func newServer(cfg *config.Config, store storage.Store, engine *render.Engine, publisher runlog.Publisher, logger zerolog.Logger) *Server {
	return &Server{
		cfg:    cfg,
		store:  store,
		engine: engine,
		env: report.Environment{
			Connections: cfg.Connections,
			Renderer:    engine,
			Logger:      logger,
		},
		publisher: publisher,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// Router wires all handlers and returns the chi router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(accessLog(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(compress)
		r.Get("/", s.handleIndex)
		r.Get("/report/*", s.handleReport)
		r.Get("/raw/*", s.handleRaw)
		r.Get("/xlsx/*", s.handleXLSX)
	})

	return r
}

// ─────────────────────────────────────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "ok %s\n", time.Since(s.startedAt).Round(time.Second))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, render.NewPage(s.cfg.Server.Name, "", "", nil), err)
		return
	}

	var buf bytes.Buffer
	data := render.IndexPage{
		Page:    render.NewPage(s.cfg.Server.Name, "", "", nil),
		Reports: names,
	}
	if err := s.engine.Render(&buf, "index", data); err != nil {
		s.writeError(w, r, data.Page, err)
		return
	}
	writeHTML(w, http.StatusOK, &buf)
}

func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	name := reportName(r)
	def, err := s.store.Load(r.Context(), name)
	if err != nil {
		s.writeError(w, r, render.NewPage(s.cfg.Server.Name, name, "", nil), err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(def.Raw))
}

// handleReport renders header, variable form, report body and footer.
// A report with unfilled variables renders only the form.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := reportName(r)
	params := r.URL.Query()

	rpt, err := s.load(r.Context(), name, params)
	if err != nil {
		s.finish(r.Context(), formatHTML, name, nil, start, err)
		s.writeError(w, r, render.NewPage(s.cfg.Server.Name, name, "", nil), err)
		return
	}

	page := render.NewPage(s.cfg.Server.Name, rpt.Options.Name, name, params)

	var buf bytes.Buffer
	if err := s.engine.Header(&buf, page); err != nil {
		s.finish(r.Context(), formatHTML, name, rpt.Options, start, err)
		s.writeError(w, r, page, err)
		return
	}
	if err := rpt.RenderVariableForm(&buf); err != nil {
		s.finish(r.Context(), formatHTML, name, rpt.Options, start, err)
		s.writeError(w, r, page, err)
		return
	}

	status := http.StatusOK
	runErr := report.ErrNotReady
	if rpt.Ready {
		var body bytes.Buffer
		if runErr = rpt.Render(r.Context(), &body); runErr == nil {
			buf.Write(body.Bytes())
		} else {
			status = statusFor(runErr)
			s.errorCard(&buf, status, runErr)
		}
	}
	s.finish(r.Context(), formatHTML, name, rpt.Options, start, runErr)

	if err := s.engine.Footer(&buf, page); err != nil {
		s.writeError(w, r, page, err)
		return
	}
	writeHTML(w, status, &buf)
}

func (s *Server) handleXLSX(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := reportName(r)
	page := render.NewPage(s.cfg.Server.Name, name, name, r.URL.Query())

	rpt, err := s.load(r.Context(), name, r.URL.Query())
	if err != nil {
		s.finish(r.Context(), formatXLSX, name, nil, start, err)
		s.writeError(w, r, page, err)
		return
	}
	if !rpt.Ready {
		s.finish(r.Context(), formatXLSX, name, rpt.Options, start, report.ErrNotReady)
		s.writeError(w, r, page, fmt.Errorf("%w: fill in the variables on /report/%s first", report.ErrNotReady, name))
		return
	}

	err = rpt.Run(r.Context())
	var buf bytes.Buffer
	if err == nil {
		rpt.Prepare()
		err = xlsx.Write(&buf, rpt.Options, "")
	}
	s.finish(r.Context(), formatXLSX, name, rpt.Options, start, err)
	if err != nil {
		s.writeError(w, r, page, err)
		return
	}

	filename := strings.TrimSuffix(path.Base(name), path.Ext(name)) + ".xlsx"
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func (s *Server) load(ctx context.Context, name string, params url.Values) (*report.Report, error) {
	def, err := s.store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	macros, database := requestMacros(params)
	return report.New(def, macros, database, s.env)
}

// finish records metrics and publishes the run result.
func (s *Server) finish(ctx context.Context, format, name string, opts *report.Options, start time.Time, runErr error) {
	result := runlog.NewRunResult(opts, start, runErr)
	if result.Report == "" {
		result.Report = name
	}

	rendersTotal.WithLabelValues(format, result.Status).Inc()
	renderDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, result); err != nil {
		runlogErrorsTotal.Inc()
		s.logger.Warn().Err(err).Str("report", name).Msg("run result publish failed")
	}
}

func (s *Server) errorCard(buf *bytes.Buffer, status int, err error) {
	data := render.ErrorPage{Status: status, Title: http.StatusText(status), Message: err.Error()}
	if rerr := s.engine.Render(buf, "error", data); rerr != nil {
		fmt.Fprintf(buf, "<pre>%d %s</pre>", status, http.StatusText(status))
	}
}

// writeError renders a complete error page.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, page render.Page, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request failed")
	}

	var buf bytes.Buffer
	page.Report = ""
	if s.engine.Header(&buf, page) != nil {
		http.Error(w, err.Error(), status)
		return
	}
	s.errorCard(&buf, status, err)
	s.engine.Footer(&buf, page)
	writeHTML(w, status, &buf)
}

func writeHTML(w http.ResponseWriter, status int, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, report.ErrDefinitionNotFound):
		return http.StatusNotFound
	case errors.Is(err, report.ErrNotReady):
		return http.StatusBadRequest
	case errors.Is(err, report.ErrConnectionFailed):
		return http.StatusBadGateway
	case errors.Is(err, report.ErrUnsupportedBackend):
		return http.StatusNotImplemented
	case errors.Is(err, report.ErrMissingHeaders),
		errors.Is(err, report.ErrUnknownDirective),
		errors.Is(err, report.ErrInvalidDirective),
		errors.Is(err, report.ErrUnknownReportType):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func reportName(r *http.Request) string {
	return strings.Trim(chi.URLParam(r, "*"), "/")
}

// requestMacros turns query parameters into macros.
// Repeated parameters are joined with commas.
func requestMacros(params url.Values) (map[string]string, string) {
	macros := make(map[string]string, len(params))
	for k, v := range params {
		if k == databaseParam {
			continue
		}
		macros[k] = strings.Join(v, ",")
	}
	return macros, params.Get(databaseParam)
}
