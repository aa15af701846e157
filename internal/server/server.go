// Package server hosts the form-based web UI for user search.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/splax/userscout/internal/ensemble"
	"github.com/splax/userscout/internal/platform"
	"github.com/splax/userscout/internal/render"
	"github.com/splax/userscout/internal/search"
	"github.com/splax/userscout/pkg/config"
	"github.com/splax/userscout/pkg/crypto"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	handlerTimeout = 30 * time.Second
	rateWindow     = time.Minute
)

// Server wires the search service to the web form UI.
type Server struct {
	cfg       config.WebConfig
	search    *search.Service
	sessions  *sessionManager
	templates *template.Template
	mux       *http.ServeMux
	logger    *slog.Logger
	limiter   RateLimiter

	metricsOnce        sync.Once
	metricsInitialized bool
	requestTotal       *prometheus.CounterVec
	requestLatency     *prometheus.HistogramVec
	searchesTotal      *prometheus.CounterVec
	rateLimitHits      *prometheus.CounterVec
}

// New constructs a configured server ready to serve HTTP traffic. An empty
// session secret gets a process-random one; sessions then survive only as
// long as the process.
func New(cfg config.WebConfig, svc *search.Service, logger *slog.Logger) (*Server, error) {
	if svc == nil {
		return nil, errors.New("search service is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	secret := strings.TrimSpace(cfg.SessionSecret)
	if secret == "" {
		random, err := crypto.RandHex(32)
		if err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		secret = random
	}
	sessions, err := newSessionManager(secret, cfg.CookieName, cfg.CookieSecure)
	if err != nil {
		return nil, err
	}
	tmplFS, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	templates, err := template.New("base").ParseFS(tmplFS, "*.html")
	if err != nil {
		return nil, err
	}
	srv := &Server{
		cfg:       cfg,
		search:    svc,
		sessions:  sessions,
		templates: templates,
		mux:       http.NewServeMux(),
		logger:    logger,
		limiter:   NewMemoryRateLimiter(),
	}
	srv.initMetrics()
	srv.registerRoutes()
	return srv, nil
}

// ServeHTTP conforms to http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close releases background resources.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Close()
	}
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/", s.audit("/", s.handleHome))
	s.mux.HandleFunc("/search", s.audit("/search", s.withRateLimit("/search", s.handleSearch)))
	s.mux.HandleFunc("/export", s.audit("/export", s.withRateLimit("/export", s.handleExport)))
	s.mux.HandleFunc("/reset", s.audit("/reset", s.handleReset))
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.Handle("/metrics", promhttp.Handler())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

func (s *Server) audit(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w}
		requestID := uuid.NewString()
		recorder.Header().Set("X-Request-ID", requestID)
		start := time.Now()
		next(recorder, req)

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		s.logger.Info("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"bytes", recorder.bytes,
			"duration_ms", duration.Milliseconds(),
			"ip", clientIP(req),
			"request_id", requestID,
		)
		s.recordRequestMetrics(req.Method, route, status, duration)
	}
}

func (s *Server) withRateLimit(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		limit := s.cfg.RateLimitPerMinute
		if limit <= 0 || s.limiter.Allow(clientIP(req), limit, rateWindow) {
			next(w, req)
			return
		}
		s.recordRateLimitHit(route)
		s.renderError(w, req, http.StatusTooManyRequests, "rate limit exceeded, slow down")
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

type platformOption struct {
	Value string
	Label string
	Units int
}

func platformOptions() []platformOption {
	labels := map[platform.Platform]string{
		platform.TikTok:    "TikTok",
		platform.Instagram: "Instagram",
		platform.Threads:   "Threads",
	}
	options := make([]platformOption, 0, len(labels))
	for _, p := range platform.All() {
		options = append(options, platformOption{
			Value: p.String(),
			Label: labels[p],
			Units: p.Config().Units,
		})
	}
	return options
}

type searchForm struct {
	Platform   string
	Query      string
	MaxResults int
}

func formFromRequest(r *http.Request) searchForm {
	maxResults := search.DefaultResults
	if raw := strings.TrimSpace(r.PostFormValue("max_results")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			parsed = 0 // out of range, the service rejects it
		}
		maxResults = parsed
	}
	return searchForm{
		Platform:   r.PostFormValue("platform"),
		Query:      r.PostFormValue("query"),
		MaxResults: maxResults,
	}
}

type resultView struct {
	Platform   string
	Query      string
	MaxResults int
	Count      int
	Table      render.Table
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.renderHome(w, r, homeData{
		Flash:    flashFromRequest(r),
		Form:     searchForm{Platform: platform.TikTok.String(), MaxResults: search.DefaultResults},
		HasToken: s.hasSessionToken(r),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "invalid form payload")
		return
	}
	form := formFromRequest(r)

	token := strings.TrimSpace(r.PostFormValue("token"))
	if token != "" {
		cookie, err := s.sessions.makeCookie(token)
		if err != nil {
			s.renderError(w, r, http.StatusInternalServerError, "session issuance failed")
			return
		}
		http.SetCookie(w, cookie)
	} else if saved, err := s.sessions.tokenFromRequest(r); err == nil {
		token = saved
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	result, err := s.search.Search(ctx, search.Request{
		Platform:   form.Platform,
		Query:      form.Query,
		Token:      token,
		MaxResults: form.MaxResults,
	})
	s.recordSearch(form.Platform, outcomeLabel(err))
	if err != nil {
		s.renderHome(w, r, homeData{
			Flash:    userMessage(err),
			Form:     form,
			HasToken: token != "",
		})
		return
	}

	data := homeData{
		Form:     form,
		HasToken: true,
	}
	if len(result.Records) == 0 {
		data.Notice = "No results found"
	} else {
		data.Result = &resultView{
			Platform:   result.Platform.String(),
			Query:      strings.TrimSpace(form.Query),
			MaxResults: form.MaxResults,
			Count:      len(result.Records),
			Table:      render.Build(result.Platform, result.Records),
		}
	}
	s.renderHome(w, r, data)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "invalid form payload")
		return
	}
	form := formFromRequest(r)

	token, err := s.sessions.tokenFromRequest(r)
	if err != nil {
		redirectWithFlash(w, r, "/", "session expired, enter your API token again")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	result, err := s.search.Search(ctx, search.Request{
		Platform:   form.Platform,
		Query:      form.Query,
		Token:      token,
		MaxResults: form.MaxResults,
	})
	s.recordSearch(form.Platform, outcomeLabel(err))
	if err != nil {
		redirectWithFlash(w, r, "/", userMessage(err))
		return
	}

	table := render.Build(result.Platform, result.Records)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", render.CSVFileName(result.Platform)))
	if err := render.WriteCSV(w, table); err != nil {
		s.logger.Error("csv export failed", "platform", result.Platform.String(), "error", err)
	}
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	http.SetCookie(w, s.sessions.expireCookie())
	redirectWithFlash(w, r, "/", "API token cleared")
}

type homeData struct {
	Flash    string
	Notice   string
	Form     searchForm
	HasToken bool
	Result   *resultView
}

func (s *Server) renderHome(w http.ResponseWriter, r *http.Request, data homeData) {
	payload := map[string]any{
		"Title":      "Social Media User Search",
		"Flash":      data.Flash,
		"Notice":     data.Notice,
		"Platforms":  platformOptions(),
		"Form":       data.Form,
		"HasToken":   data.HasToken,
		"Result":     data.Result,
		"MinResults": search.MinResults,
		"MaxResults": search.MaxResults,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "home", payload); err != nil {
		s.logger.Error("template render failed", "template", "home", "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.logger.Warn("web error", "status", status, "message", message)
	http.Error(w, message, status)
}

func (s *Server) hasSessionToken(r *http.Request) bool {
	token, err := s.sessions.tokenFromRequest(r)
	return err == nil && strings.TrimSpace(token) != ""
}

// userMessage turns a search failure into the text shown on the form.
func userMessage(err error) string {
	var statusErr *ensemble.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("Error: %d - %s", statusErr.StatusCode, statusErr.Body)
	}
	switch {
	case errors.Is(err, platform.ErrUnsupported),
		errors.Is(err, search.ErrMissingToken),
		errors.Is(err, search.ErrMissingQuery),
		errors.Is(err, search.ErrMaxResultsRange):
		return err.Error()
	default:
		return "Error occurred: " + err.Error()
	}
}

// outcomeLabel classifies a search result for metrics.
func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var statusErr *ensemble.StatusError
	var decodeErr *ensemble.DecodeError
	switch {
	case errors.Is(err, platform.ErrUnsupported),
		errors.Is(err, search.ErrMissingToken),
		errors.Is(err, search.ErrMissingQuery),
		errors.Is(err, search.ErrMaxResultsRange):
		return "invalid"
	case errors.As(err, &statusErr):
		return "upstream_status"
	case errors.As(err, &decodeErr):
		return "decode"
	default:
		return "transport"
	}
}

func flashFromRequest(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("flash"))
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, target, message string) {
	if strings.TrimSpace(target) == "" {
		target = "/"
	}
	u, err := url.Parse(target)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if strings.TrimSpace(message) != "" {
		q := u.Query()
		q.Set("flash", message)
		u.RawQuery = q.Encode()
	}
	http.Redirect(w, r, u.String(), http.StatusSeeOther)
}
