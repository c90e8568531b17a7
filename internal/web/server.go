// Package web serves the single-page to-do UI. Every form post becomes one
// app.Event and is answered with a full re-render.
package web

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/app"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/middleware"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	cookieName   = "todo_session"
	sessionIDKey = "sid"
)

// Config configures the UI server.
type Config struct {
	Loop *app.Loop

	// CookieSecret signs the session cookie. When empty a random key is
	// generated, so cookies do not survive a restart.
	CookieSecret []byte
	SecureCookie bool
	CookieMaxAge time.Duration

	// Metrics, when set, is served on /metrics.
	Metrics http.Handler
	// Health is called by /healthz; nil always reports healthy.
	Health func(ctx context.Context) error

	Logger *slog.Logger
}

// Server renders the page and routes form posts into the event loop.
type Server struct {
	loop    *app.Loop
	cookies sessions.Store
	tmpl    *template.Template
	metrics http.Handler
	health  func(ctx context.Context) error
	logger  *slog.Logger
}

// New creates the UI server.
func New(cfg Config) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	secret := cfg.CookieSecret
	if len(secret) == 0 {
		logger.Warn("No session secret configured, using a random key")
		secret = securecookie.GenerateRandomKey(32)
	}
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.CookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}

	return &Server{
		loop:    cfg.Loop,
		cookies: store,
		tmpl:    tmpl,
		metrics: cfg.Metrics,
		health:  cfg.Health,
		logger:  logger,
	}, nil
}

// Routes returns the UI router. Other handlers (such as the Connect API)
// can be mounted on it by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.LogRequests)

	r.Get("/", s.handle(func(r *http.Request) (app.Event, bool) {
		return app.Event{Kind: app.EventRefresh}, true
	}))
	r.Post("/mode", s.handle(func(r *http.Request) (app.Event, bool) {
		return app.Event{Kind: app.EventSetMode, Mode: session.ParseMode(r.PostFormValue("mode"))}, true
	}))
	r.Post("/signup", s.handle(credentials(app.EventSignUp)))
	r.Post("/login", s.handle(credentials(app.EventSignIn)))
	r.Post("/logout", s.handle(func(r *http.Request) (app.Event, bool) {
		return app.Event{Kind: app.EventSignOut}, true
	}))
	r.Post("/tasks", s.handle(func(r *http.Request) (app.Event, bool) {
		return app.Event{Kind: app.EventAdd, Text: r.PostFormValue("text")}, true
	}))
	r.Route("/tasks/{id}", func(r chi.Router) {
		r.Post("/edit", s.handle(taskEvent(app.EventEdit)))
		r.Post("/save", s.handle(taskEvent(app.EventSave)))
		r.Post("/cancel", s.handle(taskEvent(app.EventCancel)))
		r.Post("/delete", s.handle(taskEvent(app.EventDelete)))
	})

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

type decodeFunc func(r *http.Request) (app.Event, bool)

func credentials(kind app.EventKind) decodeFunc {
	return func(r *http.Request) (app.Event, bool) {
		return app.Event{
			Kind:     kind,
			Email:    r.PostFormValue("email"),
			Password: r.PostFormValue("password"),
		}, true
	}
}

func taskEvent(kind app.EventKind) decodeFunc {
	return func(r *http.Request) (app.Event, bool) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			return app.Event{}, false
		}
		return app.Event{Kind: kind, TaskID: id, Text: r.PostFormValue("text")}, true
	}
}

// handle runs one event for the request's session and renders the result.
func (s *Server) handle(decode decodeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ev, ok := decode(r)
		if !ok {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		// A cookie that fails to decode yields a fresh session.
		cookie, _ := s.cookies.Get(r, cookieName)
		sessionID, _ := cookie.Values[sessionIDKey].(string)

		view, newID, err := s.loop.Run(r.Context(), sessionID, ev)
		if err != nil {
			s.logger.Error("Failed to run event", "event", ev.String(), "error", err)
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
			return
		}

		if newID != sessionID {
			cookie.Values[sessionIDKey] = newID
			if err := cookie.Save(r, w); err != nil {
				s.logger.Error("Failed to save session cookie", "error", err)
			}
		}

		s.render(w, view)
	}
}

func (s *Server) render(w http.ResponseWriter, view *app.View) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "page.html", view); err != nil {
		s.logger.Error("Failed to render page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.logger.Warn("Health check failed", "error", err)
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}
