package web

import (
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "go.uber.org/zap"

    "github.com/jaminalder/codex-checkers/internal/app"
    "github.com/jaminalder/codex-checkers/internal/obslog"
)

// NewServer wires routes and returns an http.Handler. It also installs the
// board fragment as the service's broadcast renderer.
func NewServer(s *app.Service, log *zap.Logger) http.Handler {
    if log == nil {
        log = obslog.L()
    }
    r := chi.NewRouter()
    r.Use(middleware.Recoverer)
    r.Use(requestLogger(log))

    h := &handlers{svc: s, tpl: loadTemplates(), log: log}
    s.SetRenderer(h.renderState)

    r.Get("/", h.index)
    r.Post("/game", h.create)
    r.Route("/game/{id}", func(r chi.Router) {
        r.Get("/", h.view)
        r.Post("/click", h.click)
        r.Post("/deselect", h.deselect)
        r.Get("/pieces", h.pieces)
        r.Get("/events", h.events)
    })
    return r
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
            start := time.Now()
            next.ServeHTTP(ww, r)
            log.Debug("request",
                zap.String("method", r.Method),
                zap.String("path", r.URL.Path),
                zap.Int("status", ww.Status()),
                zap.Duration("took", time.Since(start)))
        })
    }
}
