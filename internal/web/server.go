package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jaminalder/tictactoe-timetravel/internal/app"
)

// Options tune the HTTP surface. Zero values fall back to defaults.
type Options struct {
	CookieName string
	Heartbeat  time.Duration
}

func (o Options) withDefaults() Options {
	if o.CookieName == "" {
		o.CookieName = "session_id"
	}
	if o.Heartbeat <= 0 {
		o.Heartbeat = 15 * time.Second
	}
	return o
}

// NewServer wires routes and returns an http.Handler. It also installs the
// game fragment as the service's broadcast renderer.
func NewServer(s *app.Service, log *zap.Logger, opts Options) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	opts = opts.withDefaults()
	log = log.Named("web")

	h := &handlers{
		svc:       s,
		tpl:       loadTemplates(),
		log:       log,
		cookie:    opts.CookieName,
		heartbeat: opts.Heartbeat,
	}
	s.SetRenderer(h.renderGame)

	ws := &socket{
		svc:      s,
		log:      log.Named("ws"),
		cookie:   opts.CookieName,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/", h.index)
	r.Post("/move", h.move)
	r.Post("/jump", h.jump)
	r.Post("/restart", h.restart)
	r.Get("/events", h.events)
	r.Get("/ws", ws.serve)
	r.Get("/ping", h.ping)
	return r
}
