package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/jaminalder/tictactoe-timetravel/internal/app"
	"github.com/jaminalder/tictactoe-timetravel/internal/domain"
)

type handlers struct {
	svc       *app.Service
	tpl       *templates
	log       *zap.Logger
	cookie    string
	heartbeat time.Duration
}

func (h *handlers) logger(r *http.Request) *zap.Logger {
	return h.log.With(zap.String("request_id", middleware.GetReqID(r.Context())))
}

// renderGame is also the service's broadcast renderer.
func (h *handlers) renderGame(v app.View) []byte {
	b, err := renderTemplate(h.tpl.game, newGameData(v, ""))
	if err != nil {
		h.log.Error("render game fragment", zap.String("session", v.ID), zap.Error(err))
		return nil
	}
	return b
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	id := ensureSessionCookie(w, r, h.cookie)
	v := h.svc.Open(id)
	body, err := renderTemplate(h.tpl.page, newGameData(v, ""))
	if err != nil {
		h.logger(r).Error("render page", zap.Error(err))
		http.Error(w, "failed to render", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *handlers) move(w http.ResponseWriter, r *http.Request) {
	idx, err := formInt(r, "i")
	if err != nil {
		http.Error(w, "invalid cell", http.StatusBadRequest)
		return
	}
	id := ensureSessionCookie(w, r, h.cookie)
	v, err := h.svc.ApplyMove(id, idx)
	h.respond(w, r, v, err)
}

func (h *handlers) jump(w http.ResponseWriter, r *http.Request) {
	step, err := formInt(r, "step")
	if err != nil {
		http.Error(w, "invalid step", http.StatusBadRequest)
		return
	}
	id := ensureSessionCookie(w, r, h.cookie)
	v, err := h.svc.JumpTo(id, step)
	h.respond(w, r, v, err)
}

func (h *handlers) restart(w http.ResponseWriter, r *http.Request) {
	id := ensureSessionCookie(w, r, h.cookie)
	v, err := h.svc.Restart(id)
	h.respond(w, r, v, err)
}

func (h *handlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

// respond writes the game fragment for htmx requests and redirects plain
// form posts back to the page.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, v app.View, err error) {
	var errMsg string
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrStepOutOfRange):
			errMsg = "No such move in history"
		default:
			h.logger(r).Error("game update failed", zap.String("session", v.ID), zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}
	if r.Header.Get("HX-Request") == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	body, rerr := renderTemplate(h.tpl.game, newGameData(v, errMsg))
	if rerr != nil {
		h.logger(r).Error("render game fragment", zap.Error(rerr))
		http.Error(w, "failed to render", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}

func formInt(r *http.Request, key string) (int, error) {
	if err := r.ParseForm(); err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(r.Form.Get(key)))
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := ensureSessionCookie(w, r, h.cookie)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// In tests or non-EventSource requests, just acknowledge headers and return
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub := h.svc.Subscribe(ctx, id)
	defer unsub()
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	// Initial flush of headers
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			writeEvent(w, "game", b)
			flusher.Flush()
		}
	}
}

// writeEvent emits one SSE event; every payload line gets its own data field.
func writeEvent(w io.Writer, name string, payload []byte) {
	_, _ = fmt.Fprintf(w, "event: %s\n", name)
	for _, line := range strings.Split(string(payload), "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = io.WriteString(w, "\n")
}
