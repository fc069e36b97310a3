// Package server serves the chat page and its JSON/SSE API.
//
// Endpoints:
//   - GET  /              - chat page
//   - POST /api/chat      - send a message, reply streamed as SSE
//   - GET  /api/messages  - display messages of the current session
//   - GET  /healthz       - liveness
package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"volume-chat/internal/chat"
	"volume-chat/internal/logger"
	"volume-chat/internal/render"
	"volume-chat/internal/store"
	"volume-chat/internal/types"
	"volume-chat/internal/ui"
)

const (
	// MaxRequestBodySize bounds POST /api/chat bodies.
	MaxRequestBodySize = 64 * 1024

	hint = `Try: "What's the volume of Bitcoin?"`
)

//go:embed page.html
var pageHTML string

var page = template.Must(template.New("page").Parse(pageHTML))

type Server struct {
	cfg      *store.Config
	sessions *chat.Sessions
	router   *http.ServeMux
	server   *http.Server
}

func New(cfg *store.Config, sessions *chat.Sessions) *Server {
	s := &Server{
		cfg:      cfg,
		sessions: sessions,
		router:   http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /{$}", s.handlePage)
	s.router.HandleFunc("POST /api/chat", s.handleChat)
	s.router.HandleFunc("GET /api/messages", s.handleMessages)
	s.router.HandleFunc("GET /healthz", s.handleHealth)
}

// Handler returns the router wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return Chain(
		RecoveryMiddleware(),
		LoggingMiddleware(),
	)(s.router)
}

// Start listens on cfg.Server.Addr and blocks until the server stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info(context.Background(), "Server starting", "addr", s.cfg.Server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	logger.Info(ctx, "Server shutting down")
	return s.server.Shutdown(ctx)
}

// message is the wire form of a chat.DisplayMessage.
type message struct {
	ID     string        `json:"id"`
	Role   string        `json:"role"`
	Status ui.Status     `json:"status,omitempty"`
	HTML   template.HTML `json:"html"`
}

func toMessage(m chat.DisplayMessage) (message, error) {
	out := message{ID: m.ID, Role: m.Role}

	if m.Role == types.RoleUser || m.Reply == nil {
		h, err := render.UserHTML(m.Text)
		if err != nil {
			return message{}, err
		}
		out.HTML = h
		return out, nil
	}

	f := m.Reply.Snapshot()
	h, err := render.HTML(f.View)
	if err != nil {
		return message{}, err
	}
	out.Status = f.Status
	out.HTML = h
	return out, nil
}

func toMessages(ms []chat.DisplayMessage) ([]message, error) {
	out := make([]message, 0, len(ms))
	for _, m := range ms {
		wm, err := toMessage(m)
		if err != nil {
			return nil, err
		}
		out = append(out, wm)
	}
	return out, nil
}

// lookup returns the caller's existing session, or nil.
func (s *Server) lookup(r *http.Request) *chat.Session {
	c, err := r.Cookie(s.cfg.Server.SessionCookie)
	if err != nil {
		return nil
	}
	sess, ok := s.sessions.Get(c.Value)
	if !ok {
		return nil
	}
	return sess
}

// session resolves the caller's session, creating one and issuing its cookie
// when there is none. Only routes that start a conversation call it.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *chat.Session {
	if sess := s.lookup(r); sess != nil {
		return sess
	}

	sess, _ := s.sessions.GetOrCreate("")
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Server.SessionCookie,
		Value:    sess.ID(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// messagesOf renders the display list of sess; a nil session has none.
func messagesOf(sess *chat.Session) ([]message, error) {
	if sess == nil {
		return []message{}, nil
	}
	return toMessages(sess.Messages())
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	msgs, err := messagesOf(s.lookup(r))
	if err != nil {
		logger.ErrorWithErr(r.Context(), "Failed to render messages", err)
		s.writeError(w, http.StatusInternalServerError, "render failed")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = page.Execute(w, struct {
		Title    string
		Hint     string
		Messages []message
	}{
		Title:    s.cfg.Server.Title,
		Hint:     hint,
		Messages: msgs,
	})
	if err != nil {
		logger.ErrorWithErr(r.Context(), "Failed to write page", err)
	}
}

type chatRequest struct {
	Input string `json:"input"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// blank input never creates a session
	if strings.TrimSpace(req.Input) == "" {
		s.writeError(w, http.StatusBadRequest, chat.ErrEmptyInput.Error())
		return
	}

	sess := s.session(w, r)
	op := logger.StartOperation(r.Context(), "chat.request", "session", sess.ID())
	ctx := op.GetContext()

	user, assistant, err := sess.Continue(ctx, req.Input)
	switch {
	case errors.Is(err, chat.ErrEmptyInput):
		op.End("rejected", err.Error())
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, chat.ErrBusy):
		op.End("rejected", err.Error())
		s.writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		op.EndWithError(err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status, err := s.streamReply(w, r, user, assistant)
	if err != nil {
		op.EndWithError(err, "status", string(status))
		return
	}
	op.End("status", string(status))
}

// streamReply writes the user and assistant messages, then every reply frame
// until the reply is terminal or the client goes away.
func (s *Server) streamReply(w http.ResponseWriter, r *http.Request, user, assistant chat.DisplayMessage) (ui.Status, error) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	rc := http.NewResponseController(w)
	send := func(event string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
			return err
		}
		return rc.Flush()
	}

	um, err := toMessage(user)
	if err != nil {
		return "", err
	}
	if err := send("user", um); err != nil {
		return "", err
	}
	am, err := toMessage(assistant)
	if err != nil {
		return "", err
	}
	if err := send("assistant", am); err != nil {
		return "", err
	}

	frames, cancel := assistant.Reply.Subscribe()
	defer cancel()

	last := am.Status
	for {
		select {
		case <-r.Context().Done():
			return last, r.Context().Err()
		case f, ok := <-frames:
			if !ok {
				return last, send("done", message{ID: assistant.ID, Role: assistant.Role, Status: last})
			}
			h, err := render.HTML(f.View)
			if err != nil {
				return last, err
			}
			last = f.Status
			if err := send("update", message{ID: assistant.ID, Role: assistant.Role, Status: f.Status, HTML: h}); err != nil {
				return last, err
			}
		}
	}
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(r)

	msgs, err := messagesOf(sess)
	if err != nil {
		logger.ErrorWithErr(r.Context(), "Failed to render messages", err)
		s.writeError(w, http.StatusInternalServerError, "render failed")
		return
	}

	var id string
	var busy bool
	if sess != nil {
		id, busy = sess.ID(), sess.Busy()
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"session":  id,
		"busy":     busy,
		"messages": msgs,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"provider": s.cfg.LLM.Provider,
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn(context.Background(), "Failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": strings.TrimSpace(message)})
}
