package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// httpSession is the SSE-connection half of C9's HTTP transport: one per
// open GET /sse stream, addressed by its uuid for the companion POST
// /message handler.
type httpSession struct {
	id   string
	sess *session
	send chan Response
}

// sessionRegistry tracks open SSE sessions by id. It is process-wide and
// outlives any single connection.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*httpSession
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*httpSession)}
}

func (r *sessionRegistry) add(hs *httpSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[hs.id] = hs
}

func (r *sessionRegistry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *sessionRegistry) get(id string) (*httpSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	hs, ok := r.sessions[id]
	return hs, ok
}

// NewHTTPHandler builds the HTTP+SSE half of C9: a stateless POST / for
// one-shot JSON-RPC request/response pairs, and a GET /sse + POST /message
// pair for a long-lived streaming session. authToken, if non-empty, gates
// every route behind Bearer authentication.
func (s *Server) NewHTTPHandler(authToken string) http.Handler {
	registry := newSessionRegistry()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /", s.handlePost)
	mux.HandleFunc("GET /sse", s.handleSSE(registry))
	mux.HandleFunc("POST /message", s.handleMessage(registry))

	var handler http.Handler = mux
	handler = loggingMiddleware(handler)
	handler = authMiddleware(authToken, handler)
	return handler
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	sess := newSession()
	sess.markInitialized() // a stateless POST / is its own complete exchange
	resp := s.handleLine(r.Context(), sess, body)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	writeJSONResponse(w, resp)
}

// handleSSE opens a Server-Sent Events stream and immediately emits an
// endpoint event carrying the per-session POST URL, per spec.
func (s *Server) handleSSE(registry *sessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming not supported", http.StatusInternalServerError)
			return
		}

		id := uuid.New().String()
		hs := &httpSession{id: id, sess: newSession(), send: make(chan Response, 16)}
		registry.add(hs)
		defer registry.remove(id)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		fmt.Fprintf(w, "event: endpoint\ndata: /message?session=%s\n\n", id)
		flusher.Flush()

		heartbeat := time.NewTicker(15 * time.Second)
		defer heartbeat.Stop()

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return
			case resp, ok := <-hs.send:
				if !ok {
					return
				}
				writeSSEEvent(w, "message", resp)
				flusher.Flush()
			case <-heartbeat.C:
				fmt.Fprint(w, ":\n\n")
				flusher.Flush()
			}
		}
	}
}

// handleMessage is the companion POST for an established SSE session: it
// decodes one JSON-RPC request, dispatches it against the session's state,
// and hands the response to the SSE goroutine holding the connection open.
func (s *Server) handleMessage(registry *sessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("session")
		hs, ok := registry.get(id)
		if !ok {
			http.Error(w, "unknown session", http.StatusNotFound)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}

		resp := s.handleLine(r.Context(), hs.sess, body)
		w.WriteHeader(http.StatusAccepted)
		if resp == nil {
			return
		}

		select {
		case hs.send <- *resp:
		case <-r.Context().Done():
		}
	}
}

func writeJSONResponse(w http.ResponseWriter, resp *Response) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func writeSSEEvent(w io.Writer, event string, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		slog.Error("failed to encode SSE event", "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}

// authMiddleware enforces Bearer-token auth when token is non-empty. A
// missing or mismatched Authorization header gets a bare 401 — never a
// JSON-RPC body, and never a response that could echo the token back.
func authMiddleware(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	want := "Bearer " + token
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != want {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusWriter captures the response status for loggingMiddleware while
// still exposing Flush so SSE handlers work through it.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
