// Package callback receives the x-success and x-error calls Bear makes
// after running an action and hands their payload to the waiting caller.
package callback

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// PortAttempts is how many consecutive ports Listen tries.
const PortAttempts = 10

const shutdownTimeout = 5 * time.Second

// Error is the failure Bear reports through x-error.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("bear reported error code %d", e.Code)
	}
	return fmt.Sprintf("bear error %d: %s", e.Code, e.Message)
}

type result struct {
	values url.Values
	err    error
}

// Pending is an invocation waiting for Bear's callback.
type Pending struct {
	ID         string
	Action     string
	SuccessURL string
	ErrorURL   string

	server *Server
	done   chan result
}

// Wait blocks until Bear calls back or ctx ends.
func (p *Pending) Wait(ctx context.Context) (url.Values, error) {
	select {
	case r := <-p.done:
		return r.values, r.err
	case <-ctx.Done():
		p.Cancel()
		return nil, ctx.Err()
	}
}

// Cancel stops waiting. Later callbacks for this invocation are ignored.
func (p *Pending) Cancel() {
	p.server.take(p.ID)
}

// Server is the local HTTP endpoint Bear calls back.
type Server struct {
	host   string
	port   int
	logger *log.Logger

	mu       sync.Mutex
	pending  map[string]*Pending
	listener net.Listener
	baseURL  string
}

// New creates a callback Server for host and the first port to try.
func New(host string, port int, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		host:    host,
		port:    port,
		logger:  logger,
		pending: make(map[string]*Pending),
	}
}

// Listen binds the first free port among port..port+PortAttempts-1.
// Port 0 binds an ephemeral port.
func (s *Server) Listen() error {
	attempts := PortAttempts
	if s.port == 0 {
		attempts = 1
	}

	var lastErr error
	for i := range attempts {
		port := s.port + i
		l, err := net.Listen("tcp", net.JoinHostPort(s.host, strconv.Itoa(port)))
		if err != nil {
			s.logger.Info("callback port unavailable, trying another", "port", port, "err", err)
			lastErr = err
			continue
		}

		s.mu.Lock()
		s.listener = l
		s.baseURL = "http://" + l.Addr().String()
		s.mu.Unlock()
		return nil
	}
	return fmt.Errorf("no available callback port in %d-%d: %w", s.port, s.port+attempts-1, lastErr)
}

// BaseURL returns the URL prefix of the bound listener.
func (s *Server) BaseURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseURL
}

// Serve handles callbacks until ctx ends. Listen must be called first.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	l := s.listener
	s.mu.Unlock()
	if l == nil {
		return errors.New("callback server is not listening")
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("callback server shutdown", "err", err)
		}
	}()

	s.logger.Info("callback server listening", "url", s.BaseURL())
	err := srv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		<-stopped
		s.logger.Info("callback server stopped")
		return nil
	}
	return err
}

// Handler returns the HTTP handler serving callback routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{action}/{id}/success", s.handleSuccess)
	mux.HandleFunc("GET /{action}/{id}/error", s.handleError)
	return mux
}

// Expect registers an invocation of action and returns the callback URLs
// to hand to Bear.
func (s *Server) Expect(action string) *Pending {
	id := uuid.NewString()
	base := s.BaseURL() + "/" + url.PathEscape(action) + "/" + id

	p := &Pending{
		ID:         id,
		Action:     action,
		SuccessURL: base + "/success",
		ErrorURL:   base + "/error",
		server:     s,
		done:       make(chan result, 1),
	}

	s.mu.Lock()
	s.pending[id] = p
	s.mu.Unlock()
	return p
}

// Len returns the number of invocations still waiting.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *Server) take(id string) *Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[id]
	if !ok {
		return nil
	}
	delete(s.pending, id)
	return p
}

func (s *Server) handleSuccess(w http.ResponseWriter, r *http.Request) {
	s.resolve(r, result{values: r.URL.Query()})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code, _ := strconv.Atoi(q.Get("error-Code"))
	s.resolve(r, result{err: &Error{Code: code, Message: q.Get("errorMessage")}})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) resolve(r *http.Request, res result) {
	action, id := r.PathValue("action"), r.PathValue("id")
	p := s.take(id)
	if p == nil {
		s.logger.Warn("callback for unknown invocation", "action", action, "id", id)
		return
	}
	if p.Action != action {
		s.logger.Warn("callback action mismatch", "id", id, "want", p.Action, "got", action)
	}
	p.done <- res
}
