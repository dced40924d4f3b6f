// Package server provides an importable HTTP server that stands in for the
// application under test. This allows E2E tests to programmatically
// start/stop it without running main().
package server

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/http"
	"sync"
	"time"
)

// Config holds server configuration options.
type Config struct {
	Addr         string        // Listen address (e.g., ":8080" or ":0" for random port)
	ReadTimeout  time.Duration // HTTP read timeout
	WriteTimeout time.Duration // HTTP write timeout
	SeedAgents   bool          // Render the agents page with an existing agent
	EmptyState   bool          // Also render the empty-state call to action when seeded
}

// DefaultConfig returns a configuration suitable for testing.
// Uses ":0" to bind to a random available port.
func DefaultConfig() Config {
	return Config{
		Addr:         ":0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server is an importable HTTP server serving the fixture application.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	addr       string
	mu         sync.Mutex
	running    bool

	store *store
	hits  *hitCounter
}

var agentsTmpl = template.Must(template.New("agents").Parse(AgentsPage))

// NewServer creates a new server with the given configuration.
// The server is not started until Start() is called.
func NewServer(cfg Config) (*Server, error) {
	s := &Server{
		store: newStore(),
		hits:  newHitCounter(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/dashboard", page(DashboardPage))
	mux.HandleFunc("/agents", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := struct{ Seeded, EmptyState bool }{cfg.SeedAgents, !cfg.SeedAgents || cfg.EmptyState}
		if err := agentsTmpl.Execute(w, data); err != nil {
			http.Error(w, "Internal error", http.StatusInternalServerError)
		}
	})
	mux.HandleFunc("/transparencia", page(TransparencyPage))
	mux.HandleFunc("/contact", page(ContactPage))
	mux.HandleFunc("/leads", page(LeadsPage))
	mux.HandleFunc("/api/submissions", s.hits.wrap(s.handleSubmissions))
	mux.HandleFunc("/api/leads", s.hits.wrap(s.handleLeads))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s, nil
}

func page(html string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
	}
}

// Start begins listening and serving HTTP requests.
// Returns the actual address the server is listening on (useful when port is 0).
// This method is non-blocking - the server runs in a goroutine.
func (s *Server) Start() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return s.addr, nil
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen: %w", err)
	}

	s.listener = ln
	s.addr = ln.Addr().String()
	s.running = true

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	return s.addr, nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.running = false
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the address the server is listening on.
// Returns empty string if server is not running.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// URL returns a browser-friendly base URL (http://localhost:port).
func (s *Server) URL() string {
	_, port, _ := net.SplitHostPort(s.Addr())
	return "http://localhost:" + port
}

// Hits reports how many requests reached the API handler for path.
func (s *Server) Hits(path string) int {
	return s.hits.get(path)
}
