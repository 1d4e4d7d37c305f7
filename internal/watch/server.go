package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sailfin-lang/sailfin/internal/compiler/cache"
	"github.com/sailfin-lang/sailfin/internal/compiler/codegen"
	"github.com/sailfin-lang/sailfin/internal/compiler/diagnostics"
)

// CompileEvent is one build result pushed to connected clients.
type CompileEvent struct {
	Type      string   `json:"type"` // "building", "success", "error"
	Session   string   `json:"session"`
	Files     []string `json:"files,omitempty"`
	Duration  float64  `json:"duration_ms,omitempty"`
	Errors    []string `json:"errors,omitempty"`
	Timestamp int64    `json:"timestamp"`
}

// Options configures a watch server.
type Options struct {
	Root   string
	Host   string
	Port   int
	Logger *zap.Logger
}

// Server watches a project tree, recompiles on change, and serves
// compile status over HTTP plus a WebSocket event stream.
type Server struct {
	opts        Options
	logger      *zap.Logger
	sessionID   string
	coordinator *cache.CompilationCoordinator
	watcher     *FileWatcher

	upgrader websocket.Upgrader

	mu        sync.RWMutex
	clients   map[*websocket.Conn]bool
	lastEvent *CompileEvent
}

// NewServer builds a watch server over opts.Root.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		opts:        opts,
		logger:      logger,
		sessionID:   uuid.NewString(),
		coordinator: cache.NewCompilationCoordinator(),
		clients:     make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return strings.Contains(origin, "://localhost") || strings.Contains(origin, "://127.0.0.1")
			},
		},
	}
}

// Start runs the watcher and the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	watcher, err := NewFileWatcher(s.opts.Root, []string{"*.sfn"}, []string{".sailfin"}, s.logger, s.rebuild)
	if err != nil {
		return err
	}
	s.watcher = watcher
	if err := s.watcher.Start(); err != nil {
		return err
	}
	defer s.watcher.Stop()

	// Prime the caches with a full build so the first edit is
	// incremental.
	if files, err := cache.ScanDirectory(s.opts.Root); err == nil && len(files) > 0 {
		if err := s.rebuild(files); err != nil {
			s.logger.Warn("initial build failed", zap.Error(err))
		}
	}

	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	httpServer := &http.Server{Addr: addr, Handler: s.routes()}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("watch server listening",
			zap.String("addr", addr),
			zap.String("session", s.sessionID))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/status", s.handleStatus)
	r.Get("/events", s.handleEvents)
	return r
}

// handleStatus reports the session, cache metrics, and the most recent
// compile event.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	last := s.lastEvent
	s.mu.RUnlock()

	metrics := s.coordinator.GetMetrics()
	payload := map[string]interface{}{
		"session":        s.sessionID,
		"root":           s.opts.Root,
		"last_event":     last,
		"cache_hits":     metrics.CacheHits,
		"cache_misses":   metrics.CacheMisses,
		"files_compiled": metrics.FilesCompiled,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("failed to encode status", zap.Error(err))
	}
}

// handleEvents upgrades to a WebSocket and streams compile events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	last := s.lastEvent
	s.mu.Unlock()

	// A client connecting mid-session sees the current state at once.
	if last != nil {
		_ = conn.WriteJSON(last)
	}

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) broadcast(event *CompileEvent) {
	event.Session = s.sessionID
	event.Timestamp = time.Now().Unix()

	s.mu.Lock()
	s.lastEvent = event
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}
	}
}

// rebuild recompiles the changed files plus their dependents and
// re-emits the programs that still compile, pushing an event for each
// phase.
func (s *Server) rebuild(changed []string) error {
	start := time.Now()
	s.broadcast(&CompileEvent{Type: "building", Files: changed})

	results, _, err := s.coordinator.WatchModeCompile(changed)
	if err != nil {
		return err
	}

	var errs []string
	for _, result := range results {
		if result.Err != nil {
			errs = append(errs, result.Err.Error())
			continue
		}
		// Re-emit so the adjacent target program stays fresh. Emission
		// failures are diagnostics, not server faults.
		if emitErrs := s.emitResult(result); len(emitErrs) > 0 {
			errs = append(errs, emitErrs...)
		}
	}

	duration := float64(time.Since(start).Microseconds()) / 1000.0
	if len(errs) > 0 {
		s.broadcast(&CompileEvent{Type: "error", Files: changed, Errors: errs, Duration: duration})
		s.logger.Info("rebuild failed",
			zap.Int("files", len(changed)),
			zap.Int("errors", len(errs)))
		return nil
	}

	s.broadcast(&CompileEvent{Type: "success", Files: changed, Duration: duration})
	s.logger.Info("rebuild succeeded",
		zap.Int("files", len(changed)),
		zap.Float64("duration_ms", duration))
	return nil
}

func (s *Server) emitResult(result *cache.CompilationResult) []string {
	session := codegen.NewSession(filepath.Dir(result.Path))
	target, diags := session.CompileFile(result.Path)
	if diags.HasErrors() {
		var errs []string
		for _, d := range diags.Items() {
			errs = append(errs, formatDiag(result.Path, d))
		}
		return errs
	}
	outputPath := strings.TrimSuffix(result.Path, filepath.Ext(result.Path)) + ".py"
	if err := writeFileAtomic(outputPath, []byte(target)); err != nil {
		return []string{err.Error()}
	}
	return nil
}

func formatDiag(path string, d *diagnostics.Diagnostic) string {
	return fmt.Sprintf("%s: %s", path, d.Error())
}
