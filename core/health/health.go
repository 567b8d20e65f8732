// Package health serves the liveness endpoint polled by hosting platforms.
package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/m3rciful/guidebot/core/logger"
)

// Handler answers GET and HEAD on "/" and "/healthz" with 200 "ok".
func Handler() http.Handler {
	mux := http.NewServeMux()
	ok := func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte("ok"))
		}
	}
	mux.HandleFunc("/healthz", ok)
	mux.HandleFunc("/{$}", ok)
	return mux
}

// Server runs Handler on its own listener.
type Server struct {
	srv  *http.Server
	addr string
	done chan struct{}
}

// New prepares a server bound to addr on Start.
func New(addr string) *Server {
	return &Server{
		addr: addr,
		srv: &http.Server{
			Handler:           Handler(),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
		},
	}
}

// Addr returns the bound address once started, or the configured one.
func (s *Server) Addr() string {
	return s.addr
}

// Start binds the listener and serves in the background. Bind errors are
// returned; serve errors after that are logged.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("health: listen %s: %w", s.addr, err)
	}
	s.addr = ln.Addr().String()
	s.done = make(chan struct{})
	logger.Info(logger.Background(), "http.health", "health.listen",
		slog.String("status", "ok"),
		slog.String("listen", s.addr),
	)
	go func() {
		defer close(s.done)
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(logger.Background(), "http.health", "health.serve",
				slog.String("status", "fail"),
				slog.String("err", err.Error()),
			)
		}
	}()
	return nil
}

// Shutdown stops the server and waits for the serve loop to exit.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil || s.done == nil {
		return nil
	}
	err := s.srv.Shutdown(ctx)
	<-s.done
	return err
}
