// Package server wraps http.Server with the gateway's timeouts and
// graceful shutdown.
package server

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"auth-gateway/internal/common/logging"
)

// Server represents the gateway's HTTP server
type Server struct {
	srv     *http.Server
	tlsCert string
	tlsKey  string
	logger  logging.Logger
}

// New creates a new server instance
func New(handler http.Handler, port, tlsCert, tlsKey string) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         ":" + port,
			Handler:      handler,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		tlsCert: tlsCert,
		tlsKey:  tlsKey,
		logger:  logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "server"}),
	}
}

// Start begins serving in a background goroutine. Listen errors other than
// a clean shutdown are fatal for the process.
func (s *Server) Start() error {
	serve := func() error { return s.srv.ListenAndServe() }

	if s.tlsCert != "" && s.tlsKey != "" {
		s.srv.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
		serve = func() error { return s.srv.ListenAndServeTLS(s.tlsCert, s.tlsKey) }
	}

	go func() {
		s.logger.Info("HTTP server listening", logging.Field{Key: "addr", Value: s.srv.Addr})
		if err := serve(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
