// Package httpapi is the HTTP caller boundary. It translates transport
// requests into service calls and the service's error kinds into distinct
// status codes; no business rules live here.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
)

type HTTPServer struct {
	address string
	logger  logging.Logger
	handler *Handler
}

func NewHTTPServer(a string, l logging.Logger, as *services.AccountService) *HTTPServer {
	logger := l.With("module", "http_server")
	return &HTTPServer{
		address: a,
		logger:  logger,
		handler: NewHandler(as, logger),
	}
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
