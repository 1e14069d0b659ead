package observability

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// Endpoint serves the Prometheus metrics over HTTP.
type Endpoint struct {
	server  *http.Server
	metrics *Metrics
	log     logger.Logger
}

// NewEndpoint creates a metrics endpoint listening on listenAddress.
func NewEndpoint(listenAddress string, metrics *Metrics) *Endpoint {
	mux := http.NewServeMux()
	metrics.RegisterHandlers(mux)

	return &Endpoint{
		server: &http.Server{
			Addr:              listenAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		metrics: metrics,
		log:     logger.Global().Module("observability"),
	}
}

// Run listens until ctx is cancelled and then shuts the server down gracefully.
func (e *Endpoint) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", e.server.Addr)
	if err != nil {
		return err
	}
	return e.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (e *Endpoint) Serve(ctx context.Context, listener net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		e.log.Info("metrics endpoint starting", logger.String("address", listener.Addr().String()))
		errCh <- e.server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.server.Shutdown(shutdownCtx); err != nil {
		e.log.Warn("metrics endpoint shutdown failed", logger.Error(err))
		return err
	}
	<-errCh
	e.log.Info("metrics endpoint stopped")
	return nil
}
