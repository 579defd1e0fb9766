package service

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/vocdoni/beleniosrf/api"
	"github.com/vocdoni/beleniosrf/log"
	"github.com/vocdoni/beleniosrf/storage"
)

// APIService represents a service that manages the HTTP API server.
type APIService struct {
	storage *storage.Storage
	api     *api.API
	mu      sync.Mutex
	cancel  context.CancelFunc
	host    string
	port    int
}

// NewAPI creates a new APIService instance.
func NewAPI(storage *storage.Storage, host string, port int) *APIService {
	return &APIService{
		storage: storage,
		host:    host,
		port:    port,
	}
}

// Start begins the API server. It returns an error if the service
// is already running or if it fails to start.
func (as *APIService) Start(ctx context.Context) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.cancel != nil {
		return fmt.Errorf("service already running")
	}

	var err error
	as.api, err = api.New(&api.APIConfig{
		Host:    as.host,
		Port:    as.port,
		Storage: as.storage,
	})
	if err != nil {
		return fmt.Errorf("failed to create API: %w", err)
	}
	if err := as.api.ListenAndServe(as.host, as.port); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	var sctx context.Context
	sctx, as.cancel = context.WithCancel(ctx)
	srv := as.api
	go func() {
		<-sctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnw("failed to shutdown API server", "error", err.Error())
		}
	}()
	return nil
}

// Stop halts the API server. The storage is left open, it is owned by the
// caller.
func (as *APIService) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.cancel != nil {
		as.cancel()
		as.cancel = nil
	}
}

// Addr returns the address of the running API server, or nil.
func (as *APIService) Addr() net.Addr {
	as.mu.Lock()
	defer as.mu.Unlock()
	if as.api == nil || as.cancel == nil {
		return nil
	}
	return as.api.Addr()
}

// HostPort returns the configured host and port of the API server.
func (as *APIService) HostPort() (string, int) {
	return as.host, as.port
}
