package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vocdoni/beleniosrf/beleniosrf"
	"github.com/vocdoni/beleniosrf/log"
	"github.com/vocdoni/beleniosrf/relay"
	"github.com/vocdoni/beleniosrf/storage"
)

// RelayService represents a service that handles the background processing
// of the submitted ballots.
type RelayService struct {
	Relay   *relay.Relay
	mu      sync.Mutex
	running bool
}

// NewRelay creates a new relay service. Every ballot is randomized rounds
// times and the queue is polled every tickInterval when empty.
func NewRelay(stg *storage.Storage, src beleniosrf.Randomness, tickInterval time.Duration, rounds int) (*RelayService, error) {
	r, err := relay.New(stg, src, tickInterval, rounds)
	if err != nil {
		return nil, fmt.Errorf("failed to create relay: %w", err)
	}
	return &RelayService{Relay: r}, nil
}

// Start begins the ballot processing service. It returns an error if the
// service is already running.
func (rs *RelayService) Start(ctx context.Context) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.running {
		return fmt.Errorf("service already running")
	}
	if err := rs.Relay.Start(ctx); err != nil {
		return err
	}
	rs.running = true
	return nil
}

// Stop halts the ballot processing service.
func (rs *RelayService) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if err := rs.Relay.Stop(); err != nil {
		log.Warnw("relay service stopped", "error", err)
	}
	rs.running = false
}
