package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/arbo/memdb"
	"github.com/vocdoni/beleniosrf/api"
	"github.com/vocdoni/beleniosrf/crypto/rng"
	"github.com/vocdoni/beleniosrf/storage"
)

func TestAPIService(t *testing.T) {
	c := qt.New(t)

	store := storage.New(memdb.New())
	defer store.Close()

	// Port 0 lets the OS choose an available port
	apiService := NewAPI(store, "127.0.0.1", 0)
	ctx := context.Background()

	err := apiService.Start(ctx)
	c.Assert(err, qt.IsNil)
	defer apiService.Stop()

	addr := apiService.Addr()
	c.Assert(addr, qt.IsNotNil)
	resp, err := http.Get(fmt.Sprintf("http://%s%s", addr, api.PingEndpoint))
	c.Assert(err, qt.IsNil)
	c.Assert(resp.StatusCode, qt.Equals, http.StatusOK)
	c.Assert(resp.Body.Close(), qt.IsNil)

	// Test stopping and restarting
	apiService.Stop()
	c.Assert(apiService.Addr(), qt.IsNil)
	err = apiService.Start(ctx)
	c.Assert(err, qt.IsNil)

	// Test starting an already running service
	err = apiService.Start(ctx)
	c.Assert(err, qt.ErrorMatches, "service already running")
}

func TestRelayService(t *testing.T) {
	c := qt.New(t)
	store := storage.New(memdb.New())
	defer store.Close()

	_, err := NewRelay(store, rng.NewFromSeed([]byte("relay")), time.Second, 0)
	c.Assert(err, qt.IsNotNil)

	rs, err := NewRelay(store, rng.NewFromSeed([]byte("relay")), 10*time.Millisecond, 1)
	c.Assert(err, qt.IsNil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Assert(rs.Start(ctx), qt.IsNil)
	c.Assert(rs.Start(ctx), qt.ErrorMatches, "service already running")
	rs.Stop()
	c.Assert(rs.Start(ctx), qt.IsNil)
	rs.Stop()
}
