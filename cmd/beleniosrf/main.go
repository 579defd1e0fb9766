package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/vocdoni/arbo/memdb"
	"github.com/vocdoni/beleniosrf/config"
	"github.com/vocdoni/beleniosrf/crypto/rng"
	"github.com/vocdoni/beleniosrf/log"
	"github.com/vocdoni/beleniosrf/service"
	"github.com/vocdoni/beleniosrf/storage"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"
)

type options struct {
	dataDir string
	seed    string
	bits    int
	voters  int
	rounds  int
	tick    time.Duration
	host    string
	port    int
	serve   bool
}

func main() {
	opts := &options{}
	flag.StringVar(&opts.dataDir, "datadir", "", "data directory, the storage is kept in memory if empty")
	flag.StringVar(&opts.seed, "seed", "", "hex seed of the election and voter randomness, random if empty")
	flag.IntVar(&opts.bits, "bits", config.DefaultMessageBits, "number of bits of the messages of the demo election")
	flag.IntVar(&opts.voters, "voters", config.DefaultVoters, "number of voters of the demo election")
	flag.IntVar(&opts.rounds, "rounds", config.DefaultRandomizationRounds, "randomizations applied by the relay to every ballot")
	flag.DurationVar(&opts.tick, "tick", config.DefaultRelayTick, "relay polling interval")
	flag.StringVar(&opts.host, "host", config.DefaultAPIHost, "API listen host")
	flag.IntVar(&opts.port, "port", config.DefaultAPIPort, "API listen port")
	flag.BoolVar(&opts.serve, "serve", false, "keep the relay and the API running after the demo")
	logLevel := flag.String("loglevel", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	logOutput := flag.String("logoutput", config.DefaultLogOutput, "log output (stdout, stderr or a file path)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <demo|serve>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := log.Init(*logLevel, *logOutput, nil); err != nil {
		fmt.Fprintf(os.Stderr, "cannot init logger: %v\n", err)
		os.Exit(1)
	}

	mode := "demo"
	if flag.NArg() > 0 {
		mode = flag.Arg(0)
	}

	src, relaySrc, err := newSources(opts.seed)
	if err != nil {
		log.Fatal(err)
	}

	database, err := openDatabase(opts.dataDir)
	if err != nil {
		log.Fatal(err)
	}
	stg := storage.New(database)
	defer stg.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch mode {
	case "demo":
		if err := runDemo(ctx, stg, src, relaySrc, opts); err != nil {
			log.Fatal(err)
		}
		if !opts.serve {
			return
		}
		fallthrough
	case "serve":
		if err := serve(ctx, stg, relaySrc, opts); err != nil {
			log.Fatal(err)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// newSources returns the source of the election authority and voters,
// seeded with the hex seed if any, and an independent source for the relay
// randomizations, which is never derived from the seed.
func newSources(seed string) (*rng.Source, *rng.Source, error) {
	relaySrc, err := rng.New()
	if err != nil {
		return nil, nil, err
	}
	if seed == "" {
		src, err := rng.New()
		return src, relaySrc, err
	}
	b, err := hex.DecodeString(seed)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid seed: %w", err)
	}
	return rng.NewFromSeed(b), relaySrc, nil
}

func openDatabase(dir string) (db.Database, error) {
	if dir == "" {
		return memdb.New(), nil
	}
	return metadb.New(config.DefaultDBType, dir)
}

// serve runs the relay and the API until ctx is canceled.
func serve(ctx context.Context, stg *storage.Storage, relaySrc *rng.Source, opts *options) error {
	relay, err := service.NewRelay(stg, relaySrc, opts.tick, opts.rounds)
	if err != nil {
		return err
	}
	if err := relay.Start(ctx); err != nil {
		return err
	}
	defer relay.Stop()

	api := service.NewAPI(stg, opts.host, opts.port)
	if err := api.Start(ctx); err != nil {
		return err
	}
	defer api.Stop()
	log.Infow("relay and API running", "addr", api.Addr().String())

	<-ctx.Done()
	log.Infow("shutting down")
	return nil
}

