// Package storage contains all the artifacts kept by the relay in the
// database, and the queue of ballots waiting to be processed. It uses a
// prefixed key-value store with the following prefixes:
//   - 'e/' for elections
//   - 'es/' for election secret keys
//   - 'b/' for pending ballots (queued)
//   - 'br/' for pending ballot reservations
//   - 'pb/' for published ballots
//   - 'vr/' for the voter registry merkle trees
//   - 'bt/' for the bulletin board merkle trees
//   - 'vb/' for the voters whose ballot is already on the board
//
// Note: only the pending ballots support queue operations.
package storage

import (
	"errors"
	"sync"

	"github.com/vocdoni/beleniosrf/log"
	"github.com/vocdoni/beleniosrf/storage/merkle"
	"github.com/vocdoni/beleniosrf/types"
	"go.vocdoni.io/dvote/db"
)

var (
	electionPrefix          = []byte("e/")
	electionSecretPrefix    = []byte("es/")
	ballotPrefix            = []byte("b/")
	ballotReservationPrefix = []byte("br/")
	publishedBallotPrefix   = []byte("pb/")
	registryPrefix          = []byte("vr/")
	boardPrefix             = []byte("bt/")
	votedPrefix             = []byte("vb/")

	// ErrNotFound is returned when the artifact requested does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNoMoreElements is returned when a queue has no unreserved element.
	ErrNoMoreElements = errors.New("no more elements")
	// ErrAlreadyExists is returned when storing an artifact whose key is
	// already taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrAlreadyVoted is returned when a voter already has a ballot on the
	// bulletin board of the election.
	ErrAlreadyVoted = errors.New("voter already has a published ballot")
)

const (
	// maxKeySize is the size of the keys derived from the hash of the
	// artifact itself.
	maxKeySize = 12
)

// Storage wraps the database with the relay artifacts.
type Storage struct {
	db         db.Database
	globalLock sync.Mutex
	registry   *merkle.TreeDB
	board      *merkle.TreeDB
}

// New creates a new Storage instance. Ballot reservations left by a
// previous run are released so their ballots get processed again.
func New(database db.Database) *Storage {
	s := &Storage{
		db:       database,
		registry: merkle.NewTreeDB(database, registryPrefix, types.RegistryTreeMaxLevels),
		board:    merkle.NewTreeDB(database, boardPrefix, types.BoardTreeMaxLevels),
	}
	n, err := s.clearReservations(ballotReservationPrefix)
	if err != nil {
		log.Warnw("could not clear ballot reservations", "error", err.Error())
	} else if n > 0 {
		log.Infow("released stale ballot reservations", "count", n)
	}
	return s
}

// Close closes the storage.
func (s *Storage) Close() {
	if err := s.db.Close(); err != nil {
		log.Warnw("error closing storage", "error", err.Error())
	}
}
