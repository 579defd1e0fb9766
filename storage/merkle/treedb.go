// Package merkle keeps the arbo merkle trees of the relay, one per
// election and namespace, in a shared key-value database. Trees are loaded
// lazily and indexed by their current root so a proof can be served for
// any root a client has seen.
package merkle

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/vocdoni/arbo"
	"github.com/vocdoni/beleniosrf/log"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

const (
	treeDBprefix          = "t_"
	treeDBreferencePrefix = "r_"
)

var (
	// ErrTreeNotFound is returned when a tree is not found in the database.
	ErrTreeNotFound = fmt.Errorf("tree not found in the local database")
	// ErrTreeAlreadyExists is returned by New() if the tree already exists.
	ErrTreeAlreadyExists = fmt.Errorf("tree already exists in the local database")
	// ErrKeyNotFound is returned when a key is not found in the tree.
	ErrKeyNotFound = fmt.Errorf("key not found")

	// HashFunction is the hash of every tree node.
	HashFunction = arbo.HashFunctionSha256
)

// rootKey converts a root to its canonical hexadecimal string.
func rootKey(root []byte) string {
	return hex.EncodeToString(root)
}

// TreeDB is a safe and persistent database of merkle trees sharing the
// same maximum depth. It keeps an in-memory index from the current root of
// every loaded tree to its id.
type TreeDB struct {
	mu        sync.RWMutex
	db        db.Database
	maxLevels int
	loaded    map[uuid.UUID]*TreeRef
	rootIndex map[string]uuid.UUID
}

// NewTreeDB creates a TreeDB over the database provided. Every tree and
// reference is stored under prefix, so several TreeDB can share database.
func NewTreeDB(database db.Database, prefix []byte, maxLevels int) *TreeDB {
	return &TreeDB{
		db:        prefixeddb.NewPrefixedDatabase(database, prefix),
		maxLevels: maxLevels,
		loaded:    make(map[uuid.UUID]*TreeRef),
		rootIndex: make(map[string]uuid.UUID),
	}
}

func referenceKey(id uuid.UUID) []byte {
	return append([]byte(treeDBreferencePrefix), id[:]...)
}

// treePrefix returns the prefix of the nodes of the tree in the database.
func treePrefix(id uuid.UUID) []byte {
	return append([]byte(treeDBprefix), id[:]...)
}

// New creates a new empty tree. It returns ErrTreeAlreadyExists if a tree
// with the given id is already present.
func (t *TreeDB) New(id uuid.UUID) (*TreeRef, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.loaded[id]; exists {
		return nil, ErrTreeAlreadyExists
	}
	if _, err := t.db.Get(referenceKey(id)); err == nil {
		return nil, ErrTreeAlreadyExists
	} else if !errors.Is(err, db.ErrKeyNotFound) {
		return nil, err
	}

	ref := &TreeRef{
		ID:        id,
		MaxLevels: t.maxLevels,
		HashType:  string(HashFunction.Type()),
		LastUsed:  time.Now(),
	}
	if err := t.openTree(ref); err != nil {
		return nil, err
	}
	if err := t.writeReference(ref); err != nil {
		return nil, err
	}
	t.index(ref)
	return ref, nil
}

// openTree attaches the arbo tree to the reference and reads its root.
func (t *TreeDB) openTree(ref *TreeRef) error {
	tree, err := arbo.NewTree(arbo.Config{
		Database:     prefixeddb.NewPrefixedDatabase(t.db, treePrefix(ref.ID)),
		MaxLevels:    ref.MaxLevels,
		HashFunction: HashFunction,
	})
	if err != nil {
		return err
	}
	root, err := tree.Root()
	if err != nil {
		return err
	}
	ref.tree = tree
	ref.currentRoot = root
	ref.onRootChange = t.updateRoot
	return nil
}

// index adds the reference to the in-memory maps. The caller holds mu.
func (t *TreeDB) index(ref *TreeRef) {
	t.loaded[ref.ID] = ref
	rk := rootKey(ref.currentRoot)
	if _, exists := t.rootIndex[rk]; !exists {
		t.rootIndex[rk] = ref.ID
	}
}

// writeReference writes a tree reference to the database.
func (t *TreeDB) writeReference(ref *TreeRef) error {
	data, err := cbor.Marshal(ref)
	if err != nil {
		return err
	}
	wtx := t.db.WriteTx()
	defer wtx.Discard()
	if err := wtx.Set(referenceKey(ref.ID), data); err != nil {
		return err
	}
	return wtx.Commit()
}

// Exists returns true if the tree exists in the local database.
func (t *TreeDB) Exists(id uuid.UUID) bool {
	t.mu.RLock()
	_, exists := t.loaded[id]
	t.mu.RUnlock()
	if exists {
		return true
	}
	_, err := t.db.Get(referenceKey(id))
	return err == nil
}

// Load returns a tree from memory or from the persistent database.
func (t *TreeDB) Load(id uuid.UUID) (*TreeRef, error) {
	t.mu.RLock()
	if ref, exists := t.loaded[id]; exists {
		t.mu.RUnlock()
		return ref, nil
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	// double check, another goroutine may have loaded it meanwhile
	if ref, exists := t.loaded[id]; exists {
		return ref, nil
	}
	data, err := t.db.Get(referenceKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %x", ErrTreeNotFound, id)
		}
		return nil, err
	}
	ref := &TreeRef{}
	if err := cbor.Unmarshal(data, ref); err != nil {
		return nil, err
	}
	if err := t.openTree(ref); err != nil {
		return nil, err
	}
	ref.LastUsed = time.Now()
	if err := t.writeReference(ref); err != nil {
		return nil, err
	}
	t.index(ref)
	return ref, nil
}

// LoadOrNew loads the tree or creates it if it does not exist.
func (t *TreeDB) LoadOrNew(id uuid.UUID) (*TreeRef, error) {
	ref, err := t.Load(id)
	if errors.Is(err, ErrTreeNotFound) {
		ref, err = t.New(id)
		if errors.Is(err, ErrTreeAlreadyExists) {
			return t.Load(id)
		}
	}
	return ref, err
}

// Del removes a tree and its nodes from the database and memory.
func (t *TreeDB) Del(id uuid.UUID) error {
	wtx := t.db.WriteTx()
	if err := wtx.Delete(referenceKey(id)); err != nil {
		wtx.Discard()
		return err
	}
	if err := wtx.Commit(); err != nil {
		return err
	}

	t.mu.Lock()
	delete(t.loaded, id)
	for rk, owner := range t.rootIndex {
		if owner == id {
			delete(t.rootIndex, rk)
		}
	}
	t.mu.Unlock()

	n, err := deleteTreeFromDatabase(t.db, treePrefix(id))
	if err != nil {
		return err
	}
	log.Debugw("merkle tree deleted", "id", id.String(), "keys", n)
	return nil
}

// deleteTreeFromDatabase removes all keys belonging to a tree.
func deleteTreeFromDatabase(kv db.Database, prefix []byte) (int, error) {
	database := prefixeddb.NewPrefixedDatabase(kv, prefix)
	wtx := database.WriteTx()
	count := 0
	err := database.Iterate(nil, func(k, _ []byte) bool {
		if err := wtx.Delete(k); err != nil {
			log.Warnw("could not remove key from database", "key", hex.EncodeToString(k))
		} else {
			count++
		}
		return true
	})
	if err != nil {
		wtx.Discard()
		return 0, err
	}
	return count, wtx.Commit()
}

// RefByRoot returns the loaded tree whose current root is root.
func (t *TreeDB) RefByRoot(root []byte) (*TreeRef, error) {
	t.mu.RLock()
	id, exists := t.rootIndex[rootKey(root)]
	t.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("%w: no tree with root %x", ErrTreeNotFound, root)
	}
	return t.Load(id)
}

// updateRoot moves the root index entry of a tree to its new root.
func (t *TreeDB) updateRoot(id uuid.UUID, oldRoot, newRoot []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rootIndex[rootKey(oldRoot)] == id {
		delete(t.rootIndex, rootKey(oldRoot))
	}
	t.rootIndex[rootKey(newRoot)] = id
}
