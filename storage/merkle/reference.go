package merkle

import (
	"bytes"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vocdoni/arbo"
	"github.com/vocdoni/beleniosrf/types"
)

// TreeRef is a reference to a merkle tree. All accesses to the underlying
// tree and its current root are protected by treeMu.
type TreeRef struct {
	ID        uuid.UUID `cbor:"0,keyasint"`
	MaxLevels int       `cbor:"1,keyasint"`
	HashType  string    `cbor:"2,keyasint"`
	LastUsed  time.Time `cbor:"3,keyasint"`

	currentRoot  []byte
	tree         *arbo.Tree
	treeMu       sync.Mutex
	onRootChange func(id uuid.UUID, oldRoot, newRoot []byte)
}

// setRoot records the new root and notifies the TreeDB. The caller holds
// treeMu.
func (tr *TreeRef) setRoot(newRoot []byte) {
	if bytes.Equal(tr.currentRoot, newRoot) {
		return
	}
	old := tr.currentRoot
	tr.currentRoot = append([]byte(nil), newRoot...)
	if tr.onRootChange != nil {
		tr.onRootChange(tr.ID, old, tr.currentRoot)
	}
}

// Insert safely inserts a key/value pair into the tree.
func (tr *TreeRef) Insert(key, value []byte) error {
	tr.treeMu.Lock()
	defer tr.treeMu.Unlock()
	if err := tr.tree.Add(key, value); err != nil {
		return err
	}
	root, err := tr.tree.Root()
	if err != nil {
		return err
	}
	tr.setRoot(root)
	return nil
}

// InsertBatch safely inserts a batch of key/value pairs into the tree. The
// pairs that could not be added are returned.
func (tr *TreeRef) InsertBatch(keys, values [][]byte) ([]arbo.Invalid, error) {
	tr.treeMu.Lock()
	defer tr.treeMu.Unlock()
	invalid, err := tr.tree.AddBatch(keys, values)
	if err != nil {
		return invalid, err
	}
	root, err := tr.tree.Root()
	if err != nil {
		return invalid, err
	}
	tr.setRoot(root)
	return invalid, nil
}

// Root safely returns the current root of the tree.
func (tr *TreeRef) Root() []byte {
	tr.treeMu.Lock()
	defer tr.treeMu.Unlock()
	root, err := tr.tree.Root()
	if err != nil {
		return nil
	}
	return root
}

// Size safely returns the number of leaves of the tree.
func (tr *TreeRef) Size() int {
	tr.treeMu.Lock()
	defer tr.treeMu.Unlock()
	size, err := tr.tree.GetNLeafs()
	if err != nil {
		return 0
	}
	return size
}

// Get returns the value of the leaf with the given key.
func (tr *TreeRef) Get(key []byte) ([]byte, error) {
	tr.treeMu.Lock()
	defer tr.treeMu.Unlock()
	_, value, err := tr.tree.Get(key)
	if err != nil {
		return nil, ErrKeyNotFound
	}
	return value, nil
}

// GenProof generates a proof of inclusion of key. It returns ErrKeyNotFound
// if the key is not a leaf of the tree.
func (tr *TreeRef) GenProof(key []byte) (*types.MerkleProof, error) {
	tr.treeMu.Lock()
	defer tr.treeMu.Unlock()
	k, v, siblings, inclusion, err := tr.tree.GenProof(key)
	if err != nil {
		return nil, err
	}
	if !inclusion {
		return nil, ErrKeyNotFound
	}
	root, err := tr.tree.Root()
	if err != nil {
		return nil, err
	}
	return &types.MerkleProof{
		Root:     root,
		Key:      k,
		Value:    v,
		Siblings: siblings,
	}, nil
}

// VerifyProof checks a proof of inclusion.
func VerifyProof(p *types.MerkleProof) bool {
	valid, err := arbo.CheckProof(HashFunction, p.Key, p.Value, p.Root, p.Siblings)
	if err != nil {
		return false
	}
	return valid
}
