package merkle

import (
	"fmt"
	"sync"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"
)

const testLevels = 160

// newDatabase returns a new test database.
func newDatabase(t *testing.T) db.Database {
	return metadb.NewTest(t)
}

func testKey(i int) []byte {
	k := make([]byte, testLevels/8)
	copy(k, fmt.Sprintf("key-%d", i))
	return k
}

func TestTreeDBNew(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	tdb := NewTreeDB(newDatabase(t), []byte("test/"), testLevels)
	id := uuid.New()

	c.Assert(tdb.Exists(id), qt.IsFalse)
	ref, err := tdb.New(id)
	c.Assert(err, qt.IsNil)
	c.Assert(ref, qt.IsNotNil)
	c.Assert(tdb.Exists(id), qt.IsTrue)
	c.Assert(ref.Size(), qt.Equals, 0)

	_, err = tdb.New(id)
	c.Assert(err, qt.ErrorIs, ErrTreeAlreadyExists)

	_, err = tdb.Load(uuid.New())
	c.Assert(err, qt.ErrorIs, ErrTreeNotFound)
}

func TestTreeInsertAndProof(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	tdb := NewTreeDB(newDatabase(t), []byte("test/"), testLevels)
	ref, err := tdb.New(uuid.New())
	c.Assert(err, qt.IsNil)

	emptyRoot := ref.Root()
	for i := range 10 {
		c.Assert(ref.Insert(testKey(i), []byte(fmt.Sprintf("value-%d", i))), qt.IsNil)
	}
	c.Assert(ref.Size(), qt.Equals, 10)
	c.Assert(ref.Root(), qt.Not(qt.DeepEquals), emptyRoot)

	// duplicated keys are rejected
	c.Assert(ref.Insert(testKey(3), []byte("other")), qt.IsNotNil)

	value, err := ref.Get(testKey(4))
	c.Assert(err, qt.IsNil)
	c.Assert(string(value), qt.Equals, "value-4")

	proof, err := ref.GenProof(testKey(7))
	c.Assert(err, qt.IsNil)
	c.Assert(proof.Root, qt.DeepEquals, ref.Root())
	c.Assert(VerifyProof(proof), qt.IsTrue)

	proof.Value = []byte("forged")
	c.Assert(VerifyProof(proof), qt.IsFalse)

	_, err = ref.GenProof(testKey(99))
	c.Assert(err, qt.ErrorIs, ErrKeyNotFound)

	// the tree can be found by its current root only
	byRoot, err := tdb.RefByRoot(ref.Root())
	c.Assert(err, qt.IsNil)
	c.Assert(byRoot, qt.Equals, ref)
	_, err = tdb.RefByRoot(emptyRoot)
	c.Assert(err, qt.ErrorIs, ErrTreeNotFound)
}

func TestTreeReload(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	database := newDatabase(t)
	id := uuid.New()

	tdb := NewTreeDB(database, []byte("test/"), testLevels)
	ref, err := tdb.New(id)
	c.Assert(err, qt.IsNil)
	c.Assert(ref.Insert(testKey(1), []byte("one")), qt.IsNil)
	root := ref.Root()

	// a fresh TreeDB over the same database sees the persisted tree
	reopened := NewTreeDB(database, []byte("test/"), testLevels)
	loaded, err := reopened.Load(id)
	c.Assert(err, qt.IsNil)
	c.Assert(loaded.Root(), qt.DeepEquals, root)
	c.Assert(loaded.MaxLevels, qt.Equals, testLevels)

	// and another prefix does not
	other := NewTreeDB(database, []byte("other/"), testLevels)
	c.Assert(other.Exists(id), qt.IsFalse)

	c.Assert(reopened.Del(id), qt.IsNil)
	c.Assert(reopened.Exists(id), qt.IsFalse)
}

func TestTreeConcurrentLoad(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	tdb := NewTreeDB(newDatabase(t), []byte("test/"), testLevels)
	id := uuid.New()

	var wg sync.WaitGroup
	refs := make([]*TreeRef, 8)
	for i := range refs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ref, err := tdb.LoadOrNew(id)
			if err == nil {
				refs[i] = ref
			}
		}()
	}
	wg.Wait()
	for _, ref := range refs {
		c.Assert(ref, qt.IsNotNil)
		c.Assert(ref, qt.Equals, refs[0])
	}
}
