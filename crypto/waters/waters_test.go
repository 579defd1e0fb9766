package waters

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/beleniosrf/crypto/rng"
)

func TestEval(t *testing.T) {
	c := qt.New(t)
	f := New(rng.NewFromSeed([]byte("waters")), 3)
	c.Assert(f.Len(), qt.Equals, 3)

	zero, err := f.Eval([]uint8{0, 0, 0})
	c.Assert(err, qt.IsNil)
	c.Assert(zero.Equal(f.Bases[0]), qt.IsTrue)

	v, err := f.Eval([]uint8{1, 0, 1})
	c.Assert(err, qt.IsNil)
	c.Assert(v.Equal(f.Bases[0].Add(f.Bases[1]).Add(f.Bases[3])), qt.IsTrue)

	_, err = f.Eval([]uint8{1, 0})
	c.Assert(err, qt.ErrorIs, ErrLengthMismatch)
}

func TestInjective(t *testing.T) {
	c := qt.New(t)
	const k = 6
	f := New(rng.NewFromSeed([]byte("waters injective")), k)

	seen := make(map[string]int)
	for a := 0; a < 1<<k; a++ {
		m := make([]uint8, k)
		for i := range m {
			m[i] = uint8((a >> (k - i - 1)) & 1)
		}
		v, err := f.Eval(m)
		c.Assert(err, qt.IsNil)
		prev, dup := seen[v.String()]
		c.Assert(dup, qt.IsFalse, qt.Commentf("messages %d and %d collide", prev, a))
		seen[v.String()] = a
	}
	c.Assert(seen, qt.HasLen, 1<<k)
}
