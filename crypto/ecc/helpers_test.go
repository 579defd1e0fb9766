package ecc

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestReduce(t *testing.T) {
	c := qt.New(t)
	m := big.NewInt(97)
	for _, tc := range []struct{ in, out int64 }{
		{5, 5}, {0, 0}, {97, 0}, {100, 3}, {-1, 96}, {-97, 0}, {-195, 96},
	} {
		c.Assert(Reduce(big.NewInt(tc.in), m).Int64(), qt.Equals, tc.out, qt.Commentf("reduce %d", tc.in))
	}
	c.Assert(Reduce(nil, m).Sign(), qt.Equals, 0)

	in := big.NewInt(200)
	_ = Reduce(in, m)
	c.Assert(in.Int64(), qt.Equals, int64(200))
}
