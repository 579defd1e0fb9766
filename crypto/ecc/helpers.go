package ecc

import "math/big"

// Reduce returns s modulo m in [0, m). A nil s is treated as zero. The
// input is returned as is when it is already reduced.
func Reduce(s, m *big.Int) *big.Int {
	if s == nil {
		return new(big.Int)
	}
	if s.Sign() >= 0 && s.Cmp(m) < 0 {
		return s
	}
	return new(big.Int).Mod(s, m)
}
