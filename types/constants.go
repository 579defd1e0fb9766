package types

const (
	// RegistryTreeMaxLevels is the maximum number of levels of the voter
	// registry merkle tree. Keys are voter ids of RegistryKeyLen bytes.
	RegistryTreeMaxLevels = 160
	// RegistryKeyLen is the length in bytes of a voter id.
	RegistryKeyLen = RegistryTreeMaxLevels / 8
	// BoardTreeMaxLevels is the maximum number of levels of the bulletin
	// board merkle tree. Keys are ballot ids of BoardKeyLen bytes.
	BoardTreeMaxLevels = 160
	// BoardKeyLen is the length in bytes of a published ballot id.
	BoardKeyLen = BoardTreeMaxLevels / 8
)
