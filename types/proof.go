package types

// MerkleProof is a proof of inclusion of a leaf in one of the merkle trees
// kept by the relay: the voter registry or the bulletin board.
type MerkleProof struct {
	Root     HexBytes `json:"root"`
	Key      HexBytes `json:"key"`
	Value    HexBytes `json:"value"`
	Siblings HexBytes `json:"siblings"`
}
