package merkle

import (
	"errors"
	"fmt"

	knapmerkle "github.com/BackendStack21/knapsack-merkle-go"
)

var (
	// ErrEmptyRecords reports an operation that needs at least one record.
	ErrEmptyRecords = errors.New("no records")
	// ErrIndexOutOfRange reports a leaf index outside the record list.
	ErrIndexOutOfRange = errors.New("leaf index out of range")
	// ErrInvalidProof reports a proof that does not lead to the expected root.
	ErrInvalidProof = errors.New("invalid merkle proof")
)

// Prove returns the inclusion proof of records[index]. A node without a
// right neighbour is its own sibling.
func (b *Builder) Prove(records []string, index int) (*knapmerkle.MerkleProof, error) {
	if len(records) == 0 {
		return nil, ErrEmptyRecords
	}
	if index < 0 || index >= len(records) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(records))
	}

	levels := b.Levels(records)
	proof := &knapmerkle.MerkleProof{
		Index:     index,
		LeafCount: len(records),
		HasherID:  b.HasherID(),
		Siblings:  make([]string, 0, len(levels)-1),
		Right:     make([]bool, 0, len(levels)-1),
	}

	idx := index
	for _, level := range levels[:len(levels)-1] {
		var sibling string
		right := idx%2 == 0
		switch {
		case !right:
			sibling = level[idx-1]
		case idx+1 < len(level):
			sibling = level[idx+1]
		default:
			sibling = level[idx]
		}
		proof.Siblings = append(proof.Siblings, sibling)
		proof.Right = append(proof.Right, right)
		idx /= 2
	}
	return proof, nil
}

// VerifyProof checks that record at proof.Index folds up to root.
func (b *Builder) VerifyProof(root, record string, proof *knapmerkle.MerkleProof) error {
	if proof == nil {
		return fmt.Errorf("%w: nil proof", ErrInvalidProof)
	}
	if proof.HasherID != "" && proof.HasherID != b.HasherID() {
		return fmt.Errorf("%w: proof uses %s, builder uses %s", ErrInvalidProof, proof.HasherID, b.HasherID())
	}
	if proof.Index < 0 || proof.Index >= proof.LeafCount {
		return fmt.Errorf("%w: index %d of %d", ErrInvalidProof, proof.Index, proof.LeafCount)
	}
	if len(proof.Siblings) != len(proof.Right) || len(proof.Siblings) != treeDepth(proof.LeafCount) {
		return fmt.Errorf("%w: path length does not match %d leaves", ErrInvalidProof, proof.LeafCount)
	}

	digest := b.HashLeaf(record)
	idx := proof.Index
	for i, sibling := range proof.Siblings {
		if proof.Right[i] != (idx%2 == 0) {
			return fmt.Errorf("%w: direction mismatch at level %d", ErrInvalidProof, i)
		}
		if proof.Right[i] {
			digest = b.hashPair(digest, sibling)
		} else {
			digest = b.hashPair(sibling, digest)
		}
		idx /= 2
	}
	if !MatchRoot(digest, root) {
		return fmt.Errorf("%w: computed root %s", ErrInvalidProof, digest)
	}
	return nil
}

// treeDepth returns the number of levels above the leaves.
func treeDepth(leaves int) int {
	depth := 0
	for n := leaves; n > 1; n = (n + 1) / 2 {
		depth++
	}
	return depth
}
