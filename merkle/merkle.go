// Package merkle folds an ordered sequence of records into a single Merkle
// root.
//
// Leaves are the uppercase hex digests of the UTF-8 records. Each parent is
// the digest of its children's hex strings concatenated, and a level with an
// odd number of nodes pairs its last node with itself. Digests are exchanged
// as 64-character uppercase hex for the 32-byte hashers.
package merkle

import (
	"encoding/hex"
	"strings"

	"github.com/BackendStack21/knapsack-merkle-go/merkle/hashers"
)

// Builder computes Merkle roots with one registered hasher. A Builder holds
// no mutable state and may be shared between goroutines.
type Builder struct {
	hasher hashers.Hasher
}

// NewBuilder returns a Builder for the hasher with the given ID. An empty ID
// selects hashers.Default.
func NewBuilder(id string) (*Builder, error) {
	h, err := hashers.New(id)
	if err != nil {
		return nil, err
	}
	return &Builder{hasher: h}, nil
}

var defaultBuilder = mustBuilder(hashers.Default)

func mustBuilder(id string) *Builder {
	b, err := NewBuilder(id)
	if err != nil {
		panic(err)
	}
	return b
}

// HasherID returns the ID of the builder's hasher.
func (b *Builder) HasherID() string {
	return b.hasher.ID()
}

// HashLeaf returns the uppercase hex digest of record's UTF-8 bytes.
func (b *Builder) HashLeaf(record string) string {
	return encodeDigest(b.hasher.Digest([]byte(record)))
}

func (b *Builder) hashPair(left, right string) string {
	return encodeDigest(b.hasher.Digest([]byte(left), []byte(right)))
}

// BuildRoot returns the Merkle root of records, or false when records is empty.
func (b *Builder) BuildRoot(records []string) (string, bool) {
	if len(records) == 0 {
		return "", false
	}
	level := make([]string, len(records))
	for i, r := range records {
		level[i] = b.HashLeaf(r)
	}
	for len(level) > 1 {
		level = b.nextLevel(level)
	}
	return level[0], true
}

// Levels returns every level of the tree from the leaves up to the root.
// It returns nil when records is empty.
func (b *Builder) Levels(records []string) [][]string {
	if len(records) == 0 {
		return nil
	}
	leaves := make([]string, len(records))
	for i, r := range records {
		leaves[i] = b.HashLeaf(r)
	}
	levels := [][]string{leaves}
	for level := leaves; len(level) > 1; {
		level = b.nextLevel(level)
		levels = append(levels, level)
	}
	return levels
}

func (b *Builder) nextLevel(level []string) []string {
	next := make([]string, 0, (len(level)+1)/2)
	for i := 0; i < len(level); i += 2 {
		left := level[i]
		right := left
		if i+1 < len(level) {
			right = level[i+1]
		}
		next = append(next, b.hashPair(left, right))
	}
	return next
}

// HashLeaf hashes one record with the default hasher.
func HashLeaf(record string) string {
	return defaultBuilder.HashLeaf(record)
}

// BuildRoot returns the root of records under the default hasher.
func BuildRoot(records []string) (string, bool) {
	return defaultBuilder.BuildRoot(records)
}

// MatchRoot reports whether root equals target, ignoring hex case.
func MatchRoot(root, target string) bool {
	return strings.EqualFold(strings.TrimSpace(root), strings.TrimSpace(target))
}

func encodeDigest(d []byte) string {
	return strings.ToUpper(hex.EncodeToString(d))
}
