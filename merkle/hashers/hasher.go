// Package hashers is a registry of the digest functions a Merkle builder can
// fold records with.
package hashers

import (
	"fmt"
	"sort"
)

// Registered hasher IDs.
const (
	SHA256     = "SHA-256"
	SHA3256    = "SHA3-256"
	BLAKE2b256 = "BLAKE2b-256"
	BLAKE3     = "BLAKE3"
)

// Default is the hasher used when none is named.
const Default = SHA256

// Hasher provides the digest function of a Merkle tree.
type Hasher interface {
	// ID returns the name of the cryptographic hash function.
	ID() string
	// Size returns the size of the hash output in bytes.
	Size() int
	// Digest hashes all passed byte slices. The passed slices won't be mutated.
	Digest(ms ...[]byte) []byte
}

var hashers = make(map[string]Hasher)

// RegisterHasher registers a hasher for use.
func RegisterHasher(id string, f func() Hasher) {
	if _, ok := hashers[id]; ok {
		panic(fmt.Sprintf("RegisterHasher(%v) is already registered", id))
	}
	hashers[id] = f()
}

// New returns the registered hasher with the given ID. An empty ID selects
// Default.
func New(id string) (Hasher, error) {
	if id == "" {
		id = Default
	}
	if h, ok := hashers[id]; ok {
		return h, nil
	}
	return nil, fmt.Errorf("%v is an unknown hasher", id)
}

// IDs lists the registered hasher IDs in sorted order.
func IDs() []string {
	ids := make([]string, 0, len(hashers))
	for id := range hashers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
