package hashers

import (
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

type blake2bHasher struct{}

type blake3Hasher struct{}

func init() {
	RegisterHasher(BLAKE2b256, func() Hasher { return blake2bHasher{} })
	RegisterHasher(BLAKE3, func() Hasher { return blake3Hasher{} })
}

func (blake2bHasher) ID() string { return BLAKE2b256 }

func (blake2bHasher) Size() int { return blake2b.Size256 }

func (blake2bHasher) Digest(ms ...[]byte) []byte {
	// New256 only fails for keys longer than 64 bytes.
	h, _ := blake2b.New256(nil)
	for _, m := range ms {
		h.Write(m)
	}
	return h.Sum(nil)
}

func (blake3Hasher) ID() string { return BLAKE3 }

func (blake3Hasher) Size() int { return 32 }

func (blake3Hasher) Digest(ms ...[]byte) []byte {
	h := blake3.New()
	for _, m := range ms {
		h.Write(m)
	}
	return h.Sum(nil)
}
