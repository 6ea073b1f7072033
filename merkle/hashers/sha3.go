package hashers

import (
	"golang.org/x/crypto/sha3"
)

type sha3Hasher struct{}

func init() {
	RegisterHasher(SHA3256, func() Hasher { return sha3Hasher{} })
}

func (sha3Hasher) ID() string { return SHA3256 }

func (sha3Hasher) Size() int { return 32 }

func (sha3Hasher) Digest(ms ...[]byte) []byte {
	h := sha3.New256()
	for _, m := range ms {
		h.Write(m)
	}
	return h.Sum(nil)
}
