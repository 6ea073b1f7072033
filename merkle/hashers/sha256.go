package hashers

import (
	"github.com/minio/sha256-simd"
)

type sha256Hasher struct{}

func init() {
	RegisterHasher(SHA256, func() Hasher { return sha256Hasher{} })
}

func (sha256Hasher) ID() string { return SHA256 }

func (sha256Hasher) Size() int { return sha256.Size }

func (sha256Hasher) Digest(ms ...[]byte) []byte {
	h := sha256.New()
	for _, m := range ms {
		h.Write(m)
	}
	return h.Sum(nil)
}
