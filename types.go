// Package knapmerkle implements a Merkle-Hellman knapsack public-key
// cryptosystem and a Merkle-tree root builder.
//
// WARNING: the knapsack scheme is a pedagogical cipher with well known
// polynomial-time attacks. DO NOT use it to protect sensitive data.
package knapmerkle

import "math/big"

// ParamSet names a knapsack parameter set.
type ParamSet string

const (
	// MH128 uses a 128-element private key (16-byte messages).
	MH128 ParamSet = "MH-128"
	// MH640 is the reference design: a 640-element key (80-byte messages).
	MH640 ParamSet = "MH-640"
	// MH2048 uses a 2048-element private key (256-byte messages).
	MH2048 ParamSet = "MH-2048"
	// Aliases with underscore for convenience
	MH_128  ParamSet = MH128
	MH_640  ParamSet = MH640
	MH_2048 ParamSet = MH2048
)

// =============================================================================
// Parameter Types
// =============================================================================

// KnapsackParams contains the parameters of knapsack key generation.
type KnapsackParams struct {
	Name                  ParamSet `json:"name" toml:"name"`
	Length                int      `json:"length" toml:"length"`                                   // Number of private key elements
	GrowthFactor          int64    `json:"growth_factor" toml:"growth_factor"`                     // w[i] = w[i-1] * GrowthFactor
	Slack                 int64    `json:"slack" toml:"slack"`                                     // Modulus = sum(w) + Slack
	MaxMultiplierAttempts int      `json:"max_multiplier_attempts" toml:"max_multiplier_attempts"` // Cap on coprime multiplier draws
}

// MaxMessageBytes returns the longest message encryptable without truncation.
func (p KnapsackParams) MaxMessageBytes() int {
	return p.Length / 8
}

// =============================================================================
// Knapsack Key Types
// =============================================================================

// KnapsackPublicKey is the public knapsack sequence b[i] = N*w[i] mod M.
type KnapsackPublicKey struct {
	B []*big.Int
}

// KnapsackSecretKey holds the superincreasing sequence and the trapdoor.
type KnapsackSecretKey struct {
	W          []*big.Int // Superincreasing sequence
	Modulus    *big.Int   // M > sum(W)
	Multiplier *big.Int   // N with gcd(N, M) = 1
}

// KnapsackKeyPair is one cryptosystem session: key material generated
// together and never mutated afterwards.
type KnapsackKeyPair struct {
	PublicKey KnapsackPublicKey
	SecretKey KnapsackSecretKey
	Params    KnapsackParams
}

// =============================================================================
// Merkle Types
// =============================================================================

// MerkleProof is an inclusion proof for one leaf. Siblings are listed from
// the leaf level upwards; Right[i] reports whether Siblings[i] sits to the
// right of the running digest.
type MerkleProof struct {
	Index     int      `json:"index"`
	LeafCount int      `json:"leaf_count"`
	HasherID  string   `json:"hasher"`
	Siblings  []string `json:"siblings"`
	Right     []bool   `json:"right"`
}
