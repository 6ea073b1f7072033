// Package knapmerkle implements a Merkle-Hellman knapsack public-key
// cryptosystem and a Merkle-tree root builder for record integrity checks.
// This package holds the shared types; the algorithms live in sub-packages
// so callers can import only what they need.
package knapmerkle

// Version of the knapsack-merkle Go implementation.
const Version = "1.0.0"

// API summary:
//
// Knapsack cryptosystem:
//   - knapsack.GenerateKeyPair(name) - Generate a key pair for a named parameter set
//   - knapsack.GenerateKeyPairFromSeed(params, seed) - Deterministic key generation
//   - knapsack.Encrypt(pk, message) - Encrypt a message into one integer
//   - knapsack.EncryptTruncated(pk, message) - Encrypt, ignoring bits beyond the key
//   - knapsack.Decrypt(sk, ciphertext) - Recover the message bytes
//   - knapsack.SerializeKeyPair(kp) / DeserializeKeyPair(data) - Key storage
//
// Merkle trees:
//   - merkle.HashLeaf(record) - SHA-256 leaf digest as uppercase hex
//   - merkle.BuildRoot(records) - Root digest, absent for no records
//   - merkle.NewBuilder(hasherID) - Builder over any registered hash algorithm
//   - merkle.MatchRoot(root, target) - Case-insensitive digest comparison
//   - Builder.Prove(records, i) / VerifyProof(root, record, proof) - Inclusion proofs
//   - merkle.ReadRecords(r) - One trimmed record per line
//
// Parameters:
//   - core.GetParams(name) - Get a knapsack parameter set
//   - MH_640 - Reference design (640-element key, 80-byte messages)
