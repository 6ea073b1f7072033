// Package knapsack implements the Merkle-Hellman knapsack cryptosystem.
package knapsack

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	knapmerkle "github.com/BackendStack21/knapsack-merkle-go"
	"github.com/BackendStack21/knapsack-merkle-go/core"
	"github.com/BackendStack21/knapsack-merkle-go/utils"
)

const (
	DomainKeyGen      = "knapmerkle-keygen-v1"
	DomainFingerprint = "knapmerkle-fingerprint-v1"
)

var (
	// ErrInvalidKeyMaterial reports key material violating the scheme's
	// invariants, e.g. a multiplier without an inverse modulo M.
	ErrInvalidKeyMaterial = errors.New("invalid key material")

	// ErrMalformedCiphertext reports a ciphertext that is not a subset sum
	// of the public key.
	ErrMalformedCiphertext = errors.New("malformed ciphertext")

	// ErrMessageTooLong reports a message with more bits than the key has elements.
	ErrMessageTooLong = errors.New("message too long for key")

	// ErrMultiplierSearchExhausted reports that no multiplier coprime to the
	// modulus was drawn within the configured number of attempts.
	ErrMultiplierSearchExhausted = errors.New("no coprime multiplier found")
)

// GenerateKeyPair generates a key pair for the named parameter set.
func GenerateKeyPair(name knapmerkle.ParamSet) (*knapmerkle.KnapsackKeyPair, error) {
	params, err := core.GetParams(name)
	if err != nil {
		return nil, err
	}
	if err := core.ValidateParams(params); err != nil {
		return nil, err
	}

	seed, err := utils.SecureRandomBytes(32)
	if err != nil {
		return nil, err
	}

	kp, err := GenerateKeyPairFromSeed(params, seed)
	utils.Zeroize(seed)
	return kp, err
}

// GenerateKeyPairFromSeed generates a deterministic key pair from seed.
func GenerateKeyPairFromSeed(params knapmerkle.KnapsackParams, seed []byte) (*knapmerkle.KnapsackKeyPair, error) {
	if len(seed) < 32 {
		return nil, errors.New("seed must be at least 32 bytes")
	}
	if err := utils.ValidateSeedEntropy(seed); err != nil {
		return nil, err
	}
	return GenerateKeyPairWithReader(params, utils.NewShakeReader(DomainKeyGen, seed))
}

// GenerateKeyPairWithReader generates a key pair drawing the multiplier from r.
//
// The private key is w[0] = 1, w[i] = w[i-1] * GrowthFactor, which is
// superincreasing for any GrowthFactor >= 2. The modulus is sum(w) + Slack and
// the multiplier is drawn uniformly from [1, M) until it is coprime to M, at
// most MaxMultiplierAttempts times.
func GenerateKeyPairWithReader(params knapmerkle.KnapsackParams, r io.Reader) (*knapmerkle.KnapsackKeyPair, error) {
	if err := core.ValidateParams(params); err != nil {
		return nil, err
	}

	n := params.Length
	w := make([]*big.Int, n)
	growth := big.NewInt(params.GrowthFactor)
	curr := big.NewInt(1)
	total := new(big.Int)
	for i := 0; i < n; i++ {
		w[i] = curr
		total.Add(total, curr)
		curr = new(big.Int).Mul(curr, growth)
	}

	modulus := total.Add(total, big.NewInt(params.Slack))

	multiplier, err := chooseMultiplier(r, modulus, params.MaxMultiplierAttempts)
	if err != nil {
		return nil, err
	}

	b := make([]*big.Int, n)
	for i, wi := range w {
		bi := new(big.Int).Mul(multiplier, wi)
		b[i] = bi.Mod(bi, modulus)
	}

	return &knapmerkle.KnapsackKeyPair{
		PublicKey: knapmerkle.KnapsackPublicKey{B: b},
		SecretKey: knapmerkle.KnapsackSecretKey{
			W:          w,
			Modulus:    modulus,
			Multiplier: multiplier,
		},
		Params: params,
	}, nil
}

// chooseMultiplier draws N from [1, modulus) until gcd(N, modulus) = 1.
func chooseMultiplier(r io.Reader, modulus *big.Int, maxAttempts int) (*big.Int, error) {
	one := big.NewInt(1)
	gcd := new(big.Int)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate, err := utils.RandomBigInt(r, modulus)
		if err != nil {
			return nil, err
		}
		if candidate.Sign() == 0 {
			continue
		}
		if gcd.GCD(nil, nil, candidate, modulus).Cmp(one) == 0 {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrMultiplierSearchExhausted, maxAttempts)
}

// Encrypt encrypts message into the sum of the public key elements selected
// by the message's set bits. Messages longer than len(pk.B)/8 bytes are
// rejected with ErrMessageTooLong.
func Encrypt(pk *knapmerkle.KnapsackPublicKey, message []byte) (*big.Int, error) {
	if err := validatePublicKey(pk); err != nil {
		return nil, err
	}
	bitLen, err := utils.SafeMultiply(len(message), 8)
	if err != nil {
		return nil, err
	}
	if bitLen > len(pk.B) {
		return nil, fmt.Errorf("%w: %d bytes, at most %d allowed", ErrMessageTooLong, len(message), len(pk.B)/8)
	}
	return sumSelected(pk.B, message), nil
}

// EncryptTruncated is Encrypt without the length check: bits past the end
// of the public key are ignored.
func EncryptTruncated(pk *knapmerkle.KnapsackPublicKey, message []byte) (*big.Int, error) {
	if err := validatePublicKey(pk); err != nil {
		return nil, err
	}
	return sumSelected(pk.B, message), nil
}

func sumSelected(b []*big.Int, message []byte) *big.Int {
	if maxBytes := (len(b) + 7) / 8; len(message) > maxBytes {
		message = message[:maxBytes]
	}
	ciphertext := new(big.Int)
	for i, bit := range utils.BytesToBits(message) {
		if i >= len(b) {
			break
		}
		if bit == 1 {
			ciphertext.Add(ciphertext, b[i])
		}
	}
	return ciphertext
}

// Decrypt recovers the message bytes from ciphertext.
//
// The ciphertext is mapped back onto the superincreasing sequence with
// C' = C * N^-1 mod M and the subset is recovered greedily from the largest
// element down. Leading zero bits are dropped, the rest is left-padded to whole
// bytes and trailing NUL bytes are trimmed, so messages starting or ending
// with NUL bytes lose them.
func Decrypt(sk *knapmerkle.KnapsackSecretKey, ciphertext *big.Int) ([]byte, error) {
	if err := validateSecretKey(sk); err != nil {
		return nil, err
	}
	if ciphertext == nil || ciphertext.Sign() < 0 {
		return nil, fmt.Errorf("%w: ciphertext must be a non-negative integer", ErrMalformedCiphertext)
	}

	inverse := new(big.Int).ModInverse(sk.Multiplier, sk.Modulus)
	if inverse == nil {
		return nil, fmt.Errorf("%w: multiplier has no inverse modulo M", ErrInvalidKeyMaterial)
	}

	remainder := new(big.Int).Mul(ciphertext, inverse)
	remainder.Mod(remainder, sk.Modulus)

	bits := make([]uint8, len(sk.W))
	for i := len(sk.W) - 1; i >= 0; i-- {
		if remainder.Cmp(sk.W[i]) >= 0 {
			bits[i] = 1
			remainder.Sub(remainder, sk.W[i])
		}
	}
	if remainder.Sign() != 0 {
		return nil, fmt.Errorf("%w: knapsack remainder %s", ErrMalformedCiphertext, remainder)
	}

	bits = utils.StripLeadingZeroBits(bits)
	if bits == nil {
		return []byte{}, nil
	}
	plaintext, err := utils.BitsToBytes(utils.PadBitsLeft(bits))
	if err != nil {
		return nil, err
	}
	return utils.TrimTrailingNUL(plaintext), nil
}

// ValidateKeyPair checks every invariant of the key material: W is
// superincreasing, M > sum(W), 1 <= N < M with gcd(N, M) = 1, and
// b[i] = N*w[i] mod M for every index.
func ValidateKeyPair(kp *knapmerkle.KnapsackKeyPair) error {
	if kp == nil {
		return fmt.Errorf("%w: nil key pair", ErrInvalidKeyMaterial)
	}
	if err := validatePublicKey(&kp.PublicKey); err != nil {
		return err
	}
	sk := &kp.SecretKey
	if err := validateSecretKey(sk); err != nil {
		return err
	}
	if len(kp.PublicKey.B) != len(sk.W) {
		return fmt.Errorf("%w: public key has %d elements, private key %d", ErrInvalidKeyMaterial, len(kp.PublicKey.B), len(sk.W))
	}

	sum := new(big.Int)
	for i, wi := range sk.W {
		if wi.Cmp(sum) <= 0 {
			return fmt.Errorf("%w: private key is not superincreasing at index %d", ErrInvalidKeyMaterial, i)
		}
		sum.Add(sum, wi)
	}
	if sk.Modulus.Cmp(sum) <= 0 {
		return fmt.Errorf("%w: modulus does not exceed the private key sum", ErrInvalidKeyMaterial)
	}
	if sk.Multiplier.Sign() <= 0 || sk.Multiplier.Cmp(sk.Modulus) >= 0 {
		return fmt.Errorf("%w: multiplier out of range [1, M)", ErrInvalidKeyMaterial)
	}
	gcd := new(big.Int).GCD(nil, nil, sk.Multiplier, sk.Modulus)
	if gcd.Cmp(big.NewInt(1)) != 0 {
		return fmt.Errorf("%w: multiplier and modulus are not coprime", ErrInvalidKeyMaterial)
	}

	expected := new(big.Int)
	for i, wi := range sk.W {
		expected.Mul(sk.Multiplier, wi)
		expected.Mod(expected, sk.Modulus)
		if expected.Cmp(kp.PublicKey.B[i]) != 0 {
			return fmt.Errorf("%w: public key element %d does not match the private key", ErrInvalidKeyMaterial, i)
		}
	}
	return nil
}

func validatePublicKey(pk *knapmerkle.KnapsackPublicKey) error {
	if pk == nil || len(pk.B) == 0 {
		return fmt.Errorf("%w: empty public key", ErrInvalidKeyMaterial)
	}
	for i, bi := range pk.B {
		if bi == nil || bi.Sign() < 0 {
			return fmt.Errorf("%w: public key element %d is not a non-negative integer", ErrInvalidKeyMaterial, i)
		}
	}
	return nil
}

func validateSecretKey(sk *knapmerkle.KnapsackSecretKey) error {
	if sk == nil || len(sk.W) == 0 || sk.Modulus == nil || sk.Multiplier == nil {
		return fmt.Errorf("%w: incomplete secret key", ErrInvalidKeyMaterial)
	}
	if sk.Modulus.Sign() <= 0 {
		return fmt.Errorf("%w: modulus must be positive", ErrInvalidKeyMaterial)
	}
	for i, wi := range sk.W {
		if wi == nil || wi.Sign() <= 0 {
			return fmt.Errorf("%w: private key element %d is not positive", ErrInvalidKeyMaterial, i)
		}
	}
	return nil
}
