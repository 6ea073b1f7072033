package knapsack

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	knapmerkle "github.com/BackendStack21/knapsack-merkle-go"
	"github.com/BackendStack21/knapsack-merkle-go/utils"
)

// maxCiphertextDigits bounds the decimal form of a ciphertext: a sum of
// MaxKeyLength values below 2^(8*MaxBigIntBytes).
const maxCiphertextDigits = utils.MaxBigIntBytes*8*30103/100000 + 8

// SerializePublicKey serializes a public key as a count followed by
// length-prefixed big-endian elements.
func SerializePublicKey(pk *knapmerkle.KnapsackPublicKey) []byte {
	result := make([]byte, 0, 4+len(pk.B)*8)
	result = appendUint32(result, uint32(len(pk.B)))
	for _, bi := range pk.B {
		result = appendBigInt(result, bi)
	}
	return result
}

// DeserializePublicKey deserializes a public key.
func DeserializePublicKey(data []byte) (*knapmerkle.KnapsackPublicKey, error) {
	b, offset, err := readBigIntVector(data, 0)
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}
	if offset != len(data) {
		return nil, errors.New("public key: trailing data")
	}
	pk := &knapmerkle.KnapsackPublicKey{B: b}
	if err := validatePublicKey(pk); err != nil {
		return nil, err
	}
	return pk, nil
}

// SerializeSecretKey serializes the private sequence followed by the modulus
// and the multiplier.
func SerializeSecretKey(sk *knapmerkle.KnapsackSecretKey) []byte {
	result := make([]byte, 0, 12+len(sk.W)*8)
	result = appendUint32(result, uint32(len(sk.W)))
	for _, wi := range sk.W {
		result = appendBigInt(result, wi)
	}
	result = appendBigInt(result, sk.Modulus)
	result = appendBigInt(result, sk.Multiplier)
	return result
}

// DeserializeSecretKey deserializes a secret key.
func DeserializeSecretKey(data []byte) (*knapmerkle.KnapsackSecretKey, error) {
	w, offset, err := readBigIntVector(data, 0)
	if err != nil {
		return nil, fmt.Errorf("secret key: %w", err)
	}
	modulus, offset, err := readBigInt(data, offset)
	if err != nil {
		return nil, fmt.Errorf("secret key modulus: %w", err)
	}
	multiplier, offset, err := readBigInt(data, offset)
	if err != nil {
		return nil, fmt.Errorf("secret key multiplier: %w", err)
	}
	if offset != len(data) {
		return nil, errors.New("secret key: trailing data")
	}
	sk := &knapmerkle.KnapsackSecretKey{W: w, Modulus: modulus, Multiplier: multiplier}
	if err := validateSecretKey(sk); err != nil {
		return nil, err
	}
	return sk, nil
}

// SerializeKeyPair serializes the parameters, the public key and the secret key.
func SerializeKeyPair(kp *knapmerkle.KnapsackKeyPair) []byte {
	pkBytes := SerializePublicKey(&kp.PublicKey)
	skBytes := SerializeSecretKey(&kp.SecretKey)
	name := []byte(kp.Params.Name)

	result := make([]byte, 0, 32+len(name)+len(pkBytes)+len(skBytes))
	result = appendUint32(result, uint32(len(name)))
	result = append(result, name...)
	result = appendUint32(result, uint32(kp.Params.Length))
	result = binary.LittleEndian.AppendUint64(result, uint64(kp.Params.GrowthFactor))
	result = binary.LittleEndian.AppendUint64(result, uint64(kp.Params.Slack))
	result = appendUint32(result, uint32(kp.Params.MaxMultiplierAttempts))

	result = appendUint32(result, uint32(len(pkBytes)))
	result = append(result, pkBytes...)
	result = appendUint32(result, uint32(len(skBytes)))
	result = append(result, skBytes...)
	return result
}

// DeserializeKeyPair deserializes a key pair and checks every key invariant.
func DeserializeKeyPair(data []byte) (*knapmerkle.KnapsackKeyPair, error) {
	nameLen, offset, err := utils.SafeReadLength(data, 0, 255)
	if err != nil {
		return nil, fmt.Errorf("key pair name: %w", err)
	}
	if err := utils.ValidateSliceAccess(data, offset, nameLen+24); err != nil {
		return nil, fmt.Errorf("key pair params: %w", err)
	}
	var params knapmerkle.KnapsackParams
	params.Name = knapmerkle.ParamSet(data[offset : offset+nameLen])
	offset += nameLen
	params.Length = int(binary.LittleEndian.Uint32(data[offset:]))
	params.GrowthFactor = int64(binary.LittleEndian.Uint64(data[offset+4:]))
	params.Slack = int64(binary.LittleEndian.Uint64(data[offset+12:]))
	params.MaxMultiplierAttempts = int(binary.LittleEndian.Uint32(data[offset+20:]))
	offset += 24

	pkLen, offset, err := utils.SafeReadLength(data, offset, utils.MaxPayloadLength)
	if err != nil {
		return nil, fmt.Errorf("key pair public key: %w", err)
	}
	if err := utils.ValidateSliceAccess(data, offset, pkLen); err != nil {
		return nil, fmt.Errorf("key pair public key: %w", err)
	}
	pk, err := DeserializePublicKey(data[offset : offset+pkLen])
	if err != nil {
		return nil, err
	}
	offset += pkLen

	skLen, offset, err := utils.SafeReadLength(data, offset, utils.MaxPayloadLength)
	if err != nil {
		return nil, fmt.Errorf("key pair secret key: %w", err)
	}
	if err := utils.ValidateSliceAccess(data, offset, skLen); err != nil {
		return nil, fmt.Errorf("key pair secret key: %w", err)
	}
	sk, err := DeserializeSecretKey(data[offset : offset+skLen])
	if err != nil {
		return nil, err
	}
	if offset+skLen != len(data) {
		return nil, errors.New("key pair: trailing data")
	}

	if params.Length != len(sk.W) {
		return nil, fmt.Errorf("%w: parameter length %d, key length %d", ErrInvalidKeyMaterial, params.Length, len(sk.W))
	}

	kp := &knapmerkle.KnapsackKeyPair{PublicKey: *pk, SecretKey: *sk, Params: params}
	if err := ValidateKeyPair(kp); err != nil {
		return nil, err
	}
	return kp, nil
}

// Fingerprint returns a short identifier of a public key: the first 16 bytes
// of its domain-separated SHA3-256 digest, in hex.
func Fingerprint(pk *knapmerkle.KnapsackPublicKey) string {
	return hex.EncodeToString(utils.HashWithDomain(DomainFingerprint, SerializePublicKey(pk))[:16])
}

// FormatCiphertext renders a ciphertext in decimal.
func FormatCiphertext(c *big.Int) string {
	return c.String()
}

// ParseCiphertext parses a decimal ciphertext. Whitespace anywhere in s is
// ignored so chunked multi-line output can be pasted back.
func ParseCiphertext(s string) (*big.Int, error) {
	digits := strings.Join(strings.Fields(s), "")
	if digits == "" {
		return nil, fmt.Errorf("%w: empty ciphertext", ErrMalformedCiphertext)
	}
	if len(digits) > maxCiphertextDigits {
		return nil, fmt.Errorf("ciphertext: %w", utils.ErrExceedsLimit)
	}
	c, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("%w: not a decimal integer", ErrMalformedCiphertext)
	}
	if c.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative ciphertext", ErrMalformedCiphertext)
	}
	return c, nil
}

func appendUint32(dst []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, v)
}

func appendBigInt(dst []byte, v *big.Int) []byte {
	mag := v.Bytes()
	dst = appendUint32(dst, uint32(len(mag)))
	return append(dst, mag...)
}

func readBigInt(data []byte, offset int) (*big.Int, int, error) {
	n, offset, err := utils.SafeReadLength(data, offset, utils.MaxBigIntBytes)
	if err != nil {
		return nil, offset, err
	}
	if err := utils.ValidateSliceAccess(data, offset, n); err != nil {
		return nil, offset, err
	}
	return new(big.Int).SetBytes(data[offset : offset+n]), offset + n, nil
}

func readBigIntVector(data []byte, offset int) ([]*big.Int, int, error) {
	count, offset, err := utils.SafeReadLength(data, offset, utils.MaxKeyLength)
	if err != nil {
		return nil, offset, err
	}
	// Every element needs at least its 4-byte length prefix.
	if err := utils.ValidateSliceAccess(data, offset, count*4); err != nil {
		return nil, offset, err
	}
	out, err := utils.SafeMakeBigIntSlice(count, utils.MaxKeyLength)
	if err != nil {
		return nil, offset, err
	}
	for i := range out {
		out[i], offset, err = readBigInt(data, offset)
		if err != nil {
			return nil, offset, err
		}
	}
	return out, offset, nil
}
