package utils

import (
	"bytes"
	"errors"
)

// BytesToBits expands data into one 0/1 value per bit, most significant bit
// of each byte first, bytes in order.
func BytesToBits(data []byte) []uint8 {
	bits := make([]uint8, len(data)*8)
	for i, b := range data {
		for j := 0; j < 8; j++ {
			bits[i*8+j] = (b >> uint(7-j)) & 1
		}
	}
	return bits
}

// BitsToBytes packs groups of 8 bits (most significant first) into bytes.
// len(bits) must be a multiple of 8.
func BitsToBytes(bits []uint8) ([]byte, error) {
	if len(bits)%8 != 0 {
		return nil, errors.New("bit count must be a multiple of 8")
	}
	out := make([]byte, len(bits)/8)
	for i := range out {
		var b byte
		for _, bit := range bits[i*8 : i*8+8] {
			b = b<<1 | bit&1
		}
		out[i] = b
	}
	return out, nil
}

// StripLeadingZeroBits drops every 0-bit before the first 1-bit.
// It returns nil when bits holds no 1-bit at all.
func StripLeadingZeroBits(bits []uint8) []uint8 {
	for i, bit := range bits {
		if bit != 0 {
			return bits[i:]
		}
	}
	return nil
}

// PadBitsLeft prepends 0-bits until len(bits) is a multiple of 8.
func PadBitsLeft(bits []uint8) []uint8 {
	pad := (8 - len(bits)%8) % 8
	if pad == 0 {
		return bits
	}
	out := make([]uint8, pad+len(bits))
	copy(out[pad:], bits)
	return out
}

// TrimTrailingNUL removes trailing 0x00 bytes.
func TrimTrailingNUL(data []byte) []byte {
	return bytes.TrimRight(data, "\x00")
}
