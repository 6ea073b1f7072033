package utils

import (
	"bytes"
	"testing"
)

func TestBytesToBits(t *testing.T) {
	// "Hi" = 0x48 0x69
	got := BytesToBits([]byte("Hi"))
	want := []uint8{0, 1, 0, 0, 1, 0, 0, 0, 0, 1, 1, 0, 1, 0, 0, 1}
	if !bytes.Equal(got, want) {
		t.Errorf("BytesToBits(Hi) = %v, want %v", got, want)
	}
	if len(BytesToBits(nil)) != 0 {
		t.Error("BytesToBits(nil) should be empty")
	}
}

func TestBitsToBytes(t *testing.T) {
	msg := []byte{0x00, 0x48, 0x69, 0xff, 0x80}
	got, err := BitsToBytes(BytesToBits(msg))
	if err != nil {
		t.Fatalf("BitsToBytes failed: %v", err)
	}
	if !bytes.Equal(got, msg) {
		t.Errorf("BitsToBytes(BytesToBits(m)) = %x, want %x", got, msg)
	}

	if _, err := BitsToBytes([]uint8{1, 0, 1}); err == nil {
		t.Error("BitsToBytes should reject a partial byte")
	}
}

func TestStripLeadingZeroBits(t *testing.T) {
	got := StripLeadingZeroBits([]uint8{0, 0, 1, 0, 1})
	if !bytes.Equal(got, []uint8{1, 0, 1}) {
		t.Errorf("StripLeadingZeroBits = %v", got)
	}
	if StripLeadingZeroBits([]uint8{0, 0, 0}) != nil {
		t.Error("StripLeadingZeroBits of all zeros should be nil")
	}
	if StripLeadingZeroBits(nil) != nil {
		t.Error("StripLeadingZeroBits(nil) should be nil")
	}
}

func TestPadBitsLeft(t *testing.T) {
	got := PadBitsLeft([]uint8{1, 0, 1})
	want := []uint8{0, 0, 0, 0, 0, 1, 0, 1}
	if !bytes.Equal(got, want) {
		t.Errorf("PadBitsLeft = %v, want %v", got, want)
	}

	full := []uint8{1, 1, 1, 1, 1, 1, 1, 1}
	if !bytes.Equal(PadBitsLeft(full), full) {
		t.Error("PadBitsLeft should not pad a whole byte")
	}
}

func TestTrimTrailingNUL(t *testing.T) {
	got := TrimTrailingNUL([]byte("ab\x00c\x00\x00"))
	if !bytes.Equal(got, []byte("ab\x00c")) {
		t.Errorf("TrimTrailingNUL = %q", got)
	}
	if len(TrimTrailingNUL([]byte{0, 0})) != 0 {
		t.Error("TrimTrailingNUL of NULs should be empty")
	}
}
