package utils

import (
	"errors"
	"testing"
)

func TestSafeMultiply(t *testing.T) {
	result, err := SafeMultiply(10, 20)
	if err != nil || result != 200 {
		t.Errorf("SafeMultiply(10, 20) = %d, %v; want 200, nil", result, err)
	}

	result, err = SafeMultiply(0, 100)
	if err != nil || result != 0 {
		t.Errorf("SafeMultiply(0, 100) = %d, %v; want 0, nil", result, err)
	}

	_, err = SafeMultiply(-1, 10)
	if err == nil {
		t.Error("SafeMultiply(-1, 10) should return error")
	}

	_, err = SafeMultiply(1<<32, 1<<32)
	if !errors.Is(err, ErrOverflow) {
		t.Errorf("SafeMultiply with overflow should return ErrOverflow, got %v", err)
	}
}

func TestSafeMakeBigIntSlice(t *testing.T) {
	slice, err := SafeMakeBigIntSlice(100, MaxKeyLength)
	if err != nil || len(slice) != 100 {
		t.Errorf("SafeMakeBigIntSlice(100) failed: %v", err)
	}

	_, err = SafeMakeBigIntSlice(-1, MaxKeyLength)
	if !errors.Is(err, ErrInvalidLength) {
		t.Errorf("expected ErrInvalidLength, got %v", err)
	}

	_, err = SafeMakeBigIntSlice(MaxKeyLength+1, MaxKeyLength)
	if !errors.Is(err, ErrExceedsLimit) {
		t.Errorf("expected ErrExceedsLimit, got %v", err)
	}
}

func TestCheckPositive(t *testing.T) {
	if err := CheckPositive(1, "x"); err != nil {
		t.Errorf("CheckPositive(1) failed: %v", err)
	}
	if err := CheckPositive(0, "x"); err == nil {
		t.Error("CheckPositive(0) should fail")
	}
}

func TestSafeReadLength(t *testing.T) {
	data := []byte{10, 0, 0, 0}
	length, off, err := SafeReadLength(data, 0, 100)
	if err != nil {
		t.Fatalf("SafeReadLength failed: %v", err)
	}
	if length != 10 || off != 4 {
		t.Errorf("SafeReadLength = %d, %d; want 10, 4", length, off)
	}

	if _, _, err := SafeReadLength(data, 0, 5); !errors.Is(err, ErrExceedsLimit) {
		t.Errorf("expected ErrExceedsLimit, got %v", err)
	}
	if _, _, err := SafeReadLength(data[:3], 0, 100); err == nil {
		t.Error("SafeReadLength should reject truncated input")
	}
	if _, _, err := SafeReadLength(data, -1, 100); err == nil {
		t.Error("SafeReadLength should reject negative offset")
	}
}

func TestValidateSliceAccess(t *testing.T) {
	data := make([]byte, 10)
	if err := ValidateSliceAccess(data, 2, 8); err != nil {
		t.Errorf("ValidateSliceAccess(2, 8) failed: %v", err)
	}
	if err := ValidateSliceAccess(data, 2, 9); err == nil {
		t.Error("ValidateSliceAccess(2, 9) should fail")
	}
	if err := ValidateSliceAccess(data, -1, 1); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("expected ErrInvalidLength, got %v", err)
	}
}
