package hashers

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fakeHasherID = "fakeHasher"

func fakeHasher() Hasher {
	return nil
}

func TestHasherIsRegistered(t *testing.T) {
	RegisterHasher(fakeHasherID, fakeHasher)
	defer func() {
		delete(hashers, fakeHasherID)
		if r := recover(); r == nil {
			t.Fatal("Expected RegisterHasher to panic.")
		}
	}()
	RegisterHasher(fakeHasherID, fakeHasher)
}

func TestNew(t *testing.T) {
	h, err := New("")
	require.NoError(t, err)
	assert.Equal(t, Default, h.ID())

	_, err = New("MD5")
	require.Error(t, err)
}

func TestIDs(t *testing.T) {
	assert.Equal(t, []string{BLAKE2b256, BLAKE3, SHA256, SHA3256}, IDs())
}

func TestDigestVectors(t *testing.T) {
	for _, tc := range []struct {
		id    string
		input string
		want  string
	}{
		{SHA256, "a", "CA978112CA1BBDCAFAC231B39A23DC4DA786EFF8147C4E72B9807785AFEE48BB"},
		{SHA3256, "a", "80084BF2FBA02475726FEB2CAB2D8215EAB14BC6BDD8BFB2C8151257032ECD8B"},
		{BLAKE2b256, "a", "8928AAE63C84D87EA098564D1E03AD813F107ADD474E56AEDD286349C0C03EA4"},
		{BLAKE3, "", "AF1349B9F5F9A1A6A0404DEA36DCC9499BCB25C9ADC112B7CC9A93CAE41F3262"},
	} {
		h, err := New(tc.id)
		require.NoError(t, err)
		got := h.Digest([]byte(tc.input))
		assert.Len(t, got, h.Size(), tc.id)
		assert.Equal(t, tc.want, strings.ToUpper(hex.EncodeToString(got)), tc.id)
	}
}

func TestDigestConcatenates(t *testing.T) {
	for _, id := range IDs() {
		h, err := New(id)
		require.NoError(t, err)
		assert.Equal(t, h.Digest([]byte("ab")), h.Digest([]byte("a"), []byte("b")), id)
		assert.Equal(t, h.Digest(nil), h.Digest(), id)
	}
}
