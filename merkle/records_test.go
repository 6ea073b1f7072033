package merkle

import (
	"strings"
	"testing"

	"github.com/BackendStack21/knapsack-merkle-go/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRecords(t *testing.T) {
	records, err := ReadRecords(strings.NewReader("a\r\n  b\t\n\x00c\x1f\n\nlast"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "", "last"}, records)
}

func TestReadRecords_Empty(t *testing.T) {
	records, err := ReadRecords(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadRecords_KeepsInnerWhitespace(t *testing.T) {
	records, err := ReadRecords(strings.NewReader(" hello world \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"hello world"}, records)
}

func TestReadRecords_LineTooLong(t *testing.T) {
	_, err := ReadRecords(strings.NewReader(strings.Repeat("x", utils.MaxRecordLength+1)))
	require.Error(t, err)
}

func TestRootOfReader(t *testing.T) {
	b, err := NewBuilder("")
	require.NoError(t, err)

	root, ok, err := b.RootOfReader(strings.NewReader("a\n b \nc\n"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rootABC, root)

	_, ok, err = b.RootOfReader(strings.NewReader(""))
	require.NoError(t, err)
	assert.False(t, ok)
}
