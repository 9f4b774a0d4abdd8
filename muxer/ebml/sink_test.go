package ebml

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferWriterOverwrite(t *testing.T) {
	w := NewBufferWriter()
	_, err := w.Write([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	require.NoError(t, w.SetPosition(1))
	_, err = w.Write([]byte{9})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), w.Position())
	assert.Equal(t, []byte{1, 9, 3, 4}, w.Bytes())

	assert.Error(t, w.SetPosition(5))
}

func TestStreamWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	assert.False(t, w.Seekable())

	require.NoError(t, WriteUnknownSize(w))
	assert.Equal(t, uint64(8), w.Position())
	assert.True(t, errors.Is(w.SetPosition(0), ErrNotSeekable))
}

func TestFileWriter(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.bin"))
	require.NoError(t, err)
	defer f.Close()

	w, err := NewWriter(f)
	require.NoError(t, err)
	require.True(t, w.Seekable())

	require.NoError(t, WriteUnknownSize(w))
	require.NoError(t, w.SetPosition(0))
	require.NoError(t, WriteUIntSize(w, 42, 8))
	assert.Equal(t, uint64(8), w.Position())

	b, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0, 0, 0, 0, 0, 0, 42}, b)
}

func TestNonSeekable(t *testing.T) {
	var seen int
	inner := NewBufferWriter(func(uint64, uint64) { seen++ })
	w := NonSeekable(inner)
	assert.False(t, w.Seekable())
	assert.True(t, errors.Is(w.SetPosition(0), ErrNotSeekable))

	require.NoError(t, WriteElementUint(w, IDTrackNumber, 1))
	assert.Equal(t, 1, seen)
	assert.Equal(t, uint64(3), w.Position())
}
