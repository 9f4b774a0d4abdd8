package ebml

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteUIntSize(t *testing.T) {
	cases := []struct {
		value uint64
		size  int
		want  []byte
	}{
		{0, 0, []byte{0x80}},
		{1, 0, []byte{0x81}},
		{0x7E, 0, []byte{0xFE}},
		{0x7F, 0, []byte{0x40, 0x7F}},
		{5, 2, []byte{0x40, 0x05}},
		{0x1234, 8, []byte{0x01, 0, 0, 0, 0, 0, 0x12, 0x34}},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		require.NoError(t, WriteUIntSize(&buf, c.value, c.size))
		assert.Equal(t, c.want, buf.Bytes(), "value %#x size %d", c.value, c.size)
	}
}

func TestWriteUIntSizeTooLarge(t *testing.T) {
	var buf bytes.Buffer
	err := WriteUIntSize(&buf, 0x7F, 1)
	assert.True(t, errors.Is(err, ErrValueTooLarge))

	err = WriteUInt(&buf, 0x00FFFFFFFFFFFFFF)
	assert.True(t, errors.Is(err, ErrValueTooLarge))
	assert.Zero(t, buf.Len())
}

func TestWriteUnknownSize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteUnknownSize(&buf))
	assert.Equal(t, []byte{0x01, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, buf.Bytes())
}

func TestWriteElementUint(t *testing.T) {
	w := NewBufferWriter()
	require.NoError(t, WriteElementUint(w, IDTimecodeScale, 1000000))
	assert.Equal(t, []byte{0x2A, 0xD7, 0xB1, 0x83, 0x0F, 0x42, 0x40}, w.Bytes())
}

func TestWriteElementUintFixed(t *testing.T) {
	w := NewBufferWriter()
	require.NoError(t, WriteElementUintFixed(w, IDTimecode, 2, 8))
	assert.Equal(t, []byte{0xE7, 0x88, 0, 0, 0, 0, 0, 0, 0, 0x02}, w.Bytes())

	err := WriteElementUintFixed(NewBufferWriter(), IDTimecode, 0x1FF, 1)
	assert.True(t, errors.Is(err, ErrValueTooLarge))
}

func TestWriteElementInt(t *testing.T) {
	w := NewBufferWriter()
	require.NoError(t, WriteElementInt(w, IDReferenceBlock, -2))
	assert.Equal(t, []byte{0xFB, 0x81, 0xFE}, w.Bytes())

	w = NewBufferWriter()
	require.NoError(t, WriteElementInt(w, IDDiscardPadding, 200))
	assert.Equal(t, []byte{0x75, 0xA2, 0x82, 0x00, 0xC8}, w.Bytes())
}

func TestWriteElementFloat(t *testing.T) {
	w := NewBufferWriter()
	require.NoError(t, WriteElementFloat(w, IDSamplingFrequency, 48000))
	assert.Equal(t, []byte{0xB5, 0x84, 0x47, 0x3B, 0x80, 0x00}, w.Bytes())
}

func TestWriteElementString(t *testing.T) {
	w := NewBufferWriter()
	require.NoError(t, WriteElementString(w, IDCodecID, "A_OPUS"))
	assert.Equal(t, append([]byte{0x86, 0x86}, "A_OPUS"...), w.Bytes())
}

func TestWriteMasterSizeMismatch(t *testing.T) {
	w := NewBufferWriter()
	err := WriteMaster(w, IDBlockMore, 10, func() error {
		return WriteElementUint(w, IDBlockAddID, 1)
	})
	assert.True(t, errors.Is(err, ErrSizeMismatch))

	w = NewBufferWriter()
	err = WriteMaster(w, IDBlockMore, ElementSizeUint(IDBlockAddID, 1), func() error {
		return WriteElementUint(w, IDBlockAddID, 1)
	})
	assert.NoError(t, err)
	assert.Equal(t, []byte{0xA6, 0x83, 0xEE, 0x81, 0x01}, w.Bytes())
}

func TestWriteVoidElementExactFit(t *testing.T) {
	for size := uint64(2); size <= 1<<14; size++ {
		w := NewBufferWriter()
		n, err := WriteVoidElement(w, size)
		require.NoError(t, err, "size %d", size)
		require.Equal(t, size, n)
		require.Equal(t, int(size), w.Len(), "size %d", size)
		require.Equal(t, byte(0xEC), w.Bytes()[0])
	}
}

func TestWriteVoidElementSmallSizes(t *testing.T) {
	w := NewBufferWriter()
	n, err := WriteVoidElement(w, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
	assert.Equal(t, []byte{0xEC, 0x80}, w.Bytes())

	// 129 needs a two byte size field to fit exactly.
	w = NewBufferWriter()
	_, err = WriteVoidElement(w, 129)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEC, 0x40, 0x7E}, w.Bytes()[:3])

	_, err = WriteVoidElement(NewBufferWriter(), 1)
	assert.True(t, errors.Is(err, ErrNoVoidFit))
	_, err = WriteVoidElement(NewBufferWriter(), 0)
	assert.True(t, errors.Is(err, ErrNoVoidFit))
}

func TestWriteIDNotifies(t *testing.T) {
	var seen []uint64
	w := NewBufferWriter(func(id uint64, pos uint64) {
		seen = append(seen, id, pos)
	})
	require.NoError(t, WriteElementUint(w, IDTrackNumber, 1))
	require.NoError(t, WriteMasterHeader(w, IDCluster, 0))
	assert.Equal(t, []uint64{IDTrackNumber, 0, IDCluster, 3}, seen)
}
