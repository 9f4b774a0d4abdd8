package mkvcore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greendrake/mkvmux/muxer/ebml"
	"github.com/greendrake/mkvmux/muxer/ebml/ebmltest"
)

func TestSeekHeadReservesAndFinalizes(t *testing.T) {
	w := ebml.NewBufferWriter()
	s := NewSeekHead()
	require.NoError(t, s.Write(w))
	assert.Equal(t, int(s.Size()), w.Len())

	require.NoError(t, s.AddSeekEntry(ebml.IDInfo, 110))
	require.NoError(t, s.AddSeekEntry(ebml.IDTracks, 300))
	require.NoError(t, w.SetPosition(uint64(w.Len())))
	_, err := w.Write([]byte{0xFF})
	require.NoError(t, err)

	require.NoError(t, s.Finalize(w))
	assert.Equal(t, int(s.Size())+1, w.Len(), "finalize must not grow the reserved region")
	assert.Equal(t, uint64(w.Len()), w.Position(), "finalize restores the position")

	elems, err := ebmltest.Parse(w.Bytes()[:s.Size()])
	require.NoError(t, err)
	require.Len(t, elems, 2)
	assert.Equal(t, ebml.IDSeekHead, elems[0].ID)
	assert.Equal(t, ebml.IDVoid, elems[1].ID)

	seeks := elems[0].All(ebml.IDSeek)
	require.Len(t, seeks, 2)
	assert.Equal(t, ebml.IDInfo, seeks[0].Child(ebml.IDSeekID).Uint())
	pos := seeks[0].Child(ebml.IDSeekPosition)
	assert.Len(t, pos.Data, 8)
	assert.Equal(t, uint64(110), pos.Uint())
	assert.Equal(t, ebml.IDTracks, seeks[1].Child(ebml.IDSeekID).Uint())
	assert.Equal(t, uint64(300), seeks[1].Child(ebml.IDSeekPosition).Uint())
}

func TestSeekHeadFull(t *testing.T) {
	w := ebml.NewBufferWriter()
	s := NewSeekHead()
	require.NoError(t, s.Write(w))

	ids := []uint64{ebml.IDInfo, ebml.IDTracks, ebml.IDChapters, ebml.IDTags, ebml.IDCues}
	for i, id := range ids {
		require.NoError(t, s.AddSeekEntry(id, uint64(i+1)*1000))
	}
	err := s.AddSeekEntry(ebml.IDCluster, 1)
	assert.True(t, errors.Is(err, ErrSeekHeadFull))

	require.NoError(t, s.Finalize(w))
	assert.Equal(t, s.Size(), s.PayloadSize()+ebml.MasterElementSize(ebml.IDSeekHead, s.PayloadSize()))

	elems, err := ebmltest.Parse(w.Bytes())
	require.NoError(t, err)
	require.Len(t, elems, 1, "five entries fill the region without padding")
	assert.Len(t, elems[0].All(ebml.IDSeek), SeekEntryCount)
}

func TestSeekHeadEntries(t *testing.T) {
	s := NewSeekHead()
	require.NoError(t, s.SetSeekEntry(2, ebml.IDCues, 42))
	assert.Equal(t, ebml.IDCues, s.ID(2))
	assert.Equal(t, uint64(42), s.Position(2))
	assert.Zero(t, s.ID(0))
	assert.Zero(t, s.ID(SeekEntryCount))
	assert.Error(t, s.SetSeekEntry(SeekEntryCount, ebml.IDCues, 1))
	assert.Error(t, s.SetSeekEntry(-1, ebml.IDCues, 1))
}

func TestSeekHeadFinalizeWithoutWrite(t *testing.T) {
	s := NewSeekHead()
	err := s.Finalize(ebml.NewBufferWriter())
	assert.True(t, errors.Is(err, ErrHeaderNotWritten))

	buf := ebml.NewBufferWriter()
	assert.NoError(t, s.Finalize(ebml.NonSeekable(buf)))
	assert.Zero(t, buf.Len())
}
