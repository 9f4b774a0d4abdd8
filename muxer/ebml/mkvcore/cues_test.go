package mkvcore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greendrake/mkvmux/muxer/ebml"
	"github.com/greendrake/mkvmux/muxer/ebml/ebmltest"
)

func TestCuesWrite(t *testing.T) {
	cues := NewCues()
	cues.AddCue(CuePoint{Time: 0, Track: 1, ClusterPos: 200, BlockNumber: 1})
	cues.AddCue(CuePoint{Time: 5000, Track: 1, ClusterPos: 90000, BlockNumber: 3})
	cues.SetOutputBlockNumber(false)
	cues.AddCue(CuePoint{Time: 9000, Track: 2, ClusterPos: 180000, BlockNumber: 3})
	require.Equal(t, 3, cues.Len())

	w := ebml.NewBufferWriter()
	require.NoError(t, cues.Write(w))
	assert.Equal(t, int(cues.Size()), w.Len())

	elems, err := ebmltest.Parse(w.Bytes())
	require.NoError(t, err)
	require.Len(t, elems, 1)
	points := elems[0].All(ebml.IDCuePoint)
	require.Len(t, points, 3)

	pos := points[0].Child(ebml.IDCueTrackPositions)
	assert.Equal(t, uint64(0), points[0].Child(ebml.IDCueTime).Uint())
	assert.Equal(t, uint64(1), pos.Child(ebml.IDCueTrack).Uint())
	assert.Equal(t, uint64(200), pos.Child(ebml.IDCueClusterPosition).Uint())
	assert.Nil(t, pos.Child(ebml.IDCueBlockNumber), "block number 1 is implied")

	pos = points[1].Child(ebml.IDCueTrackPositions)
	assert.Equal(t, uint64(3), pos.Child(ebml.IDCueBlockNumber).Uint())

	pos = points[2].Child(ebml.IDCueTrackPositions)
	assert.Equal(t, uint64(2), pos.Child(ebml.IDCueTrack).Uint())
	assert.Nil(t, pos.Child(ebml.IDCueBlockNumber))
}

func TestCuePointIncomplete(t *testing.T) {
	w := ebml.NewBufferWriter()
	c := CuePoint{Time: 1, ClusterPos: 10}
	assert.True(t, errors.Is(c.Write(w), ErrCuePointIncomplete))
	c = CuePoint{Time: 1, Track: 1}
	assert.True(t, errors.Is(c.Write(w), ErrCuePointIncomplete))
	assert.Zero(t, w.Len())
}

func TestCuesGetCueByIndex(t *testing.T) {
	cues := NewCues()
	assert.Nil(t, cues.GetCueByIndex(0))
	cues.AddCue(CuePoint{Time: 7, Track: 1, ClusterPos: 1})
	require.NotNil(t, cues.GetCueByIndex(0))
	assert.Equal(t, uint64(7), cues.GetCueByIndex(0).Time)
	assert.True(t, cues.GetCueByIndex(0).OutputBlockNumber)
	assert.Nil(t, cues.GetCueByIndex(1))
}
