package webm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greendrake/mkvmux/muxer/ebml"
	"github.com/greendrake/mkvmux/muxer/ebml/core"
	"github.com/greendrake/mkvmux/muxer/ebml/ebmltest"
)

func videoEntry() *TrackEntry {
	return &TrackEntry{
		CodecID:   core.VideoCodecVP9,
		TrackType: core.TrackTypeVideo,
		Video:     &Video{PixelWidth: 1280, PixelHeight: 720},
	}
}

func audioEntry() *TrackEntry {
	return &TrackEntry{
		CodecID:     core.AudioCodecOPUS,
		TrackType:   core.TrackTypeAudio,
		CodecDelay:  6500000,
		SeekPreRoll: 80000000,
		Audio:       &Audio{SamplingFrequency: 48000, Channels: 2},
	}
}

func TestTracksNumbering(t *testing.T) {
	tracks := NewTracks(NewCounterUID(0))

	require.NoError(t, tracks.AddTrack(videoEntry(), 0))
	require.NoError(t, tracks.AddTrack(audioEntry(), 3))
	a := audioEntry()
	require.NoError(t, tracks.AddTrack(a, 0))
	assert.Equal(t, uint64(2), a.TrackNumber, "lowest free number")
	assert.Equal(t, []uint64{1, 3, 2}, tracks.TrackNumbers())
	assert.Equal(t, uint64(3), a.TrackUID)

	assert.True(t, errors.Is(tracks.AddTrack(audioEntry(), 3), ErrDuplicateTrack))
	assert.True(t, errors.Is(tracks.AddTrack(audioEntry(), 127), ErrTrackNumber))

	assert.True(t, tracks.TrackIsVideo(1))
	assert.True(t, tracks.IsVideo(1))
	assert.False(t, tracks.TrackIsVideo(2))
	assert.True(t, tracks.TrackIsAudio(3))
	assert.False(t, tracks.TrackIsAudio(9))
	assert.Equal(t, 3, tracks.Len())
	assert.Same(t, a, tracks.GetTrackByIndex(2))
	assert.Nil(t, tracks.GetTrackByIndex(3))
	assert.Nil(t, tracks.GetTrackByNumber(9))
}

func TestTracksNoFreeNumber(t *testing.T) {
	tracks := NewTracks(nil)
	for i := 0; i < 126; i++ {
		require.NoError(t, tracks.AddTrack(audioEntry(), 0))
	}
	assert.True(t, errors.Is(tracks.AddTrack(audioEntry(), 0), ErrNoFreeTrackNumber))
}

func TestTracksWrite(t *testing.T) {
	tracks := NewTracks(NewCounterUID(100))
	v := videoEntry()
	v.Name = "front door"
	v.Language = "und"
	v.SetCodecPrivate([]byte{1, 2})
	v.AddContentEncoding([]byte("key-id"))
	require.NoError(t, tracks.AddTrack(v, 0))
	require.NoError(t, tracks.AddTrack(audioEntry(), 0))

	w := ebml.NewBufferWriter()
	require.NoError(t, tracks.Write(w))
	assert.Equal(t, int(tracks.Size()), w.Len())
	assert.True(t, errors.Is(tracks.AddTrack(audioEntry(), 0), ErrTracksWritten))

	elems, err := ebmltest.Parse(w.Bytes())
	require.NoError(t, err)
	entries := elems[0].All(ebml.IDTrackEntry)
	require.Len(t, entries, 2)

	video := entries[0]
	assert.Equal(t, []uint64{
		ebml.IDTrackNumber, ebml.IDTrackUID, ebml.IDTrackType, ebml.IDCodecID,
		ebml.IDCodecPrivate, ebml.IDLanguage, ebml.IDName, ebml.IDVideo, ebml.IDContentEncodings,
	}, ids(video))
	assert.Equal(t, uint64(101), video.Child(ebml.IDTrackUID).Uint())
	assert.Equal(t, "V_VP9", video.Child(ebml.IDCodecID).String())
	assert.Equal(t, uint64(1280), video.Child(ebml.IDVideo).Child(ebml.IDPixelWidth).Uint())

	enc := video.Child(ebml.IDContentEncodings).Child(ebml.IDContentEncoding)
	assert.Equal(t, uint64(0), enc.Child(ebml.IDContentEncodingOrder).Uint())
	assert.Equal(t, uint64(1), enc.Child(ebml.IDContentEncodingScope).Uint())
	assert.Equal(t, uint64(1), enc.Child(ebml.IDContentEncodingType).Uint())
	encryption := enc.Child(ebml.IDContentEncryption)
	assert.Equal(t, uint64(ContentEncAlgoAES), encryption.Child(ebml.IDContentEncAlgo).Uint())
	assert.Equal(t, "key-id", encryption.Child(ebml.IDContentEncKeyID).String())
	assert.Equal(t, uint64(AESCipherModeCTR),
		encryption.Child(ebml.IDContentEncAESSettings).Child(ebml.IDAESSettingsCipherMode).Uint())

	audio := entries[1]
	assert.Equal(t, uint64(6500000), audio.Child(ebml.IDCodecDelay).Uint())
	assert.Equal(t, uint64(80000000), audio.Child(ebml.IDSeekPreRoll).Uint())
	a := audio.Child(ebml.IDAudio)
	assert.Equal(t, 48000.0, a.Child(ebml.IDSamplingFrequency).Float())
	assert.Equal(t, uint64(2), a.Child(ebml.IDChannels).Uint())
	assert.Nil(t, a.Child(ebml.IDBitDepth))
}

func TestTrackEntryIncomplete(t *testing.T) {
	e := &TrackEntry{TrackNumber: 1, TrackType: core.TrackTypeVideo}
	assert.True(t, errors.Is(e.Write(ebml.NewBufferWriter()), ErrTrackIncomplete))

	e = &TrackEntry{TrackNumber: 1, CodecID: core.VideoCodecVP8}
	assert.True(t, errors.Is(e.Write(ebml.NewBufferWriter()), ErrTrackIncomplete))
}

func TestAudioDefaults(t *testing.T) {
	e := &TrackEntry{TrackNumber: 1, TrackUID: 1, CodecID: core.AudioCodecPCM, TrackType: core.TrackTypeAudio, Audio: &Audio{}}
	e.SetAudioSamplingFrequency(8000)
	e.Audio.BitDepth = 16
	e.Audio.OutputSamplingFrequency = 16000

	w := ebml.NewBufferWriter()
	require.NoError(t, e.Write(w))
	assert.Equal(t, int(e.Size()), w.Len())
	elems, err := ebmltest.Parse(w.Bytes())
	require.NoError(t, err)
	a := elems[0].Child(ebml.IDAudio)
	assert.Equal(t, 8000.0, a.Child(ebml.IDSamplingFrequency).Float())
	assert.Equal(t, uint64(1), a.Child(ebml.IDChannels).Uint())
	assert.Equal(t, 16000.0, a.Child(ebml.IDOutputSamplingFrequency).Float())
	assert.Equal(t, uint64(16), a.Child(ebml.IDBitDepth).Uint())
}
