package matroska

import (
	"encoding/binary"
	"testing"
	"time"

	"gitee.com/general252/go-wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSPS = []byte{
		0x67, 0x64, 0x00, 0x0c, 0xac, 0x3b, 0x50, 0xb0,
		0x4b, 0x42, 0x00, 0x00, 0x03, 0x00, 0x02, 0x00,
		0x00, 0x03, 0x00, 0x3d, 0x08,
	}
	testPPS = []byte{0x68, 0xee, 0x3c, 0x80}
)

func annexB(nalus ...[]byte) []byte {
	var out []byte
	for _, n := range nalus {
		out = append(out, 0, 0, 0, 1)
		out = append(out, n...)
	}
	return out
}

func avcc(nalu []byte) []byte {
	out := binary.BigEndian.AppendUint32(nil, uint32(len(nalu)))
	return append(out, nalu...)
}

func TestKeyFrameDetection(t *testing.T) {
	assert.True(t, IsVP8KeyFrame(vp8Key))
	assert.False(t, IsVP8KeyFrame(vp8Delta))
	assert.False(t, IsVP8KeyFrame([]byte{0x10}))

	assert.True(t, IsVP9KeyFrame([]byte{0x82, 0x49, 0x83}))
	assert.False(t, IsVP9KeyFrame([]byte{0x86, 0x00}))
	assert.False(t, IsVP9KeyFrame([]byte{0x88}), "show existing frame")
	assert.False(t, IsVP9KeyFrame([]byte{0x02}), "bad frame marker")
	assert.False(t, IsVP9KeyFrame(nil))

	// temporal delimiter, sequence header
	assert.True(t, IsAV1KeyFrame([]byte{0x12, 0x00, 0x0a, 0x02, 0x00, 0x00}))
	// temporal delimiter, frame
	assert.False(t, IsAV1KeyFrame([]byte{0x12, 0x00, 0x32, 0x01, 0x00}))
	// truncated size
	assert.False(t, IsAV1KeyFrame([]byte{0x12, 0x80}))
}

func TestTrackVPXKeyFlag(t *testing.T) {
	tr := NewTrackVP9(640, 480)
	tr.setTrackNumber(1)

	frames, err := tr.frames(0, []byte{0x86, 0x00}, true)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.True(t, frames[0].IsKey(), "caller flag wins")

	frames, err = tr.frames(0, []byte{0x86, 0x00}, false)
	require.NoError(t, err)
	assert.False(t, frames[0].IsKey())
	assert.Equal(t, uint64(640), tr.GetTrackEntry().Video.PixelWidth)
}

func TestTrackAAC(t *testing.T) {
	tr := NewTrackAAC(44100, 2)
	tr.setTrackNumber(2)
	assert.True(t, tr.IsAudio())
	assert.Equal(t, []byte{0x12, 0x10}, tr.GetTrackEntry().CodecPrivate)

	adts := []byte{0xff, 0xf1, 0x50, 0x80, 0x01, 0x3f, 0xfc, 0xaa, 0xbb}
	frames, err := tr.frames(time.Second, append(append([]byte(nil), adts...), adts...), false)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, []byte{0xaa, 0xbb}, frames[0].Data())
	assert.Equal(t, uint64(time.Second), frames[0].Timestamp())
	assert.Equal(t, uint64(time.Second+23219954), frames[1].Timestamp())
	assert.True(t, frames[1].IsKey())

	frames, err = tr.frames(0, []byte{0x21, 0x10}, false)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, []byte{0x21, 0x10}, frames[0].Data())
}

func TestTrackOpus(t *testing.T) {
	tr := NewTrackOpus(2, WithOpusBlockDuration())
	tr.setTrackNumber(1)
	entry := tr.GetTrackEntry()
	require.Len(t, entry.CodecPrivate, 19)
	assert.Equal(t, byte(2), entry.CodecPrivate[9])
	assert.Equal(t, uint32(48000), binary.LittleEndian.Uint32(entry.CodecPrivate[12:]))
	assert.Equal(t, uint64(80*time.Millisecond), entry.SeekPreRoll)

	frames, err := tr.frames(0, opus20ms, false)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.True(t, frames[0].IsKey())
	assert.Equal(t, uint64(20*time.Millisecond), frames[0].Duration())

	_, err = tr.frames(0, nil, false)
	assert.ErrorIs(t, err, ErrInvalidPacket)

	plain := NewTrackOpus(1)
	frames, err = plain.frames(0, opus20ms, false)
	require.NoError(t, err)
	assert.False(t, frames[0].DurationSet())
}

func TestTrackWAV(t *testing.T) {
	pcma := NewTrackPCMA(8000, 1).GetTrackEntry()
	require.Len(t, pcma.CodecPrivate, 18)
	assert.Equal(t, uint16(wav.AudioFormatALaw), binary.LittleEndian.Uint16(pcma.CodecPrivate))
	assert.Equal(t, uint32(8000), binary.LittleEndian.Uint32(pcma.CodecPrivate[4:]))
	assert.Equal(t, "A_MS/ACM", pcma.CodecID)
	assert.Equal(t, uint64(8), pcma.Audio.BitDepth)

	g726 := NewTrackG726(8000, 1).GetTrackEntry()
	assert.Equal(t, uint16(wav.AudioFormatG726), binary.LittleEndian.Uint16(g726.CodecPrivate))
	assert.Equal(t, uint32(4000), binary.LittleEndian.Uint32(g726.CodecPrivate[8:]))
}

func TestTrackH264(t *testing.T) {
	tr := NewTrackH264().(*trackH264)
	assert.False(t, tr.ready())

	_, err := tr.frames(0, []byte{0x65}, false)
	assert.ErrorIs(t, err, ErrH264PacketSize)

	frames, err := tr.frames(0, annexB(testSPS, testPPS), false)
	require.NoError(t, err)
	assert.Empty(t, frames, "parameter sets alone carry no picture")
	assert.True(t, tr.ready())

	withOpt := NewTrackH264(WithH264SPSPPS(annexB(testSPS), testPPS))
	assert.True(t, withOpt.ready())
	assert.Equal(t, tr.GetTrackEntry().CodecPrivate, withOpt.GetTrackEntry().CodecPrivate)

	// AUD is dropped, AVCC input is accepted
	frames, err = tr.frames(0, append(avcc([]byte{0x09, 0xf0}), avcc([]byte{0x41, 0x9a, 0x02})...), false)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, avcc([]byte{0x41, 0x9a, 0x02}), frames[0].Data())
	assert.False(t, frames[0].IsKey())
}

func TestTrackH265NotReady(t *testing.T) {
	tr := NewTrackH265()
	assert.False(t, tr.ready())
	assert.True(t, tr.IsVideo())
	assert.Equal(t, "V_MPEGH/ISO/HEVC", tr.GetTrackEntry().CodecID)
}
