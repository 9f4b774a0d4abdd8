package matroska

import (
	"time"

	"github.com/greendrake/mkvmux/muxer/ebml/core"
	"github.com/greendrake/mkvmux/muxer/ebml/mkvcore"
	"github.com/greendrake/mkvmux/muxer/ebml/webm"
)

// trackVPX stores VP8, VP9 and AV1 frames unchanged. When the caller does
// not flag a key frame the bitstream header decides.
type trackVPX struct {
	UnimplementedTrack

	isKey func(b []byte) bool
}

func newTrackVPX(name string, codecID core.CodecType, width, height int, isKey func([]byte) bool) *trackVPX {
	return &trackVPX{
		UnimplementedTrack: UnimplementedTrack{
			track: webm.TrackEntry{
				Name:      name,
				CodecID:   codecID,
				TrackType: core.TrackTypeVideo,
				Video: &webm.Video{
					PixelWidth:  uint64(width),
					PixelHeight: uint64(height),
				},
			},
		},
		isKey: isKey,
	}
}

func NewTrackVP8(width, height int) Track {
	return newTrackVPX("Video(VP8)", core.VideoCodecVP8, width, height, IsVP8KeyFrame)
}

func NewTrackVP9(width, height int) Track {
	return newTrackVPX("Video(VP9)", core.VideoCodecVP9, width, height, IsVP9KeyFrame)
}

func NewTrackAV1(width, height int) Track {
	return newTrackVPX("Video(AV1)", core.VideoCodecAV1, width, height, IsAV1KeyFrame)
}

func (tis *trackVPX) frames(timestamp time.Duration, b []byte, keyframe bool) ([]*mkvcore.Frame, error) {
	if len(b) == 0 {
		return nil, ErrInvalidPacket
	}
	return []*mkvcore.Frame{tis.newFrame(timestamp, b, keyframe || tis.isKey(b))}, nil
}

// IsVP8KeyFrame reads the frame type bit of the VP8 frame tag.
func IsVP8KeyFrame(b []byte) bool {
	return len(b) >= 3 && b[0]&0x01 == 0
}

// IsVP9KeyFrame parses the start of the VP9 uncompressed header.
func IsVP9KeyFrame(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	bit := 0
	read := func() byte {
		v := (b[bit/8] >> (7 - bit%8)) & 1
		bit++
		return v
	}
	if read() != 1 || read() != 0 {
		// frame_marker
		return false
	}
	profile := read()
	profile |= read() << 1
	if profile == 3 {
		read()
	}
	if read() == 1 {
		// show_existing_frame
		return false
	}
	return read() == 0
}

const (
	av1OBUSequenceHeader = 1
	av1OBUFrameHeader    = 3
	av1OBUFrame          = 6
)

// IsAV1KeyFrame reports whether the temporal unit b starts a coded video
// sequence, that is carries a sequence header before its first frame.
func IsAV1KeyFrame(b []byte) bool {
	for len(b) > 0 {
		header := b[0]
		typ := (header >> 3) & 0x0F
		n := 1
		if header&0x04 != 0 {
			n++
		}
		if header&0x02 == 0 {
			return typ == av1OBUSequenceHeader
		}
		size, m := readLEB128(b[min(n, len(b)):])
		if m == 0 {
			return false
		}
		switch typ {
		case av1OBUSequenceHeader:
			return true
		case av1OBUFrameHeader, av1OBUFrame:
			return false
		}
		next := uint64(n+m) + size
		if next > uint64(len(b)) {
			return false
		}
		b = b[next:]
	}
	return false
}

func readLEB128(b []byte) (uint64, int) {
	var v uint64
	for i := 0; i < 8 && i < len(b); i++ {
		v |= uint64(b[i]&0x7F) << (7 * i)
		if b[i]&0x80 == 0 {
			return v, i + 1
		}
	}
	return 0, 0
}
