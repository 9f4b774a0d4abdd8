package matroska

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/deepch/vdk/codec/opusparser"
	"github.com/greendrake/mkvmux/muxer/ebml/core"
	"github.com/greendrake/mkvmux/muxer/ebml/mkvcore"
	"github.com/greendrake/mkvmux/muxer/ebml/webm"
)

const (
	opusSampleRate  = 48000
	opusSeekPreRoll = 80 * time.Millisecond
)

type trackOpus struct {
	audioTrack

	blockDuration bool
}

func NewTrackOpus(channels int, opts ...Option[*trackOpus]) Track {
	t := &trackOpus{
		audioTrack: audioTrack{UnimplementedTrack{
			track: webm.TrackEntry{
				Name:         "Audio(opus)",
				CodecID:      core.AudioCodecOPUS,
				TrackType:    core.TrackTypeAudio,
				SeekPreRoll:  uint64(opusSeekPreRoll),
				CodecPrivate: opusHead(channels),
				Audio: &webm.Audio{
					SamplingFrequency: opusSampleRate,
					Channels:          uint64(channels),
				},
			},
		}},
	}

	for _, opt := range opts {
		opt.Apply(t)
	}

	return t
}

// opusHead returns the identification header of RFC 7845 for a mono or
// stereo stream without pre-skip.
func opusHead(channels int) []byte {
	b := make([]byte, 19)
	copy(b, "OpusHead")
	b[8] = 1
	b[9] = byte(channels)
	binary.LittleEndian.PutUint32(b[12:], opusSampleRate)
	return b
}

func (tis *trackOpus) frames(timestamp time.Duration, b []byte, _ bool) ([]*mkvcore.Frame, error) {
	d, err := opusparser.PacketDuration(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPacket, err)
	}
	f := tis.newFrame(timestamp, b, true)
	if tis.blockDuration && d > 0 {
		f.SetDuration(uint64(d))
	}
	return []*mkvcore.Frame{f}, nil
}

// WithOpusBlockDuration stores each packet with its decoded duration.
func WithOpusBlockDuration() Option[*trackOpus] {
	return NewFuncOption(func(o *trackOpus) {
		o.blockDuration = true
	})
}
