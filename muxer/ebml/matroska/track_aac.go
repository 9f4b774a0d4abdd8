package matroska

import (
	"time"

	"github.com/bluenviron/mediacommon/pkg/codecs/mpeg4audio"
	"github.com/greendrake/mkvmux/muxer/ebml/core"
	"github.com/greendrake/mkvmux/muxer/ebml/mkvcore"
	"github.com/greendrake/mkvmux/muxer/ebml/webm"
)

type trackAAC struct {
	audioTrack
}

// NewTrackAAC returns an AAC-LC track. Packets are raw access units or ADTS.
func NewTrackAAC(samplingFrequency int, channels int) Track {
	t := &trackAAC{
		audioTrack: audioTrack{UnimplementedTrack{
			track: webm.TrackEntry{
				Name:      "Audio(AAC)",
				CodecID:   core.AudioCodecAAC,
				TrackType: core.TrackTypeAudio,
				Audio: &webm.Audio{
					SamplingFrequency: float64(samplingFrequency),
					Channels:          uint64(channels),
				},
			},
		}},
	}

	conf := mpeg4audio.Config{
		Type:         mpeg4audio.ObjectTypeAACLC,
		SampleRate:   samplingFrequency,
		ChannelCount: channels,
	}
	if asc, err := conf.Marshal(); err == nil {
		t.track.SetCodecPrivate(asc)
	}

	return t
}

func isADTS(b []byte) bool {
	return len(b) >= 7 && b[0] == 0xFF && b[1]&0xF6 == 0xF0
}

// frames strips ADTS headers. Consecutive access units of one ADTS packet
// are spaced by one AAC frame.
func (tis *trackAAC) frames(timestamp time.Duration, b []byte, _ bool) ([]*mkvcore.Frame, error) {
	if !isADTS(b) {
		return tis.audioTrack.frames(timestamp, b, true)
	}

	var pkts mpeg4audio.ADTSPackets
	if err := pkts.Unmarshal(b); err != nil {
		return nil, err
	}

	frames := make([]*mkvcore.Frame, 0, len(pkts))
	for i, pkt := range pkts {
		offset := time.Duration(i*mpeg4audio.SamplesPerAccessUnit) * time.Second / time.Duration(pkt.SampleRate)
		frames = append(frames, tis.newFrame(timestamp+offset, pkt.AU, true))
	}
	return frames, nil
}
