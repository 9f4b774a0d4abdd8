package matroska

import (
	"bytes"
	"encoding/binary"

	"gitee.com/general252/go-wav"
	"github.com/greendrake/mkvmux/muxer/ebml/core"
	"github.com/greendrake/mkvmux/muxer/ebml/webm"
)

type trackWAV struct {
	audioTrack
}

// newTrackWAV returns an A_MS/ACM track whose CodecPrivate is the
// WAVEFORMATEX of format.
// FFmpeg-n4.4/libavformat/matroskadec.c/"A_MS/ACM"(ff_get_wav_header)
func newTrackWAV(name string, format wav.WavFormat) *trackWAV {
	var codecPrivate bytes.Buffer
	_ = binary.Write(&codecPrivate, binary.LittleEndian, format)
	// cbSize
	codecPrivate.Write([]byte{0, 0})

	return &trackWAV{
		audioTrack: audioTrack{UnimplementedTrack{
			track: webm.TrackEntry{
				Name:         name,
				CodecID:      core.AudioCodecMSACM,
				TrackType:    core.TrackTypeAudio,
				CodecPrivate: codecPrivate.Bytes(),
				Audio: &webm.Audio{
					SamplingFrequency: float64(format.SampleRate),
					Channels:          uint64(format.NumChannels),
					BitDepth:          uint64(format.BitsPerSample),
				},
			},
		}},
	}
}

func NewTrackPCMA(sampleRate int, channels int) Track {
	return newTrackWAV("Audio(pcma)", wav.WavFormat{
		AudioFormat:   wav.AudioFormatALaw,
		NumChannels:   uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * channels),
		BlockAlign:    uint16(channels),
		BitsPerSample: 8,
	})
}

func NewTrackG726(sampleRate int, channels int) Track {
	return newTrackWAV("Audio(g726)", wav.WavFormat{
		AudioFormat:   wav.AudioFormatG726,
		NumChannels:   uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * channels / 2),
		BlockAlign:    1,
		BitsPerSample: 4,
	})
}
