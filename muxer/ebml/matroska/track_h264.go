package matroska

import (
	"time"

	"github.com/bluenviron/mediacommon/pkg/codecs/h264"
	"github.com/greendrake/mkvmux/muxer/ebml/core"
	"github.com/greendrake/mkvmux/muxer/ebml/core/codecs"
	"github.com/greendrake/mkvmux/muxer/ebml/mkvcore"
	"github.com/greendrake/mkvmux/muxer/ebml/webm"
)

type trackH264 struct {
	UnimplementedTrack

	sps []byte
	pps []byte
	sei []byte
}

func NewTrackH264(opts ...Option[*trackH264]) Track {
	t := &trackH264{
		UnimplementedTrack: UnimplementedTrack{
			track: webm.TrackEntry{
				Name:      "Video(H264)",
				CodecID:   core.VideoCodecMPEG4ISOAVC,
				TrackType: core.TrackTypeVideo,
				Video:     &webm.Video{},
			},
		},
	}

	for _, opt := range opts {
		opt.Apply(t)
	}

	return t
}

func (tis *trackH264) ready() bool {
	return len(tis.track.CodecPrivate) > 0
}

// frames takes one access unit, AnnexB or AVCC, and stores it as AVCC.
// Parameter sets update the track entry and are repeated before IDR pictures.
func (tis *trackH264) frames(timestamp time.Duration, b []byte, _ bool) ([]*mkvcore.Frame, error) {
	if len(b) < 5 {
		return nil, ErrH264PacketSize
	}

	var (
		au  [][]byte
		key bool
	)

	err := codecs.EmitNALUH264Data(b, codecs.NALUFormatNo, func(t h264.NALUType, data []byte) {
		switch t {
		case h264.NALUTypeSPS:
			tis.updateSPS(data)
			return
		case h264.NALUTypePPS:
			tis.updatePPS(data)
			return
		case h264.NALUTypeSEI:
			tis.sei = append(tis.sei[:0], data...)
			return
		case h264.NALUTypeAccessUnitDelimiter:
			return
		}

		if codecs.IsH264KeyFrame(t) {
			key = true
		}
		au = append(au, data)
	})
	if err != nil {
		return nil, err
	}
	if len(au) == 0 {
		return nil, nil
	}

	if key {
		au = append(tis.parameterSets(), au...)
	}
	avcc, err := h264.AVCCMarshal(au)
	if err != nil {
		return nil, err
	}
	return []*mkvcore.Frame{tis.newFrame(timestamp, avcc, key)}, nil
}

func (tis *trackH264) parameterSets() [][]byte {
	var ps [][]byte
	for _, p := range [][]byte{tis.sps, tis.pps, tis.sei} {
		if len(p) > 0 {
			ps = append(ps, p)
		}
	}
	return ps
}

func (tis *trackH264) updateSPS(data []byte) {
	if len(data) == 0 {
		return
	}
	tis.sps = append(tis.sps[:0], data...)
	tis.updateCodecPrivate()
}

func (tis *trackH264) updatePPS(data []byte) {
	if len(data) == 0 {
		return
	}
	tis.pps = append(tis.pps[:0], data...)
	tis.updateCodecPrivate()
}

func (tis *trackH264) updateCodecPrivate() {
	if len(tis.sps) == 0 || len(tis.pps) == 0 {
		return
	}
	h := codecs.NewH264Param(tis.sps, tis.pps)
	if w, ht, err := h.Dimensions(); err == nil {
		tis.track.Video.Set(uint64(w), uint64(ht))
	}
	if data, err := h.GetExtraData(); err == nil {
		tis.track.SetCodecPrivate(data)
	}
}

// WithH264SPSPPS sets the parameter sets, with or without start codes.
func WithH264SPSPPS(sps, pps []byte) Option[*trackH264] {
	return NewFuncOption(func(o *trackH264) {
		o.updateSPS(stripStartCode(sps))
		o.updatePPS(stripStartCode(pps))
	})
}

func stripStartCode(b []byte) []byte {
	n, format := codecs.GetNALUFormatType(b)
	if format == codecs.NALUFormatAnnexB {
		return b[n:]
	}
	return b
}
