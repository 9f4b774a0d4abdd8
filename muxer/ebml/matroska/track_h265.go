package matroska

import (
	"time"

	"github.com/bluenviron/mediacommon/pkg/codecs/h264"
	"github.com/bluenviron/mediacommon/pkg/codecs/h265"
	"github.com/greendrake/mkvmux/muxer/ebml/core"
	"github.com/greendrake/mkvmux/muxer/ebml/core/codecs"
	"github.com/greendrake/mkvmux/muxer/ebml/mkvcore"
	"github.com/greendrake/mkvmux/muxer/ebml/webm"
)

type trackH265 struct {
	UnimplementedTrack

	vps []byte
	sps []byte
	pps []byte
	sei []byte
}

func NewTrackH265(opts ...Option[*trackH265]) Track {
	t := &trackH265{
		UnimplementedTrack: UnimplementedTrack{
			track: webm.TrackEntry{
				Name:      "Video(HEVC)",
				CodecID:   core.VideoCodecMPEGHISOHEVC,
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

func (tis *trackH265) ready() bool {
	return len(tis.track.CodecPrivate) > 0
}

// frames takes one access unit, AnnexB or AVCC, and stores it with 4 byte
// NALU lengths.
func (tis *trackH265) frames(timestamp time.Duration, b []byte, _ bool) ([]*mkvcore.Frame, error) {
	if len(b) < 5 {
		return nil, ErrH264PacketSize
	}

	var (
		au  [][]byte
		key bool
	)

	err := codecs.EmitNALUH265Data(b, codecs.NALUFormatNo, func(t h265.NALUType, data []byte) {
		switch t {
		case h265.NALUType_VPS_NUT:
			tis.vps = append(tis.vps[:0], data...)
			tis.updateCodecPrivate()
			return
		case h265.NALUType_SPS_NUT:
			tis.sps = append(tis.sps[:0], data...)
			tis.updateCodecPrivate()
			return
		case h265.NALUType_PPS_NUT:
			tis.pps = append(tis.pps[:0], data...)
			tis.updateCodecPrivate()
			return
		case h265.NALUType_PREFIX_SEI_NUT:
			tis.sei = append(tis.sei[:0], data...)
			return
		case h265.NALUType_AUD_NUT:
			return
		}

		if codecs.IsH265KeyFrame(t) {
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
		var ps [][]byte
		for _, p := range [][]byte{tis.vps, tis.sps, tis.pps, tis.sei} {
			if len(p) > 0 {
				ps = append(ps, p)
			}
		}
		au = append(ps, au...)
	}
	// length prefixing is the same for both codecs
	data, err := h264.AVCCMarshal(au)
	if err != nil {
		return nil, err
	}
	return []*mkvcore.Frame{tis.newFrame(timestamp, data, key)}, nil
}

func (tis *trackH265) updateCodecPrivate() {
	h := codecs.NewH265Param(tis.vps, tis.sps, tis.pps)
	codecData, err := h.GetCodecData()
	if err != nil {
		return
	}
	tis.track.Video.Set(uint64(codecData.Width()), uint64(codecData.Height()))
	tis.track.SetCodecPrivate(codecData.AVCDecoderConfRecordBytes())
}

// WithH265SPSPPS sets the parameter sets, with or without start codes.
func WithH265SPSPPS(vps, sps, pps []byte) Option[*trackH265] {
	return NewFuncOption(func(o *trackH265) {
		o.vps = append([]byte(nil), stripStartCode(vps)...)
		o.sps = append([]byte(nil), stripStartCode(sps)...)
		o.pps = append([]byte(nil), stripStartCode(pps)...)
		o.updateCodecPrivate()
	})
}
