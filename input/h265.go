package input

import (
	"io"

	"github.com/bluenviron/mediacommon/pkg/codecs/h265"
	"github.com/greendrake/mkvmux/frame"
	"github.com/greendrake/mkvmux/muxer/ebml/core/codecs"
	"github.com/greendrake/mkvmux/muxer/ebml/matroska"
)

// H265 reads access units from an Annex B H.265 byte stream. The whole
// stream is split when the source is opened.
type H265 struct {
	r     io.ReadCloser
	clock *clock
	aus   []*accessUnit
}

func NewH265(r io.ReadCloser, fps float64) (*H265, error) {
	clk, err := newClock(fps)
	if err != nil {
		return nil, err
	}

	c := &H265{
		r:     r,
		clock: clk,
	}
	cur := &accessUnit{}
	err = codecs.EmitNALUH265Reader(r, codecs.NALUFormatAnnexB, codecs.NALUFormatNo, func(t h265.NALUType, data []byte) {
		if len(data) < 2 {
			return
		}
		vcl := t < 32
		if cur.vcl && startsH265AccessUnit(t, data, vcl) {
			c.aus = append(c.aus, cur)
			cur = &accessUnit{}
		}
		cur.nalus = append(cur.nalus, data)
		cur.vcl = cur.vcl || vcl
		cur.key = cur.key || codecs.IsH265KeyFrame(t)
	})
	if err != nil {
		return nil, err
	}
	if cur.vcl {
		c.aus = append(c.aus, cur)
	}
	return c, nil
}

func startsH265AccessUnit(t h265.NALUType, data []byte, vcl bool) bool {
	switch t {
	case h265.NALUType_VPS_NUT, h265.NALUType_SPS_NUT, h265.NALUType_PPS_NUT,
		h265.NALUType_AUD_NUT, h265.NALUType_PREFIX_SEI_NUT:
		return true
	}
	// first_slice_segment_in_pic_flag
	return vcl && len(data) > 2 && data[2]&0x80 != 0
}

func (c *H265) Track() matroska.Track { return matroska.NewTrackH265() }

func (c *H265) Next() (*frame.Frame, error) {
	if len(c.aus) == 0 {
		return nil, io.EOF
	}
	au := c.aus[0]
	c.aus = c.aus[1:]
	return c.clock.next(au, true), nil
}

func (c *H265) Close() error {
	return c.r.Close()
}
