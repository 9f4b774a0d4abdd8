package input

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/greendrake/mkvmux/frame"
	"github.com/greendrake/mkvmux/muxer/ebml/matroska"
	"github.com/pion/webrtc/v3/pkg/media/h264reader"
)

var startCode = []byte{0x00, 0x00, 0x00, 0x01}

// accessUnit gathers the NAL units of one picture.
type accessUnit struct {
	nalus [][]byte
	vcl   bool
	key   bool
}

func (au *accessUnit) annexB() []byte {
	var n int
	for _, nalu := range au.nalus {
		n += len(startCode) + len(nalu)
	}
	b := make([]byte, 0, n)
	for _, nalu := range au.nalus {
		b = append(b, startCode...)
		b = append(b, nalu...)
	}
	return b
}

// clock hands out fixed frame rate timestamps.
type clock struct {
	fps   float64
	count int64
}

func newClock(fps float64) (*clock, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFPS, fps)
	}
	return &clock{fps: fps}, nil
}

func (c *clock) at(n int64) time.Duration {
	return time.Duration(float64(n) * float64(time.Second) / c.fps)
}

func (c *clock) next(au *accessUnit, hevc bool) *frame.Frame {
	f := &frame.Frame{
		IsVideo:         true,
		IsHEVC:          hevc,
		IsVideoKeyFrame: au.key,
		Timestamp:       c.at(c.count),
		Duration:        c.at(c.count+1) - c.at(c.count),
		Data:            au.annexB(),
	}
	c.count++
	return f
}

// H264 reads access units from an Annex B H.264 byte stream.
type H264 struct {
	r      io.ReadCloser
	reader *h264reader.H264Reader
	clock  *clock
	cur    *accessUnit
	eof    bool
}

func NewH264(r io.ReadCloser, fps float64) (*H264, error) {
	clk, err := newClock(fps)
	if err != nil {
		return nil, err
	}
	reader, err := h264reader.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &H264{
		r:      r,
		reader: reader,
		clock:  clk,
		cur:    &accessUnit{},
	}, nil
}

func (c *H264) Track() matroska.Track { return matroska.NewTrackH264() }

func (c *H264) Next() (*frame.Frame, error) {
	for !c.eof {
		nal, err := c.reader.NextNAL()
		if errors.Is(err, io.EOF) {
			c.eof = true
			break
		}
		if err != nil {
			return nil, err
		}
		if len(nal.Data) == 0 {
			continue
		}

		vcl := nal.UnitType >= h264reader.NalUnitTypeCodedSliceNonIdr && nal.UnitType <= h264reader.NalUnitTypeCodedSliceIdr
		if c.cur.vcl && startsH264AccessUnit(nal, vcl) {
			au := c.cur
			c.cur = &accessUnit{}
			c.add(nal, vcl)
			return c.clock.next(au, false), nil
		}
		c.add(nal, vcl)
	}

	if !c.cur.vcl {
		return nil, io.EOF
	}
	au := c.cur
	c.cur = &accessUnit{}
	return c.clock.next(au, false), nil
}

func (c *H264) add(nal *h264reader.NAL, vcl bool) {
	c.cur.nalus = append(c.cur.nalus, nal.Data)
	c.cur.vcl = c.cur.vcl || vcl
	c.cur.key = c.cur.key || nal.UnitType == h264reader.NalUnitTypeCodedSliceIdr
}

func startsH264AccessUnit(nal *h264reader.NAL, vcl bool) bool {
	switch nal.UnitType {
	case h264reader.NalUnitTypeAUD, h264reader.NalUnitTypeSPS, h264reader.NalUnitTypePPS, h264reader.NalUnitTypeSEI:
		return true
	}
	// first_mb_in_slice is ue(v); a leading 1 bit means zero.
	return vcl && len(nal.Data) > 1 && nal.Data[1]&0x80 != 0
}

func (c *H264) Close() error {
	return c.r.Close()
}
