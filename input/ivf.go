package input

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/greendrake/mkvmux/frame"
	"github.com/greendrake/mkvmux/muxer/ebml/matroska"
	"github.com/pion/webrtc/v3/pkg/media/ivfreader"
)

// IVF reads VP8, VP9 or AV1 frames from an IVF container.
type IVF struct {
	r      io.ReadCloser
	reader *ivfreader.IVFReader
	track  func(width, height int) matroska.Track
	isKey  func([]byte) bool
	width  int
	height int
	num    uint64
	den    uint64
}

// NewIVF parses the IVF file header from r.
func NewIVF(r io.ReadCloser) (*IVF, error) {
	reader, header, err := ivfreader.NewWith(r)
	if err != nil {
		return nil, err
	}
	if header.TimebaseDenominator == 0 || header.TimebaseNumerator == 0 {
		return nil, fmt.Errorf("ivf timebase %d/%d", header.TimebaseNumerator, header.TimebaseDenominator)
	}

	c := &IVF{
		r:      r,
		reader: reader,
		num:    uint64(header.TimebaseNumerator),
		den:    uint64(header.TimebaseDenominator),
		width:  int(header.Width),
		height: int(header.Height),
	}
	switch header.FourCC {
	case "VP80":
		c.track, c.isKey = matroska.NewTrackVP8, matroska.IsVP8KeyFrame
	case "VP90":
		c.track, c.isKey = matroska.NewTrackVP9, matroska.IsVP9KeyFrame
	case "AV01":
		c.track, c.isKey = matroska.NewTrackAV1, matroska.IsAV1KeyFrame
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedFourCC, header.FourCC)
	}
	return c, nil
}

func (c *IVF) Track() matroska.Track { return c.track(c.width, c.height) }

func (c *IVF) Next() (*frame.Frame, error) {
	b, h, err := c.reader.ParseNextFrame()
	if errors.Is(err, io.ErrUnexpectedEOF) {
		// truncated trailing frame
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}
	return &frame.Frame{
		IsVideo:         true,
		IsVideoKeyFrame: c.isKey(b),
		Timestamp:       c.duration(h.Timestamp),
		Duration:        c.duration(1),
		Data:            b,
	}, nil
}

// duration converts timebase ticks to a duration.
func (c *IVF) duration(ticks uint64) time.Duration {
	return time.Duration(ticks*c.num) * time.Second / time.Duration(c.den)
}

func (c *IVF) Close() error {
	return c.r.Close()
}
