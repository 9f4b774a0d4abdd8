package codecs

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Eyevinn/mp4ff/avc"
	"github.com/bluenviron/mediacommon/pkg/codecs/h264"
)

func EmitNALUH264Data(data []byte, withStartCode NALUFormatType, emit func(t h264.NALUType, data []byte)) error {
	r := bytes.NewReader(data)
	_, tye := GetNALUFormatType(data)
	if tye == NALUFormatNo {
		return ErrUnknownNALUFormat
	}

	return EmitNALUH264Reader(r, tye, withStartCode, emit)
}

func EmitNALUH264Reader(r io.Reader, typ NALUFormatType, withStartCode NALUFormatType, emit func(t h264.NALUType, data []byte)) error {
	emitFunc := func(data []byte) {
		if len(data) == 0 {
			return
		}

		firstByte := data[0]
		switch withStartCode {
		case NALUFormatNo:
		case NALUFormatAVCC, NALUFormatAnnexB:
			firstByte = data[4]
		}

		emit(H264NALUType(firstByte), data)
	}

	switch typ {
	case NALUFormatAnnexB:
		EmitNALUReaderAnnexB(r, withStartCode, emitFunc)
		return nil
	case NALUFormatAVCC:
		return EmitNALUReaderAVCC(r, withStartCode, emitFunc)
	default:
		return ErrUnknownNALUFormat
	}
}

func IsH264KeyFrame(t h264.NALUType) bool {
	return t == h264.NALUTypeIDR
}

func H264NALUType(firstByte byte) h264.NALUType {
	return h264.NALUType(firstByte & 0x1F)
}

// H264Param holds the parameter sets of an H.264 stream, without start codes.
type H264Param struct {
	sps []byte
	pps []byte
}

func NewH264Param(sps []byte, pps []byte) *H264Param {
	return &H264Param{sps: sps, pps: pps}
}

func (c *H264Param) GetSpsPps() ([]byte, []byte) {
	return c.sps, c.pps
}

// Dimensions returns the picture size announced by the SPS.
func (c *H264Param) Dimensions() (int, int, error) {
	var sps h264.SPS
	if err := sps.Unmarshal(c.sps); err != nil {
		return 0, 0, fmt.Errorf("h264 sps: %w", err)
	}
	return sps.Width(), sps.Height(), nil
}

// GetExtraData returns the AVCDecoderConfigurationRecord (avcC) with 4 byte NALU lengths.
func (c *H264Param) GetExtraData() ([]byte, error) {
	if len(c.sps) == 0 || len(c.pps) == 0 {
		return nil, ErrMissingParameterSets
	}
	rec, err := avc.CreateAVCDecConfRec([][]byte{c.sps}, [][]byte{c.pps}, true)
	if err != nil {
		return nil, fmt.Errorf("avcC: %w", err)
	}
	var buf bytes.Buffer
	if err := rec.Encode(&buf); err != nil {
		return nil, fmt.Errorf("avcC: %w", err)
	}
	return buf.Bytes(), nil
}
