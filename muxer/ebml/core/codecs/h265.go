package codecs

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bluenviron/mediacommon/pkg/codecs/h265"
	"github.com/deepch/vdk/codec/h265parser"
)

func EmitNALUH265Data(data []byte, withStartCode NALUFormatType, emit func(t h265.NALUType, data []byte)) error {
	r := bytes.NewReader(data)
	_, tye := GetNALUFormatType(data)
	if tye == NALUFormatNo {
		return ErrUnknownNALUFormat
	}

	return EmitNALUH265Reader(r, tye, withStartCode, emit)
}

func EmitNALUH265Reader(r io.Reader, typ NALUFormatType, withStartCode NALUFormatType, emit func(t h265.NALUType, data []byte)) error {
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

		emit(H265NALUType(firstByte), data)
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

func IsH265KeyFrame(t h265.NALUType) bool {
	// P: NALUType_TRAIL_R
	if t == h265.NALUType_IDR_W_RADL || t == h265.NALUType_IDR_N_LP || t == h265.NALUType_CRA_NUT {
		return true
	}
	return false
}

func H265NALUType(firstByte byte) h265.NALUType {
	return h265.NALUType((firstByte & 0x7E) >> 1)
}

// H265Param holds the parameter sets of an HEVC stream, without start codes.
type H265Param struct {
	vps []byte
	sps []byte
	pps []byte
}

func NewH265Param(vps []byte, sps []byte, pps []byte) *H265Param {
	return &H265Param{vps: vps, sps: sps, pps: pps}
}

func (c *H265Param) GetVpsSpsPps() ([]byte, []byte, []byte) {
	return c.vps, c.sps, c.pps
}

func (c *H265Param) GetCodecData() (h265parser.CodecData, error) {
	if len(c.vps) == 0 || len(c.sps) < 6 || len(c.pps) == 0 {
		return h265parser.CodecData{}, ErrMissingParameterSets
	}
	codecData, err := h265parser.NewCodecDataFromVPSAndSPSAndPPS(c.vps, c.sps, c.pps)
	if err != nil {
		return h265parser.CodecData{}, fmt.Errorf("hvcC: %w", err)
	}
	return codecData, nil
}

// GetExtraData returns the HEVCDecoderConfigurationRecord (hvcC).
func (c *H265Param) GetExtraData() ([]byte, error) {
	codecData, err := c.GetCodecData()
	if err != nil {
		return nil, err
	}
	return codecData.AVCDecoderConfRecordBytes(), nil
}
