package codecs

import (
	"testing"

	"github.com/bluenviron/mediacommon/pkg/codecs/h264"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSPS = []byte{
		0x67, 0x64, 0x00, 0x0c, 0xac, 0x3b, 0x50, 0xb0,
		0x4b, 0x42, 0x00, 0x00, 0x03, 0x00, 0x02, 0x00,
		0x00, 0x03, 0x00, 0x3d, 0x08,
	}
	testPPS = []byte{0x68, 0xee, 0x3c, 0x80}
)

func TestGetNALUFormatType(t *testing.T) {
	testCases := map[string]struct {
		data   []byte
		n      int
		format NALUFormatType
	}{
		"AnnexB4":       {[]byte{0, 0, 0, 1, 0x65, 0x88}, 4, NALUFormatAnnexB},
		"AnnexB3":       {[]byte{0, 0, 1, 0x65, 0x88}, 3, NALUFormatAnnexB},
		"AVCC":          {[]byte{0, 0, 0, 2, 0x65, 0x88, 0, 0, 0, 1, 0x41}, 0, NALUFormatAVCC},
		"Short":         {[]byte{0, 0, 1}, 0, NALUFormatNo},
		"Raw":           {[]byte{0x65, 0x88, 0x84, 0x00}, 0, NALUFormatNo},
		"AVCCTruncated": {[]byte{0, 0, 0, 9, 0x65, 0x88}, 0, NALUFormatNo},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			n, format := GetNALUFormatType(tc.data)
			assert.Equal(t, tc.n, n)
			assert.Equal(t, tc.format, format)
		})
	}
}

func TestEmitNALUData(t *testing.T) {
	annexB := []byte{
		0, 0, 0, 1, 0x67, 0x01, 0x02,
		0, 0, 1, 0x68, 0x03,
		0, 0, 0, 1, 0x65, 0x04, 0x05, 0x06,
	}
	raw := [][]byte{
		{0x67, 0x01, 0x02},
		{0x68, 0x03},
		{0x65, 0x04, 0x05, 0x06},
	}

	var got [][]byte
	require.NoError(t, EmitNALUData(annexB, NALUFormatNo, func(data []byte) {
		got = append(got, data)
	}))
	assert.Equal(t, raw, got)

	avcc := ConvertAnnexBToAVCCData(annexB)
	assert.Equal(t, []byte{
		0, 0, 0, 3, 0x67, 0x01, 0x02,
		0, 0, 0, 2, 0x68, 0x03,
		0, 0, 0, 4, 0x65, 0x04, 0x05, 0x06,
	}, avcc)

	got = nil
	require.NoError(t, EmitNALUData(avcc, NALUFormatAnnexB, func(data []byte) {
		got = append(got, data)
	}))
	require.Len(t, got, 3)
	assert.Equal(t, []byte{0, 0, 0, 1, 0x68, 0x03}, got[1])

	assert.ErrorIs(t, EmitNALUData([]byte{0x65, 0x88, 0x84, 0x00}, NALUFormatNo, func([]byte) {}), ErrUnknownNALUFormat)
}

func TestEmitNALUH264Data(t *testing.T) {
	var types []h264.NALUType
	data := append(append([]byte{0, 0, 0, 1}, testSPS...), 0, 0, 0, 1, 0x68, 0xee, 0x3c, 0x80, 0, 0, 0, 1, 0x65, 0x88)
	require.NoError(t, EmitNALUH264Data(data, NALUFormatAVCC, func(typ h264.NALUType, _ []byte) {
		types = append(types, typ)
	}))
	assert.Equal(t, []h264.NALUType{h264.NALUTypeSPS, h264.NALUTypePPS, h264.NALUTypeIDR}, types)
	assert.True(t, IsH264KeyFrame(types[2]))
	assert.False(t, IsH264KeyFrame(types[0]))
}

func TestH264Param(t *testing.T) {
	p := NewH264Param(testSPS, testPPS)

	w, h, err := p.Dimensions()
	require.NoError(t, err)
	assert.Equal(t, 352, w)
	assert.Equal(t, 288, h)

	extra, err := p.GetExtraData()
	require.NoError(t, err)
	require.Greater(t, len(extra), 6)
	assert.Equal(t, []byte{0x01, 0x64, 0x00, 0x0c}, extra[:4])
	assert.Equal(t, byte(0x03), extra[4]&0x03, "NALU length size must be 4")

	_, err = NewH264Param(testSPS, nil).GetExtraData()
	assert.ErrorIs(t, err, ErrMissingParameterSets)
}

func TestH265ParamMissing(t *testing.T) {
	_, err := NewH265Param(nil, []byte{0x42, 0x01}, nil).GetExtraData()
	assert.ErrorIs(t, err, ErrMissingParameterSets)
}
