package codecs

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

type NALUFormatType int

const (
	NALUFormatNo     NALUFormatType = 0
	NALUFormatAVCC   NALUFormatType = 1 // length
	NALUFormatAnnexB NALUFormatType = 2 // 00 00 00 01 / 00 00 01
)

var startCode = []byte{0x00, 0x00, 0x00, 0x01}

// GetNALUFormatType returns the start code length and the framing of data.
func GetNALUFormatType(data []byte) (int, NALUFormatType) {
	if len(data) < 4 {
		return 0, NALUFormatNo
	}

	if bytes.Equal(startCode, data[:4]) {
		return 4, NALUFormatAnnexB
	}

	if NALUAVCCFormatValid(data) {
		return 0, NALUFormatAVCC
	}

	if bytes.Equal(startCode[1:], data[:3]) {
		return 3, NALUFormatAnnexB
	}

	return 0, NALUFormatNo
}

// NALUAVCCFormatValid reports whether data is a sequence of 4 byte length prefixed NALUs.
func NALUAVCCFormatValid(data []byte) bool {
	for len(data) > 0 {
		if len(data) < 4 {
			return false
		}
		n := uint64(binary.BigEndian.Uint32(data))
		if n == 0 || n > uint64(len(data)-4) {
			return false
		}
		data = data[4+n:]
	}
	return true
}

func prefixNALU(data []byte, withStartCode NALUFormatType) []byte {
	switch withStartCode {
	case NALUFormatAVCC:
		out := make([]byte, 4, 4+len(data))
		binary.BigEndian.PutUint32(out, uint32(len(data)))
		return append(out, data...)
	case NALUFormatAnnexB:
		out := make([]byte, 4, 4+len(data))
		copy(out, startCode)
		return append(out, data...)
	default:
		return data
	}
}

func EmitNALUData(data []byte, withStartCode NALUFormatType, emit func(data []byte)) error {
	r := bytes.NewReader(data)
	_, tye := GetNALUFormatType(data)
	switch tye {
	case NALUFormatAnnexB:
		EmitNALUReaderAnnexB(r, withStartCode, emit)
		return nil
	case NALUFormatAVCC:
		return EmitNALUReaderAVCC(r, withStartCode, emit)
	default:
		return ErrUnknownNALUFormat
	}
}

// EmitNALUReaderAnnexB 00 00 00 01
func EmitNALUReaderAnnexB(r io.Reader, withStartCode NALUFormatType, emit func(data []byte)) {
	rr := bufio.NewReader(r)

	var (
		zeroCount = 0
		found     = false
		nalu      *bytes.Buffer
	)

	for {
		b, err := rr.ReadByte()
		if err != nil {
			break
		}

		if found {
			_ = nalu.WriteByte(b)
		}

		if b == 0 {
			zeroCount++
			continue
		} else if b == 1 && zeroCount >= 2 {
			startCodeCount := zeroCount + 1
			if nalu != nil && nalu.Len() > startCodeCount {
				emit(prefixNALU(nalu.Bytes()[:nalu.Len()-startCodeCount], withStartCode))
			}

			found = true
			nalu = bytes.NewBuffer(nil)
			zeroCount = 0
			continue
		}

		zeroCount = 0
	}

	if nalu != nil && nalu.Len() > 0 {
		emit(prefixNALU(nalu.Bytes(), withStartCode))
	}
}

// EmitNALUReaderAVCC length
func EmitNALUReaderAVCC(r io.Reader, withStartCode NALUFormatType, emit func(data []byte)) error {
	buff := make([]byte, 4)

	for {
		if _, err := io.ReadFull(r, buff); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("nalu length: %w", err)
		}

		data := make([]byte, binary.BigEndian.Uint32(buff))
		if _, err := io.ReadFull(r, data); err != nil {
			return fmt.Errorf("nalu data: %w", err)
		}

		emit(prefixNALU(data, withStartCode))
	}
}

// ConvertAnnexBToAVCCData 00 00 00 01 -> length
func ConvertAnnexBToAVCCData(data []byte) []byte {
	var avcc bytes.Buffer
	EmitNALUReaderAnnexB(bytes.NewReader(data), NALUFormatAVCC, func(nalu []byte) {
		if len(nalu) > 4 {
			avcc.Write(nalu)
		}
	})
	return avcc.Bytes()
}
