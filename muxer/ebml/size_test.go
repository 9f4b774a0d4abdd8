package ebml

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUIntSize(t *testing.T) {
	cases := []struct {
		v    uint64
		want int
	}{
		{0, 1},
		{0xFF, 1},
		{0x100, 2},
		{0xFFFF, 2},
		{0x10000, 3},
		{0xFFFFFFFF, 4},
		{0x100000000, 5},
		{0xFFFFFFFFFFFFFF, 7},
		{0x100000000000000, 8},
		{^uint64(0), 8},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, UIntSize(c.v), "UIntSize(%#x)", c.v)
	}
}

func TestCodedUIntSize(t *testing.T) {
	cases := []struct {
		v    uint64
		want int
	}{
		{0, 1},
		{0x7E, 1},
		{0x7F, 2},
		{0x3FFE, 2},
		{0x3FFF, 3},
		{0x1FFFFE, 3},
		{0x1FFFFF, 4},
		{0xFFFFFFE, 4},
		{0xFFFFFFF, 5},
		{0x00FFFFFFFFFFFFFE, 8},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CodedUIntSize(c.v), "CodedUIntSize(%#x)", c.v)
	}
}

func TestIntSize(t *testing.T) {
	cases := []struct {
		v    int64
		want int
	}{
		{0, 1},
		{127, 1},
		{-128, 1},
		{128, 2},
		{-129, 2},
		{-1, 1},
		{32767, 2},
		{32768, 3},
		{-9223372036854775808, 8},
		{9223372036854775807, 8},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IntSize(c.v), "IntSize(%d)", c.v)
	}
}

func TestMasterElementSize(t *testing.T) {
	assert.Equal(t, uint64(5), MasterElementSize(IDCluster, 0))
	assert.Equal(t, uint64(5), MasterElementSize(IDCluster, 126))
	assert.Equal(t, uint64(6), MasterElementSize(IDCluster, 127))
	assert.Equal(t, uint64(2), MasterElementSize(IDBlockGroup, 100))
}

func TestElementSizesMatchWrites(t *testing.T) {
	w := NewBufferWriter()
	steps := []struct {
		size  uint64
		write func() error
	}{
		{ElementSizeUint(IDTrackNumber, 1), func() error { return WriteElementUint(w, IDTrackNumber, 1) }},
		{ElementSizeUint(IDTimecodeScale, 1000000), func() error { return WriteElementUint(w, IDTimecodeScale, 1000000) }},
		{ElementSizeUintFixed(IDTimecode, 3, 8), func() error { return WriteElementUintFixed(w, IDTimecode, 3, 8) }},
		{ElementSizeInt(IDReferenceBlock, -33), func() error { return WriteElementInt(w, IDReferenceBlock, -33) }},
		{ElementSizeFloat(IDDuration), func() error { return WriteElementFloat(w, IDDuration, 12.5) }},
		{ElementSizeString(IDMuxingApp, "mkvmux"), func() error { return WriteElementString(w, IDMuxingApp, "mkvmux") }},
		{ElementSizeBytes(IDCodecPrivate, make([]byte, 300)), func() error { return WriteElementBytes(w, IDCodecPrivate, make([]byte, 300)) }},
		{ElementSizeDate(IDDateUTC), func() error { return WriteElementDate(w, IDDateUTC, -5) }},
	}
	for i, s := range steps {
		before := w.Position()
		assert.NoError(t, s.write(), "step %d", i)
		assert.Equal(t, s.size, w.Position()-before, "step %d", i)
	}
}
