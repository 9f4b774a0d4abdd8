// Package ebml implements the EBML primitives used by the Matroska muxer:
// element widths, variable length size fields, typed element writers,
// Void padding and the sinks elements are written to.
package ebml

// UnknownSize is the 8 byte size field of an element whose length is not known
// when its header is written.
const UnknownSize uint64 = 0x01FFFFFFFFFFFFFF

const (
	floatSize = 4
	dateSize  = 8
)

// UIntSize returns the number of bytes needed to store v.
func UIntSize(v uint64) int {
	switch {
	case v < 0x100:
		return 1
	case v < 0x10000:
		return 2
	case v < 0x1000000:
		return 3
	case v < 0x100000000:
		return 4
	case v < 0x10000000000:
		return 5
	case v < 0x1000000000000:
		return 6
	case v < 0x100000000000000:
		return 7
	}
	return 8
}

// CodedUIntSize returns the width of v encoded as a size field.
// The all-ones pattern of each width is reserved, so a width N holds up to 2^(7N)-2.
// Values past the 8 byte range report 8 and are rejected when written.
func CodedUIntSize(v uint64) int {
	for n := 1; n < 8; n++ {
		if v <= maxCoded(n) {
			return n
		}
	}
	return 8
}

func maxCoded(n int) uint64 {
	return (uint64(1) << (7 * uint(n))) - 2
}

// IntSize returns the number of bytes needed to store v in two's complement.
func IntSize(v int64) int {
	if v < 0 {
		v = ^v
	}
	return UIntSize(uint64(v) << 1)
}

// MasterElementSize returns the size of the ID and size field of a master
// element with the given payload.
func MasterElementSize(id, payloadSize uint64) uint64 {
	return uint64(UIntSize(id) + CodedUIntSize(payloadSize))
}

// ElementSizeUint returns the full encoded size of an unsigned integer element.
func ElementSizeUint(id, value uint64) uint64 {
	return ElementSizeUintFixed(id, value, 0)
}

// ElementSizeUintFixed is ElementSizeUint with the value stored in fixed bytes.
// A fixed width of 0 uses the natural width.
func ElementSizeUintFixed(id, value uint64, fixed int) uint64 {
	n := UIntSize(value)
	if fixed > 0 {
		n = fixed
	}
	return uint64(UIntSize(id) + CodedUIntSize(uint64(n)) + n)
}

func ElementSizeInt(id uint64, value int64) uint64 {
	n := IntSize(value)
	return uint64(UIntSize(id) + CodedUIntSize(uint64(n)) + n)
}

func ElementSizeFloat(id uint64) uint64 {
	return uint64(UIntSize(id) + 1 + floatSize)
}

func ElementSizeString(id uint64, s string) uint64 {
	return uint64(UIntSize(id)+CodedUIntSize(uint64(len(s)))) + uint64(len(s))
}

func ElementSizeBytes(id uint64, b []byte) uint64 {
	return uint64(UIntSize(id)+CodedUIntSize(uint64(len(b)))) + uint64(len(b))
}

func ElementSizeDate(id uint64) uint64 {
	return uint64(UIntSize(id) + 1 + dateSize)
}
