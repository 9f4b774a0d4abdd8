package ebml

import (
	"fmt"
	"io"
	"math"
)

// SerializeInt writes the low size bytes of value in big-endian order.
func SerializeInt(w io.Writer, value uint64, size int) error {
	if size < 1 || size > 8 {
		return fmt.Errorf("%w: %d byte integer", ErrValueTooLarge, size)
	}
	var buf [8]byte
	for i := 0; i < size; i++ {
		buf[i] = byte(value >> (8 * uint(size-1-i)))
	}
	_, err := w.Write(buf[:size])
	return err
}

// WriteUInt writes value as a size field of minimal width.
func WriteUInt(w io.Writer, value uint64) error {
	return WriteUIntSize(w, value, 0)
}

// WriteUIntSize writes value as a size field. A size of 0 picks the minimal
// width, otherwise exactly size bytes are written.
func WriteUIntSize(w io.Writer, value uint64, size int) error {
	if size < 0 || size > 8 {
		return fmt.Errorf("%w: %d byte size field", ErrValueTooLarge, size)
	}
	if size == 0 {
		size = CodedUIntSize(value)
	}
	if value > maxCoded(size) {
		return fmt.Errorf("%w: %d in %d byte size field", ErrValueTooLarge, value, size)
	}
	return SerializeInt(w, value|uint64(1)<<(7*uint(size)), size)
}

// WriteUnknownSize writes the 8 byte unknown size sentinel.
func WriteUnknownSize(w io.Writer) error {
	return SerializeInt(w, UnknownSize, 8)
}

// WriteID writes an element ID, telling the writer where the element starts.
func WriteID(w Writer, id uint64) error {
	if n, ok := w.(ElementStartNotifier); ok {
		n.ElementStartNotify(id, w.Position())
	}
	return SerializeInt(w, id, UIntSize(id))
}

// WriteMasterHeader writes the ID and size field of a master element.
func WriteMasterHeader(w Writer, id, payloadSize uint64) error {
	if err := WriteID(w, id); err != nil {
		return err
	}
	return WriteUInt(w, payloadSize)
}

// WriteMaster writes a master element header and then its children via body.
// The children must add up to exactly payloadSize bytes.
func WriteMaster(w Writer, id, payloadSize uint64, body func() error) error {
	if err := WriteMasterHeader(w, id, payloadSize); err != nil {
		return err
	}
	start := w.Position()
	if err := body(); err != nil {
		return err
	}
	if written := w.Position() - start; written != payloadSize {
		return fmt.Errorf("%w: element 0x%X wrote %d bytes, announced %d", ErrSizeMismatch, id, written, payloadSize)
	}
	return nil
}

func WriteElementUint(w Writer, id, value uint64) error {
	return WriteElementUintFixed(w, id, value, 0)
}

// WriteElementUintFixed writes an unsigned integer element stored in exactly
// fixed bytes. A fixed width of 0 uses the natural width.
func WriteElementUintFixed(w Writer, id, value uint64, fixed int) error {
	n := UIntSize(value)
	if fixed > 0 {
		if n > fixed {
			return fmt.Errorf("%w: %d in %d bytes", ErrValueTooLarge, value, fixed)
		}
		n = fixed
	}
	if err := WriteID(w, id); err != nil {
		return err
	}
	if err := WriteUInt(w, uint64(n)); err != nil {
		return err
	}
	return SerializeInt(w, value, n)
}

func WriteElementInt(w Writer, id uint64, value int64) error {
	n := IntSize(value)
	if err := WriteID(w, id); err != nil {
		return err
	}
	if err := WriteUInt(w, uint64(n)); err != nil {
		return err
	}
	return SerializeInt(w, uint64(value), n)
}

// WriteElementFloat writes a 4 byte IEEE-754 float element.
func WriteElementFloat(w Writer, id uint64, value float32) error {
	if err := WriteID(w, id); err != nil {
		return err
	}
	if err := WriteUInt(w, floatSize); err != nil {
		return err
	}
	return SerializeInt(w, uint64(math.Float32bits(value)), floatSize)
}

func WriteElementString(w Writer, id uint64, value string) error {
	if err := WriteID(w, id); err != nil {
		return err
	}
	if err := WriteUInt(w, uint64(len(value))); err != nil {
		return err
	}
	_, err := io.WriteString(w, value)
	return err
}

func WriteElementBytes(w Writer, id uint64, value []byte) error {
	if err := WriteID(w, id); err != nil {
		return err
	}
	if err := WriteUInt(w, uint64(len(value))); err != nil {
		return err
	}
	_, err := w.Write(value)
	return err
}

// WriteElementDate writes a date element: nanoseconds since 2001-01-01T00:00:00 UTC.
func WriteElementDate(w Writer, id uint64, value int64) error {
	if err := WriteID(w, id); err != nil {
		return err
	}
	if err := WriteUInt(w, dateSize); err != nil {
		return err
	}
	return SerializeInt(w, uint64(value), dateSize)
}

// WriteVoidElement writes a zero filled Void element of exactly size bytes
// and returns the number of bytes written.
func WriteVoidElement(w Writer, size uint64) (uint64, error) {
	for n := 1; n <= 8; n++ {
		header := uint64(UIntSize(IDVoid) + n)
		if size < header {
			break
		}
		payload := size - header
		if payload > maxCoded(n) {
			continue
		}
		if err := WriteID(w, IDVoid); err != nil {
			return 0, err
		}
		if err := WriteUIntSize(w, payload, n); err != nil {
			return 0, err
		}
		if err := writeZeros(w, payload); err != nil {
			return 0, err
		}
		return size, nil
	}
	return 0, fmt.Errorf("%w: %d bytes", ErrNoVoidFit, size)
}

func writeZeros(w io.Writer, n uint64) error {
	var zeros [4096]byte
	for n > 0 {
		chunk := n
		if chunk > uint64(len(zeros)) {
			chunk = uint64(len(zeros))
		}
		if _, err := w.Write(zeros[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
