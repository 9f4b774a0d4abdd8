package ebml

import (
	"fmt"
	"io"
)

// Writer is the byte sink elements are written to.
// Position is the absolute offset of the next byte written. SetPosition is
// only usable when Seekable reports true.
type Writer interface {
	io.Writer
	Position() uint64
	SetPosition(pos uint64) error
	Seekable() bool
}

// ElementStartNotifier is implemented by writers that want to observe where
// each element starts.
type ElementStartNotifier interface {
	ElementStartNotify(id uint64, pos uint64)
}

// Element is implemented by every element type of the muxer.
// Write emits the element header followed by exactly PayloadSize bytes.
type Element interface {
	PayloadSize() uint64
	Size() uint64
	Write(w Writer) error
}

// ElementHook is called with the ID and position of every element started on a BufferWriter.
type ElementHook func(id uint64, pos uint64)

// BufferWriter is a seekable in-memory Writer.
type BufferWriter struct {
	buf   []byte
	pos   uint64
	hooks []ElementHook
}

func NewBufferWriter(hooks ...ElementHook) *BufferWriter {
	return &BufferWriter{hooks: hooks}
}

func (b *BufferWriter) Write(p []byte) (int, error) {
	end := b.pos + uint64(len(p))
	if end > uint64(len(b.buf)) {
		b.buf = append(b.buf, make([]byte, end-uint64(len(b.buf)))...)
	}
	copy(b.buf[b.pos:end], p)
	b.pos = end
	return len(p), nil
}

func (b *BufferWriter) Position() uint64 {
	return b.pos
}

func (b *BufferWriter) SetPosition(pos uint64) error {
	if pos > uint64(len(b.buf)) {
		return fmt.Errorf("ebml: position %d past end of buffer (%d)", pos, len(b.buf))
	}
	b.pos = pos
	return nil
}

func (b *BufferWriter) Seekable() bool {
	return true
}

func (b *BufferWriter) ElementStartNotify(id uint64, pos uint64) {
	for _, h := range b.hooks {
		h(id, pos)
	}
}

// Bytes returns the whole buffer regardless of the current position.
func (b *BufferWriter) Bytes() []byte {
	return b.buf
}

func (b *BufferWriter) Len() int {
	return len(b.buf)
}

type seekWriter struct {
	w   io.WriteSeeker
	pos uint64
}

type streamWriter struct {
	w   io.Writer
	pos uint64
}

// NewWriter wraps w. The result is seekable when w is an io.WriteSeeker;
// positions are absolute offsets in w.
func NewWriter(w io.Writer) (Writer, error) {
	ws, ok := w.(io.WriteSeeker)
	if !ok {
		return NewStreamWriter(w), nil
	}
	off, err := ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	return &seekWriter{w: ws, pos: uint64(off)}, nil
}

// NewStreamWriter wraps w as a non-seekable Writer, even if w could seek.
func NewStreamWriter(w io.Writer) Writer {
	return &streamWriter{w: w}
}

func (s *seekWriter) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	s.pos += uint64(n)
	return n, err
}

func (s *seekWriter) Position() uint64 {
	return s.pos
}

func (s *seekWriter) SetPosition(pos uint64) error {
	if _, err := s.w.Seek(int64(pos), io.SeekStart); err != nil {
		return err
	}
	s.pos = pos
	return nil
}

func (s *seekWriter) Seekable() bool {
	return true
}

func (s *streamWriter) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	s.pos += uint64(n)
	return n, err
}

func (s *streamWriter) Position() uint64 {
	return s.pos
}

func (s *streamWriter) SetPosition(uint64) error {
	return ErrNotSeekable
}

func (s *streamWriter) Seekable() bool {
	return false
}

type nonSeekable struct {
	Writer
}

// NonSeekable hides the seeking capability of w.
func NonSeekable(w Writer) Writer {
	return &nonSeekable{Writer: w}
}

func (n *nonSeekable) SetPosition(uint64) error {
	return ErrNotSeekable
}

func (n *nonSeekable) Seekable() bool {
	return false
}

func (n *nonSeekable) ElementStartNotify(id uint64, pos uint64) {
	if e, ok := n.Writer.(ElementStartNotifier); ok {
		e.ElementStartNotify(id, pos)
	}
}
