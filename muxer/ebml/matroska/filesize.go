package matroska

import "io"

// writerFileSize counts the extent of what was written to w, measured from
// the offset w was at when wrapped.
type writerFileSize struct {
	w     io.WriteCloser
	pos   int64
	start int64
	size  int64
}

func newWriterFileSize(w io.WriteCloser, seek bool) (*writerFileSize, error) {
	c := &writerFileSize{w: w}
	if s, ok := w.(io.Seeker); ok && seek {
		off, err := s.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, err
		}
		c.pos, c.start, c.size = off, off, off
	}
	return c, nil
}

func (c *writerFileSize) FileSize() int {
	return int(c.size - c.start)
}

func (c *writerFileSize) Write(p []byte) (n int, err error) {
	n, err = c.w.Write(p)
	c.pos += int64(n)
	if c.pos > c.size {
		c.size = c.pos
	}
	return
}

func (c *writerFileSize) Seek(offset int64, whence int) (int64, error) {
	s, ok := c.w.(io.Seeker)
	if !ok {
		return 0, ErrNotSeekable
	}
	off, err := s.Seek(offset, whence)
	if err != nil {
		return 0, err
	}
	c.pos = off
	return off, nil
}

func (c *writerFileSize) Close() error {
	return c.w.Close()
}
