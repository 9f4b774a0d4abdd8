package webm

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/google/uuid"
)

// UIDGenerator hands out the non zero UIDs of tracks and chapters.
type UIDGenerator interface {
	UID() uint64
}

type randomUID struct{}

// RandomUID draws UIDs from random UUIDs.
var RandomUID UIDGenerator = randomUID{}

func (randomUID) UID() uint64 {
	for {
		id := uuid.New()
		if v := binary.BigEndian.Uint64(id[:8]); v != 0 {
			return v
		}
	}
}

// CounterUID hands out increasing UIDs starting after its initial value.
type CounterUID struct {
	n atomic.Uint64
}

func NewCounterUID(start uint64) *CounterUID {
	c := &CounterUID{}
	c.n.Store(start)
	return c
}

func (c *CounterUID) UID() uint64 {
	v := c.n.Add(1)
	if v == 0 {
		v = c.n.Add(1)
	}
	return v
}

// NewSegmentUID returns a random 16 byte SegmentUID.
func NewSegmentUID() []byte {
	id := uuid.New()
	return id[:]
}
