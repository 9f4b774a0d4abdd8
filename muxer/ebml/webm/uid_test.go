package webm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterUID(t *testing.T) {
	c := NewCounterUID(10)
	assert.Equal(t, uint64(11), c.UID())
	assert.Equal(t, uint64(12), c.UID())

	c = NewCounterUID(^uint64(0))
	assert.Equal(t, uint64(1), c.UID(), "zero is skipped on wrap")
}

func TestRandomUID(t *testing.T) {
	seen := map[uint64]bool{}
	for i := 0; i < 100; i++ {
		v := RandomUID.UID()
		assert.NotZero(t, v)
		seen[v] = true
	}
	assert.Len(t, seen, 100)
	assert.Len(t, NewSegmentUID(), 16)
}
