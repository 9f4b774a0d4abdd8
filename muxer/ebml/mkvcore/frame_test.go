package mkvcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameIsValid(t *testing.T) {
	cases := []struct {
		name  string
		frame func() *Frame
		valid bool
	}{
		{"key", func() *Frame { return NewFrame([]byte{1}, 1, 0, true) }, true},
		{"delta simple block", func() *Frame { return NewFrame([]byte{1}, 1, 0, false) }, true},
		{"empty data", func() *Frame { return NewFrame(nil, 1, 0, true) }, false},
		{"track zero", func() *Frame { return NewFrame([]byte{1}, 0, 0, true) }, false},
		{"track too large", func() *Frame { return NewFrame([]byte{1}, MaxTrackNumber+1, 0, true) }, false},
		{"delta block group without reference", func() *Frame {
			f := NewFrame([]byte{1}, 1, 0, false)
			f.SetDuration(10)
			return f
		}, false},
		{"delta block group with reference", func() *Frame {
			f := NewFrame([]byte{1}, 1, 10, false)
			f.SetDuration(10)
			f.SetReferenceBlockTimestamp(0)
			return f
		}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.valid, c.frame().IsValid())
		})
	}
}

func TestFrameCanBeSimpleBlock(t *testing.T) {
	f := NewFrame([]byte{1}, 1, 0, true)
	assert.True(t, f.CanBeSimpleBlock())

	f.SetDiscardPadding(100)
	assert.False(t, f.CanBeSimpleBlock())
	f.SetDiscardPadding(0)

	f.AddAdditionalData([]byte{2}, 1)
	assert.False(t, f.CanBeSimpleBlock())

	f = NewFrame([]byte{1}, 1, 0, true)
	f.SetDuration(0)
	assert.False(t, f.CanBeSimpleBlock(), "an explicit zero duration still needs a BlockGroup")
}

func TestFrameCopiesData(t *testing.T) {
	data := []byte{1, 2, 3}
	f := NewFrame(data, 1, 0, true)
	data[0] = 9
	assert.Equal(t, []byte{1, 2, 3}, f.Data())

	c := f.clone()
	c.Data()[1] = 9
	assert.Equal(t, []byte{1, 2, 3}, f.Data())
}
