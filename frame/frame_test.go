package frame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameEnd(t *testing.T) {
	f := &Frame{Timestamp: time.Second, Duration: 40 * time.Millisecond}
	assert.Equal(t, 1040*time.Millisecond, f.End())
}

func TestFrameString(t *testing.T) {
	cases := []struct {
		frame *Frame
		want  string
	}{
		{&Frame{IsVideo: true, IsVideoKeyFrame: true, Data: make([]byte, 3)}, "video key frame #0 0s+0s (3 bytes)"},
		{&Frame{Source: 1, IsVideo: true, Timestamp: time.Second}, "video frame #1 1s+0s (0 bytes)"},
		{&Frame{Source: 2, IsAudio: true, Duration: 20 * time.Millisecond}, "audio frame #2 0s+20ms (0 bytes)"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.frame.String())
	}
}
