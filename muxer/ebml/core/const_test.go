package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodecID(t *testing.T) {
	testCases := map[string]struct {
		id     string
		prefix CodecType
		major  string
		suffix string
		ok     bool
	}{
		"Plain":   {VideoCodecVP8, CodecTypeVideo, "VP8", "", true},
		"Suffix":  {AudioCodecAAC4LC, CodecTypeAudio, "AAC", "MPEG4/LC", true},
		"Text":    {SubtitleCodecTEXTUTF8, CodecTypeSubtitle, "TEXT", "UTF8", true},
		"Short":   {"V", "", "", "", false},
		"Unknown": {"X_FOO", "", "", "", false},
		"NoSep":   {"VP8", "", "", "", false},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			prefix, major, suffix, ok := CodecID(tc.id)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.prefix, prefix)
			assert.Equal(t, tc.major, major)
			assert.Equal(t, tc.suffix, suffix)
		})
	}
}

func TestCodecTrackType(t *testing.T) {
	typ, ok := CodecTrackType(VideoCodecMPEG4ISOAVC)
	assert.True(t, ok)
	assert.Equal(t, TrackTypeVideo, typ)

	typ, ok = CodecTrackType(AudioCodecOPUS)
	assert.True(t, ok)
	assert.Equal(t, TrackTypeAudio, typ)

	_, ok = CodecTrackType("")
	assert.False(t, ok)
}
