package core

import "strings"

// TrackType https://www.matroska.org/technical/elements.html
// 1 - video, 2 - audio, 3 - complex, 16 - logo, 17 - subtitle, 18 - buttons, 32 - control, 33 - metadata
type TrackType = uint8

const (
	TrackTypeVideo    TrackType = 1
	TrackTypeAudio    TrackType = 2
	TrackTypeComplex  TrackType = 3
	TrackTypeLogo     TrackType = 16
	TrackTypeSubtitle TrackType = 17
	TrackTypeButtons  TrackType = 18
	TrackTypeControl  TrackType = 32
	TrackTypeMetadata TrackType = 33
)

// Official tags. See https://www.matroska.org/technical/tagging.html
const (
	TagArtist            string = "ARTIST"
	TagComment           string = "COMMENT"
	TagCopyright         string = "COPYRIGHT"
	TagDateRecorded      string = "DATE_RECORDED"
	TagDescription       string = "DESCRIPTION"
	TagEncodedBy         string = "ENCODED_BY"
	TagEncoder           string = "ENCODER"
	TagEncoderSettings   string = "ENCODER_SETTINGS"
	TagFPS               string = "FPS"
	TagKeywords          string = "KEYWORDS"
	TagPartNumber        string = "PART_NUMBER"
	TagRecordingLocation string = "RECORDING_LOCATION"
	TagSubject           string = "SUBJECT"
	TagSummary           string = "SUMMARY"
	TagTitle             string = "TITLE"
	TagTotalParts        string = "TOTAL_PARTS"
	TagURL               string = "URL"
)

const (
	CodecTypeVideo    = CodecType("Video")
	CodecTypeAudio    = CodecType("Audio")
	CodecTypeSubtitle = CodecType("Subtitle")
	CodecTypeButton   = CodecType("Button")
)

type CodecType = string

const (
	AudioCodecAAC      = "A_AAC"
	AudioCodecAAC4LC   = "A_AAC/MPEG4/LC"
	AudioCodecAC3      = "A_AC3"
	AudioCodecFLAC     = "A_FLAC"
	AudioCodecMP3      = "A_MPEG/L3"
	AudioCodecMSACM    = "A_MS/ACM"
	AudioCodecOPUS     = "A_OPUS"
	AudioCodecPCM      = "A_PCM/INT/LIT"
	AudioCodecPCMFLOAT = "A_PCM/FLOAT/IEEE"
	AudioCodecVORBIS   = "A_VORBIS"

	VideoCodecAV1          = "V_AV1"
	VideoCodecMPEG4ISOAVC  = "V_MPEG4/ISO/AVC"  // H264
	VideoCodecMPEGHISOHEVC = "V_MPEGH/ISO/HEVC" // H265
	VideoCodecVP8          = "V_VP8"
	VideoCodecVP9          = "V_VP9"

	SubtitleCodecTEXTUTF8   = "S_TEXT/UTF8"
	SubtitleCodecTEXTWEBVTT = "S_TEXT/WEBVTT"

	ButtonCodecVOBBTN = "B_VOBBTN"
)

// CodecID splits a codec id such as "A_AAC/MPEG4/LC" into its kind, major
// and suffix parts. ok is false when s has no known kind prefix.
func CodecID(s string) (prefix CodecType, major, suffix string, ok bool) {
	if len(s) < 3 || s[1] != '_' {
		return "", "", "", false
	}
	switch s[:2] {
	case "V_":
		prefix = CodecTypeVideo
	case "A_":
		prefix = CodecTypeAudio
	case "S_":
		prefix = CodecTypeSubtitle
	case "B_":
		prefix = CodecTypeButton
	default:
		return "", "", "", false
	}
	j := strings.Index(s, "/")
	if j == -1 {
		return prefix, s[2:], "", true
	}
	return prefix, s[2:j], s[j+1:], true
}

// CodecTrackType returns the track type matching the kind of codec id s.
func CodecTrackType(s string) (TrackType, bool) {
	prefix, _, _, ok := CodecID(s)
	if !ok {
		return 0, false
	}
	switch prefix {
	case CodecTypeVideo:
		return TrackTypeVideo, true
	case CodecTypeAudio:
		return TrackTypeAudio, true
	case CodecTypeSubtitle:
		return TrackTypeSubtitle, true
	default:
		return TrackTypeButtons, true
	}
}
