// Copyright 2019 The ebml-go authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package webm

import (
	"github.com/greendrake/mkvmux/muxer/ebml"
	"github.com/greendrake/mkvmux/muxer/ebml/core"
)

// TrackEntry represents TrackEntry element struct.
// Zero valued optional fields are not written.
type TrackEntry struct {
	Name               string
	TrackNumber        uint64
	TrackUID           uint64
	CodecID            core.CodecType
	CodecDelay         uint64
	TrackType          core.TrackType
	DefaultDuration    uint64
	SeekPreRoll        uint64
	MaxBlockAdditionID uint64
	Language           string
	CodecPrivate       []byte
	Audio              *Audio
	Video              *Video
	ContentEncodings   []*ContentEncoding
}

func (c *TrackEntry) IsVideo() bool {
	return c.TrackType == core.TrackTypeVideo
}

func (c *TrackEntry) IsAudio() bool {
	return c.TrackType == core.TrackTypeAudio
}

func (c *TrackEntry) SetAudioSamplingFrequency(samplingFrequency float64) {
	if c == nil || c.Audio == nil {
		return
	}
	c.Audio.SamplingFrequency = samplingFrequency
}

func (c *TrackEntry) SetCodecPrivate(codecPrivate []byte) {
	c.CodecPrivate = append([]byte(nil), codecPrivate...)
}

// AddContentEncoding appends an encryption ContentEncoding with the given key id.
func (c *TrackEntry) AddContentEncoding(keyID []byte) *ContentEncoding {
	enc := NewContentEncoding()
	enc.EncKeyID = append([]byte(nil), keyID...)
	c.ContentEncodings = append(c.ContentEncodings, enc)
	return enc
}

func (c *TrackEntry) contentEncodingsPayloadSize() uint64 {
	var size uint64
	for _, e := range c.ContentEncodings {
		size += e.Size()
	}
	return size
}

func (c *TrackEntry) PayloadSize() uint64 {
	size := ebml.ElementSizeUint(ebml.IDTrackNumber, c.TrackNumber) +
		ebml.ElementSizeUint(ebml.IDTrackUID, c.TrackUID) +
		ebml.ElementSizeUint(ebml.IDTrackType, uint64(c.TrackType))
	if c.MaxBlockAdditionID > 0 {
		size += ebml.ElementSizeUint(ebml.IDMaxBlockAdditionID, c.MaxBlockAdditionID)
	}
	if c.CodecDelay > 0 {
		size += ebml.ElementSizeUint(ebml.IDCodecDelay, c.CodecDelay)
	}
	if c.SeekPreRoll > 0 {
		size += ebml.ElementSizeUint(ebml.IDSeekPreRoll, c.SeekPreRoll)
	}
	if c.DefaultDuration > 0 {
		size += ebml.ElementSizeUint(ebml.IDDefaultDuration, c.DefaultDuration)
	}
	if c.CodecID != "" {
		size += ebml.ElementSizeString(ebml.IDCodecID, c.CodecID)
	}
	if len(c.CodecPrivate) > 0 {
		size += ebml.ElementSizeBytes(ebml.IDCodecPrivate, c.CodecPrivate)
	}
	if c.Language != "" {
		size += ebml.ElementSizeString(ebml.IDLanguage, c.Language)
	}
	if c.Name != "" {
		size += ebml.ElementSizeString(ebml.IDName, c.Name)
	}
	if c.Video != nil {
		size += c.Video.Size()
	}
	if c.Audio != nil {
		size += c.Audio.Size()
	}
	if len(c.ContentEncodings) > 0 {
		enc := c.contentEncodingsPayloadSize()
		size += ebml.MasterElementSize(ebml.IDContentEncodings, enc) + enc
	}
	return size
}

func (c *TrackEntry) Size() uint64 {
	payload := c.PayloadSize()
	return ebml.MasterElementSize(ebml.IDTrackEntry, payload) + payload
}

func (c *TrackEntry) Write(w ebml.Writer) error {
	if c.TrackType == 0 || c.CodecID == "" {
		return ErrTrackIncomplete
	}
	if c.Video != nil {
		if err := c.Video.validate(); err != nil {
			return err
		}
	}
	return ebml.WriteMaster(w, ebml.IDTrackEntry, c.PayloadSize(), func() error {
		uints := []struct {
			id    uint64
			value uint64
			force bool
		}{
			{ebml.IDTrackNumber, c.TrackNumber, true},
			{ebml.IDTrackUID, c.TrackUID, true},
			{ebml.IDTrackType, uint64(c.TrackType), true},
			{ebml.IDMaxBlockAdditionID, c.MaxBlockAdditionID, false},
			{ebml.IDCodecDelay, c.CodecDelay, false},
			{ebml.IDSeekPreRoll, c.SeekPreRoll, false},
			{ebml.IDDefaultDuration, c.DefaultDuration, false},
		}
		for _, u := range uints {
			if !u.force && u.value == 0 {
				continue
			}
			if err := ebml.WriteElementUint(w, u.id, u.value); err != nil {
				return err
			}
		}
		if err := ebml.WriteElementString(w, ebml.IDCodecID, c.CodecID); err != nil {
			return err
		}
		if len(c.CodecPrivate) > 0 {
			if err := ebml.WriteElementBytes(w, ebml.IDCodecPrivate, c.CodecPrivate); err != nil {
				return err
			}
		}
		if c.Language != "" {
			if err := ebml.WriteElementString(w, ebml.IDLanguage, c.Language); err != nil {
				return err
			}
		}
		if c.Name != "" {
			if err := ebml.WriteElementString(w, ebml.IDName, c.Name); err != nil {
				return err
			}
		}
		if c.Video != nil {
			if err := c.Video.Write(w); err != nil {
				return err
			}
		}
		if c.Audio != nil {
			if err := c.Audio.Write(w); err != nil {
				return err
			}
		}
		if len(c.ContentEncodings) == 0 {
			return nil
		}
		return ebml.WriteMaster(w, ebml.IDContentEncodings, c.contentEncodingsPayloadSize(), func() error {
			for _, e := range c.ContentEncodings {
				if err := e.Write(w); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// Audio represents Audio element struct.
type Audio struct {
	SamplingFrequency       float64
	Channels                uint64
	OutputSamplingFrequency float64
	BitDepth                uint64
}

func (a *Audio) PayloadSize() uint64 {
	size := ebml.ElementSizeFloat(ebml.IDSamplingFrequency) +
		ebml.ElementSizeUint(ebml.IDChannels, a.channels())
	if a.OutputSamplingFrequency > 0 {
		size += ebml.ElementSizeFloat(ebml.IDOutputSamplingFrequency)
	}
	if a.BitDepth > 0 {
		size += ebml.ElementSizeUint(ebml.IDBitDepth, a.BitDepth)
	}
	return size
}

func (a *Audio) Size() uint64 {
	payload := a.PayloadSize()
	return ebml.MasterElementSize(ebml.IDAudio, payload) + payload
}

func (a *Audio) channels() uint64 {
	if a.Channels == 0 {
		return 1
	}
	return a.Channels
}

func (a *Audio) Write(w ebml.Writer) error {
	return ebml.WriteMaster(w, ebml.IDAudio, a.PayloadSize(), func() error {
		if err := ebml.WriteElementFloat(w, ebml.IDSamplingFrequency, float32(a.SamplingFrequency)); err != nil {
			return err
		}
		if err := ebml.WriteElementUint(w, ebml.IDChannels, a.channels()); err != nil {
			return err
		}
		if a.OutputSamplingFrequency > 0 {
			if err := ebml.WriteElementFloat(w, ebml.IDOutputSamplingFrequency, float32(a.OutputSamplingFrequency)); err != nil {
				return err
			}
		}
		if a.BitDepth > 0 {
			return ebml.WriteElementUint(w, ebml.IDBitDepth, a.BitDepth)
		}
		return nil
	})
}
