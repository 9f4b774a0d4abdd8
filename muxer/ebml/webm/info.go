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
	"time"

	"github.com/greendrake/mkvmux/muxer/ebml"
)

// DefaultTimecodeScale makes timecodes count milliseconds.
const DefaultTimecodeScale = 1000000

// DefaultApp is written as MuxingApp and WritingApp unless set otherwise.
const DefaultApp = "mkvmux"

// dateEpoch is the origin of DateUTC.
var dateEpoch = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

// SegmentInfo represents Info element struct.
// Duration is in timecode units and only written when positive.
type SegmentInfo struct {
	TimecodeScale uint64
	Title         string
	MuxingApp     string
	WritingApp    string
	SegmentUID    []byte
	PrevUID       []byte

	duration        float64
	date            int64
	dateSet         bool
	durationPos     uint64
	durationWritten bool
}

func NewSegmentInfo() *SegmentInfo {
	return &SegmentInfo{
		TimecodeScale: DefaultTimecodeScale,
		MuxingApp:     DefaultApp,
		WritingApp:    DefaultApp,
		SegmentUID:    NewSegmentUID(),
	}
}

func (c *SegmentInfo) GetDuration() time.Duration {
	return time.Duration(c.duration * float64(c.TimecodeScale))
}

func (c *SegmentInfo) Duration() float64            { return c.duration }
func (c *SegmentInfo) SetDuration(duration float64) { c.duration = duration }

// SetDateUTC sets the DateUTC element.
func (c *SegmentInfo) SetDateUTC(date time.Time) {
	c.date = date.UTC().Sub(dateEpoch).Nanoseconds()
	c.dateSet = true
}

// DateUTC returns the DateUTC element and whether it is set.
func (c *SegmentInfo) DateUTC() (time.Time, bool) {
	return dateEpoch.Add(time.Duration(c.date)), c.dateSet
}

func (c *SegmentInfo) GetTimecodeScale() uint64 {
	return c.TimecodeScale
}

func (c *SegmentInfo) PayloadSize() uint64 {
	size := ebml.ElementSizeUint(ebml.IDTimecodeScale, c.TimecodeScale)
	if len(c.SegmentUID) > 0 {
		size += ebml.ElementSizeBytes(ebml.IDSegmentUID, c.SegmentUID)
	}
	if len(c.PrevUID) > 0 {
		size += ebml.ElementSizeBytes(ebml.IDPrevUID, c.PrevUID)
	}
	if c.duration > 0 {
		size += ebml.ElementSizeFloat(ebml.IDDuration)
	}
	if c.dateSet {
		size += ebml.ElementSizeDate(ebml.IDDateUTC)
	}
	if c.Title != "" {
		size += ebml.ElementSizeString(ebml.IDTitle, c.Title)
	}
	size += ebml.ElementSizeString(ebml.IDMuxingApp, c.MuxingApp)
	size += ebml.ElementSizeString(ebml.IDWritingApp, c.WritingApp)
	return size
}

func (c *SegmentInfo) Size() uint64 {
	payload := c.PayloadSize()
	return ebml.MasterElementSize(ebml.IDInfo, payload) + payload
}

func (c *SegmentInfo) Write(w ebml.Writer) error {
	if c.MuxingApp == "" || c.WritingApp == "" {
		return ErrMissingApp
	}
	if n := len(c.SegmentUID); n != 0 && n != 16 {
		return ErrInvalidSegmentUID
	}
	return ebml.WriteMaster(w, ebml.IDInfo, c.PayloadSize(), func() error {
		if len(c.SegmentUID) > 0 {
			if err := ebml.WriteElementBytes(w, ebml.IDSegmentUID, c.SegmentUID); err != nil {
				return err
			}
		}
		if len(c.PrevUID) > 0 {
			if err := ebml.WriteElementBytes(w, ebml.IDPrevUID, c.PrevUID); err != nil {
				return err
			}
		}
		if err := ebml.WriteElementUint(w, ebml.IDTimecodeScale, c.TimecodeScale); err != nil {
			return err
		}
		if c.duration > 0 {
			c.durationPos = w.Position()
			c.durationWritten = true
			if err := ebml.WriteElementFloat(w, ebml.IDDuration, float32(c.duration)); err != nil {
				return err
			}
		}
		if c.dateSet {
			if err := ebml.WriteElementDate(w, ebml.IDDateUTC, c.date); err != nil {
				return err
			}
		}
		if c.Title != "" {
			if err := ebml.WriteElementString(w, ebml.IDTitle, c.Title); err != nil {
				return err
			}
		}
		if err := ebml.WriteElementString(w, ebml.IDMuxingApp, c.MuxingApp); err != nil {
			return err
		}
		return ebml.WriteElementString(w, ebml.IDWritingApp, c.WritingApp)
	})
}

// Finalize rewrites the Duration element written by Write.
func (c *SegmentInfo) Finalize(w ebml.Writer) error {
	if c.duration <= 0 || !w.Seekable() {
		return nil
	}
	if !c.durationWritten {
		return ErrDurationNotWritten
	}
	pos := w.Position()
	if err := w.SetPosition(c.durationPos); err != nil {
		return err
	}
	if err := ebml.WriteElementFloat(w, ebml.IDDuration, float32(c.duration)); err != nil {
		return err
	}
	return w.SetPosition(pos)
}
