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

package mkvcore

import (
	"github.com/greendrake/mkvmux/muxer/ebml"
)

// CuePoint represents CuePoint element struct.
// Time is in timecode units, ClusterPos is relative to the segment payload.
type CuePoint struct {
	Time              uint64
	Track             uint64
	ClusterPos        uint64
	BlockNumber       uint64
	OutputBlockNumber bool
}

func (c *CuePoint) writeBlockNumber() bool {
	return c.OutputBlockNumber && c.BlockNumber > 1
}

func (c *CuePoint) trackPositionsPayloadSize() uint64 {
	size := ebml.ElementSizeUint(ebml.IDCueTrack, c.Track) +
		ebml.ElementSizeUint(ebml.IDCueClusterPosition, c.ClusterPos)
	if c.writeBlockNumber() {
		size += ebml.ElementSizeUint(ebml.IDCueBlockNumber, c.BlockNumber)
	}
	return size
}

func (c *CuePoint) PayloadSize() uint64 {
	tp := c.trackPositionsPayloadSize()
	return ebml.ElementSizeUint(ebml.IDCueTime, c.Time) +
		ebml.MasterElementSize(ebml.IDCueTrackPositions, tp) + tp
}

func (c *CuePoint) Size() uint64 {
	payload := c.PayloadSize()
	return ebml.MasterElementSize(ebml.IDCuePoint, payload) + payload
}

func (c *CuePoint) Write(w ebml.Writer) error {
	if c.Track < 1 || c.ClusterPos < 1 {
		return ErrCuePointIncomplete
	}
	return ebml.WriteMaster(w, ebml.IDCuePoint, c.PayloadSize(), func() error {
		if err := ebml.WriteElementUint(w, ebml.IDCueTime, c.Time); err != nil {
			return err
		}
		return ebml.WriteMaster(w, ebml.IDCueTrackPositions, c.trackPositionsPayloadSize(), func() error {
			if err := ebml.WriteElementUint(w, ebml.IDCueTrack, c.Track); err != nil {
				return err
			}
			if err := ebml.WriteElementUint(w, ebml.IDCueClusterPosition, c.ClusterPos); err != nil {
				return err
			}
			if c.writeBlockNumber() {
				return ebml.WriteElementUint(w, ebml.IDCueBlockNumber, c.BlockNumber)
			}
			return nil
		})
	})
}

// Cues represents Cues element struct.
type Cues struct {
	entries           []CuePoint
	outputBlockNumber bool
}

func NewCues() *Cues {
	return &Cues{outputBlockNumber: true}
}

func (c *Cues) SetOutputBlockNumber(v bool) { c.outputBlockNumber = v }
func (c *Cues) OutputBlockNumber() bool     { return c.outputBlockNumber }
func (c *Cues) Len() int                    { return len(c.entries) }

// AddCue appends a copy of cue.
func (c *Cues) AddCue(cue CuePoint) {
	cue.OutputBlockNumber = c.outputBlockNumber
	c.entries = append(c.entries, cue)
}

// GetCueByIndex returns the cue at index or nil.
func (c *Cues) GetCueByIndex(index int) *CuePoint {
	if index < 0 || index >= len(c.entries) {
		return nil
	}
	return &c.entries[index]
}

func (c *Cues) PayloadSize() uint64 {
	var size uint64
	for i := range c.entries {
		size += c.entries[i].Size()
	}
	return size
}

func (c *Cues) Size() uint64 {
	payload := c.PayloadSize()
	return ebml.MasterElementSize(ebml.IDCues, payload) + payload
}

func (c *Cues) Write(w ebml.Writer) error {
	return ebml.WriteMaster(w, ebml.IDCues, c.PayloadSize(), func() error {
		for i := range c.entries {
			if err := c.entries[i].Write(w); err != nil {
				return err
			}
		}
		return nil
	})
}
