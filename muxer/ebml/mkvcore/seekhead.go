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
	"fmt"

	"github.com/greendrake/mkvmux/muxer/ebml"
)

// SeekEntryCount is the number of Seek slots reserved in a SeekHead.
const SeekEntryCount = 5

// SeekPosition is always written with 8 bytes so every slot has the same size
// whatever the position turns out to be.
const seekPositionSize = 8

// maxSeekIDWidth is the width of the top level element IDs a Seek points to.
const maxSeekIDWidth = 0xFFFFFFFF

// SeekHead reserves room for SeekEntryCount entries right after the segment
// header and fills them in once the positions of the top level elements are known.
// Positions are relative to the start of the segment payload.
type SeekHead struct {
	ids       [SeekEntryCount]uint64
	positions [SeekEntryCount]uint64
	startPos  int64
}

func NewSeekHead() *SeekHead {
	return &SeekHead{startPos: -1}
}

// AddSeekEntry stores id and pos in the first free slot.
func (s *SeekHead) AddSeekEntry(id, pos uint64) error {
	for i := range s.ids {
		if s.ids[i] == 0 {
			s.ids[i] = id
			s.positions[i] = pos
			return nil
		}
	}
	return fmt.Errorf("%w: 0x%X", ErrSeekHeadFull, id)
}

// SetSeekEntry overwrites slot index.
func (s *SeekHead) SetSeekEntry(index int, id, pos uint64) error {
	if index < 0 || index >= SeekEntryCount {
		return fmt.Errorf("seek entry %d out of range", index)
	}
	s.ids[index] = id
	s.positions[index] = pos
	return nil
}

// ID returns the element ID of slot index, 0 when free.
func (s *SeekHead) ID(index int) uint64 {
	if index < 0 || index >= SeekEntryCount {
		return 0
	}
	return s.ids[index]
}

// Position returns the position stored in slot index.
func (s *SeekHead) Position(index int) uint64 {
	if index < 0 || index >= SeekEntryCount {
		return 0
	}
	return s.positions[index]
}

func seekEntryPayloadSize(id uint64) uint64 {
	return ebml.ElementSizeUint(ebml.IDSeekID, id) +
		ebml.ElementSizeUintFixed(ebml.IDSeekPosition, 0, seekPositionSize)
}

func seekEntrySize(id uint64) uint64 {
	payload := seekEntryPayloadSize(id)
	return ebml.MasterElementSize(ebml.IDSeek, payload) + payload
}

func reservedPayloadSize() uint64 {
	return SeekEntryCount * seekEntrySize(maxSeekIDWidth)
}

// PayloadSize returns the size of the populated entries.
func (s *SeekHead) PayloadSize() uint64 {
	var size uint64
	for _, id := range s.ids {
		if id != 0 {
			size += seekEntrySize(id)
		}
	}
	return size
}

// Size returns the size of the reserved region.
func (s *SeekHead) Size() uint64 {
	payload := reservedPayloadSize()
	return ebml.MasterElementSize(ebml.IDSeekHead, payload) + payload
}

// Write reserves the SeekHead region with a Void element.
func (s *SeekHead) Write(w ebml.Writer) error {
	s.startPos = int64(w.Position())
	_, err := ebml.WriteVoidElement(w, s.Size())
	return err
}

// Finalize writes the populated entries over the reserved region and pads
// the rest with Void. Nothing is written to a writer that cannot seek.
func (s *SeekHead) Finalize(w ebml.Writer) error {
	if !w.Seekable() {
		return nil
	}
	if s.startPos == -1 {
		return fmt.Errorf("seek head: %w", ErrHeaderNotWritten)
	}

	pos := w.Position()
	if err := w.SetPosition(uint64(s.startPos)); err != nil {
		return err
	}

	payload := s.PayloadSize()
	if err := ebml.WriteMaster(w, ebml.IDSeekHead, payload, func() error {
		for i, id := range s.ids {
			if id == 0 {
				continue
			}
			if err := ebml.WriteMaster(w, ebml.IDSeek, seekEntryPayloadSize(id), func() error {
				if err := ebml.WriteElementUint(w, ebml.IDSeekID, id); err != nil {
					return err
				}
				return ebml.WriteElementUintFixed(w, ebml.IDSeekPosition, s.positions[i], seekPositionSize)
			}); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	if left := s.Size() - (ebml.MasterElementSize(ebml.IDSeekHead, payload) + payload); left > 0 {
		if _, err := ebml.WriteVoidElement(w, left); err != nil {
			return err
		}
	}
	return w.SetPosition(pos)
}
