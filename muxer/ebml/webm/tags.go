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
)

// Target type values of the Targets element.
const (
	TargetTypeCollection = 70
	TargetTypeSeason     = 60
	TargetTypeMovie      = 50
	TargetTypePart       = 40
	TargetTypeChapter    = 30
	TargetTypeScene      = 20
	TargetTypeShot       = 10
)

// SimpleTag is a name and value pair of a Tag.
type SimpleTag struct {
	Name   string
	String string
}

func (s *SimpleTag) PayloadSize() uint64 {
	return ebml.ElementSizeString(ebml.IDTagName, s.Name) +
		ebml.ElementSizeString(ebml.IDTagString, s.String)
}

func (s *SimpleTag) Size() uint64 {
	payload := s.PayloadSize()
	return ebml.MasterElementSize(ebml.IDSimpleTag, payload) + payload
}

func (s *SimpleTag) Write(w ebml.Writer) error {
	return ebml.WriteMaster(w, ebml.IDSimpleTag, s.PayloadSize(), func() error {
		if err := ebml.WriteElementString(w, ebml.IDTagName, s.Name); err != nil {
			return err
		}
		return ebml.WriteElementString(w, ebml.IDTagString, s.String)
	})
}

// Tag represents Tag element struct.
// Targets is written only when TargetTypeValue or TrackUIDs are set;
// without it the tag applies to the whole segment.
type Tag struct {
	TargetTypeValue uint64
	TrackUIDs       []uint64
	SimpleTags      []*SimpleTag
}

// AddSimpleTag appends a name and value pair.
func (t *Tag) AddSimpleTag(name, value string) {
	t.SimpleTags = append(t.SimpleTags, &SimpleTag{Name: name, String: value})
}

func (t *Tag) hasTargets() bool {
	return t.TargetTypeValue > 0 || len(t.TrackUIDs) > 0
}

func (t *Tag) targetsPayloadSize() uint64 {
	var size uint64
	if t.TargetTypeValue > 0 {
		size += ebml.ElementSizeUint(ebml.IDTargetTypeValue, t.TargetTypeValue)
	}
	for _, uid := range t.TrackUIDs {
		size += ebml.ElementSizeUint(ebml.IDTagTrackUID, uid)
	}
	return size
}

func (t *Tag) PayloadSize() uint64 {
	var size uint64
	if t.hasTargets() {
		targets := t.targetsPayloadSize()
		size += ebml.MasterElementSize(ebml.IDTargets, targets) + targets
	}
	for _, s := range t.SimpleTags {
		size += s.Size()
	}
	return size
}

func (t *Tag) Size() uint64 {
	payload := t.PayloadSize()
	return ebml.MasterElementSize(ebml.IDTag, payload) + payload
}

func (t *Tag) Write(w ebml.Writer) error {
	return ebml.WriteMaster(w, ebml.IDTag, t.PayloadSize(), func() error {
		if t.hasTargets() {
			if err := ebml.WriteMaster(w, ebml.IDTargets, t.targetsPayloadSize(), func() error {
				if t.TargetTypeValue > 0 {
					if err := ebml.WriteElementUint(w, ebml.IDTargetTypeValue, t.TargetTypeValue); err != nil {
						return err
					}
				}
				for _, uid := range t.TrackUIDs {
					if err := ebml.WriteElementUint(w, ebml.IDTagTrackUID, uid); err != nil {
						return err
					}
				}
				return nil
			}); err != nil {
				return err
			}
		}
		for _, s := range t.SimpleTags {
			if err := s.Write(w); err != nil {
				return err
			}
		}
		return nil
	})
}

// Tags represents Tags element struct.
type Tags struct {
	tags []*Tag
}

// AddTag appends an empty tag and returns it.
func (c *Tags) AddTag() *Tag {
	t := &Tag{}
	c.tags = append(c.tags, t)
	return t
}

func (c *Tags) Len() int { return len(c.tags) }

func (c *Tags) GetTagByIndex(index int) *Tag {
	if index < 0 || index >= len(c.tags) {
		return nil
	}
	return c.tags[index]
}

func (c *Tags) PayloadSize() uint64 {
	var size uint64
	for _, t := range c.tags {
		size += t.Size()
	}
	return size
}

func (c *Tags) Size() uint64 {
	payload := c.PayloadSize()
	return ebml.MasterElementSize(ebml.IDTags, payload) + payload
}

func (c *Tags) Write(w ebml.Writer) error {
	return ebml.WriteMaster(w, ebml.IDTags, c.PayloadSize(), func() error {
		for _, t := range c.tags {
			if err := t.Write(w); err != nil {
				return err
			}
		}
		return nil
	})
}
