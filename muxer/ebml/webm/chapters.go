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

// ChapterDisplay is one rendering of a chapter title.
type ChapterDisplay struct {
	Title    string
	Language string
	Country  string
}

func (d *ChapterDisplay) PayloadSize() uint64 {
	size := ebml.ElementSizeString(ebml.IDChapString, d.Title)
	if d.Language != "" {
		size += ebml.ElementSizeString(ebml.IDChapLanguage, d.Language)
	}
	if d.Country != "" {
		size += ebml.ElementSizeString(ebml.IDChapCountry, d.Country)
	}
	return size
}

func (d *ChapterDisplay) Size() uint64 {
	payload := d.PayloadSize()
	return ebml.MasterElementSize(ebml.IDChapterDisplay, payload) + payload
}

func (d *ChapterDisplay) Write(w ebml.Writer) error {
	return ebml.WriteMaster(w, ebml.IDChapterDisplay, d.PayloadSize(), func() error {
		if err := ebml.WriteElementString(w, ebml.IDChapString, d.Title); err != nil {
			return err
		}
		if d.Language != "" {
			if err := ebml.WriteElementString(w, ebml.IDChapLanguage, d.Language); err != nil {
				return err
			}
		}
		if d.Country != "" {
			return ebml.WriteElementString(w, ebml.IDChapCountry, d.Country)
		}
		return nil
	})
}

// Chapter represents ChapterAtom element struct.
// Start and End are written in nanoseconds.
type Chapter struct {
	ID       string
	UID      uint64
	Start    time.Duration
	End      time.Duration
	Displays []*ChapterDisplay
}

// AddDisplay appends a title in the given language and country.
// Empty language and country are omitted.
func (c *Chapter) AddDisplay(title, language, country string) *ChapterDisplay {
	d := &ChapterDisplay{Title: title, Language: language, Country: country}
	c.Displays = append(c.Displays, d)
	return d
}

func (c *Chapter) PayloadSize() uint64 {
	size := ebml.ElementSizeString(ebml.IDChapterStringUID, c.ID) +
		ebml.ElementSizeUint(ebml.IDChapterUID, c.UID) +
		ebml.ElementSizeUint(ebml.IDChapterTimeStart, uint64(c.Start)) +
		ebml.ElementSizeUint(ebml.IDChapterTimeEnd, uint64(c.End))
	for _, d := range c.Displays {
		size += d.Size()
	}
	return size
}

func (c *Chapter) Size() uint64 {
	payload := c.PayloadSize()
	return ebml.MasterElementSize(ebml.IDChapterAtom, payload) + payload
}

func (c *Chapter) Write(w ebml.Writer) error {
	return ebml.WriteMaster(w, ebml.IDChapterAtom, c.PayloadSize(), func() error {
		if err := ebml.WriteElementString(w, ebml.IDChapterStringUID, c.ID); err != nil {
			return err
		}
		if err := ebml.WriteElementUint(w, ebml.IDChapterUID, c.UID); err != nil {
			return err
		}
		if err := ebml.WriteElementUint(w, ebml.IDChapterTimeStart, uint64(c.Start)); err != nil {
			return err
		}
		if err := ebml.WriteElementUint(w, ebml.IDChapterTimeEnd, uint64(c.End)); err != nil {
			return err
		}
		for _, d := range c.Displays {
			if err := d.Write(w); err != nil {
				return err
			}
		}
		return nil
	})
}

// Chapters represents Chapters element struct holding a single edition.
type Chapters struct {
	chapters []*Chapter
	uid      UIDGenerator
}

// NewChapters returns an empty edition drawing chapter UIDs from uid.
// A nil uid uses RandomUID.
func NewChapters(uid UIDGenerator) *Chapters {
	if uid == nil {
		uid = RandomUID
	}
	return &Chapters{uid: uid}
}

// AddChapter appends a chapter spanning [start, end) and returns it.
func (c *Chapters) AddChapter(id string, start, end time.Duration) (*Chapter, error) {
	if start < 0 || end < start {
		return nil, ErrInvalidChapterTime
	}
	ch := &Chapter{ID: id, UID: c.uid.UID(), Start: start, End: end}
	c.chapters = append(c.chapters, ch)
	return ch, nil
}

func (c *Chapters) Len() int { return len(c.chapters) }

func (c *Chapters) GetChapterByIndex(index int) *Chapter {
	if index < 0 || index >= len(c.chapters) {
		return nil
	}
	return c.chapters[index]
}

func (c *Chapters) editionPayloadSize() uint64 {
	var size uint64
	for _, ch := range c.chapters {
		size += ch.Size()
	}
	return size
}

func (c *Chapters) PayloadSize() uint64 {
	edition := c.editionPayloadSize()
	return ebml.MasterElementSize(ebml.IDEditionEntry, edition) + edition
}

func (c *Chapters) Size() uint64 {
	payload := c.PayloadSize()
	return ebml.MasterElementSize(ebml.IDChapters, payload) + payload
}

func (c *Chapters) Write(w ebml.Writer) error {
	return ebml.WriteMaster(w, ebml.IDChapters, c.PayloadSize(), func() error {
		return ebml.WriteMaster(w, ebml.IDEditionEntry, c.editionPayloadSize(), func() error {
			for _, ch := range c.chapters {
				if err := ch.Write(w); err != nil {
					return err
				}
			}
			return nil
		})
	})
}
