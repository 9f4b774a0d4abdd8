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

// Package webm provides the header elements of WebM and Matroska segments.
//
// Every element type implements ebml.Element and is handed to
// mkvcore.Segment, which lays them out in the segment header.
package webm

import (
	"bytes"
	"fmt"

	ebmlgo "github.com/at-wat/ebml-go"

	"github.com/greendrake/mkvmux/muxer/ebml"
	"github.com/greendrake/mkvmux/muxer/ebml/mkvcore"
)

// https://www.matroska.org/technical/elements.html
// https://www.matroska.org/technical/diagram.html
// https://www.webmproject.org/docs/container/

const (
	DocTypeWebM     = "webm"
	DocTypeMatroska = "matroska"
)

// EBMLHeader represents EBML header struct.
type EBMLHeader struct {
	EBMLVersion        uint64 `ebml:"EBMLVersion"`
	EBMLReadVersion    uint64 `ebml:"EBMLReadVersion"`
	EBMLMaxIDLength    uint64 `ebml:"EBMLMaxIDLength"`
	EBMLMaxSizeLength  uint64 `ebml:"EBMLMaxSizeLength"`
	DocType            string `ebml:"EBMLDocType"`
	DocTypeVersion     uint64 `ebml:"EBMLDocTypeVersion"`
	DocTypeReadVersion uint64 `ebml:"EBMLDocTypeReadVersion"`
}

// NewEBMLHeader returns the header of a docType document.
func NewEBMLHeader(docType string) *EBMLHeader {
	return &EBMLHeader{
		EBMLVersion:        1,
		EBMLReadVersion:    1,
		EBMLMaxIDLength:    4,
		EBMLMaxSizeLength:  8,
		DocType:            docType,
		DocTypeVersion:     4,
		DocTypeReadVersion: 2,
	}
}

// DefaultEBMLHeader is the header of a WebM file.
var DefaultEBMLHeader = NewEBMLHeader(DocTypeWebM)

type ebmlHeaderElement struct {
	Header *EBMLHeader `ebml:"EBML"`
}

func (h *EBMLHeader) marshal(wrapped bool) ([]byte, error) {
	var buf bytes.Buffer
	var v interface{} = h
	if wrapped {
		v = &ebmlHeaderElement{Header: h}
	}
	if err := ebmlgo.Marshal(v, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PayloadSize and Size marshal into a bytes.Buffer. The header holds only
// unsigned and string fields with ebml-go tags, so marshalling cannot fail;
// NewSegment still checks it once and returns the error.
func (h *EBMLHeader) PayloadSize() uint64 {
	b, _ := h.marshal(false)
	return uint64(len(b))
}

func (h *EBMLHeader) Size() uint64 {
	b, _ := h.marshal(true)
	return uint64(len(b))
}

func (h *EBMLHeader) Write(w ebml.Writer) error {
	b, err := h.marshal(true)
	if err != nil {
		return err
	}
	if n, ok := w.(ebml.ElementStartNotifier); ok {
		n.ElementStartNotify(ebml.IDEBML, w.Position())
	}
	_, err = w.Write(b)
	return err
}

// NewSegment returns a segment laying out the given header elements.
// tags and chapters may be nil; empty ones are not written.
func NewSegment(header *EBMLHeader, info *SegmentInfo, tracks *Tracks, tags *Tags, chapters *Chapters, opts ...mkvcore.SegmentOption) (*mkvcore.Segment, error) {
	if header == nil {
		header = DefaultEBMLHeader
	}
	if _, err := header.marshal(true); err != nil {
		return nil, fmt.Errorf("marshal EBML header: %w", err)
	}
	base := []mkvcore.SegmentOption{
		mkvcore.WithEBMLHeader(header),
	}
	if info != nil {
		base = append(base, mkvcore.WithSegmentInfo(info))
	}
	if tracks != nil {
		base = append(base, mkvcore.WithTracks(tracks))
	}
	if tags != nil {
		base = append(base, mkvcore.WithTags(tags))
	}
	if chapters != nil {
		base = append(base, mkvcore.WithChapters(chapters))
	}
	return mkvcore.NewSegment(append(base, opts...)...)
}
