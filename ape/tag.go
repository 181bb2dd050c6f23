/*
NAME
  tag.go

DESCRIPTION
  tag.go implements the APEv2 tag: locate-on-read (the footer is always
  checked first, then the slot just before a trailing 128-byte ID3v1
  record), item parsing and serialization, and the "drop the whole tag
  on an empty write" rule. Grounded on container/mts/psi.PSI: the tag
  owns its items outright, with no back-pointer from item to tag.

AUTHOR
  Mara Quill <mara@outerreef.dev>

LICENSE
  See LICENSE file in the root of this repository.
*/

// Package ape implements the APEv2 tag codec.
package ape

import (
	"io"

	"github.com/outerreef/mp3tag/ape/item"
	"github.com/outerreef/mp3tag/binfmt"
	"github.com/outerreef/mp3tag/id3v1"
	"github.com/outerreef/mp3tag/internal/errs"
	"github.com/outerreef/mp3tag/tag"
)

// DefaultMaxItemValueSize caps an individual item's value size during
// parsing, guarding against a corrupt length field driving an
// unbounded allocation.
const DefaultMaxItemValueSize = 16 << 20

// Tag is the in-memory representation of an APEv2 tag.
type Tag struct {
	Version          uint32
	HasHeader        bool
	MaxItemValueSize int

	items []*item.Item
}

// New returns an empty APE tag, ready to be populated and serialized.
// A header is emitted on write by default; see Tag.HasHeader.
func New() *Tag {
	return &Tag{Version: DefaultVersion, HasHeader: true, MaxItemValueSize: DefaultMaxItemValueSize}
}

// Format reports the tag format t belongs to.
func (t *Tag) Format() tag.Format { return tag.APE }

// locateFooter searches for the footer magic at EOF-32, then, failing
// that, at the slot just before a trailing V1 record (EOF-32-128).
func locateFooter(r io.ReaderAt, size int64) (footerOff int64, beforeV1 bool, ok bool, err error) {
	try := func(off int64) (bool, error) {
		if off < 0 {
			return false, nil
		}
		buf := make([]byte, 8)
		if _, err := r.ReadAt(buf, off); err != nil {
			if err == io.EOF {
				return false, nil
			}
			return false, errs.Wrap(errs.IO, err, "probing for ape footer")
		}
		return string(buf) == Magic, nil
	}

	if size >= BlockSize {
		off := size - BlockSize
		found, err := try(off)
		if err != nil {
			return 0, false, false, err
		}
		if found {
			return off, false, true, nil
		}
	}
	if size >= BlockSize+id3v1.Size {
		off := size - BlockSize - id3v1.Size
		found, err := try(off)
		if err != nil {
			return 0, false, false, err
		}
		if found {
			return off, true, true, nil
		}
	}
	return 0, false, false, nil
}

// Region describes the byte extent of a located APE tag.
type Region struct {
	Offset   int64
	Length   int64
	BeforeV1 bool // true if the tag sits just before a trailing V1 record.
}

// ReadAt locates and parses the APE tag in r, a file of the given size.
// It returns an *errs.Error of kind NotPresent if no footer is found.
func ReadAt(r io.ReaderAt, size int64, maxItemValueSize int) (*Tag, Region, error) {
	footerOff, beforeV1, ok, err := locateFooter(r, size)
	if err != nil {
		return nil, Region{}, err
	}
	if !ok {
		return nil, Region{}, errs.New(errs.NotPresent, "no ape footer found")
	}

	footerBuf := make([]byte, BlockSize)
	if _, err := r.ReadAt(footerBuf, footerOff); err != nil {
		return nil, Region{}, errs.Wrap(errs.IO, err, "reading ape footer")
	}
	footer, err := parseBlock(footerBuf)
	if err != nil {
		return nil, Region{}, errs.Wrap(errs.InvalidTag, err, "parsing ape footer")
	}
	if footer.isHeader() {
		return nil, Region{}, errs.New(errs.InvalidTag, "ape footer has is-header bit set")
	}

	itemsLen := int64(footer.Size) - BlockSize
	if itemsLen < 0 {
		return nil, Region{}, errs.New(errs.InvalidTag, "ape footer declares size %d smaller than a footer", footer.Size)
	}
	itemsStart := footerOff - itemsLen

	t := &Tag{Version: footer.Version, MaxItemValueSize: maxItemValueSize}
	if t.MaxItemValueSize <= 0 {
		t.MaxItemValueSize = DefaultMaxItemValueSize
	}

	tagStart := itemsStart
	if footer.hasHeader() {
		headerOff := itemsStart - BlockSize
		if headerOff < 0 {
			return nil, Region{}, errs.New(errs.InvalidTag, "ape header would start before byte 0")
		}
		headerBuf := make([]byte, BlockSize)
		if _, err := r.ReadAt(headerBuf, headerOff); err != nil {
			return nil, Region{}, errs.Wrap(errs.IO, err, "reading ape header")
		}
		header, err := parseBlock(headerBuf)
		if err != nil {
			return nil, Region{}, errs.Wrap(errs.InvalidTag, err, "parsing ape header")
		}
		if !header.isHeader() {
			return nil, Region{}, errs.New(errs.InvalidTag, "ape header is-header bit not set")
		}
		t.HasHeader = true
		tagStart = headerOff
	}

	itemsBuf := make([]byte, itemsLen)
	if itemsLen > 0 {
		if _, err := r.ReadAt(itemsBuf, itemsStart); err != nil {
			return nil, Region{}, errs.Wrap(errs.IO, err, "reading ape items")
		}
	}

	items, err := parseItems(itemsBuf, int(footer.ItemCount), t.MaxItemValueSize)
	if err != nil {
		return nil, Region{}, err
	}
	t.items = items

	region := Region{Offset: tagStart, Length: footerOff + BlockSize - tagStart, BeforeV1: beforeV1}
	return t, region, nil
}

func parseItems(buf []byte, count int, maxValueSize int) ([]*item.Item, error) {
	items := make([]*item.Item, 0, count)
	pos := 0
	for i := 0; i < count; i++ {
		it, consumed, err := item.Parse(buf[pos:], maxValueSize)
		if err != nil {
			return nil, errs.Wrap(errs.InvalidTag, err, "parsing ape item %d", i)
		}
		items = append(items, it)
		pos += consumed
	}
	return items, nil
}

// Bytes serializes t to its on-disk form: header (if HasHeader) + items
// + footer. Size and item-count fields are recomputed from the current
// in-memory state.
func (t *Tag) Bytes() ([]byte, error) {
	var itemBytes []byte
	for _, it := range t.items {
		b, err := it.Bytes()
		if err != nil {
			return nil, err
		}
		itemBytes = append(itemBytes, b...)
	}

	size := uint32(len(itemBytes) + BlockSize)
	flags := uint32(0)
	if t.HasHeader {
		flags = binfmt.SetFlag(flags, flagHeaderPresent, true)
	}
	footer := block{Version: t.Version, Size: size, ItemCount: uint32(len(t.items)), Flags: flags}

	var out []byte
	if t.HasHeader {
		headerFlags := binfmt.SetFlag(flags, flagIsHeader, true)
		header := block{Version: t.Version, Size: size, ItemCount: uint32(len(t.items)), Flags: headerFlags}
		out = append(out, header.bytes()...)
	}
	out = append(out, itemBytes...)
	out = append(out, footer.bytes()...)
	return out, nil
}

// find returns the index of the item named name, matched
// case-insensitively, or -1.
func (t *Tag) find(name string) int {
	for i, it := range t.items {
		if item.EqualKey(it.Key, name) {
			return i
		}
	}
	return -1
}

// Get returns the string value of k, if t carries it.
func (t *Tag) Get(k tag.Key) (string, bool) {
	name := tag.APEItemName(k)
	if name == "" {
		return "", false
	}
	i := t.find(name)
	if i < 0 {
		return "", false
	}
	return string(t.items[i].Value), true
}

// Set assigns value to k, replacing any existing item of the same name
// in place, or appending a new one. Every well-known key has an APE item
// name and a custom key uses its own name, so UnsupportedKey is returned
// only for a custom key whose name is empty.
func (t *Tag) Set(k tag.Key, value string) error {
	name := tag.APEItemName(k)
	if name == "" {
		return errs.New(errs.UnsupportedKey, "key %v has no ape item name", k)
	}
	i := t.find(name)
	if i >= 0 {
		t.items[i] = item.NewText(t.items[i].Key, value)
		return nil
	}
	t.items = append(t.items, item.NewText(name, value))
	return nil
}

// Remove clears k from t, if present. It reports whether anything was
// removed.
func (t *Tag) Remove(k tag.Key) bool {
	name := tag.APEItemName(k)
	if name == "" {
		return false
	}
	i := t.find(name)
	if i < 0 {
		return false
	}
	t.items = append(t.items[:i], t.items[i+1:]...)
	return true
}

// Keys returns the semantic keys t carries a value for.
func (t *Tag) Keys() []tag.Key {
	out := make([]tag.Key, 0, len(t.items))
	for _, it := range t.items {
		out = append(out, tag.KeyForAPEName(it.Key))
	}
	return out
}

// IsEmpty reports whether t carries no items, i.e. it should be dropped
// entirely rather than written as an empty header+footer pair.
func (t *Tag) IsEmpty() bool { return len(t.items) == 0 }
