/*
NAME
  item.go

DESCRIPTION
  item.go implements a single APEv2 tag item: a little-endian
  size/flags header, a NUL-terminated key and the raw value bytes.
  Mirrors the header/footer-with-shared-layout construction style of
  container/mts/psi.PSI's sub-structures, scaled down to one flat
  record instead of a nested syntax section.

AUTHOR
  Mara Quill <mara@outerreef.dev>

LICENSE
  See LICENSE file in the root of this repository.
*/

// Package item implements the APEv2 tag item codec.
package item

import (
	"bytes"
	"strings"

	"github.com/outerreef/mp3tag/binfmt"
	"github.com/outerreef/mp3tag/internal/errs"
)

// MaxKeyLen is the largest permitted item key length, per the APEv2
// item layout.
const MaxKeyLen = 255

// MinKeyLen is the smallest permitted item key length.
const MinKeyLen = 2

// Flag bit positions within an item's 4-byte flag word.
const (
	flagReadOnly = 0
	flagBinary   = 1
)

// Item is one key/value pair inside an APEv2 tag.
type Item struct {
	Key      string
	Value    []byte
	Binary   bool
	ReadOnly bool
}

// NewText returns a text item (the common case: every well-known and
// custom mp3tag key is stored as UTF-8 text).
func NewText(key, value string) *Item {
	return &Item{Key: key, Value: []byte(value)}
}

// EqualKey reports whether a and b name the same item, per APEv2's
// case-insensitive key comparison rule.
func EqualKey(a, b string) bool { return strings.EqualFold(a, b) }

// Parse reads one item from the front of b. It returns the item and the
// number of bytes consumed.
func Parse(b []byte, maxValueSize int) (it *Item, consumed int, err error) {
	if len(b) < 8 {
		return nil, 0, errs.New(errs.InvalidTag, "item header truncated: %d bytes left", len(b))
	}
	size := binfmt.LEUint32(b[0:4])
	flags := binfmt.LEUint32(b[4:8])

	nul := bytes.IndexByte(b[8:], 0)
	if nul < 0 {
		return nil, 0, errs.New(errs.InvalidTag, "item key has no NUL terminator")
	}
	if nul < MinKeyLen || nul > MaxKeyLen {
		return nil, 0, errs.New(errs.InvalidTag, "item key length %d out of range [%d,%d]", nul, MinKeyLen, MaxKeyLen)
	}
	key := string(b[8 : 8+nul])

	if maxValueSize > 0 && int(size) > maxValueSize {
		return nil, 0, errs.New(errs.InvalidTag, "item %q value size %d exceeds limit %d", key, size, maxValueSize)
	}

	valueStart := 8 + nul + 1
	valueEnd := valueStart + int(size)
	if valueEnd > len(b) {
		return nil, 0, errs.New(errs.InvalidTag, "item %q declares value size %d, only %d bytes remain", key, size, len(b)-valueStart)
	}

	value := make([]byte, size)
	copy(value, b[valueStart:valueEnd])

	return &Item{
		Key:      key,
		Value:    value,
		Binary:   binfmt.HasFlag(flags, flagBinary),
		ReadOnly: binfmt.HasFlag(flags, flagReadOnly),
	}, valueEnd, nil
}

// Bytes serializes it to its on-disk form.
func (it *Item) Bytes() ([]byte, error) {
	if len(it.Key) < MinKeyLen || len(it.Key) > MaxKeyLen {
		return nil, errs.New(errs.InvalidValue, "item key %q length %d out of range [%d,%d]", it.Key, len(it.Key), MinKeyLen, MaxKeyLen)
	}
	if strings.IndexByte(it.Key, 0) >= 0 {
		return nil, errs.New(errs.InvalidValue, "item key %q contains a NUL byte", it.Key)
	}

	var flags uint32
	flags = binfmt.SetFlag(flags, flagBinary, it.Binary)
	flags = binfmt.SetFlag(flags, flagReadOnly, it.ReadOnly)

	out := make([]byte, 8+len(it.Key)+1+len(it.Value))
	binfmt.PutLEUint32(out[0:4], uint32(len(it.Value)))
	binfmt.PutLEUint32(out[4:8], flags)
	copy(out[8:], it.Key)
	// out[8+len(it.Key)] is already zero (the key's NUL terminator).
	copy(out[8+len(it.Key)+1:], it.Value)
	return out, nil
}

// Size returns the number of bytes it occupies on disk.
func (it *Item) Size() int {
	return 8 + len(it.Key) + 1 + len(it.Value)
}
