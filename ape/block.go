/*
NAME
  block.go

DESCRIPTION
  block.go implements the 32-byte header/footer block shared by both
  ends of an APEv2 tag: same magic, same field layout, distinguished
  only by the is-header flag bit.

AUTHOR
  Mara Quill <mara@outerreef.dev>

LICENSE
  See LICENSE file in the root of this repository.
*/

package ape

import (
	"github.com/outerreef/mp3tag/binfmt"
	"github.com/outerreef/mp3tag/internal/errs"
)

// Magic is the 8-byte marker for both the header and footer block.
const Magic = "APETAGEX"

// BlockSize is the fixed size of a header or footer block.
const BlockSize = 32

// DefaultVersion is the APEv2 version number written into new tags.
const DefaultVersion = 2000

// Flag bit positions within the 4-byte flag word (bit 0 = LSB).
const (
	flagHeaderPresent = 31
	flagNoFooter      = 30
	flagIsHeader      = 29
)

// block is the decoded form of a 32-byte header or footer.
type block struct {
	Version   uint32
	Size      uint32 // Size of items + footer, excludes the header.
	ItemCount uint32
	Flags     uint32
}

func (b block) isHeader() bool  { return binfmt.HasFlag(b.Flags, flagIsHeader) }
func (b block) hasHeader() bool { return binfmt.HasFlag(b.Flags, flagHeaderPresent) }
func (b block) noFooter() bool  { return binfmt.HasFlag(b.Flags, flagNoFooter) }

// parseBlock decodes a 32-byte header or footer.
func parseBlock(b []byte) (block, error) {
	if len(b) != BlockSize {
		return block{}, errs.New(errs.InvalidTag, "ape block must be %d bytes, got %d", BlockSize, len(b))
	}
	if string(b[0:8]) != Magic {
		return block{}, errs.New(errs.NotPresent, "ape magic not found")
	}
	return block{
		Version:   binfmt.LEUint32(b[8:12]),
		Size:      binfmt.LEUint32(b[12:16]),
		ItemCount: binfmt.LEUint32(b[16:20]),
		Flags:     binfmt.LEUint32(b[20:24]),
	}, nil
}

// bytes serializes bl to its on-disk 32-byte form.
func (bl block) bytes() []byte {
	out := make([]byte, BlockSize)
	copy(out[0:8], Magic)
	binfmt.PutLEUint32(out[8:12], bl.Version)
	binfmt.PutLEUint32(out[12:16], bl.Size)
	binfmt.PutLEUint32(out[16:20], bl.ItemCount)
	binfmt.PutLEUint32(out[20:24], bl.Flags)
	// out[24:32] is the reserved, always-zero 8-byte tail.
	return out
}
