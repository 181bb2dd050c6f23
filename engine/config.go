/*
NAME
  config.go

DESCRIPTION
  config.go defines the Engine's tunable parameters, in the shape of
  revid/config.Config: an explicit, documented options struct with
  constructor defaults rather than package-level globals.

AUTHOR
  Mara Quill <mara@outerreef.dev>

LICENSE
  See LICENSE file in the root of this repository.
*/

package engine

import (
	"github.com/outerreef/mp3tag/ape"
	"github.com/outerreef/mp3tag/id3v2"
	"github.com/outerreef/mp3tag/rewrite"
)

// Config holds the tunables a caller may want to override. The zero
// value is not directly usable; use DefaultConfig or New, which fills
// in zero fields with their defaults.
type Config struct {
	// PaddingSize is the amount of zero-byte padding appended to a
	// newly-written V2 tag.
	PaddingSize int

	// APEMaxValueSize caps an individual APE item's value size on read,
	// guarding against a corrupt size field forcing a huge allocation.
	APEMaxValueSize int

	// CopyBufferSize is the buffer size used by the rewriter when
	// streaming the audio body.
	CopyBufferSize int
}

// DefaultConfig returns a Config with every tunable set to its
// documented default.
func DefaultConfig() Config {
	return Config{
		PaddingSize:     id3v2.DefaultPadding,
		APEMaxValueSize: ape.DefaultMaxItemValueSize,
		CopyBufferSize:  rewrite.DefaultBufferSize,
	}
}

// withDefaults returns c with every zero field replaced by its default.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PaddingSize == 0 {
		c.PaddingSize = d.PaddingSize
	}
	if c.APEMaxValueSize == 0 {
		c.APEMaxValueSize = d.APEMaxValueSize
	}
	if c.CopyBufferSize == 0 {
		c.CopyBufferSize = d.CopyBufferSize
	}
	return c
}
