/*
NAME
  latin1.go

DESCRIPTION
  latin1.go converts between Go strings and Latin-1 bytes: byte values
  0-255 map directly onto Unicode codepoints U+0000-U+00FF. Shared by
  the id3v1 and id3v2/frame packages, both of which need Latin-1 text
  handling but shouldn't depend on one another for it.

AUTHOR
  Mara Quill <mara@outerreef.dev>

LICENSE
  See LICENSE file in the root of this repository.
*/

// Package latin1 provides Latin-1 byte/string conversion.
package latin1

import "fmt"

// Decode converts Latin-1 bytes to a Go string, preserving bytes >= 128
// as U+0080..U+00FF.
func Decode(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

// Encode converts s to Latin-1 bytes. It fails if s contains a
// codepoint above U+00FF, which has no Latin-1 representation.
func Encode(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			return nil, fmt.Errorf("latin1: rune %U has no Latin-1 representation", r)
		}
		out = append(out, byte(r))
	}
	return out, nil
}
