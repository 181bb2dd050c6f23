/*
NAME
  latin1.go

DESCRIPTION
  latin1.go adapts the shared Latin-1 codec in internal/latin1 to V1's
  field packing rules: fixed width, NUL-padded, truncated on overflow.

AUTHOR
  Mara Quill <mara@outerreef.dev>

LICENSE
  See LICENSE file in the root of this repository.
*/

package id3v1

import "github.com/outerreef/mp3tag/internal/latin1"

// decodeLatin1 converts Latin-1 bytes to a Go string, preserving bytes
// >= 128 as U+0080..U+00FF.
func decodeLatin1(b []byte) string {
	return latin1.Decode(b)
}

// encodeLatin1 converts s to Latin-1 bytes. It fails if s contains a
// codepoint above U+00FF, which has no Latin-1 representation.
func encodeLatin1(s string) ([]byte, error) {
	return latin1.Encode(s)
}

// trimPadding strips trailing NUL and space bytes, the padding
// characters V1 fields use.
func trimPadding(b []byte) []byte {
	i := len(b)
	for i > 0 && (b[i-1] == 0x00 || b[i-1] == 0x20) {
		i--
	}
	return b[:i]
}

// packField encodes s as Latin-1, truncates it to width bytes and
// right-pads the remainder with NUL.
func packField(s string, width int) ([]byte, error) {
	b, err := encodeLatin1(s)
	if err != nil {
		return nil, err
	}
	if len(b) > width {
		b = b[:width]
	}
	out := make([]byte, width)
	copy(out, b)
	return out, nil
}
