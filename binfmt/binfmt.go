/*
NAME
  binfmt.go

DESCRIPTION
  binfmt.go provides the byte-level numeric encodings shared by the V1,
  V2 and APE codecs: synchsafe 28-bit integers, plain big/little-endian
  32-bit integers, and single-bit flag helpers.

AUTHOR
  Mara Quill <mara@outerreef.dev>

LICENSE
  See LICENSE file in the root of this repository.
*/

// Package binfmt provides the low-level byte encodings used across the
// mp3tag format codecs.
package binfmt

import (
	"encoding/binary"
	"fmt"
)

// MaxSynchsafe is the largest value representable in a 4-byte synchsafe
// integer (28 significant bits).
const MaxSynchsafe = 1<<28 - 1

// SynchsafeDecode decodes a 4-byte synchsafe integer. The top bit of
// each byte is ignored, per the ID3v2 synchsafe encoding.
func SynchsafeDecode(b []byte) uint32 {
	_ = b[3] // bounds check hint
	return uint32(b[0]&0x7F)<<21 | uint32(b[1]&0x7F)<<14 | uint32(b[2]&0x7F)<<7 | uint32(b[3]&0x7F)
}

// SynchsafeEncode encodes n as a 4-byte synchsafe integer. It returns an
// error if n exceeds MaxSynchsafe rather than truncating silently.
func SynchsafeEncode(n uint32) ([4]byte, error) {
	var out [4]byte
	if n > MaxSynchsafe {
		return out, fmt.Errorf("binfmt: value %d exceeds synchsafe range of %d", n, MaxSynchsafe)
	}
	out[0] = byte(n>>21) & 0x7F
	out[1] = byte(n>>14) & 0x7F
	out[2] = byte(n>>7) & 0x7F
	out[3] = byte(n) & 0x7F
	return out, nil
}

// BEUint32 decodes a 4-byte big-endian unsigned integer.
func BEUint32(b []byte) uint32 { return binary.BigEndian.Uint32(b) }

// PutBEUint32 encodes n as a 4-byte big-endian unsigned integer into b.
func PutBEUint32(b []byte, n uint32) { binary.BigEndian.PutUint32(b, n) }

// LEUint32 decodes a 4-byte little-endian unsigned integer.
func LEUint32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

// PutLEUint32 encodes n as a 4-byte little-endian unsigned integer into b.
func PutLEUint32(b []byte, n uint32) { binary.LittleEndian.PutUint32(b, n) }

// BEUint24 decodes a 3-byte big-endian unsigned integer, used by the
// ID3v2.2 frame header.
func BEUint24(b []byte) uint32 {
	_ = b[2]
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// PutBEUint24 encodes the low 24 bits of n as a 3-byte big-endian
// unsigned integer into b. It returns an error if n doesn't fit.
func PutBEUint24(b []byte, n uint32) error {
	if n > 1<<24-1 {
		return fmt.Errorf("binfmt: value %d exceeds 24-bit range", n)
	}
	b[0] = byte(n >> 16)
	b[1] = byte(n >> 8)
	b[2] = byte(n)
	return nil
}

// HasFlag reports whether bit position pos (0 = LSB) is set in flags.
func HasFlag(flags uint32, pos uint) bool {
	return flags&(1<<pos) != 0
}

// SetFlag returns flags with bit position pos set according to on.
func SetFlag(flags uint32, pos uint, on bool) uint32 {
	if on {
		return flags | (1 << pos)
	}
	return flags &^ (1 << pos)
}
