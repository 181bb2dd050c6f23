/*
NAME
  frame.go

DESCRIPTION
  frame.go implements a single ID3v2 frame: the per-version header
  (3-byte id/3-byte size for v2.2, 4-byte id/4-byte size/2-byte flags for
  v3 and v4) and the raw payload. Text-encoding-aware helpers for text
  and comment frames live in text.go.

AUTHOR
  Mara Quill <mara@outerreef.dev>

LICENSE
  See LICENSE file in the root of this repository.
*/

// Package frame implements the ID3v2 frame header and payload codec.
package frame

import (
	"github.com/outerreef/mp3tag/binfmt"
	"github.com/outerreef/mp3tag/internal/errs"
)

// HeaderLen returns the size in bytes of a frame header at the given
// major version: 6 for v2.2, 10 for v3/v4.
func HeaderLen(version int) int {
	if version == 2 {
		return 6
	}
	return 10
}

// IDLen returns the size in bytes of a frame identifier at the given
// major version: 3 for v2.2, 4 for v3/v4.
func IDLen(version int) int {
	if version == 2 {
		return 3
	}
	return 4
}

// Frame is the in-memory representation of one ID3v2 frame: an
// identifier, per-frame flags (zero and unused on v2.2) and the raw,
// still-encoded payload.
type Frame struct {
	ID    string
	Flags uint16
	Data  []byte
}

// isZero reports whether every byte in b is 0x00, the marker for the
// start of the tag's padding region.
func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

// IsValidID reports whether id is composed only of uppercase ASCII
// letters and digits, the only characters a real frame identifier uses.
func IsValidID(id string) bool {
	if id == "" {
		return false
	}
	for _, c := range []byte(id) {
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

// Parse reads a single frame from the front of b, which holds at least
// the remainder of the enclosing tag region. It returns the frame and
// the number of bytes consumed (header + payload). atEnd is true when
// b's leading identifier bytes are all zero, signalling the start of
// padding; in that case no frame is returned.
func Parse(version int, b []byte) (f *Frame, consumed int, atEnd bool, err error) {
	hdrLen := HeaderLen(version)
	idLen := IDLen(version)
	if len(b) < hdrLen {
		return nil, 0, false, errs.New(errs.InvalidTag, "only %d bytes left, need %d for frame header", len(b), hdrLen)
	}
	if isZero(b[:idLen]) {
		return nil, 0, true, nil
	}
	id := string(b[:idLen])
	if !IsValidID(id) {
		return nil, 0, false, errs.New(errs.InvalidTag, "frame identifier %q is not valid", id)
	}

	var size uint32
	var flags uint16
	switch version {
	case 2:
		size = binfmt.BEUint24(b[idLen : idLen+3])
	case 3:
		size = binfmt.BEUint32(b[idLen : idLen+4])
		flags = uint16(b[idLen+4])<<8 | uint16(b[idLen+5])
	case 4:
		size = binfmt.SynchsafeDecode(b[idLen : idLen+4])
		flags = uint16(b[idLen+4])<<8 | uint16(b[idLen+5])
	default:
		return nil, 0, false, errs.New(errs.InvalidTag, "unsupported major version %d", version)
	}

	total := hdrLen + int(size)
	if total > len(b) {
		return nil, 0, false, errs.New(errs.InvalidTag, "frame %s declares size %d, only %d bytes remain", id, size, len(b)-hdrLen)
	}

	data := make([]byte, size)
	copy(data, b[hdrLen:total])
	return &Frame{ID: id, Flags: flags, Data: data}, total, false, nil
}

// Bytes serializes f to its on-disk header+payload form at the given
// major version.
func (f *Frame) Bytes(version int) ([]byte, error) {
	idLen := IDLen(version)
	if len(f.ID) != idLen {
		return nil, errs.New(errs.InvalidTag, "frame id %q has wrong length for v2.%d", f.ID, version)
	}

	hdrLen := HeaderLen(version)
	out := make([]byte, hdrLen+len(f.Data))
	copy(out, f.ID)

	switch version {
	case 2:
		if err := binfmt.PutBEUint24(out[idLen:], uint32(len(f.Data))); err != nil {
			return nil, errs.Wrap(errs.InvalidValue, err, "encoding frame %s size", f.ID)
		}
	case 3:
		binfmt.PutBEUint32(out[idLen:], uint32(len(f.Data)))
		out[idLen+4] = byte(f.Flags >> 8)
		out[idLen+5] = byte(f.Flags)
	case 4:
		sz, err := binfmt.SynchsafeEncode(uint32(len(f.Data)))
		if err != nil {
			return nil, errs.Wrap(errs.InvalidValue, err, "encoding frame %s size", f.ID)
		}
		copy(out[idLen:], sz[:])
		out[idLen+4] = byte(f.Flags >> 8)
		out[idLen+5] = byte(f.Flags)
	default:
		return nil, errs.New(errs.InvalidTag, "unsupported major version %d", version)
	}

	copy(out[hdrLen:], f.Data)
	return out, nil
}
