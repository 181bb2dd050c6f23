/*
NAME
  text.go

DESCRIPTION
  text.go handles the encoding byte that prefixes every ID3v2 text
  frame's payload, and builds/decodes the three text-bearing frame
  shapes used by this module: plain text frames, TXXX/TXX custom text
  frames, and COMM/COM comment frames.

AUTHOR
  Mara Quill <mara@outerreef.dev>

LICENSE
  See LICENSE file in the root of this repository.
*/

package frame

import (
	"unicode/utf16"

	"github.com/outerreef/mp3tag/internal/errs"
	"github.com/outerreef/mp3tag/internal/latin1"
)

// Text-encoding indicator byte values, per the ID3v2 text frame layout.
const (
	EncLatin1   byte = 0
	EncUTF16BOM byte = 1
	EncUTF16BE  byte = 2
	EncUTF8     byte = 3
)

// chooseEncoding picks EncLatin1 if s round-trips through Latin-1,
// otherwise EncUTF8.
func chooseEncoding(s string) byte {
	if _, err := latin1.Encode(s); err == nil {
		return EncLatin1
	}
	return EncUTF8
}

// encodeText encodes s as the text body for the given encoding byte.
// It does not include the encoding byte itself.
func encodeText(s string, enc byte) ([]byte, error) {
	switch enc {
	case EncLatin1:
		return latin1.Encode(s)
	case EncUTF8:
		return []byte(s), nil
	case EncUTF16BOM:
		u := utf16.Encode([]rune(s))
		out := make([]byte, 2+2*len(u))
		out[0], out[1] = 0xFF, 0xFE // little-endian BOM
		for i, c := range u {
			out[2+2*i] = byte(c)
			out[2+2*i+1] = byte(c >> 8)
		}
		return out, nil
	case EncUTF16BE:
		u := utf16.Encode([]rune(s))
		out := make([]byte, 2*len(u))
		for i, c := range u {
			out[2*i] = byte(c >> 8)
			out[2*i+1] = byte(c)
		}
		return out, nil
	default:
		return nil, errs.New(errs.InvalidValue, "unsupported text encoding byte %d", enc)
	}
}

// decodeText decodes b, a text body encoded with the given encoding
// byte, back to a Go string.
func decodeText(b []byte, enc byte) (string, error) {
	switch enc {
	case EncLatin1:
		return latin1.Decode(b), nil
	case EncUTF8:
		return string(b), nil
	case EncUTF16BOM:
		return decodeUTF16(b, true)
	case EncUTF16BE:
		return decodeUTF16(b, false)
	default:
		return "", errs.New(errs.InvalidValue, "unsupported text encoding byte %d", enc)
	}
}

func decodeUTF16(b []byte, hasBOM bool) (string, error) {
	littleEndian := true
	if hasBOM {
		if len(b) < 2 {
			return "", errs.New(errs.InvalidTag, "UTF-16 text frame missing BOM")
		}
		switch {
		case b[0] == 0xFF && b[1] == 0xFE:
			littleEndian = true
		case b[0] == 0xFE && b[1] == 0xFF:
			littleEndian = false
		default:
			return "", errs.New(errs.InvalidTag, "UTF-16 text frame has invalid BOM")
		}
		b = b[2:]
	}
	if len(b)%2 != 0 {
		b = b[:len(b)-1]
	}
	units := make([]uint16, len(b)/2)
	for i := range units {
		if littleEndian {
			units[i] = uint16(b[2*i]) | uint16(b[2*i+1])<<8
		} else {
			units[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
		}
	}
	return string(utf16.Decode(units)), nil
}

// terminatorLen returns the width, in bytes, of a NUL terminator for
// the given text encoding: 2 for the UTF-16 variants, 1 otherwise.
func terminatorLen(enc byte) int {
	if enc == EncUTF16BOM || enc == EncUTF16BE {
		return 2
	}
	return 1
}

// stripTerminator removes a single trailing terminator of the encoding's
// width from b, if present.
func stripTerminator(b []byte, enc byte) []byte {
	n := terminatorLen(enc)
	if len(b) < n {
		return b
	}
	for _, c := range b[len(b)-n:] {
		if c != 0 {
			return b
		}
	}
	return b[:len(b)-n]
}

// indexTerminator returns the offset of the first NUL terminator of the
// encoding's width in b, searching only on code-unit boundaries, or -1.
func indexTerminator(b []byte, enc byte) int {
	n := terminatorLen(enc)
	for i := 0; i+n <= len(b); i += n {
		if b[i] == 0 && b[i+n-1] == 0 {
			return i
		}
	}
	return -1
}

// NewText builds a plain text frame (e.g. TIT2, TPE1) with id carrying
// value, choosing Latin-1 when value round-trips losslessly and UTF-8
// otherwise.
func NewText(id, value string) (*Frame, error) {
	enc := chooseEncoding(value)
	body, err := encodeText(value, enc)
	if err != nil {
		return nil, err
	}
	data := make([]byte, 1+len(body))
	data[0] = enc
	copy(data[1:], body)
	return &Frame{ID: id, Data: data}, nil
}

// Text decodes f as a plain text frame, stripping the encoding byte
// and an optional trailing NUL terminator.
func Text(f *Frame) (string, error) {
	if len(f.Data) < 1 {
		return "", errs.New(errs.InvalidTag, "text frame %s has no encoding byte", f.ID)
	}
	enc := f.Data[0]
	return decodeText(stripTerminator(f.Data[1:], enc), enc)
}

// NewCustomText builds a TXXX/TXX frame: an encoding byte, a
// NUL-terminated description, then the value text.
func NewCustomText(id, description, value string) (*Frame, error) {
	enc := chooseEncoding(description)
	if v := chooseEncoding(value); v == EncUTF8 {
		enc = EncUTF8
	}
	descBody, err := encodeText(description, enc)
	if err != nil {
		return nil, err
	}
	valBody, err := encodeText(value, enc)
	if err != nil {
		return nil, err
	}
	term := make([]byte, terminatorLen(enc))
	data := make([]byte, 0, 1+len(descBody)+len(term)+len(valBody))
	data = append(data, enc)
	data = append(data, descBody...)
	data = append(data, term...)
	data = append(data, valBody...)
	return &Frame{ID: id, Data: data}, nil
}

// CustomText decodes f as a TXXX/TXX frame, returning its description
// and value separately.
func CustomText(f *Frame) (description, value string, err error) {
	if len(f.Data) < 1 {
		return "", "", errs.New(errs.InvalidTag, "custom text frame %s has no encoding byte", f.ID)
	}
	enc := f.Data[0]
	rest := f.Data[1:]
	idx := indexTerminator(rest, enc)
	if idx < 0 {
		return "", "", errs.New(errs.InvalidTag, "custom text frame %s missing description terminator", f.ID)
	}
	// indexTerminator above finds the first zero code unit of the
	// encoding's width, which is a correct terminator search for both 1-
	// and 2-byte-wide encodings because description text itself can't
	// embed a NUL (or NUL pair aligned on a code unit) before its end.
	description, err = decodeText(rest[:idx], enc)
	if err != nil {
		return "", "", err
	}
	value, err = decodeText(stripTerminator(rest[idx+terminatorLen(enc):], enc), enc)
	if err != nil {
		return "", "", err
	}
	return description, value, nil
}

// NewComment builds a COMM/COM frame: encoding byte, 3-byte language
// code, NUL-terminated short description, then the main text.
func NewComment(id, language, description, text string) (*Frame, error) {
	if len(language) != 3 {
		return nil, errs.New(errs.InvalidValue, "comment language code %q must be 3 bytes", language)
	}
	enc := chooseEncoding(description)
	if v := chooseEncoding(text); v == EncUTF8 {
		enc = EncUTF8
	}
	descBody, err := encodeText(description, enc)
	if err != nil {
		return nil, err
	}
	textBody, err := encodeText(text, enc)
	if err != nil {
		return nil, err
	}
	term := make([]byte, terminatorLen(enc))
	data := make([]byte, 0, 1+3+len(descBody)+len(term)+len(textBody))
	data = append(data, enc)
	data = append(data, language...)
	data = append(data, descBody...)
	data = append(data, term...)
	data = append(data, textBody...)
	return &Frame{ID: id, Data: data}, nil
}

// Comment decodes f as a COMM/COM frame, returning its language code,
// description and main text.
func Comment(f *Frame) (language, description, text string, err error) {
	if len(f.Data) < 4 {
		return "", "", "", errs.New(errs.InvalidTag, "comment frame %s too short", f.ID)
	}
	enc := f.Data[0]
	language = string(f.Data[1:4])
	rest := f.Data[4:]
	idx := indexTerminator(rest, enc)
	if idx < 0 {
		return "", "", "", errs.New(errs.InvalidTag, "comment frame %s missing description terminator", f.ID)
	}
	description, err = decodeText(rest[:idx], enc)
	if err != nil {
		return "", "", "", err
	}
	text, err = decodeText(stripTerminator(rest[idx+terminatorLen(enc):], enc), enc)
	if err != nil {
		return "", "", "", err
	}
	return language, description, text, nil
}

// IsText reports whether id names a plain text frame this package
// knows how to decode as such (starts with T, excluding the
// free-form TXXX/TXX custom frame).
func IsText(id string) bool {
	return len(id) > 0 && id[0] == 'T' && id != "TXXX" && id != "TXX"
}

// IsCustomText reports whether id is the custom-text frame identifier
// for major version 2 (TXX) or 3/4 (TXXX).
func IsCustomText(id string) bool {
	return id == "TXXX" || id == "TXX"
}

// IsComment reports whether id is the comment frame identifier for
// major version 2 (COM) or 3/4 (COMM).
func IsComment(id string) bool {
	return id == "COMM" || id == "COM"
}
