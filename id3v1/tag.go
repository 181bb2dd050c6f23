/*
NAME
  tag.go

DESCRIPTION
  tag.go implements the fixed 128-byte ID3v1 trailing record: field
  layout, the track-number-in-comment-slot heuristic, and byte-level
  parse/serialize. This mirrors the guarded, field-at-a-time assembly
  style of codec/wav.Write, with the mp3tag error kinds standing in for
  wav.go's local sentinel errors.

AUTHOR
  Mara Quill <mara@outerreef.dev>

LICENSE
  See LICENSE file in the root of this repository.
*/

// Package id3v1 implements the 128-byte ID3v1 trailing record.
package id3v1

import (
	"strconv"

	"github.com/outerreef/mp3tag/internal/errs"
	"github.com/outerreef/mp3tag/tag"
)

// Size is the fixed, total size of a V1 record.
const Size = 128

// Magic is the 3-byte marker identifying a live V1 record.
const Magic = "TAG"

// Field widths and offsets within the 128-byte record.
const (
	offMagic   = 0
	offTitle   = 3
	widthTitle = 30
	offArtist  = offTitle + widthTitle
	widthArtist = 30
	offAlbum   = offArtist + widthArtist
	widthAlbum = 30
	offYear    = offAlbum + widthAlbum
	widthYear  = 4
	offComment = offYear + widthYear
	widthComment = 30
	offGenre   = offComment + widthComment
)

// Tag is the in-memory representation of a V1 record.
type Tag struct {
	Title   string
	Artist  string
	Album   string
	Year    string
	Comment string
	Genre   byte

	HasTrack bool
	Track    byte
}

// New returns an empty V1 tag, ready to be populated and serialized.
func New() *Tag { return &Tag{} }

// Format reports the tag format t belongs to.
func (t *Tag) Format() tag.Format { return tag.V1 }

// Parse decodes a 128-byte V1 record. It returns an *errs.Error of kind
// NotPresent if b doesn't carry the TAG magic.
func Parse(b []byte) (*Tag, error) {
	if len(b) != Size {
		return nil, errs.New(errs.NotPresent, "v1 record must be exactly %d bytes, got %d", Size, len(b))
	}
	if string(b[offMagic:offMagic+3]) != Magic {
		return nil, errs.New(errs.NotPresent, "v1 magic not found")
	}

	t := &Tag{
		Title:  decodeLatin1(trimPadding(b[offTitle : offTitle+widthTitle])),
		Artist: decodeLatin1(trimPadding(b[offArtist : offArtist+widthArtist])),
		Album:  decodeLatin1(trimPadding(b[offAlbum : offAlbum+widthAlbum])),
		Year:   decodeLatin1(trimPadding(b[offYear : offYear+widthYear])),
		Genre:  b[offGenre],
	}

	comment := b[offComment : offComment+widthComment]
	// Track slot: byte 29 of the comment field (0-based index 28) is NUL
	// and byte 30 (index 29) is non-NUL.
	if comment[28] == 0x00 && comment[29] != 0x00 {
		t.HasTrack = true
		t.Track = comment[29]
		t.Comment = decodeLatin1(trimPadding(comment[:28]))
	} else {
		t.Comment = decodeLatin1(trimPadding(comment))
	}

	return t, nil
}

// Bytes serializes t to its fixed 128-byte on-disk form.
func (t *Tag) Bytes() ([]byte, error) {
	out := make([]byte, Size)
	copy(out[offMagic:], Magic)

	title, err := packField(t.Title, widthTitle)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidValue, err, "encoding title")
	}
	copy(out[offTitle:], title)

	artist, err := packField(t.Artist, widthArtist)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidValue, err, "encoding artist")
	}
	copy(out[offArtist:], artist)

	album, err := packField(t.Album, widthAlbum)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidValue, err, "encoding album")
	}
	copy(out[offAlbum:], album)

	year, err := packField(t.Year, widthYear)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidValue, err, "encoding year")
	}
	copy(out[offYear:], year)

	commentWidth := widthComment
	if t.HasTrack {
		commentWidth = 28
	}
	comment, err := packField(t.Comment, commentWidth)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidValue, err, "encoding comment")
	}
	copy(out[offComment:], comment)
	if t.HasTrack {
		out[offComment+29] = t.Track
	}

	out[offGenre] = t.Genre
	return out, nil
}

// Get returns the string value of k, if V1 carries it. A field left at
// its zero value (blank title/artist/album/year/comment, genre index 0)
// reports absent rather than a spurious empty or zero value, matching
// Remove and IsEmpty's existing treatment of those same zero values as
// "no information here".
func (t *Tag) Get(k tag.Key) (string, bool) {
	switch k.Well {
	case tag.Title:
		if t.Title == "" {
			return "", false
		}
		return t.Title, true
	case tag.Artist:
		if t.Artist == "" {
			return "", false
		}
		return t.Artist, true
	case tag.Album:
		if t.Album == "" {
			return "", false
		}
		return t.Album, true
	case tag.Year:
		if t.Year == "" {
			return "", false
		}
		return t.Year, true
	case tag.Comment:
		if t.Comment == "" {
			return "", false
		}
		return t.Comment, true
	case tag.Genre:
		if t.Genre == 0 {
			return "", false
		}
		return strconv.Itoa(int(t.Genre)), true
	case tag.Track:
		if !t.HasTrack {
			return "", false
		}
		return strconv.Itoa(int(t.Track)), true
	default:
		return "", false
	}
}

// Set assigns value to k. It returns an UnsupportedKey error for any
// key outside the five V1 text fields, the genre byte and the track
// slot, and an
// InvalidValue error for a value that doesn't fit its field.
func (t *Tag) Set(k tag.Key, value string) error {
	if !tag.V1Supports(k) {
		return errs.New(errs.UnsupportedKey, "key %v has no V1 field", k)
	}
	switch k.Well {
	case tag.Title:
		t.Title = value
	case tag.Artist:
		t.Artist = value
	case tag.Album:
		t.Album = value
	case tag.Year:
		if !isAllDigits(value) {
			return errs.New(errs.InvalidValue, "year %q is not numeric", value)
		}
		t.Year = value
	case tag.Comment:
		t.Comment = value
	case tag.Genre:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > 255 {
			return errs.New(errs.InvalidValue, "genre %q is not a byte index 0-255", value)
		}
		t.Genre = byte(n)
	case tag.Track:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > 255 {
			return errs.New(errs.InvalidValue, "track %q is not a byte index 0-255", value)
		}
		t.HasTrack = true
		t.Track = byte(n)
	default:
		return errs.New(errs.UnsupportedKey, "key %v has no V1 field", k)
	}
	return nil
}

// Remove clears k from t, if present. It reports whether anything was
// removed.
func (t *Tag) Remove(k tag.Key) bool {
	switch k.Well {
	case tag.Title:
		changed := t.Title != ""
		t.Title = ""
		return changed
	case tag.Artist:
		changed := t.Artist != ""
		t.Artist = ""
		return changed
	case tag.Album:
		changed := t.Album != ""
		t.Album = ""
		return changed
	case tag.Year:
		changed := t.Year != ""
		t.Year = ""
		return changed
	case tag.Comment:
		changed := t.Comment != ""
		t.Comment = ""
		return changed
	case tag.Genre:
		changed := t.Genre != 0
		t.Genre = 0
		return changed
	case tag.Track:
		changed := t.HasTrack
		t.HasTrack = false
		t.Track = 0
		return changed
	default:
		return false
	}
}

// IsEmpty reports whether t carries no information at all, i.e.
// clearing it should drop the record entirely.
func (t *Tag) IsEmpty() bool {
	return t.Title == "" && t.Artist == "" && t.Album == "" && t.Year == "" &&
		t.Comment == "" && t.Genre == 0 && !t.HasTrack
}

func isAllDigits(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
