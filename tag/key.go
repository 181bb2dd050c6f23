/*
NAME
  key.go

DESCRIPTION
  key.go defines the unified semantic key space that the engine resolves
  against whichever combination of V1, V2 and APE tags a file holds.

AUTHOR
  Mara Quill <mara@outerreef.dev>

LICENSE
  See LICENSE file in the root of this repository.
*/

// Package tag defines the format-independent semantic key and format
// identifiers, and the bidirectional mapping between semantic keys and
// the per-format identifiers used by the V1, V2 and APE codecs.
package tag

import "strings"

// WellKnown enumerates the closed set of well-known semantic keys.
// Custom marks the open variant, whose free-form name lives in Key.Name.
type WellKnown int

const (
	Title WellKnown = iota
	Artist
	Album
	Year
	Genre
	Comment
	Composer
	Track
	Date
	TextWriter
	AudioEncryption
	Language
	Time
	OriginalFilename
	FileType
	BandOrchestra
	Custom
)

var wellKnownNames = map[WellKnown]string{
	Title:            "Title",
	Artist:           "Artist",
	Album:            "Album",
	Year:             "Year",
	Genre:            "Genre",
	Comment:          "Comment",
	Composer:         "Composer",
	Track:            "Track",
	Date:             "Date",
	TextWriter:       "TextWriter",
	AudioEncryption:  "AudioEncryption",
	Language:         "Language",
	Time:             "Time",
	OriginalFilename: "OriginalFilename",
	FileType:         "FileType",
	BandOrchestra:    "BandOrchestra",
}

// WellKnownKeys lists every non-custom semantic key, used by ReadAll to
// enumerate what to look for.
var WellKnownKeys = []WellKnown{
	Title, Artist, Album, Year, Genre, Comment, Composer, Track, Date,
	TextWriter, AudioEncryption, Language, Time, OriginalFilename,
	FileType, BandOrchestra,
}

// Key identifies a piece of metadata in a format-independent way. Well
// holds a well-known key, or Custom if Name carries a free-form
// identifier. Key is comparable and hashable, so it can be used directly
// as a map key.
type Key struct {
	Well WellKnown
	Name string
}

// WellKnownKey returns the Key for a well-known semantic field.
func WellKnownKey(w WellKnown) Key { return Key{Well: w} }

// CustomKey returns the Key for a free-form, implementation-defined
// identifier not present in the well-known set.
func CustomKey(name string) Key { return Key{Well: Custom, Name: name} }

// IsCustom reports whether k carries a free-form identifier.
func (k Key) IsCustom() bool { return k.Well == Custom }

// String returns the display form of k: the well-known name, or the
// custom string.
func (k Key) String() string {
	if k.Well == Custom {
		return k.Name
	}
	if s, ok := wellKnownNames[k.Well]; ok {
		return s
	}
	return "Unknown"
}

// Format identifies one of the three tag container formats.
type Format int

const (
	V1 Format = iota
	V2
	APE
)

// String returns the display name of f.
func (f Format) String() string {
	switch f {
	case V1:
		return "V1"
	case V2:
		return "V2"
	case APE:
		return "APE"
	default:
		return "unknown"
	}
}

// Priority is the fixed order in which the orchestrator consults
// formats on read: V2, then V1, then APE.
var Priority = []Format{V2, V1, APE}

var wellKnownByName = func() map[string]WellKnown {
	m := make(map[string]WellKnown, len(wellKnownNames))
	for w, name := range wellKnownNames {
		m[strings.ToLower(name)] = w
	}
	return m
}()

// ParseKey resolves a CLI-supplied key name to a Key: a case-insensitive
// match against the well-known name set, or a CustomKey carrying name
// verbatim if no well-known key matches.
func ParseKey(name string) Key {
	if w, ok := wellKnownByName[strings.ToLower(name)]; ok {
		return WellKnownKey(w)
	}
	return CustomKey(name)
}

// ParseFormat resolves a CLI-supplied format name ("v1", "v2" or "ape",
// case-insensitive) to a Format. ok is false for anything else.
func ParseFormat(name string) (f Format, ok bool) {
	switch strings.ToLower(name) {
	case "v1":
		return V1, true
	case "v2":
		return V2, true
	case "ape":
		return APE, true
	default:
		return 0, false
	}
}
