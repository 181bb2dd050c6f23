/*
NAME
  mapping.go

DESCRIPTION
  mapping.go holds the static, per-format identifier tables for the
  well-known semantic keys, and the lookups the codecs use to translate
  between a semantic Key and a format-specific field, frame id or item
  name.

AUTHOR
  Mara Quill <mara@outerreef.dev>

LICENSE
  See LICENSE file in the root of this repository.
*/

package tag

import "strings"

// v1Supported is the set of semantic keys that the 128-byte V1 record
// can carry: the five fixed text fields, the genre byte, and Track via
// the comment slot.
var v1Supported = map[WellKnown]bool{
	Title:   true,
	Artist:  true,
	Album:   true,
	Year:    true,
	Genre:   true,
	Comment: true,
	Track:   true,
}

// V1Supports reports whether k has a home in a V1 record.
func V1Supports(k Key) bool {
	if k.IsCustom() {
		return false
	}
	return v1Supported[k.Well]
}

// v2v34IDs maps semantic keys to their 4-byte ID3v2.3/2.4 frame
// identifiers.
var v2v34IDs = map[WellKnown]string{
	Title:            "TIT2",
	Artist:           "TPE1",
	Album:            "TALB",
	Year:             "TYER",
	Genre:            "TCON",
	Comment:          "COMM",
	Composer:         "TCOM",
	Track:            "TRCK",
	Date:             "TDAT",
	TextWriter:       "TEXT",
	AudioEncryption:  "AENC",
	Language:         "TLAN",
	Time:             "TIME",
	OriginalFilename: "TOFN",
	FileType:         "TFLT",
	BandOrchestra:    "TPE2",
}

// v2v22IDs maps semantic keys to their 3-byte ID3v2.2 frame
// identifiers. ID3v2.2 predates widespread use of a TXX-style
// free-form text frame in this implementation, so Custom has no entry
// here.
var v2v22IDs = map[WellKnown]string{
	Title:            "TT2",
	Artist:           "TP1",
	Album:            "TAL",
	Year:             "TYE",
	Genre:            "TCO",
	Comment:          "COM",
	Composer:         "TCM",
	Track:            "TRK",
	Date:             "TDA",
	TextWriter:       "TXT",
	AudioEncryption:  "CRA",
	Language:         "TLA",
	Time:             "TIM",
	OriginalFilename: "TOF",
	FileType:         "TFT",
	BandOrchestra:    "TP2",
}

var v2v34Reverse = reverseStringMap(v2v34IDs)
var v2v22Reverse = reverseStringMap(v2v22IDs)

func reverseStringMap(m map[WellKnown]string) map[string]WellKnown {
	r := make(map[string]WellKnown, len(m))
	for k, v := range m {
		r[v] = k
	}
	return r
}

// TXXXFrameID is the custom-text frame identifier written for a
// CustomKey on a V2.3/2.4 tag. TXXXFrameIDv2 is the V2.2 custom-text
// identifier; custom keys are not written to V2.2 tags.
const (
	TXXXFrameID   = "TXXX"
	TXXXFrameIDv2 = "TXX"
)

// V2FrameID returns the frame identifier for a well-known key k at the
// given major version (2, 3 or 4). It returns ok=false for custom keys;
// callers should use TXXXFrameID/TXXXFrameIDv2 directly for those.
func V2FrameID(version int, k Key) (id string, ok bool) {
	if k.IsCustom() {
		return "", false
	}
	if version == 2 {
		id, ok = v2v22IDs[k.Well]
		return id, ok
	}
	id, ok = v2v34IDs[k.Well]
	return id, ok
}

// V2KeyForFrameID returns the semantic key mapped to a frame id at the
// given major version, if any.
func V2KeyForFrameID(version int, id string) (Key, bool) {
	var w WellKnown
	var ok bool
	if version == 2 {
		w, ok = v2v22Reverse[id]
	} else {
		w, ok = v2v34Reverse[id]
	}
	if !ok {
		return Key{}, false
	}
	return WellKnownKey(w), true
}

// apeNames maps semantic keys to their conventional APEv2 item names.
var apeNames = map[WellKnown]string{
	Title:            "TITLE",
	Artist:           "ARTIST",
	Album:            "ALBUM",
	Year:             "YEAR",
	Genre:            "GENRE",
	Comment:          "COMMENT",
	Composer:         "COMPOSER",
	Track:            "TRACK",
	Date:             "DATE",
	TextWriter:       "WRITER",
	AudioEncryption:  "ENCRYPTION",
	Language:         "LANGUAGE",
	Time:             "TIME",
	OriginalFilename: "FILE",
	FileType:         "MEDIA",
	BandOrchestra:    "ALBUM ARTIST",
}

var apeReverse = reverseUpperMap(apeNames)

func reverseUpperMap(m map[WellKnown]string) map[string]WellKnown {
	r := make(map[string]WellKnown, len(m))
	for k, v := range m {
		r[strings.ToUpper(v)] = k
	}
	return r
}

// APEItemName returns the item name for k: the conventional name for a
// well-known key, or the custom name verbatim.
func APEItemName(k Key) string {
	if k.IsCustom() {
		return k.Name
	}
	if name, ok := apeNames[k.Well]; ok {
		return name
	}
	return ""
}

// KeyForAPEName returns the semantic key for an APE item name, matched
// case-insensitively per the APE key-comparison rule. Unrecognized
// names become custom keys carrying the name as it appeared on disk.
func KeyForAPEName(name string) Key {
	if w, ok := apeReverse[strings.ToUpper(name)]; ok {
		return WellKnownKey(w)
	}
	return CustomKey(name)
}
