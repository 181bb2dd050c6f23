/*
NAME
  tag.go

DESCRIPTION
  tag.go implements the ID3v2 prefix tag: the 10-byte header, the
  optional extended header (skipped on read, never emitted on write),
  the frame stream, and trailing padding. The frame-stream scan follows
  codec/codecutil.ByteLexer's "keep reading until a stop condition,
  tolerate one bad unit without aborting the whole stream" shape: a
  corrupt frame stops the scan and is logged, but frames already parsed
  are still returned.

AUTHOR
  Mara Quill <mara@outerreef.dev>

LICENSE
  See LICENSE file in the root of this repository.
*/

// Package id3v2 implements the ID3v2.2/2.3/2.4 prefix tag.
package id3v2

import (
	"io"

	"github.com/ausocean/utils/logging"

	"github.com/outerreef/mp3tag/binfmt"
	"github.com/outerreef/mp3tag/id3v2/frame"
	"github.com/outerreef/mp3tag/internal/errs"
	"github.com/outerreef/mp3tag/tag"
)

// Log, if set by the host application, receives diagnostics for
// recoverable parse problems (a corrupt frame that stops the scan but
// doesn't fail the read). Nil by default; every call site nil-checks it.
var Log logging.Logger

// Magic is the 3-byte marker identifying the start of a V2 tag.
const Magic = "ID3"

// HeaderLen is the fixed size of the V2 tag header.
const HeaderLen = 10

// DefaultPadding is the amount of zero-byte padding appended on write so
// small subsequent edits can be made in place.
const DefaultPadding = 2048

// DefaultVersion is the major version used for a newly constructed tag.
const DefaultVersion = 3

// DefaultCommentLanguage is used when writing the Comment key, which
// carries no language in the unified view.
const DefaultCommentLanguage = "eng"

// Header flag bit positions (within the single flags byte, bit 7 = MSB).
const (
	flagUnsynchronized = 7
	flagExtendedHeader = 6
)

// Tag is the in-memory representation of an ID3v2 prefix tag.
type Tag struct {
	Version  int  // Major version: 2, 3 or 4.
	Revision byte
	Padding  int // Bytes of zero padding to append on write.

	frames []*frame.Frame // Parse/insertion order; duplicates allowed.
}

// New returns an empty V2 tag at DefaultVersion, ready to be populated.
func New() *Tag {
	return &Tag{Version: DefaultVersion, Padding: DefaultPadding}
}

// Format reports the tag format t belongs to.
func (t *Tag) Format() tag.Format { return tag.V2 }

// Locate reports the byte length of the V2 prefix region at the start
// of r (header + declared size), without fully parsing it. ok is false
// if no valid V2 header is present.
func Locate(r io.ReaderAt, size int64) (length int64, ok bool, err error) {
	if size < HeaderLen {
		return 0, false, nil
	}
	hdr := make([]byte, HeaderLen)
	if _, err := r.ReadAt(hdr, 0); err != nil {
		return 0, false, errs.Wrap(errs.IO, err, "reading v2 header")
	}
	if string(hdr[0:3]) != Magic {
		return 0, false, nil
	}
	major := int(hdr[3])
	if major != 2 && major != 3 && major != 4 {
		return 0, false, nil
	}
	declared := binfmt.SynchsafeDecode(hdr[6:10])
	return int64(HeaderLen) + int64(declared), true, nil
}

// ReadAt locates and parses the V2 tag at the start of r. It returns an
// *errs.Error of kind NotPresent if no valid header is found, and of
// kind InvalidTag if the header's declared size overruns the file
// itself — a structurally corrupt tag, not an I/O failure, so the
// orchestrator can fall through to the next format instead of aborting.
func ReadAt(r io.ReaderAt, size int64) (*Tag, int64, error) {
	length, ok, err := Locate(r, size)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, errs.New(errs.NotPresent, "no v2 header at start of file")
	}
	if length > size {
		return nil, 0, errs.New(errs.InvalidTag, "v2 declared size %d overruns file of %d bytes", length, size)
	}
	buf := make([]byte, length)
	if _, err := r.ReadAt(buf, 0); err != nil {
		return nil, 0, errs.Wrap(errs.IO, err, "reading v2 tag region")
	}
	t, err := Parse(buf)
	if err != nil {
		return nil, 0, err
	}
	return t, length, nil
}

// Parse decodes a full V2 prefix region: header, optional extended
// header, frame stream and padding.
func Parse(b []byte) (*Tag, error) {
	if len(b) < HeaderLen {
		return nil, errs.New(errs.NotPresent, "v2 region shorter than header")
	}
	if string(b[0:3]) != Magic {
		return nil, errs.New(errs.NotPresent, "v2 magic not found")
	}
	major := int(b[3])
	if major != 2 && major != 3 && major != 4 {
		return nil, errs.New(errs.NotPresent, "unsupported v2 major version %d", major)
	}

	t := &Tag{Version: major, Revision: b[4], Padding: DefaultPadding}
	flags := b[5]
	declared := binfmt.SynchsafeDecode(b[6:10])
	if int(declared) > len(b)-HeaderLen {
		return nil, errs.New(errs.InvalidTag, "v2 declared size %d exceeds region of %d bytes", declared, len(b)-HeaderLen)
	}
	region := b[HeaderLen : HeaderLen+int(declared)]

	if major >= 3 && binfmt.HasFlag(uint32(flags), flagExtendedHeader) {
		if n, ok := extHeaderLen(major, region); ok && n <= len(region) {
			region = region[n:]
		}
	}

	t.frames = parseFrames(major, region)
	return t, nil
}

// extHeaderLen reads the extended header's own declared length from the
// front of region: big-endian in v3, synchsafe in v4. The length
// includes the 4 size bytes themselves.
func extHeaderLen(major int, region []byte) (int, bool) {
	if len(region) < 4 {
		return 0, false
	}
	if major == 4 {
		return int(binfmt.SynchsafeDecode(region[0:4])), true
	}
	return int(binfmt.BEUint32(region[0:4])), true
}

// parseFrames scans region for a frame stream, stopping at end of
// region, the first zero-identifier byte (padding), or a frame whose
// declared size would run past region. The last case is logged and the
// scan stops without failing the read.
func parseFrames(major int, region []byte) []*frame.Frame {
	var frames []*frame.Frame
	pos := 0
	for pos < len(region) {
		f, consumed, atEnd, err := frame.Parse(major, region[pos:])
		if atEnd {
			break
		}
		if err != nil {
			if Log != nil {
				Log.Warning("id3v2: stopping frame scan on corrupt frame", "offset", pos, "error", err.Error())
			}
			break
		}
		frames = append(frames, f)
		pos += consumed
	}
	return frames
}

// Bytes serializes t: header, frame stream (each distinct identifier
// emitted once, using the last frame set under it; custom-text frames
// are told apart by identifier and description, so each custom key
// keeps its own frame), and Padding zero bytes.
func (t *Tag) Bytes() ([]byte, error) {
	slot := func(f *frame.Frame) string {
		if frame.IsCustomText(f.ID) {
			if desc, _, err := frame.CustomText(f); err == nil {
				return f.ID + "\x00" + desc
			}
		}
		return f.ID
	}
	seen := make(map[string]int, len(t.frames)) // slot -> index into order
	var order []string
	for _, f := range t.frames {
		s := slot(f)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = len(order)
		order = append(order, s)
	}
	last := make(map[string]*frame.Frame, len(seen)) // last write wins
	for _, f := range t.frames {
		last[slot(f)] = f
	}

	var body []byte
	for _, id := range order {
		fb, err := last[id].Bytes(t.Version)
		if err != nil {
			return nil, err
		}
		body = append(body, fb...)
	}

	padding := t.Padding
	if padding < 0 {
		padding = 0
	}
	size, err := binfmt.SynchsafeEncode(uint32(len(body) + padding))
	if err != nil {
		return nil, errs.Wrap(errs.InvalidValue, err, "v2 tag too large to encode")
	}

	out := make([]byte, 0, HeaderLen+len(body)+padding)
	out = append(out, Magic...)
	out = append(out, byte(t.Version), t.Revision, 0)
	out = append(out, size[:]...)
	out = append(out, body...)
	out = append(out, make([]byte, padding)...)
	return out, nil
}

// frameForKey returns the last-set frame holding k's V2 identifier, if
// any.
func (t *Tag) frameForKey(k tag.Key) (*frame.Frame, string, bool) {
	var id string
	if k.IsCustom() {
		if t.Version == 2 {
			return nil, "", false
		}
		id = tag.TXXXFrameID
	} else {
		fid, ok := tag.V2FrameID(t.Version, k)
		if !ok {
			return nil, "", false
		}
		id = fid
	}

	var found *frame.Frame
	for _, f := range t.frames {
		if f.ID != id {
			continue
		}
		if id != tag.TXXXFrameID && id != tag.TXXXFrameIDv2 {
			found = f
			continue
		}
		// Custom frames are matched by description, not just id.
		desc, _, err := frame.CustomText(f)
		if err == nil && desc == k.Name {
			found = f
		}
	}
	return found, id, found != nil
}

// Get returns the string value of k, if t carries it.
func (t *Tag) Get(k tag.Key) (string, bool) {
	f, id, ok := t.frameForKey(k)
	if !ok {
		return "", false
	}
	switch {
	case frame.IsCustomText(id):
		_, value, err := frame.CustomText(f)
		return value, err == nil
	case frame.IsComment(id):
		_, _, text, err := frame.Comment(f)
		return text, err == nil
	default:
		value, err := frame.Text(f)
		return value, err == nil
	}
}

// Set assigns value to k, replacing any prior frame for the same
// identifier (and, for custom keys, the same description). It returns
// UnsupportedKey if k has no home in this tag's major version.
func (t *Tag) Set(k tag.Key, value string) error {
	var newFrame *frame.Frame
	var err error

	if k.IsCustom() {
		if t.Version == 2 {
			return errs.New(errs.UnsupportedKey, "custom key %q has no frame on v2.2", k.Name)
		}
		newFrame, err = frame.NewCustomText(tag.TXXXFrameID, k.Name, value)
	} else {
		id, ok := tag.V2FrameID(t.Version, k)
		if !ok {
			return errs.New(errs.UnsupportedKey, "key %v has no v2.%d frame", k, t.Version)
		}
		switch {
		case frame.IsComment(id):
			newFrame, err = frame.NewComment(id, DefaultCommentLanguage, "", value)
		default:
			newFrame, err = frame.NewText(id, value)
		}
	}
	if err != nil {
		return err
	}

	t.removeMatching(k)
	t.frames = append(t.frames, newFrame)
	return nil
}

// Remove clears k from t, if present. It reports whether anything was
// removed.
func (t *Tag) Remove(k tag.Key) bool {
	return t.removeMatching(k)
}

func (t *Tag) removeMatching(k tag.Key) bool {
	_, id, ok := t.frameForKey(k)
	if !ok {
		return false
	}
	out := t.frames[:0]
	removed := false
	for _, f := range t.frames {
		if f.ID == id && matchesKey(f, id, k) {
			removed = true
			continue
		}
		out = append(out, f)
	}
	t.frames = out
	return removed
}

func matchesKey(f *frame.Frame, id string, k tag.Key) bool {
	if !frame.IsCustomText(id) {
		return true
	}
	desc, _, err := frame.CustomText(f)
	return err == nil && desc == k.Name
}

// Keys returns the semantic keys t carries a value for.
func (t *Tag) Keys() []tag.Key {
	var out []tag.Key
	seenCustom := make(map[string]bool)
	seenWell := make(map[tag.WellKnown]bool)
	for _, f := range t.frames {
		if frame.IsCustomText(f.ID) {
			desc, _, err := frame.CustomText(f)
			if err != nil || seenCustom[desc] {
				continue
			}
			seenCustom[desc] = true
			out = append(out, tag.CustomKey(desc))
			continue
		}
		if k, ok := tag.V2KeyForFrameID(t.Version, f.ID); ok {
			if seenWell[k.Well] {
				continue
			}
			seenWell[k.Well] = true
			out = append(out, k)
		}
	}
	return out
}

// IsEmpty reports whether t carries no frames at all.
func (t *Tag) IsEmpty() bool { return len(t.frames) == 0 }
