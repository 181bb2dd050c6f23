/*
NAME
  tag_test.go

LICENSE
  See LICENSE file in the root of this repository.
*/

package id3v2

import (
	"bytes"
	"testing"

	"github.com/outerreef/mp3tag/binfmt"
	"github.com/outerreef/mp3tag/id3v2/frame"
	"github.com/outerreef/mp3tag/internal/errs"
	"github.com/outerreef/mp3tag/tag"
)

func TestRoundTripTextFrames(t *testing.T) {
	tg := New()
	if err := tg.Set(tag.WellKnownKey(tag.Title), "A Title"); err != nil {
		t.Fatal(err)
	}
	if err := tg.Set(tag.WellKnownKey(tag.Artist), "An Artist"); err != nil {
		t.Fatal(err)
	}

	b, err := tg.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	got, err := Parse(b)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := got.Get(tag.WellKnownKey(tag.Title)); !ok || v != "A Title" {
		t.Errorf("Title = %q, %v", v, ok)
	}
	if v, ok := got.Get(tag.WellKnownKey(tag.Artist)); !ok || v != "An Artist" {
		t.Errorf("Artist = %q, %v", v, ok)
	}
}

func TestCustomKeyRoundTripV3(t *testing.T) {
	tg := New()
	tg.Version = 3
	k := tag.CustomKey("ReplayGain")
	if err := tg.Set(k, "-6.0 dB"); err != nil {
		t.Fatal(err)
	}
	b, err := tg.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	got, err := Parse(b)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := got.Get(k); !ok || v != "-6.0 dB" {
		t.Errorf("got (%q, %v)", v, ok)
	}
}

func TestCustomKeyUnsupportedOnV22(t *testing.T) {
	tg := New()
	tg.Version = 2
	err := tg.Set(tag.CustomKey("X"), "y")
	if !errs.Is(err, errs.UnsupportedKey) {
		t.Fatalf("got %v, want UnsupportedKey", err)
	}
}

func TestCommentRoundTrip(t *testing.T) {
	tg := New()
	if err := tg.Set(tag.WellKnownKey(tag.Comment), "liner notes"); err != nil {
		t.Fatal(err)
	}
	b, err := tg.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	got, err := Parse(b)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := got.Get(tag.WellKnownKey(tag.Comment)); !ok || v != "liner notes" {
		t.Errorf("got (%q, %v)", v, ok)
	}
}

func TestSetReplacesPriorValue(t *testing.T) {
	tg := New()
	must(t, tg.Set(tag.WellKnownKey(tag.Title), "first"))
	must(t, tg.Set(tag.WellKnownKey(tag.Title), "second"))
	b, err := tg.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	got, err := Parse(b)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := got.Get(tag.WellKnownKey(tag.Title)); v != "second" {
		t.Errorf("Title = %q, want second", v)
	}
	if n := len(got.Keys()); n != 1 {
		t.Errorf("Keys() has %d entries, want 1", n)
	}
}

func TestRemove(t *testing.T) {
	tg := New()
	must(t, tg.Set(tag.WellKnownKey(tag.Title), "x"))
	if !tg.Remove(tag.WellKnownKey(tag.Title)) {
		t.Fatal("Remove reported false")
	}
	if _, ok := tg.Get(tag.WellKnownKey(tag.Title)); ok {
		t.Error("Title still present after Remove")
	}
	if tg.Remove(tag.WellKnownKey(tag.Title)) {
		t.Error("second Remove reported true")
	}
}

func TestIsEmpty(t *testing.T) {
	tg := New()
	if !tg.IsEmpty() {
		t.Error("new tag should be empty")
	}
	must(t, tg.Set(tag.WellKnownKey(tag.Title), "x"))
	if tg.IsEmpty() {
		t.Error("tag with a set key should not be empty")
	}
}

func TestParseNotPresent(t *testing.T) {
	if _, err := Parse([]byte("not a tag")); !errs.Is(err, errs.NotPresent) {
		t.Fatalf("got %v, want NotPresent", err)
	}
}

func TestParseFramesStopsOnCorruptFrame(t *testing.T) {
	valid, err := frame.NewText("TIT2", "ok")
	if err != nil {
		t.Fatal(err)
	}
	validBytes, err := valid.Bytes(3)
	if err != nil {
		t.Fatal(err)
	}
	// Append a frame-shaped header with a garbage, non-alphanumeric
	// identifier so frame.Parse rejects it without panicking the scan.
	region := append(append([]byte{}, validBytes...), 'x', '!', '2', '4', 0, 0, 0, 1, 0, 0, 'z')
	frames := parseFrames(3, region)
	if len(frames) != 1 || frames[0].ID != "TIT2" {
		t.Fatalf("got %d frames, want 1 valid frame before the corrupt one", len(frames))
	}
}

func TestLocateAndReadAt(t *testing.T) {
	tg := New()
	must(t, tg.Set(tag.WellKnownKey(tag.Album), "An Album"))
	b, err := tg.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	body := append(b, []byte("audio data follows")...)
	r := bytes.NewReader(body)

	length, ok, err := Locate(r, int64(len(body)))
	if err != nil || !ok {
		t.Fatalf("Locate: ok=%v err=%v", ok, err)
	}
	if length != int64(len(b)) {
		t.Errorf("Locate length = %d, want %d", length, len(b))
	}

	got, n, err := ReadAt(r, int64(len(body)))
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(len(b)) {
		t.Errorf("ReadAt consumed %d, want %d", n, len(b))
	}
	if v, ok := got.Get(tag.WellKnownKey(tag.Album)); !ok || v != "An Album" {
		t.Errorf("Album = %q, %v", v, ok)
	}
}

// TestReadAtDeclaredSizeOverrunsFile checks that a header declaring
// more bytes than the file actually has is reported as an invalid tag
// rather than an I/O failure, so the orchestrator can fall through to
// another format instead of aborting outright.
func TestReadAtDeclaredSizeOverrunsFile(t *testing.T) {
	header := make([]byte, HeaderLen)
	copy(header, Magic)
	header[3] = 3 // major version
	sz, err := binfmt.SynchsafeEncode(10_000)
	if err != nil {
		t.Fatal(err)
	}
	copy(header[6:], sz[:])
	body := append(header, []byte("not nearly enough bytes")...)
	r := bytes.NewReader(body)

	_, _, err = ReadAt(r, int64(len(body)))
	if !errs.Is(err, errs.InvalidTag) {
		t.Fatalf("got %v, want InvalidTag", err)
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
