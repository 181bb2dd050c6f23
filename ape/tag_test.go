/*
NAME
  tag_test.go

LICENSE
  See LICENSE file in the root of this repository.
*/

package ape

import (
	"bytes"
	"testing"

	"github.com/outerreef/mp3tag/id3v1"
	"github.com/outerreef/mp3tag/internal/errs"
	"github.com/outerreef/mp3tag/tag"
)

func TestRoundTripWithHeader(t *testing.T) {
	tg := New()
	must(t, tg.Set(tag.WellKnownKey(tag.Title), "My Song"))
	must(t, tg.Set(tag.CustomKey("MusicBrainz Track Id"), "abc-123"))

	b, err := tg.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	audio := []byte("leading audio")
	body := append(append([]byte{}, audio...), b...)
	r := bytes.NewReader(body)

	got, region, err := ReadAt(r, int64(len(body)), 0)
	if err != nil {
		t.Fatal(err)
	}
	if region.Offset != int64(len(audio)) || region.Length != int64(len(b)) {
		t.Errorf("region = %+v, want offset %d length %d", region, len(audio), len(b))
	}
	if v, ok := got.Get(tag.WellKnownKey(tag.Title)); !ok || v != "My Song" {
		t.Errorf("Title = %q, %v", v, ok)
	}
	if v, ok := got.Get(tag.CustomKey("MusicBrainz Track Id")); !ok || v != "abc-123" {
		t.Errorf("custom key = %q, %v", v, ok)
	}
	if !got.HasHeader {
		t.Error("HasHeader should be true")
	}
}

func TestRoundTripNoHeader(t *testing.T) {
	tg := New()
	tg.HasHeader = false
	must(t, tg.Set(tag.WellKnownKey(tag.Album), "An Album"))

	b, err := tg.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	r := bytes.NewReader(b)
	got, region, err := ReadAt(r, int64(len(b)), 0)
	if err != nil {
		t.Fatal(err)
	}
	if got.HasHeader {
		t.Error("HasHeader should be false")
	}
	if region.Offset != 0 {
		t.Errorf("region.Offset = %d, want 0", region.Offset)
	}
}

func TestReadAtBeforeV1(t *testing.T) {
	tg := New()
	must(t, tg.Set(tag.WellKnownKey(tag.Artist), "Someone"))
	apeBytes, err := tg.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	v1 := id3v1.New()
	v1.Title = "X"
	v1Bytes, err := v1.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	body := append(append([]byte("audio"), apeBytes...), v1Bytes...)
	r := bytes.NewReader(body)

	got, region, err := ReadAt(r, int64(len(body)), 0)
	if err != nil {
		t.Fatal(err)
	}
	if !region.BeforeV1 {
		t.Error("BeforeV1 should be true when a trailing V1 record follows")
	}
	if v, ok := got.Get(tag.WellKnownKey(tag.Artist)); !ok || v != "Someone" {
		t.Errorf("Artist = %q, %v", v, ok)
	}
}

func TestReadAtNotPresent(t *testing.T) {
	r := bytes.NewReader(make([]byte, 200))
	_, _, err := ReadAt(r, 200, 0)
	if !errs.Is(err, errs.NotPresent) {
		t.Fatalf("got %v, want NotPresent", err)
	}
}

func TestRemoveAndIsEmpty(t *testing.T) {
	tg := New()
	if !tg.IsEmpty() {
		t.Fatal("new tag should be empty")
	}
	must(t, tg.Set(tag.WellKnownKey(tag.Genre), "Rock"))
	if tg.IsEmpty() {
		t.Fatal("tag with an item should not be empty")
	}
	if !tg.Remove(tag.WellKnownKey(tag.Genre)) {
		t.Fatal("Remove reported false")
	}
	if !tg.IsEmpty() {
		t.Fatal("tag should be empty again after removing its only item")
	}
}

func TestKeysRoundTripsUnknownNamesAsCustom(t *testing.T) {
	tg := New()
	must(t, tg.Set(tag.CustomKey("Some Unrecognized Field"), "v"))
	keys := tg.Keys()
	if len(keys) != 1 || !keys[0].IsCustom() || keys[0].Name != "Some Unrecognized Field" {
		t.Errorf("got %+v", keys)
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
