/*
NAME
  item_test.go

LICENSE
  See LICENSE file in the root of this repository.
*/

package item

import (
	"testing"

	"github.com/outerreef/mp3tag/internal/errs"
)

func TestRoundTrip(t *testing.T) {
	it := NewText("Title", "My Song")
	b, err := it.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != it.Size() {
		t.Errorf("Bytes() len = %d, want Size() = %d", len(b), it.Size())
	}
	got, consumed, err := Parse(b, 0)
	if err != nil {
		t.Fatal(err)
	}
	if consumed != len(b) {
		t.Errorf("consumed = %d, want %d", consumed, len(b))
	}
	if got.Key != "Title" || string(got.Value) != "My Song" {
		t.Errorf("got %+v", got)
	}
	if got.Binary || got.ReadOnly {
		t.Errorf("flags should be clear by default")
	}
}

func TestRoundTripBinaryReadOnly(t *testing.T) {
	it := &Item{Key: "Cover Art (Front)", Value: []byte{0xFF, 0xD8, 0xFF}, Binary: true, ReadOnly: true}
	b, err := it.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	got, _, err := Parse(b, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Binary || !got.ReadOnly {
		t.Errorf("got Binary=%v ReadOnly=%v, want both true", got.Binary, got.ReadOnly)
	}
}

func TestEqualKey(t *testing.T) {
	if !EqualKey("Title", "TITLE") {
		t.Error("EqualKey should be case-insensitive")
	}
	if EqualKey("Title", "Artist") {
		t.Error("EqualKey matched distinct keys")
	}
}

func TestBytesKeyTooShort(t *testing.T) {
	it := &Item{Key: "a", Value: []byte("v")}
	// Bytes() rejects a too-short key before it ever reaches the wire.
	if _, err := it.Bytes(); !errs.Is(err, errs.InvalidValue) {
		t.Fatalf("got %v, want InvalidValue", err)
	}
}

func TestParseNoTerminator(t *testing.T) {
	b := []byte{0, 0, 0, 0, 0, 0, 0, 0, 'a', 'b', 'c'}
	if _, _, err := Parse(b, 0); !errs.Is(err, errs.InvalidTag) {
		t.Fatalf("got %v, want InvalidTag", err)
	}
}

func TestParseValueSizeExceedsLimit(t *testing.T) {
	it := NewText("Title", "some value text")
	b, err := it.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := Parse(b, 4); !errs.Is(err, errs.InvalidTag) {
		t.Fatalf("got %v, want InvalidTag", err)
	}
}

func TestBytesRejectsEmbeddedNUL(t *testing.T) {
	it := &Item{Key: "ba\x00d", Value: []byte("v")}
	if _, err := it.Bytes(); !errs.Is(err, errs.InvalidValue) {
		t.Fatalf("got %v, want InvalidValue", err)
	}
}
