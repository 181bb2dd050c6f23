/*
NAME
  source_test.go

LICENSE
  See LICENSE file in the root of this repository.
*/

package rewrite

import (
	"bytes"
	"testing"
)

func TestWriteToSkipsRegions(t *testing.T) {
	data := []byte("0123456789ABCDEFGHIJ")
	// Skip [5,8) and [15,18).
	src := NewSource(bytes.NewReader(data), int64(len(data)), []Region{
		{Offset: 15, Length: 3},
		{Offset: 5, Length: 3}, // deliberately out of order
	})

	var buf bytes.Buffer
	if err := src.WriteTo(&buf, 4); err != nil {
		t.Fatal(err)
	}
	want := "01234" + "89ABCDE" + "IJ"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteToNoRegions(t *testing.T) {
	data := []byte("all audio, no tags")
	src := NewSource(bytes.NewReader(data), int64(len(data)), nil)
	var buf bytes.Buffer
	if err := src.WriteTo(&buf, 0); err != nil {
		t.Fatal(err)
	}
	if buf.String() != string(data) {
		t.Errorf("got %q, want %q", buf.String(), data)
	}
}

func TestWriteToRegionAtStart(t *testing.T) {
	data := []byte("TAGHEADER|audio body")
	src := NewSource(bytes.NewReader(data), int64(len(data)), []Region{{Offset: 0, Length: 10}})
	var buf bytes.Buffer
	if err := src.WriteTo(&buf, 8); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "audio body" {
		t.Errorf("got %q, want %q", buf.String(), "audio body")
	}
}

func TestWriteToRegionAtEnd(t *testing.T) {
	data := []byte("audio body|TRAILERTAG")
	src := NewSource(bytes.NewReader(data), int64(len(data)), []Region{{Offset: 11, Length: 10}})
	var buf bytes.Buffer
	if err := src.WriteTo(&buf, 8); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "audio body|" {
		t.Errorf("got %q, want %q", buf.String(), "audio body|")
	}
}

func TestWriteToOverlappingRegionsCollapse(t *testing.T) {
	data := []byte("0123456789")
	// Two overlapping skip regions covering [2,5) and [4,8).
	src := NewSource(bytes.NewReader(data), int64(len(data)), []Region{
		{Offset: 2, Length: 3},
		{Offset: 4, Length: 4},
	})
	var buf bytes.Buffer
	if err := src.WriteTo(&buf, 4); err != nil {
		t.Fatal(err)
	}
	want := "01" + "89"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
