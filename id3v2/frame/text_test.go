/*
NAME
  text_test.go

LICENSE
  See LICENSE file in the root of this repository.
*/

package frame

import "testing"

func TestTextRoundTripLatin1(t *testing.T) {
	f, err := NewText("TIT2", "Hello")
	if err != nil {
		t.Fatal(err)
	}
	if f.Data[0] != EncLatin1 {
		t.Errorf("encoding = %d, want EncLatin1", f.Data[0])
	}
	got, err := Text(f)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hello" {
		t.Errorf("Text() = %q, want %q", got, "Hello")
	}
}

func TestTextRoundTripUTF8(t *testing.T) {
	const s = "日本語"
	f, err := NewText("TIT2", s)
	if err != nil {
		t.Fatal(err)
	}
	if f.Data[0] != EncUTF8 {
		t.Errorf("encoding = %d, want EncUTF8", f.Data[0])
	}
	got, err := Text(f)
	if err != nil {
		t.Fatal(err)
	}
	if got != s {
		t.Errorf("Text() = %q, want %q", got, s)
	}
}

func TestCustomTextRoundTrip(t *testing.T) {
	f, err := NewCustomText("TXXX", "MusicBrainz Album Id", "abc-123")
	if err != nil {
		t.Fatal(err)
	}
	desc, val, err := CustomText(f)
	if err != nil {
		t.Fatal(err)
	}
	if desc != "MusicBrainz Album Id" || val != "abc-123" {
		t.Errorf("got (%q, %q)", desc, val)
	}
}

func TestCustomTextEmptyValue(t *testing.T) {
	f, err := NewCustomText("TXXX", "EmptyKey", "")
	if err != nil {
		t.Fatal(err)
	}
	desc, val, err := CustomText(f)
	if err != nil {
		t.Fatal(err)
	}
	if desc != "EmptyKey" || val != "" {
		t.Errorf("got (%q, %q), want (%q, %q)", desc, val, "EmptyKey", "")
	}
}

func TestCommentRoundTrip(t *testing.T) {
	f, err := NewComment("COMM", "eng", "short", "a longer comment body")
	if err != nil {
		t.Fatal(err)
	}
	lang, desc, text, err := Comment(f)
	if err != nil {
		t.Fatal(err)
	}
	if lang != "eng" || desc != "short" || text != "a longer comment body" {
		t.Errorf("got (%q, %q, %q)", lang, desc, text)
	}
}

func TestCommentBadLanguage(t *testing.T) {
	if _, err := NewComment("COMM", "en", "d", "t"); err == nil {
		t.Fatal("want error for 2-byte language code")
	}
}

func TestUTF16RoundTripWithBOM(t *testing.T) {
	const s = "café ☃"
	body, err := encodeText(s, EncUTF16BOM)
	if err != nil {
		t.Fatal(err)
	}
	got, err := decodeText(body, EncUTF16BOM)
	if err != nil {
		t.Fatal(err)
	}
	if got != s {
		t.Errorf("got %q, want %q", got, s)
	}
}

func TestUTF16BERoundTrip(t *testing.T) {
	const s = "plain ascii"
	body, err := encodeText(s, EncUTF16BE)
	if err != nil {
		t.Fatal(err)
	}
	got, err := decodeText(body, EncUTF16BE)
	if err != nil {
		t.Fatal(err)
	}
	if got != s {
		t.Errorf("got %q, want %q", got, s)
	}
}

func TestIsTextIsCustomTextIsComment(t *testing.T) {
	if !IsText("TIT2") || IsText("TXXX") || IsText("COMM") {
		t.Error("IsText classification wrong")
	}
	if !IsCustomText("TXXX") || !IsCustomText("TXX") || IsCustomText("TIT2") {
		t.Error("IsCustomText classification wrong")
	}
	if !IsComment("COMM") || !IsComment("COM") || IsComment("TIT2") {
		t.Error("IsComment classification wrong")
	}
}
