/*
NAME
  plan_test.go

LICENSE
  See LICENSE file in the root of this repository.
*/

package rewrite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/outerreef/mp3tag/internal/errs"
)

func TestExecuteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.mp3")
	original := []byte("OLDTAG|THE AUDIO BODY|OLDFOOTER")
	if err := os.WriteFile(path, original, 0o644); err != nil {
		t.Fatal(err)
	}

	plan := Plan{
		Path:        path,
		V2Prefix:    []byte("NEWTAG|"),
		Suffix:      []byte("|NEWFOOTER"),
		SkipRegions: []Region{{Offset: 0, Length: 7}, {Offset: int64(len(original) - 10), Length: 10}},
		BufferSize:  4,
	}
	if err := Execute(plan); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "NEWTAG|THE AUDIO BODY|NEWFOOTER"
	if string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if _, err := os.Stat(path + TempSuffix); !os.IsNotExist(err) {
		t.Errorf("temp file should be gone after a successful rewrite, stat err = %v", err)
	}
}

func TestExecuteNoSkipOrAffixes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.mp3")
	if err := os.WriteFile(path, []byte("untouched audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Execute(Plan{Path: path}); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "untouched audio" {
		t.Errorf("got %q, want unchanged content", got)
	}
}

// TestExecuteLeavesOriginalUntouchedOnFailure simulates a mid-rewrite
// fault (an unreadable source) and checks both halves of the
// crash-safety invariant: the original file is untouched and no
// temporary file is left behind.
func TestExecuteLeavesOriginalUntouchedOnFailure(t *testing.T) {
	dir := t.TempDir()
	// A directory opens successfully but cannot be read as a byte
	// stream, so the fault surfaces inside Source.WriteTo, after the
	// temp file has already been created.
	path := filepath.Join(dir, "not-a-file")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatal(err)
	}

	err := Execute(Plan{Path: path})
	if err == nil {
		t.Fatal("want error rewriting an unreadable source, got nil")
	}
	if !errs.Is(err, errs.IO) {
		t.Errorf("got %v, want IO", err)
	}

	if _, statErr := os.Stat(path + TempSuffix); !os.IsNotExist(statErr) {
		t.Errorf("temp file should not remain after a failed rewrite, stat err = %v", statErr)
	}
	info, statErr := os.Stat(path)
	if statErr != nil || !info.IsDir() {
		t.Errorf("original path should be untouched, stat = %+v, err = %v", info, statErr)
	}
}

func TestExecuteMissingSourceFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "does-not-exist.mp3")
	err := Execute(Plan{Path: path})
	if !errs.Is(err, errs.IO) {
		t.Fatalf("got %v, want IO", err)
	}
	if _, statErr := os.Stat(path + TempSuffix); !os.IsNotExist(statErr) {
		t.Errorf("temp file should not exist, stat err = %v", statErr)
	}
}
