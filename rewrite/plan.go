/*
NAME
  plan.go

DESCRIPTION
  plan.go implements Execute, the only component in this module that
  creates persistent changes: it streams the unmodified audio body to a
  temporary sibling file, splices in the new tag bytes, and atomically
  renames the result into place. Plan collects the three optional byte
  producers into one options struct, mirroring container/mts's
  EncodeOptions-style configuration structs, and the file handling
  follows device/file.AVFile's "wrap every I/O error with
  fmt.Errorf(...: %w, err)" convention.

AUTHOR
  Mara Quill <mara@outerreef.dev>

LICENSE
  See LICENSE file in the root of this repository.
*/

// Package rewrite locates existing tag regions, copies the audio body
// unchanged, splices in new tag bytes and atomically swaps the result
// into place.
package rewrite

import (
	"os"

	"github.com/outerreef/mp3tag/internal/errs"
)

// DefaultBufferSize is the copy buffer size used when Plan.BufferSize
// is zero.
const DefaultBufferSize = 8 << 10

// TempSuffix is appended to the original path to name the temporary
// sibling file Execute builds the new contents in.
const TempSuffix = ".tmp"

// Plan describes one rewrite of Path: an optional V2 prefix to write
// ahead of the audio body, the existing tag regions to exclude from
// that body, and an optional suffix (APE tag then V1 record, in that
// order, since APE precedes a trailing V1 record at the end of a file).
type Plan struct {
	Path        string
	V2Prefix    []byte
	Suffix      []byte
	SkipRegions []Region
	BufferSize  int
}

// Execute opens Path read-only, streams its audio body (skipping
// SkipRegions) into a temporary sibling
// file preceded by V2Prefix and followed by Suffix, then atomically
// rename the temporary file over Path. A crash or error before the
// final rename leaves Path untouched; the temporary file is removed on
// every error path.
func Execute(plan Plan) error {
	f, err := os.Open(plan.Path)
	if err != nil {
		return errs.Wrap(errs.IO, err, "could not open %s for rewrite", plan.Path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errs.Wrap(errs.IO, err, "could not stat %s", plan.Path)
	}

	tmpPath := plan.Path + TempSuffix
	t, err := os.Create(tmpPath)
	if err != nil {
		return errs.Wrap(errs.IO, err, "could not create temp file %s", tmpPath)
	}
	cleanup := func() {
		t.Close()
		os.Remove(tmpPath)
	}

	if len(plan.V2Prefix) > 0 {
		if _, err := t.Write(plan.V2Prefix); err != nil {
			cleanup()
			return errs.Wrap(errs.IO, err, "could not write v2 prefix to %s", tmpPath)
		}
	}

	src := NewSource(f, info.Size(), plan.SkipRegions)
	if err := src.WriteTo(t, plan.BufferSize); err != nil {
		cleanup()
		return err
	}

	if len(plan.Suffix) > 0 {
		if _, err := t.Write(plan.Suffix); err != nil {
			cleanup()
			return errs.Wrap(errs.IO, err, "could not write tag suffix to %s", tmpPath)
		}
	}

	if err := t.Sync(); err != nil {
		cleanup()
		return errs.Wrap(errs.IO, err, "could not flush %s", tmpPath)
	}
	if err := t.Close(); err != nil {
		os.Remove(tmpPath)
		return errs.Wrap(errs.IO, err, "could not close %s", tmpPath)
	}

	if err := os.Rename(tmpPath, plan.Path); err != nil {
		os.Remove(tmpPath)
		return errs.Wrap(errs.RenameFailed, err, "could not rename %s to %s", tmpPath, plan.Path)
	}
	return nil
}
