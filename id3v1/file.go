/*
NAME
  file.go

DESCRIPTION
  file.go locates and reads a V1 record from an arbitrary io.ReaderAt,
  keeping the file-access boundary thin: callers (the rewrite and engine
  packages) own the *os.File, this package only knows where in it a V1
  record would live.

AUTHOR
  Mara Quill <mara@outerreef.dev>

LICENSE
  See LICENSE file in the root of this repository.
*/

package id3v1

import (
	"io"

	"github.com/outerreef/mp3tag/internal/errs"
)

// Locate returns the byte offset of a candidate V1 record within a file
// of the given size, i.e. size-128. ok is false if the file is too
// short to hold one.
func Locate(size int64) (offset int64, ok bool) {
	if size < Size {
		return 0, false
	}
	return size - Size, true
}

// ReadAt locates and parses the V1 record in r, a file of the given
// size. It returns an *errs.Error of kind NotPresent if size is too
// small or the magic doesn't match.
func ReadAt(r io.ReaderAt, size int64) (*Tag, error) {
	offset, ok := Locate(size)
	if !ok {
		return nil, errs.New(errs.NotPresent, "file shorter than %d bytes", Size)
	}
	buf := make([]byte, Size)
	if _, err := r.ReadAt(buf, offset); err != nil {
		return nil, errs.Wrap(errs.IO, err, "reading v1 record")
	}
	return Parse(buf)
}
