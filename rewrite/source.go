/*
NAME
  source.go

DESCRIPTION
  source.go implements Source, a read-only view over a file that
  transparently skips a set of byte ranges (the existing tag regions)
  while streaming the remainder. It generalizes device/file.AVFile's
  read-with-seek behavior: where AVFile.Read seeks back to the start on
  loop, Source seeks past each tag region as the copy cursor reaches it.

AUTHOR
  Mara Quill <mara@outerreef.dev>

LICENSE
  See LICENSE file in the root of this repository.
*/

package rewrite

import (
	"io"
	"sort"

	"github.com/outerreef/mp3tag/internal/errs"
)

// Region is a byte range within the original file, used to describe an
// existing tag region the rewriter must not copy as audio.
type Region struct {
	Offset int64
	Length int64
}

// Source streams the audio-body bytes of a file, skipping a set of
// Region ranges that hold existing tags.
type Source struct {
	r    io.ReaderAt
	size int64
	skip []Region
}

// NewSource returns a Source over r (a file of the given total size)
// that will skip the given regions when copied. Regions need not be
// pre-sorted.
func NewSource(r io.ReaderAt, size int64, skip []Region) *Source {
	sorted := make([]Region, len(skip))
	copy(sorted, skip)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })
	return &Source{r: r, size: size, skip: sorted}
}

// WriteTo copies the audio body to dst using a buffer of bufSize bytes,
// skipping every region Source was constructed with.
func (s *Source) WriteTo(dst io.Writer, bufSize int) error {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	buf := make([]byte, bufSize)

	pos := int64(0)
	for _, region := range s.skip {
		if region.Offset > pos {
			if err := s.copyRange(dst, pos, region.Offset, buf); err != nil {
				return err
			}
		}
		if end := region.Offset + region.Length; end > pos {
			pos = end
		}
	}
	if pos < s.size {
		return s.copyRange(dst, pos, s.size, buf)
	}
	return nil
}

// copyRange copies bytes [start, end) from s.r to dst using buf as
// scratch space.
func (s *Source) copyRange(dst io.Writer, start, end int64, buf []byte) error {
	for start < end {
		n := int64(len(buf))
		if remaining := end - start; remaining < n {
			n = remaining
		}
		if _, err := s.r.ReadAt(buf[:n], start); err != nil && err != io.EOF {
			return errs.Wrap(errs.IO, err, "reading audio body at offset %d", start)
		}
		if _, err := dst.Write(buf[:n]); err != nil {
			return errs.Wrap(errs.IO, err, "writing audio body")
		}
		start += n
	}
	return nil
}
