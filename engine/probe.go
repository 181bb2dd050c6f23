/*
NAME
  probe.go

DESCRIPTION
  probe.go loads whichever of the V1, V2 and APE tags are present in a
  file, capturing both the parsed in-memory tag and the exact raw bytes
  of its on-disk region so an untouched sibling format can be preserved
  byte-for-byte on write.

AUTHOR
  Mara Quill <mara@outerreef.dev>

LICENSE
  See LICENSE file in the root of this repository.
*/

package engine

import (
	"os"

	"github.com/outerreef/mp3tag/ape"
	"github.com/outerreef/mp3tag/id3v1"
	"github.com/outerreef/mp3tag/id3v2"
	"github.com/outerreef/mp3tag/internal/errs"
	"github.com/outerreef/mp3tag/rewrite"
	"github.com/outerreef/mp3tag/tag"
)

// found describes one located tag: its parsed form, the byte region it
// occupies, and a verbatim copy of that region as it appears on disk.
type found struct {
	v1  *id3v1.Tag
	v2  *id3v2.Tag
	ape *ape.Tag

	region rewrite.Region
	raw    []byte
}

// probed holds every format located in a single file.
type probed struct {
	size int64
	v1   *found
	v2   *found
	ape  *found
}

func (p *probed) get(f tag.Format) *found {
	switch f {
	case tag.V1:
		return p.v1
	case tag.V2:
		return p.v2
	case tag.APE:
		return p.ape
	default:
		return nil
	}
}

func (p *probed) set(f tag.Format, v *found) {
	switch f {
	case tag.V1:
		p.v1 = v
	case tag.V2:
		p.v2 = v
	case tag.APE:
		p.ape = v
	}
}

// probeFile locates every tag format present in f, a file of the given
// size. A format that isn't present, or whose structure is invalid, is
// simply absent from the result; only an I/O failure is returned as an
// error.
func (e *Engine) probeFile(f *os.File, size int64) (*probed, error) {
	p := &probed{size: size}

	if v2Tag, length, err := id3v2.ReadAt(f, size); err == nil {
		raw := make([]byte, length)
		if _, rerr := f.ReadAt(raw, 0); rerr != nil {
			return nil, errs.Wrap(errs.IO, rerr, "reading v2 region")
		}
		p.v2 = &found{v2: v2Tag, region: rewrite.Region{Offset: 0, Length: length}, raw: raw}
	} else if !isRecoverable(err) {
		return nil, err
	} else {
		e.logProbe(tag.V2, err)
	}

	if v1Tag, err := id3v1.ReadAt(f, size); err == nil {
		offset, _ := id3v1.Locate(size)
		raw := make([]byte, id3v1.Size)
		if _, rerr := f.ReadAt(raw, offset); rerr != nil {
			return nil, errs.Wrap(errs.IO, rerr, "reading v1 region")
		}
		p.v1 = &found{v1: v1Tag, region: rewrite.Region{Offset: offset, Length: id3v1.Size}, raw: raw}
	} else if !isRecoverable(err) {
		return nil, err
	} else {
		e.logProbe(tag.V1, err)
	}

	if apeTag, region, err := ape.ReadAt(f, size, e.cfg.APEMaxValueSize); err == nil {
		raw := make([]byte, region.Length)
		if _, rerr := f.ReadAt(raw, region.Offset); rerr != nil {
			return nil, errs.Wrap(errs.IO, rerr, "reading ape region")
		}
		p.ape = &found{ape: apeTag, region: rewrite.Region{Offset: region.Offset, Length: region.Length}, raw: raw}
	} else if !isRecoverable(err) {
		return nil, err
	} else {
		e.logProbe(tag.APE, err)
	}

	return p, nil
}

// isRecoverable reports whether err is the kind of probe failure the
// orchestrator treats as "this format isn't usably present" rather than
// a hard failure: not-present, or a structurally invalid tag.
func isRecoverable(err error) bool {
	return errs.Is(err, errs.NotPresent) || errs.Is(err, errs.InvalidTag)
}

func (e *Engine) logProbe(f tag.Format, err error) {
	if e.log == nil || errs.Is(err, errs.NotPresent) {
		return
	}
	e.log.Debug("engine: skipping invalid tag during probe", "format", f.String(), "error", err.Error())
}

// skipRegions collects the on-disk byte ranges of every located tag, so
// the rewriter excludes them all from the audio-body copy regardless of
// which one is being changed.
func (p *probed) skipRegions() []rewrite.Region {
	var out []rewrite.Region
	for _, f := range []*found{p.v1, p.v2, p.ape} {
		if f != nil {
			out = append(out, f.region)
		}
	}
	return out
}
