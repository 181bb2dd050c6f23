/*
NAME
  engine.go

DESCRIPTION
  engine.go implements the public, format-independent operations:
  ReadOne, ReadAll, WriteOne, ClearOne and ClearAll. Engine is the
  single coordinating type that owns per-format dispatch, grounded on
  revid.Revid's role as the coordinating type that owns per-sender
  state and dispatches to the right codec.

AUTHOR
  Mara Quill <mara@outerreef.dev>

LICENSE
  See LICENSE file in the root of this repository.
*/

// Package engine implements the multi-format orchestrator: it probes a
// file for V1, V2 and APE tags, resolves a unified semantic key against
// whichever are present, and writes changes through the rewrite package
// while preserving untouched sibling tags byte-for-byte.
package engine

import (
	"os"

	"github.com/ausocean/utils/logging"

	"github.com/outerreef/mp3tag/ape"
	"github.com/outerreef/mp3tag/id3v1"
	"github.com/outerreef/mp3tag/id3v2"
	"github.com/outerreef/mp3tag/internal/errs"
	"github.com/outerreef/mp3tag/rewrite"
	"github.com/outerreef/mp3tag/tag"
)

// Engine is the entry point for every format-independent operation.
type Engine struct {
	log logging.Logger
	cfg Config
}

// New returns an Engine with the given logger (may be nil) and
// configuration; zero fields in cfg are replaced with their defaults.
func New(log logging.Logger, cfg Config) *Engine {
	return &Engine{log: log, cfg: cfg.withDefaults()}
}

// keys returns the semantic keys fd carries a value for.
func (fd *found) keys() []tag.Key {
	switch {
	case fd.v1 != nil:
		var out []tag.Key
		for _, w := range tag.WellKnownKeys {
			k := tag.WellKnownKey(w)
			if _, ok := fd.v1.Get(k); ok {
				out = append(out, k)
			}
		}
		return out
	case fd.v2 != nil:
		return fd.v2.Keys()
	case fd.ape != nil:
		return fd.ape.Keys()
	default:
		return nil
	}
}

// get returns the string value of k from fd, if fd carries it.
func (fd *found) get(k tag.Key) (string, bool) {
	switch {
	case fd.v1 != nil:
		return fd.v1.Get(k)
	case fd.v2 != nil:
		return fd.v2.Get(k)
	case fd.ape != nil:
		return fd.ape.Get(k)
	default:
		return "", false
	}
}

// ReadOne resolves k against path by probing V2, V1 and APE in that
// priority order, returning the first value found.
func (e *Engine) ReadOne(path string, k tag.Key) (string, error) {
	p, err := e.probePath(path)
	if err != nil {
		return "", err
	}
	for _, format := range tag.Priority {
		fd := p.get(format)
		if fd == nil {
			continue
		}
		if v, ok := fd.get(k); ok {
			return v, nil
		}
	}
	return "", errs.New(errs.EntryNotFound, "key %v not found in %s", k, path)
}

// ReadAll resolves every key any present format carries against path,
// following the same V2-then-V1-then-APE priority as ReadOne. Only the
// first non-empty value per key is collected; a key with no non-empty
// value in any located format is simply absent from the result.
func (e *Engine) ReadAll(path string) (map[tag.Key]string, error) {
	p, err := e.probePath(path)
	if err != nil {
		return nil, err
	}
	result := make(map[tag.Key]string)
	for _, format := range tag.Priority {
		fd := p.get(format)
		if fd == nil {
			continue
		}
		for _, k := range fd.keys() {
			if _, exists := result[k]; exists {
				continue
			}
			if v, ok := fd.get(k); ok && v != "" {
				result[k] = v
			}
		}
	}
	return result, nil
}

// WriteOne writes k=value into the preferred format, constructing an
// empty tag of that format if none is present, and preserving every
// other located tag byte-for-byte.
func (e *Engine) WriteOne(path string, k tag.Key, value string, preferred tag.Format) error {
	p, err := e.probePath(path)
	if err != nil {
		return err
	}

	target := p.get(preferred)
	// Keep the located region of the format being written so the
	// rewriter still skips its old bytes when copying the audio body.
	var region rewrite.Region
	if target != nil {
		region = target.region
	}
	switch preferred {
	case tag.V1:
		t := id3v1.New()
		if target != nil && target.v1 != nil {
			t = target.v1
		}
		if err := t.Set(k, value); err != nil {
			return err
		}
		p.set(tag.V1, &found{v1: t, region: region})
	case tag.V2:
		t := id3v2.New()
		t.Padding = e.cfg.PaddingSize
		if target != nil && target.v2 != nil {
			t = target.v2
		}
		if err := t.Set(k, value); err != nil {
			return err
		}
		p.set(tag.V2, &found{v2: t, region: region})
	case tag.APE:
		t := ape.New()
		t.MaxItemValueSize = e.cfg.APEMaxValueSize
		if target != nil && target.ape != nil {
			t = target.ape
		}
		if err := t.Set(k, value); err != nil {
			return err
		}
		p.set(tag.APE, &found{ape: t, region: region})
	default:
		return errs.New(errs.UnsupportedKey, "unrecognized format %v", preferred)
	}

	return e.rewriteRegions(path, p, map[tag.Format]bool{preferred: true})
}

// ClearOne removes k from every format present that carries it. It is a
// no-op, returning nil, if no format present carries k.
func (e *Engine) ClearOne(path string, k tag.Key) error {
	p, err := e.probePath(path)
	if err != nil {
		return err
	}

	touched := make(map[tag.Format]bool)
	if p.v1 != nil && p.v1.v1.Remove(k) {
		touched[tag.V1] = true
	}
	if p.v2 != nil && p.v2.v2.Remove(k) {
		touched[tag.V2] = true
	}
	if p.ape != nil && p.ape.ape.Remove(k) {
		touched[tag.APE] = true
	}
	if len(touched) == 0 {
		return nil
	}
	return e.rewriteRegions(path, p, touched)
}

// ClearAll removes every well-known-key entry from every format
// present. Custom keys are left untouched.
func (e *Engine) ClearAll(path string) error {
	p, err := e.probePath(path)
	if err != nil {
		return err
	}

	touched := make(map[tag.Format]bool)
	for _, w := range tag.WellKnownKeys {
		k := tag.WellKnownKey(w)
		if p.v1 != nil && p.v1.v1.Remove(k) {
			touched[tag.V1] = true
		}
		if p.v2 != nil && p.v2.v2.Remove(k) {
			touched[tag.V2] = true
		}
		if p.ape != nil && p.ape.ape.Remove(k) {
			touched[tag.APE] = true
		}
	}
	if len(touched) == 0 {
		return nil
	}
	return e.rewriteRegions(path, p, touched)
}

// probePath opens path and probes it for every tag format.
func (e *Engine) probePath(path string) (*probed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.IO, err, "could not open %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errs.Wrap(errs.IO, err, "could not stat %s", path)
	}
	return e.probeFile(f, info.Size())
}

// rewriteRegions builds a rewrite.Plan from p's current in-memory
// state and executes it. Formats named in touched are re-serialized (or
// dropped entirely if now empty); every other located format is carried
// through as its original, unmodified bytes.
func (e *Engine) rewriteRegions(path string, p *probed, touched map[tag.Format]bool) error {
	plan := rewrite.Plan{
		Path:        path,
		BufferSize:  e.cfg.CopyBufferSize,
		SkipRegions: p.skipRegions(),
	}

	if touched[tag.V2] {
		if p.v2 != nil && !p.v2.v2.IsEmpty() {
			b, err := p.v2.v2.Bytes()
			if err != nil {
				return err
			}
			plan.V2Prefix = b
		}
	} else if p.v2 != nil {
		plan.V2Prefix = p.v2.raw
	}

	var apeBytes, v1Bytes []byte
	if touched[tag.APE] {
		if p.ape != nil && !p.ape.ape.IsEmpty() {
			b, err := p.ape.ape.Bytes()
			if err != nil {
				return err
			}
			apeBytes = b
		}
	} else if p.ape != nil {
		apeBytes = p.ape.raw
	}
	if touched[tag.V1] {
		if p.v1 != nil && !p.v1.v1.IsEmpty() {
			b, err := p.v1.v1.Bytes()
			if err != nil {
				return err
			}
			v1Bytes = b
		}
	} else if p.v1 != nil {
		v1Bytes = p.v1.raw
	}

	suffix := make([]byte, 0, len(apeBytes)+len(v1Bytes))
	suffix = append(suffix, apeBytes...)
	suffix = append(suffix, v1Bytes...)
	plan.Suffix = suffix

	if e.log != nil {
		e.log.Debug("engine: rewriting", "path", path, "v2Bytes", len(plan.V2Prefix), "suffixBytes", len(plan.Suffix))
	}
	return rewrite.Execute(plan)
}
