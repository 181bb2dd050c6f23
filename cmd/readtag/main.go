/*
NAME
  main.go

DESCRIPTION
  readtag is a thin CLI driver over engine.ReadOne/ReadAll: given a
  -key flag it prints one value per file, otherwise every key the file
  carries. Modeled on cmd/rv/main.go's flag-driven main wired to a
  logging.Logger.

AUTHOR
  Mara Quill <mara@outerreef.dev>

LICENSE
  See LICENSE file in the root of this repository.
*/

// Command readtag prints metadata from MP3 files tagged with ID3v1,
// ID3v2 and/or APEv2.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/ausocean/utils/logging"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/outerreef/mp3tag/engine"
	"github.com/outerreef/mp3tag/internal/errs"
	"github.com/outerreef/mp3tag/tag"
)

var (
	app     = kingpin.New("readtag", "Print metadata from MP3 files carrying ID3v1, ID3v2 and/or APEv2 tags.")
	keyFlag = app.Flag("key", "Print only this key (case-insensitive well-known name, or a custom key).").String()
	verbose = app.Flag("verbose", "Log engine diagnostics to stderr.").Bool()
	files   = app.Arg("file", "File to read.").Required().ExistingFiles()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	level := int8(logging.Warning)
	if *verbose {
		level = logging.Debug
	}
	log := logging.New(level, os.Stderr, true)
	eng := engine.New(log, engine.DefaultConfig())

	status := 0
	for _, path := range *files {
		if err := readFile(eng, path); err != nil {
			fmt.Fprintf(os.Stderr, "readtag: %s: %v\n", path, err)
			status = 1
		}
	}
	os.Exit(status)
}

func readFile(eng *engine.Engine, path string) error {
	if *keyFlag != "" {
		v, err := eng.ReadOne(path, tag.ParseKey(*keyFlag))
		if err != nil {
			if errs.Is(err, errs.EntryNotFound) {
				fmt.Printf("%s: %s: (not set)\n", path, *keyFlag)
				return nil
			}
			return err
		}
		fmt.Printf("%s: %s=%s\n", path, *keyFlag, v)
		return nil
	}

	all, err := eng.ReadAll(path)
	if err != nil {
		return err
	}
	keys := make([]tag.Key, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	fmt.Printf("%s:\n", path)
	for _, k := range keys {
		fmt.Printf("  %s=%s\n", k, all[k])
	}
	return nil
}
