/*
NAME
  main.go

DESCRIPTION
  main.go implements writetag, a thin CLI driver over engine.WriteOne
  and engine.ClearOne: it writes or removes a single semantic key in a
  single file, through whichever tag format the caller names.

AUTHOR
  Mara Quill <mara@outerreef.dev>

LICENSE
  See LICENSE file in the root of this repository.
*/

// Command writetag sets or removes one piece of metadata in an MP3
// file, writing it through a named tag format (v1, v2 or ape) while
// leaving any other tag format present untouched.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ausocean/utils/logging"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/outerreef/mp3tag/engine"
	"github.com/outerreef/mp3tag/internal/filelock"
	"github.com/outerreef/mp3tag/tag"
)

var (
	app        = kingpin.New("writetag", "Set or remove a single tag on an MP3 file.")
	keyFlag    = app.Flag("key", "Key to write (case-insensitive well-known name, or a custom key).").Required().String()
	valueFlag  = app.Flag("value", "Value to write; not used with --remove.").String()
	removeFlag = app.Flag("remove", "Remove the key instead of setting it.").Bool()
	formatFlag = app.Flag("format", "Tag format to write through: v1, v2 or ape.").Default("v2").String()
	lockFlag   = app.Flag("lock", "Take an advisory file lock on the target before writing.").Bool()
	verbose    = app.Flag("verbose", "Log engine diagnostics to stderr.").Bool()
	file       = app.Arg("file", "File to modify.").Required().ExistingFile()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	format, ok := tag.ParseFormat(*formatFlag)
	if !ok {
		kingpin.Fatalf("unrecognized format %q (want v1, v2 or ape)", *formatFlag)
	}

	if *lockFlag {
		l := filelock.New(*file)
		if err := l.Acquire(10 * time.Second); err != nil {
			fmt.Fprintf(os.Stderr, "writetag: %v\n", err)
			os.Exit(1)
		}
		defer l.Release()
	}

	level := int8(logging.Warning)
	if *verbose {
		level = logging.Debug
	}
	log := logging.New(level, os.Stderr, true)
	eng := engine.New(log, engine.DefaultConfig())

	k := tag.ParseKey(*keyFlag)
	var err error
	if *removeFlag {
		err = eng.ClearOne(*file, k)
	} else {
		err = eng.WriteOne(*file, k, *valueFlag, format)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "writetag: %s: %v\n", *file, err)
		os.Exit(1)
	}
}
