/*
NAME
  main.go

DESCRIPTION
  main.go implements tagmgr, a multi-subcommand driver over the engine
  package: get/set/remove/clear act on a single file, and watch applies
  a fixed set of key=value writes to every file that appears in a
  watched directory. Modeled on cmd/rv/main.go's lumberjack-backed
  logging setup.

AUTHOR
  Mara Quill <mara@outerreef.dev>

LICENSE
  See LICENSE file in the root of this repository.
*/

// Command tagmgr is a multi-subcommand manager for MP3 tag metadata,
// with get, set, remove and clear subcommands plus a watch mode that
// auto-tags files as they land in a directory.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/alecthomas/kingpin.v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/utils/logging"

	"github.com/outerreef/mp3tag/engine"
	"github.com/outerreef/mp3tag/internal/errs"
	"github.com/outerreef/mp3tag/tag"
)

const (
	logMaxSize   = 10 // megabytes
	logMaxBackup = 5
	logMaxAge    = 30 // days
)

var (
	app = kingpin.New("tagmgr", "Manage MP3 tag metadata: get, set, remove, clear or watch a directory.")

	logPath = app.Flag("log", "Write diagnostics to this file in addition to stderr.").String()
	verbose = app.Flag("verbose", "Enable debug-level logging.").Bool()

	getCmd  = app.Command("get", "Print a single key's value.")
	getKey  = getCmd.Arg("key", "Key to read.").Required().String()
	getFile = getCmd.Arg("file", "File to read.").Required().ExistingFile()

	setCmd    = app.Command("set", "Set a single key's value.")
	setKey    = setCmd.Arg("key", "Key to write.").Required().String()
	setValue  = setCmd.Arg("value", "Value to write.").Required().String()
	setFile   = setCmd.Arg("file", "File to modify.").Required().ExistingFile()
	setFormat = setCmd.Flag("format", "Tag format to write through: v1, v2 or ape.").Default("v2").String()

	removeCmd  = app.Command("remove", "Remove a single key.")
	removeKey  = removeCmd.Arg("key", "Key to remove.").Required().String()
	removeFile = removeCmd.Arg("file", "File to modify.").Required().ExistingFile()

	clearCmd  = app.Command("clear", "Remove every well-known key.")
	clearFile = clearCmd.Arg("file", "File to modify.").Required().ExistingFile()

	watchCmd    = app.Command("watch", "Watch a directory and tag every file that appears in it.")
	watchDir    = watchCmd.Arg("dir", "Directory to watch.").Required().ExistingDir()
	watchFormat = watchCmd.Flag("format", "Tag format to write through: v1, v2 or ape.").Default("v2").String()
	watchSet    = watchCmd.Flag("set", "key=value pair to apply to every new file; may be repeated.").Strings()
)

func main() {
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	level := int8(logging.Warning)
	if *verbose {
		level = logging.Debug
	}
	out := io.Writer(os.Stderr)
	if *logPath != "" {
		fileLog := &lumberjack.Logger{
			Filename:   *logPath,
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackup,
			MaxAge:     logMaxAge,
		}
		out = io.MultiWriter(fileLog, os.Stderr)
	}
	log := logging.New(level, out, true)
	eng := engine.New(log, engine.DefaultConfig())

	var err error
	switch cmd {
	case getCmd.FullCommand():
		err = runGet(eng)
	case setCmd.FullCommand():
		err = runSet(eng)
	case removeCmd.FullCommand():
		err = eng.ClearOne(*removeFile, tag.ParseKey(*removeKey))
	case clearCmd.FullCommand():
		err = eng.ClearAll(*clearFile)
	case watchCmd.FullCommand():
		err = runWatch(eng, log)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "tagmgr: %v\n", err)
		os.Exit(1)
	}
}

func runGet(eng *engine.Engine) error {
	v, err := eng.ReadOne(*getFile, tag.ParseKey(*getKey))
	if err != nil {
		if errs.Is(err, errs.EntryNotFound) {
			fmt.Println("(not set)")
			return nil
		}
		return err
	}
	fmt.Println(v)
	return nil
}

func runSet(eng *engine.Engine) error {
	format, ok := tag.ParseFormat(*setFormat)
	if !ok {
		return errs.New(errs.InvalidValue, "unrecognized format %q", *setFormat)
	}
	return eng.WriteOne(*setFile, tag.ParseKey(*setKey), *setValue, format)
}

// runWatch applies the fixed set of key=value pairs named by --set to
// every file that is created in watchDir, until interrupted.
func runWatch(eng *engine.Engine, log logging.Logger) error {
	format, ok := tag.ParseFormat(*watchFormat)
	if !ok {
		return errs.New(errs.InvalidValue, "unrecognized format %q", *watchFormat)
	}
	pairs, err := parsePairs(*watchSet)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errs.Wrap(errs.IO, err, "could not create watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(*watchDir); err != nil {
		return errs.Wrap(errs.IO, err, "could not watch %s", *watchDir)
	}
	log.Info("tagmgr: watching", "dir", *watchDir, "format", format.String())

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			info, statErr := os.Stat(ev.Name)
			if statErr != nil || info.IsDir() {
				continue
			}
			log.Info("tagmgr: tagging new file", "path", ev.Name, "size", humanize.Bytes(uint64(info.Size())))
			for _, p := range pairs {
				if err := eng.WriteOne(ev.Name, p.key, p.value, format); err != nil {
					log.Error("tagmgr: write failed", "path", ev.Name, "key", p.key.String(), "error", err.Error())
				}
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("tagmgr: watcher error", "error", werr.Error())
		}
	}
}

type pair struct {
	key   tag.Key
	value string
}

func parsePairs(raw []string) ([]pair, error) {
	pairs := make([]pair, 0, len(raw))
	for _, r := range raw {
		k, v, ok := strings.Cut(r, "=")
		if !ok {
			return nil, errs.New(errs.InvalidValue, "malformed --set %q, want key=value", r)
		}
		pairs = append(pairs, pair{key: tag.ParseKey(k), value: v})
	}
	return pairs, nil
}
