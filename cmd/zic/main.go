// Command zic compiles tz data files into binary zone files and a
// ZoneInfoMap index.
package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/go-zoneinfo/zic/tzc"
	"github.com/go-zoneinfo/zic/tzdb"
)

func usage() {
	fmt.Println("Usage: zic <options> <source files>")
	fmt.Println("where possible options include:")
	fmt.Println("  -src <directory>    Specify where to read source files")
	fmt.Println("  -dst <directory>    Specify where to write generated files")
	fmt.Println("  -iana               Compile the latest IANA release instead of source files")
	fmt.Println("  -verbose            Output verbose information during compilation")
	fmt.Println("  -?                  Show this usage message")
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		color.Red("zic: %v", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		srcDir, dstDir string
		verbose, iana  bool
	)
	i := 0
loop:
	for ; i < len(args); i++ {
		switch args[i] {
		case "-src":
			i++
			if i >= len(args) {
				usage()
				return nil
			}
			srcDir = args[i]
		case "-dst":
			i++
			if i >= len(args) {
				usage()
				return nil
			}
			dstDir = args[i]
		case "-verbose":
			verbose = true
		case "-iana":
			iana = true
		case "-?":
			usage()
			return nil
		default:
			break loop
		}
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	c := tzc.New(tzc.WithLogger(log))

	if iana {
		release, _, err := tzdb.Latest(context.Background(), "")
		if err != nil {
			return err
		}
		log.Info("downloaded IANA release", slog.String("version", release.Version))
		for _, name := range release.SortedNames() {
			if err := c.Parse(bytes.NewReader(release.DataFiles[name]), name == "backward"); err != nil {
				return fmt.Errorf("parse %s: %w", name, err)
			}
		}
	} else {
		if i >= len(args) {
			usage()
			return nil
		}
		for ; i < len(args); i++ {
			path := args[i]
			if srcDir != "" {
				path = filepath.Join(srcDir, path)
			}
			if err := c.ParseFile(path); err != nil {
				return err
			}
		}
	}

	zones, err := c.Compile(dstDir)
	if err != nil {
		return err
	}
	log.Info("compiled zones", slog.Int("count", len(zones)))
	return nil
}
