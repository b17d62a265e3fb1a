// Command zicdiff compares two compiled zone files.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"

	"github.com/go-zoneinfo/zic/internal/zonebuild"
)

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()
	args := flag.Args()
	if len(args) != 2 {
		return fmt.Errorf("Usage: zicdiff <zone file A> <zone file B>")
	}

	a, err := readZoneFile(args[0])
	if err != nil {
		return err
	}
	b, err := readZoneFile(args[1])
	if err != nil {
		return err
	}

	type zone struct {
		Initial     zonebuild.Transition
		Transitions []zonebuild.Transition
	}
	za := zone{a.Initial(), a.Transitions()}
	zb := zone{b.Initial(), b.Transitions()}

	if diff := cmp.Diff(za, zb); diff != "" {
		fmt.Println("zones are different: -A +B")
		fmt.Println(diff)
	} else {
		fmt.Println("zones are identical")
	}
	return nil
}

func readZoneFile(path string) (*zonebuild.CompiledZone, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return zonebuild.ReadZone(f, filepath.Base(path))
}
