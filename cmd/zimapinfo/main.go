// Command zimapinfo prints the contents of a ZoneInfoMap index file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-zoneinfo/zic/tzmap"
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
	if len(args) != 1 {
		return fmt.Errorf("Usage: zimapinfo <ZoneInfoMap file>")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	m, err := tzmap.Read(f)
	if err != nil {
		return err
	}

	fmt.Println("Entries:", m.Len())
	for _, e := range m.Entries() {
		if e.Alias == e.Target {
			fmt.Println(e.Alias)
		} else {
			fmt.Printf("%s -> %s\n", e.Alias, e.Target)
		}
	}
	return nil
}
