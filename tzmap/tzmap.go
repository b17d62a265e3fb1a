// Package tzmap reads and writes the zone index file: a compact binary
// map from every known zone id, aliases included, to the id of the zone
// data file holding its timeline.
package tzmap

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"
	"strings"
)

var order = binary.BigEndian

// maxPool is the largest string pool a map file can hold.
const maxPool = 32767

// Entry maps one zone id to the id whose data file it shares.
type Entry struct {
	Alias  string
	Target string
}

// Map is a case-insensitive index of zone ids. The first spelling of an
// id is kept; a later Put for the same id, in any case, overwrites its
// target only.
type Map struct {
	entries []Entry
	byFold  map[string]int
}

func New() *Map {
	return &Map{byFold: make(map[string]int)}
}

func (m *Map) Put(alias, target string) {
	key := strings.ToLower(alias)
	if i, ok := m.byFold[key]; ok {
		m.entries[i].Target = target
		return
	}
	m.byFold[key] = len(m.entries)
	m.entries = append(m.entries, Entry{Alias: alias, Target: target})
}

// Lookup resolves an id to its data file id, ignoring case.
func (m *Map) Lookup(alias string) (string, bool) {
	i, ok := m.byFold[strings.ToLower(alias)]
	if !ok {
		return "", false
	}
	return m.entries[i].Target, true
}

func (m *Map) Len() int {
	return len(m.entries)
}

// Entries returns the map's entries ordered case-insensitively by alias.
func (m *Map) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Alias) < strings.ToLower(out[j].Alias)
	})
	return out
}

// Write encodes the map. Layout, big-endian: a uint16-sized string
// pool of uint16-length-prefixed UTF-8 strings, then a uint16 entry
// count, then a pair of pool indexes per entry.
func (m *Map) Write(w io.Writer) error {
	entries := m.Entries()

	var pool []string
	index := make(map[string]uint16)
	intern := func(s string) (uint16, error) {
		if i, ok := index[s]; ok {
			return i, nil
		}
		if len(pool) == maxPool {
			return 0, fmt.Errorf("too many time zone ids")
		}
		i := uint16(len(pool))
		index[s] = i
		pool = append(pool, s)
		return i, nil
	}

	type pair struct{ alias, target uint16 }
	pairs := make([]pair, len(entries))
	for i, e := range entries {
		a, err := intern(e.Alias)
		if err != nil {
			return err
		}
		t, err := intern(e.Target)
		if err != nil {
			return err
		}
		pairs[i] = pair{a, t}
	}

	if err := binary.Write(w, order, uint16(len(pool))); err != nil {
		return fmt.Errorf("write pool size: %w", err)
	}
	for _, s := range pool {
		if err := binary.Write(w, order, uint16(len(s))); err != nil {
			return fmt.Errorf("write pool entry: %w", err)
		}
		if _, err := w.Write([]byte(s)); err != nil {
			return fmt.Errorf("write pool entry: %w", err)
		}
	}
	if err := binary.Write(w, order, uint16(len(pairs))); err != nil {
		return fmt.Errorf("write entry count: %w", err)
	}
	for _, p := range pairs {
		if err := binary.Write(w, order, p.alias); err != nil {
			return fmt.Errorf("write entry: %w", err)
		}
		if err := binary.Write(w, order, p.target); err != nil {
			return fmt.Errorf("write entry: %w", err)
		}
	}
	return nil
}

// Read decodes a map written by Write.
func Read(r io.Reader) (*Map, error) {
	var poolSize uint16
	if err := binary.Read(r, order, &poolSize); err != nil {
		return nil, fmt.Errorf("read pool size: %w", err)
	}
	pool := make([]string, poolSize)
	for i := range pool {
		var n uint16
		if err := binary.Read(r, order, &n); err != nil {
			return nil, fmt.Errorf("read pool entry %d: %w", i, err)
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("read pool entry %d: %w", i, err)
		}
		pool[i] = string(buf)
	}

	var count uint16
	if err := binary.Read(r, order, &count); err != nil {
		return nil, fmt.Errorf("read entry count: %w", err)
	}
	m := New()
	for i := 0; i < int(count); i++ {
		var alias, target uint16
		if err := binary.Read(r, order, &alias); err != nil {
			return nil, fmt.Errorf("read entry %d: %w", i, err)
		}
		if err := binary.Read(r, order, &target); err != nil {
			return nil, fmt.Errorf("read entry %d: %w", i, err)
		}
		if int(alias) >= len(pool) || int(target) >= len(pool) {
			return nil, fmt.Errorf("entry %d: pool index out of range", i)
		}
		m.Put(pool[alias], pool[target])
	}
	return m, nil
}
