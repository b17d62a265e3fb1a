package zonebuild

import (
	"encoding/binary"
	"fmt"
	"io"
)

var order = binary.BigEndian

// Binary zone file layout, all integers big-endian:
//
//	uint32  magic "ZIC1"
//	uint16  pool size
//	pool entries: uint16 length, UTF-8 bytes
//	initial state: int32 offset, int32 standard offset, uint16 name index
//	uint32  transition count
//	transitions: int64 instant, int32 offset, int32 standard offset, uint16 name index
//
// The zone id is not stored; it comes from the file name.
const zoneMagic uint32 = 0x5A494331

type zoneState struct {
	Offset   int32
	Standard int32
	NameIdx  uint16
}

// Write encodes the zone to w.
func (z *CompiledZone) Write(w io.Writer) error {
	var pool []string
	index := make(map[string]uint16)
	intern := func(name string) uint16 {
		if i, ok := index[name]; ok {
			return i
		}
		i := uint16(len(pool))
		index[name] = i
		pool = append(pool, name)
		return i
	}
	initial := zoneState{
		Offset:   int32(z.initial.OffsetMillis),
		Standard: int32(z.initial.StandardMillis),
		NameIdx:  intern(z.initial.NameKey),
	}
	records := make([]zoneState, len(z.trans))
	for i, t := range z.trans {
		records[i] = zoneState{
			Offset:   int32(t.OffsetMillis),
			Standard: int32(t.StandardMillis),
			NameIdx:  intern(t.NameKey),
		}
	}

	if err := binary.Write(w, order, zoneMagic); err != nil {
		return fmt.Errorf("write magic: %w", err)
	}
	if err := binary.Write(w, order, uint16(len(pool))); err != nil {
		return fmt.Errorf("write pool size: %w", err)
	}
	for _, name := range pool {
		if err := binary.Write(w, order, uint16(len(name))); err != nil {
			return fmt.Errorf("write pool entry: %w", err)
		}
		if _, err := w.Write([]byte(name)); err != nil {
			return fmt.Errorf("write pool entry: %w", err)
		}
	}
	if err := binary.Write(w, order, initial); err != nil {
		return fmt.Errorf("write initial state: %w", err)
	}
	if err := binary.Write(w, order, uint32(len(z.trans))); err != nil {
		return fmt.Errorf("write transition count: %w", err)
	}
	for i, t := range z.trans {
		if err := binary.Write(w, order, t.Instant); err != nil {
			return fmt.Errorf("write transition %d: %w", i, err)
		}
		if err := binary.Write(w, order, records[i]); err != nil {
			return fmt.Errorf("write transition %d: %w", i, err)
		}
	}
	return nil
}

// ReadZone decodes a zone from r, assigning it the given id.
func ReadZone(r io.Reader, id string) (*CompiledZone, error) {
	var magic uint32
	if err := binary.Read(r, order, &magic); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if magic != zoneMagic {
		return nil, fmt.Errorf("bad magic %#08x", magic)
	}

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
	name := func(idx uint16) (string, error) {
		if int(idx) >= len(pool) {
			return "", fmt.Errorf("name index %d out of range", idx)
		}
		return pool[idx], nil
	}

	var initial zoneState
	if err := binary.Read(r, order, &initial); err != nil {
		return nil, fmt.Errorf("read initial state: %w", err)
	}
	z := &CompiledZone{id: id}
	initialName, err := name(initial.NameIdx)
	if err != nil {
		return nil, err
	}
	z.initial = Transition{
		OffsetMillis:   int(initial.Offset),
		StandardMillis: int(initial.Standard),
		NameKey:        initialName,
	}

	var count uint32
	if err := binary.Read(r, order, &count); err != nil {
		return nil, fmt.Errorf("read transition count: %w", err)
	}
	z.trans = make([]Transition, count)
	for i := range z.trans {
		var instant int64
		var rec zoneState
		if err := binary.Read(r, order, &instant); err != nil {
			return nil, fmt.Errorf("read transition %d: %w", i, err)
		}
		if err := binary.Read(r, order, &rec); err != nil {
			return nil, fmt.Errorf("read transition %d: %w", i, err)
		}
		nameKey, err := name(rec.NameIdx)
		if err != nil {
			return nil, err
		}
		z.trans[i] = Transition{
			Instant:        instant,
			OffsetMillis:   int(rec.Offset),
			StandardMillis: int(rec.Standard),
			NameKey:        nameKey,
		}
	}
	return z, nil
}
