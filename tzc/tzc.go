// Package tzc compiles tz data files into binary zone files and the
// ZoneInfoMap index that unites them.
package tzc

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-zoneinfo/zic/internal/zonebuild"
	"github.com/go-zoneinfo/zic/tzbuilder"
	"github.com/go-zoneinfo/zic/tzdata"
	"github.com/go-zoneinfo/zic/tzmap"
)

// MapFileName is the name of the index file written next to the
// compiled zones.
const MapFileName = "ZoneInfoMap"

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger routes the compiler's diagnostics to log.
func WithLogger(log *slog.Logger) Option {
	return func(c *Compiler) { c.log = log }
}

// WithBuilderFactory substitutes the timeline builder used per zone.
func WithBuilderFactory(f func() tzbuilder.ZoneBuilder) Option {
	return func(c *Compiler) { c.newBuilder = f }
}

// Compiler parses tz data files and compiles every zone they define.
type Compiler struct {
	parser     *tzdata.Parser
	log        *slog.Logger
	newBuilder func() tzbuilder.ZoneBuilder
}

func New(opts ...Option) *Compiler {
	c := &Compiler{
		log:        slog.Default(),
		newBuilder: func() tzbuilder.ZoneBuilder { return zonebuild.New() },
	}
	for _, opt := range opts {
		opt(c)
	}
	c.parser = tzdata.NewParser(c.log)
	return c
}

// ParseFile parses one data file from disk. A file named "backward"
// holds deprecated zone names and gets its links routed accordingly.
func (c *Compiler) ParseFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return c.Parse(f, filepath.Base(path) == "backward")
}

// Parse parses one data file from a stream.
func (c *Compiler) Parse(r io.Reader, backward bool) error {
	return c.parser.ParseDataFile(r, backward)
}

// Compile builds every parsed zone, resolves links, and returns the
// verified zones by id. When outputDir is non-empty each zone is also
// written to disk there, along with the ZoneInfoMap index.
//
// Zones that fail verification are logged and left out. A broken zone
// definition is an error; a zone whose compiled timeline misbehaves is
// skipped so the rest of the database still compiles.
func (c *Compiler) Compile(outputDir string) (map[string]tzbuilder.TimeZone, error) {
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	zones := make(map[string]tzbuilder.TimeZone)
	sources := make(map[string]*tzdata.Zone)

	for _, zone := range c.parser.Zones {
		tz, err := c.build(zone, zone.Name)
		if err != nil {
			return nil, err
		}
		if err := Verify(tz); err != nil {
			c.log.Warn("zone failed verification", slog.String("zone", zone.Name), slog.Any("error", err))
			continue
		}
		zones[zone.Name] = tz
		sources[zone.Name] = zone
		if outputDir != "" {
			if err := c.writeZone(outputDir, tz); err != nil {
				return nil, err
			}
		}
	}

	// Good links are full copies: the alias gets its own zone file,
	// compiled from the target's definition.
	for _, l := range c.parser.GoodLinks {
		src, ok := sources[l.Target]
		if !ok {
			c.log.Warn("cannot find source zone for link",
				slog.String("zone", l.Target), slog.String("alias", l.Alias))
			continue
		}
		tz, err := c.build(src, l.Alias)
		if err != nil {
			return nil, err
		}
		if err := Verify(tz); err != nil {
			c.log.Warn("linked zone failed verification", slog.String("zone", l.Alias), slog.Any("error", err))
			continue
		}
		zones[l.Alias] = tz
		if outputDir != "" {
			if err := c.writeZone(outputDir, tz); err != nil {
				return nil, err
			}
		}
		c.log.Debug("good link revived", slog.String("alias", l.Alias), slog.String("target", l.Target))
	}

	// Back links are plain aliases. Two passes so a link whose target
	// is itself a link resolves regardless of file order; misses are
	// only reported once every target has had a chance to appear.
	c.resolveBackLinks(zones, false)
	c.resolveBackLinks(zones, true)

	if outputDir != "" {
		if err := c.writeMap(outputDir, zones); err != nil {
			return nil, err
		}
	}
	return zones, nil
}

func (c *Compiler) build(zone *tzdata.Zone, id string) (tzbuilder.TimeZone, error) {
	b := c.newBuilder()
	if err := zone.ResolveTo(b, c.parser.RuleSets, c.log); err != nil {
		return nil, err
	}
	return b.ToTimeZone(id)
}

func (c *Compiler) resolveBackLinks(zones map[string]tzbuilder.TimeZone, report bool) {
	for _, l := range c.parser.BackLinks {
		tz, ok := zones[l.Target]
		if !ok {
			if report {
				c.log.Warn("cannot find time zone for link",
					slog.String("zone", l.Target), slog.String("alias", l.Alias))
			}
			continue
		}
		if _, done := zones[l.Alias]; done {
			continue
		}
		zones[l.Alias] = tz
		c.log.Debug("back link stored", slog.String("alias", l.Alias), slog.String("target", tz.ID()))
	}
}

// writeZone writes one compiled zone and checks it reads back
// identically.
func (c *Compiler) writeZone(outputDir string, tz tzbuilder.TimeZone) error {
	cz, ok := tz.(*zonebuild.CompiledZone)
	if !ok {
		return fmt.Errorf("zone %s: cannot encode %T", tz.ID(), tz)
	}
	c.log.Debug("writing zone", slog.String("zone", tz.ID()))

	path := filepath.Join(outputDir, filepath.FromSlash(tz.ID()))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := cz.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("zone %s: %w", tz.ID(), err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	g, err := os.Open(path)
	if err != nil {
		return err
	}
	defer g.Close()
	back, err := zonebuild.ReadZone(g, tz.ID())
	if err != nil {
		return fmt.Errorf("zone %s: read back: %w", tz.ID(), err)
	}
	if !cz.Equal(back) {
		c.log.Error("zone did not read back identically", slog.String("zone", tz.ID()))
	}
	return nil
}

// writeMap writes the ZoneInfoMap index pointing every id, alias or
// not, at the id of the zone file holding its data.
func (c *Compiler) writeMap(outputDir string, zones map[string]tzbuilder.TimeZone) error {
	ids := make([]string, 0, len(zones))
	for id := range zones {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	m := tzmap.New()
	for _, id := range ids {
		m.Put(id, zones[id].ID())
	}

	f, err := os.Create(filepath.Join(outputDir, MapFileName))
	if err != nil {
		return err
	}
	if err := m.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", MapFileName, err)
	}
	return f.Close()
}
