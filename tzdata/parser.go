package tzdata

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"
)

// Link is a Link line: Alias names the same timeline as Target.
type Link struct {
	Target string
	Alias  string
}

// Parser accumulates the rule sets, zones and links of one or more data
// files. Zero value is not usable; call NewParser.
type Parser struct {
	RuleSets map[string]*RuleSet
	Zones    []*Zone

	// GoodLinks are aliases compiled as full copies of their target.
	// BackLinks are deprecated names stored as plain aliases.
	GoodLinks []Link
	BackLinks []Link

	log *slog.Logger

	// open is a zone whose continuation lines may still follow.
	open *Zone
}

func NewParser(log *slog.Logger) *Parser {
	if log == nil {
		log = slog.Default()
	}
	return &Parser{
		RuleSets: make(map[string]*RuleSet),
		log:      log,
	}
}

// parseError decorates a parse failure with its source position.
type parseError struct {
	lineNumber int
	line       string
	err        error
}

func (e *parseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.lineNumber, e.line, e.err)
}

func (e *parseError) Unwrap() error {
	return e.err
}

// ParseDataFile reads one tz data file. backward marks files whose Link
// lines are deprecated names; those become back links rather than full
// zone copies. Results accumulate across calls.
func (p *Parser) ParseDataFile(r io.Reader, backward bool) error {
	sc := bufio.NewScanner(r)
	lineNumber := 0
	for sc.Scan() {
		lineNumber++
		line := sc.Text()
		fields := splitLine(line)
		if fields == nil {
			continue
		}

		if unicode.IsSpace(rune(line[0])) {
			// Zone continuation line.
			if p.open != nil {
				seg, err := parseZoneSegment(newCursor(fields))
				if err != nil {
					return &parseError{lineNumber, line, err}
				}
				p.open.Segments = append(p.open.Segments, seg)
			}
			continue
		}
		p.commitOpenZone()

		if err := p.parseLine(fields, backward); err != nil {
			return &parseError{lineNumber, line, err}
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	p.commitOpenZone()
	return nil
}

func (p *Parser) commitOpenZone() {
	if p.open != nil {
		p.Zones = append(p.Zones, p.open)
		p.open = nil
	}
}

func (p *Parser) parseLine(fields []string, backward bool) error {
	c := newCursor(fields)
	keyword, _ := c.next()
	l := strings.ToLower(keyword)

	switch {
	case isAbbrev(l, "rule", "r"):
		r, err := parseRule(c)
		if err != nil {
			return err
		}
		rs := p.RuleSets[r.Name]
		if rs == nil {
			rs = &RuleSet{}
			p.RuleSets[r.Name] = rs
		}
		return rs.Add(r)

	case isAbbrev(l, "zone", "z"):
		if c.remaining() < 4 {
			return fmt.Errorf("zone line is incomplete")
		}
		name, _ := c.next()
		seg, err := parseZoneSegment(c)
		if err != nil {
			return err
		}
		p.open = &Zone{Name: name, Segments: []ZoneSegment{seg}}
		return nil

	case isAbbrev(l, "link", "l"):
		target, err := c.next()
		if err != nil {
			return err
		}
		alias, err := c.next()
		if err != nil {
			return err
		}
		p.addLink(target, alias, backward)
		return nil

	default:
		p.log.Warn("unknown line", slog.String("keyword", keyword))
		return nil
	}
}

// addLink routes a link. Links in backward files are deprecated names; a
// few aliases in other files are special-cased the same way to repair
// damage done to the upstream database.
func (p *Parser) addLink(target, alias string, backward bool) {
	l := Link{Target: target, Alias: alias}
	if backward || alias == "US/Pacific-New" || strings.HasPrefix(alias, "Etc/") || alias == "GMT" {
		p.BackLinks = append(p.BackLinks, l)
	} else {
		p.GoodLinks = append(p.GoodLinks, l)
	}
}
