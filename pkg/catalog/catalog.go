// Package catalog holds the static list of modules students pick from.
// It is loaded once and then only read, so a Catalog is safe for concurrent use.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spcalc/spcalc/pkg/spcode"
)

// Module is one catalog entry.
type Module struct {
	Index    int     `json:"index" yaml:"-"`
	Code     string  `json:"code" yaml:"code"`
	Title    string  `json:"title" yaml:"title"`
	Credits  float64 `json:"credits" yaml:"credits"`
	Semester string  `json:"semester,omitempty" yaml:"semester,omitempty"` // "1", "2" or empty
}

// Catalog is an indexed, searchable set of modules.
type Catalog struct {
	modules []Module
	byCode  map[string]int // lowercased code -> position
}

// New builds a Catalog, assigning each module its position as Index.
func New(modules []Module) *Catalog {
	c := &Catalog{
		modules: make([]Module, len(modules)),
		byCode:  make(map[string]int, len(modules)),
	}
	for i, m := range modules {
		m.Index = i
		c.modules[i] = m
		key := strings.ToLower(m.Code)
		if _, dup := c.byCode[key]; !dup {
			c.byCode[key] = i
		}
	}
	return c
}

// Parse decodes a catalog document. JSON arrays are the canonical format;
// YAML lists are accepted as well.
func Parse(data []byte) (*Catalog, error) {
	var modules []Module
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &modules); err != nil {
			return nil, fmt.Errorf("parsing catalog json: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &modules); err != nil {
		return nil, fmt.Errorf("parsing catalog yaml: %w", err)
	}

	for i, m := range modules {
		if strings.TrimSpace(m.Code) == "" {
			return nil, fmt.Errorf("catalog entry %d: missing code", i)
		}
	}
	return New(modules), nil
}

// LoadFile reads and parses a catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Marshal encodes the catalog as a JSON array.
func (c *Catalog) Marshal() ([]byte, error) {
	return json.MarshalIndent(c.modules, "", "  ")
}

// Len returns the number of modules.
func (c *Catalog) Len() int { return len(c.modules) }

// All returns a copy of every module in catalog order.
func (c *Catalog) All() []Module {
	return append([]Module(nil), c.modules...)
}

// Lookup finds a module by code, ignoring case.
func (c *Catalog) Lookup(code string) (Module, bool) {
	i, ok := c.byCode[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return Module{}, false
	}
	return c.modules[i], true
}

// Search returns modules whose code or title contains query, ignoring case.
// An empty query matches everything. limit <= 0 means no limit.
func (c *Catalog) Search(query string, limit int) []Module {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Module
	for _, m := range c.modules {
		if q != "" &&
			!strings.Contains(strings.ToLower(m.Code), q) &&
			!strings.Contains(strings.ToLower(m.Title), q) {
			continue
		}
		out = append(out, m)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// SemesterOf maps the catalog's semester marker to a spcode.Semester.
// It returns "" when the module has no fixed semester.
func (m Module) SemesterOf() spcode.Semester {
	switch strings.TrimSpace(m.Semester) {
	case "1", "sem1":
		return spcode.SemesterOne
	case "2", "sem2":
		return spcode.SemesterTwo
	default:
		return ""
	}
}

// Complete fills in credits and semester for an entry from the catalog, the
// way picking a module from the search list fills the form. Values already
// present on the entry win. Unknown codes are returned unchanged.
func (c *Catalog) Complete(e spcode.Entry) (spcode.Entry, bool) {
	m, ok := c.Lookup(e.ModuleCode)
	if !ok {
		return e, false
	}
	e.ModuleCode = m.Code
	if e.Credits == 0 {
		e.Credits = m.Credits
	}
	if e.Semester == "" {
		e.Semester = m.SemesterOf()
	}
	return e, true
}
