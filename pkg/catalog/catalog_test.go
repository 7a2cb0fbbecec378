package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spcalc/spcalc/pkg/spcode"
)

const sampleJSON = `[
  {"code": "COMP1001", "title": "Introduction to Programming", "credits": 15, "semester": "1"},
  {"code": "COMP1002", "title": "Data Structures", "credits": 15, "semester": "2"},
  {"code": "MATH1010", "title": "Discrete Mathematics for Computing", "credits": 10},
  {"code": "PHYS2200", "title": "Quantum Programming Lab", "credits": 20, "semester": "2"}
]`

func TestParseAssignsIndex(t *testing.T) {
	c, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if c.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", c.Len())
	}
	for i, m := range c.All() {
		if m.Index != i {
			t.Errorf("module %s has index %d, want %d", m.Code, m.Index, i)
		}
	}
}

func TestParseYAML(t *testing.T) {
	data := `
- code: COMP1001
  title: Introduction to Programming
  credits: 15
  semester: "1"
`
	c, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	m, ok := c.Lookup("comp1001")
	if !ok {
		t.Fatal("expected COMP1001 to be found")
	}
	if m.Credits != 15 {
		t.Errorf("Credits = %v, want 15", m.Credits)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed json", `[{"code": "A",}]`},
		{"missing code", `[{"title": "No code", "credits": 10}]`},
		{"malformed yaml", "{{invalid yaml"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.data)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSearch(t *testing.T) {
	c, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	tests := []struct {
		query string
		limit int
		want  []string
	}{
		{"", 0, []string{"COMP1001", "COMP1002", "MATH1010", "PHYS2200"}},
		{"comp", 0, []string{"COMP1001", "COMP1002", "MATH1010"}}, // title "Computing"
		{"PROGRAMMING", 0, []string{"COMP1001", "PHYS2200"}},
		{"comp", 2, []string{"COMP1001", "COMP1002"}},
		{"  data ", 0, []string{"COMP1002"}},
		{"zzz", 0, nil},
	}

	for _, tt := range tests {
		got := c.Search(tt.query, tt.limit)
		if len(got) != len(tt.want) {
			t.Errorf("Search(%q, %d) returned %d modules, want %d", tt.query, tt.limit, len(got), len(tt.want))
			continue
		}
		for i, m := range got {
			if m.Code != tt.want[i] {
				t.Errorf("Search(%q)[%d] = %s, want %s", tt.query, i, m.Code, tt.want[i])
			}
		}
	}
}

func TestComplete(t *testing.T) {
	c, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	e, ok := c.Complete(spcode.Entry{ModuleCode: "comp1002", Grade: 72})
	if !ok {
		t.Fatal("expected comp1002 to be completed")
	}
	if e.ModuleCode != "COMP1002" || e.Credits != 15 || e.Semester != spcode.SemesterTwo {
		t.Errorf("Complete() = %+v", e)
	}

	// Explicit values are kept.
	e, _ = c.Complete(spcode.Entry{ModuleCode: "COMP1001", Credits: 30, Semester: spcode.SemesterTwo})
	if e.Credits != 30 || e.Semester != spcode.SemesterTwo {
		t.Errorf("Complete() overwrote explicit values: %+v", e)
	}

	// No semester in the catalog leaves it empty.
	e, _ = c.Complete(spcode.Entry{ModuleCode: "MATH1010"})
	if e.Semester != "" {
		t.Errorf("Semester = %q, want empty", e.Semester)
	}

	if _, ok := c.Complete(spcode.Entry{ModuleCode: "NOPE"}); ok {
		t.Error("expected unknown code to report false")
	}
}

func TestLoadFileAndMarshal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modules.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}

	data, err := c.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	again, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Marshal()) error: %v", err)
	}
	if again.Len() != c.Len() {
		t.Errorf("round trip lost modules: %d vs %d", again.Len(), c.Len())
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
