package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spcalc/spcalc/pkg/catalog"
	"github.com/spcalc/spcalc/pkg/spcode"
	"github.com/spcalc/spcalc/pkg/surface"
)

func TestCalcCmdFlags(t *testing.T) {
	cmd := newCalcCmd()
	f := cmd.Flags()

	outputFmt, _ := f.GetString("output")
	if outputFmt != "text" {
		t.Errorf("default output = %q, want text", outputFmt)
	}
	creditCap, _ := f.GetFloat64("cap")
	if creditCap != spcode.DefaultCreditCap {
		t.Errorf("default cap = %v, want %v", creditCap, spcode.DefaultCreditCap)
	}

	for _, flag := range []string{"modules", "catalog", "no-catalog", "cap", "precision", "output"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}
}

func TestSearchCmdFlags(t *testing.T) {
	cmd := newSearchCmd()
	limit, _ := cmd.Flags().GetInt("limit")
	if limit != 20 {
		t.Errorf("default limit = %d, want 20", limit)
	}
}

func TestCatalogSubcommands(t *testing.T) {
	cmd := newCatalogCmd()
	for _, name := range []string{"push", "pull"} {
		sub, _, err := cmd.Find([]string{name})
		if err != nil || sub.Name() != name {
			t.Errorf("missing catalog subcommand %q", name)
			continue
		}
		for _, flag := range []string{"source", "bucket", "object", "base-dir", "database-url"} {
			if sub.Flags().Lookup(flag) == nil {
				t.Errorf("catalog %s: missing flag %s", name, flag)
			}
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"a", "b", "c"}, "a"},
		{[]string{"", "b", "c"}, "b"},
		{[]string{"", "", "c"}, "c"},
		{[]string{"", "", ""}, ""},
	}

	for _, tt := range tests {
		got := firstNonEmpty(tt.args...)
		if got != tt.want {
			t.Errorf("firstNonEmpty(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestParseEntries(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"json array", `[{"moduleCode": "A", "grade": 60, "credits": 15, "semester": "sem1"}]`},
		{"request shape", `{"modules": [{"moduleCode": "A", "grade": 60, "credits": 15, "semester": "sem1"}]}`},
		{"yaml", "- moduleCode: A\n  grade: 60\n  credits: 15\n  semester: sem1\n"},
	}

	want := spcode.Entry{ModuleCode: "A", Grade: 60, Credits: 15, Semester: spcode.SemesterOne}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := parseEntries([]byte(tt.data))
			if err != nil {
				t.Fatalf("parseEntries: %v", err)
			}
			if len(entries) != 1 || entries[0] != want {
				t.Errorf("entries = %+v, want [%+v]", entries, want)
			}
		})
	}

	if _, err := parseEntries([]byte(`[{"moduleCode": `)); err == nil {
		t.Error("expected error for truncated json")
	}
}

func TestReadEntriesStdin(t *testing.T) {
	entries, err := readEntries("-", strings.NewReader(`[{"moduleCode": "X", "grade": 1, "credits": 1, "semester": "sem2"}]`))
	if err != nil {
		t.Fatalf("readEntries: %v", err)
	}
	if len(entries) != 1 || entries[0].ModuleCode != "X" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestRunCalcCompletesFromCatalog(t *testing.T) {
	cat := catalog.New([]catalog.Module{
		{Code: "COMP1001", Credits: 15, Semester: "1"},
		{Code: "COMP1002", Credits: 15, Semester: "1"},
	})

	var buf bytes.Buffer
	err := runCalc(&buf, calcInput{
		entries: []spcode.Entry{
			{ModuleCode: "comp1001", Grade: 60},
			{ModuleCode: "COMP1002", Grade: 80},
		},
		catalog:   cat,
		optimizer: spcode.New(spcode.DefaultConfig()),
		renderer:  &surface.JSONRenderer{Precision: 2},
	})
	if err != nil {
		t.Fatalf("runCalc: %v", err)
	}

	var view surface.ReportView
	if err := json.Unmarshal(buf.Bytes(), &view); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if len(view.Semesters) != 1 || view.Semesters[0].Semester != spcode.SemesterOne {
		t.Fatalf("semesters = %+v, want only sem1", view.Semesters)
	}
	if got := view.Semesters[0].Baseline; got != 70 {
		t.Errorf("baseline = %v, want 70", got)
	}
	best := view.Semesters[0].Results[0]
	if len(best.Remove) != 1 || best.Remove[0] != "COMP1001" || best.Grade != 80 {
		t.Errorf("best = %+v, want remove [COMP1001] grade 80", best)
	}
}

func TestRunCalcRejectsInvalidEntries(t *testing.T) {
	var buf bytes.Buffer
	err := runCalc(&buf, calcInput{
		entries:   []spcode.Entry{{ModuleCode: "A", Grade: 50, Credits: 0, Semester: spcode.SemesterOne}},
		optimizer: spcode.New(spcode.DefaultConfig()),
		renderer:  &surface.TerminalRenderer{},
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be rendered on error, got %q", buf.String())
	}
}

func TestCalcCommandEndToEnd(t *testing.T) {
	dir := t.TempDir()
	modulesPath := filepath.Join(dir, "grades.yaml")
	data := `
- {moduleCode: A, grade: 50, credits: 10, semester: sem1}
- {moduleCode: B, grade: 70, credits: 10, semester: sem1}
- {moduleCode: C, grade: 90, credits: 10, semester: sem1}
`
	if err := os.WriteFile(modulesPath, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{
		"calc",
		"--config", filepath.Join(dir, "missing.yaml"),
		"--modules", modulesPath,
		"--no-catalog",
		"--cap", "15",
		"--output", "json",
	})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var view surface.ReportView
	if err := json.Unmarshal(out.Bytes(), &view); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out.String())
	}
	if view.CreditCap != 15 {
		t.Errorf("credit cap = %v, want 15", view.CreditCap)
	}
	// Baseline plus the three single removals; pairs exceed the cap.
	if got := len(view.Semesters[0].Results); got != 4 {
		t.Errorf("results = %d, want 4", got)
	}
}

func TestPrintModules(t *testing.T) {
	modules := []catalog.Module{{Code: "COMP1001", Title: "Introduction to Programming", Credits: 15, Semester: "1"}}

	var buf bytes.Buffer
	if err := printModules(&buf, modules, "text"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "COMP1001") || !strings.Contains(buf.String(), "Introduction to Programming") {
		t.Errorf("unexpected text output:\n%s", buf.String())
	}

	buf.Reset()
	if err := printModules(&buf, nil, "json"); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty json = %q, want []", buf.String())
	}
}
