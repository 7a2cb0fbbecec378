// Package surface defines output rendering for SP-coding reports.
// Implementations handle different output targets: terminal, JSON, Markdown.
package surface

import (
	"io"

	"github.com/spcalc/spcalc/pkg/spcode"
)

// Renderer produces formatted output from a Report.
type Renderer interface {
	// Render writes the formatted report to the writer.
	Render(w io.Writer, report *spcode.Report) error
}

// ForFormat returns the renderer for an output format name. Unknown formats
// fall back to the terminal renderer.
func ForFormat(format string, precision int) Renderer {
	switch format {
	case "json":
		return &JSONRenderer{Precision: precision}
	case "markdown", "md":
		return &MarkdownRenderer{Precision: precision}
	default:
		return &TerminalRenderer{Precision: precision}
	}
}
