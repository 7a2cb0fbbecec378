package surface

import (
	"encoding/json"
	"io"

	"github.com/spcalc/spcalc/pkg/spcode"
)

// JSONRenderer marshals the report view to indented JSON.
type JSONRenderer struct {
	Precision int
	ID        string
}

func (r *JSONRenderer) Render(w io.Writer, report *spcode.Report) error {
	view := BuildView(report, r.Precision)
	view.ID = r.ID
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}
