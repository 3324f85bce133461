// Package stdout writes JSON-encoded classification reports to stdout.
package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hollyoak/canopy/internal/output"
)

// Output writes one JSON report per line (or pretty-printed block) to
// stdout.
type Output struct {
	enc    *json.Encoder
	detail output.Detail
}

// New creates a stdout Output at the given detail level, with optional
// pretty-printed JSON.
func New(detail output.Detail, pretty bool) *Output {
	return newTo(os.Stdout, detail, pretty)
}

func newTo(w io.Writer, detail output.Detail, pretty bool) *Output {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &Output{enc: enc, detail: detail}
}

func (o *Output) Write(_ context.Context, report output.Report) error {
	formatted := output.FormatReport(report, o.detail)
	if err := o.enc.Encode(formatted); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
