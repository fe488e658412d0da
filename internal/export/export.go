// Package export writes a simulation trace to interchange formats so
// results can be plotted or processed outside the terminal.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/pidlab/internal/metrics"
	"github.com/san-kum/pidlab/internal/sim"
)

// WriteCSV writes the six trace columns with a header row.
func WriteCSV(w io.Writer, tr *sim.Trace) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"time", "setpoint", "open_loop", "closed_loop", "error", "control"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := 0; i < tr.Len(); i++ {
		row := []string{
			formatFloat(tr.Time[i]),
			formatFloat(tr.Setpoint[i]),
			formatFloat(tr.OpenLoop[i]),
			formatFloat(tr.ClosedLoop[i]),
			formatFloat(tr.Error[i]),
			formatFloat(tr.Control[i]),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

type jsonRun struct {
	Trace   *sim.Trace       `json:"trace"`
	Summary *metrics.Summary `json:"summary,omitempty"`
}

// WriteJSON writes the trace and, when non-nil, the metric summary.
func WriteJSON(w io.Writer, tr *sim.Trace, s *metrics.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonRun{Trace: tr, Summary: s})
}
