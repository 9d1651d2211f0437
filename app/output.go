package app

import (
	"fmt"
	"io"

	"github.com/kilianp07/carrierassign/config"
	"github.com/kilianp07/carrierassign/core/report"
	"github.com/kilianp07/carrierassign/pkg/export"
)

// WriteReport renders rep in the given format: "text", "json" or "csv".
func WriteReport(w io.Writer, format string, rep *Report) error {
	switch format {
	case "", config.FormatText:
		return report.WriteText(w, rep.Summary)
	case config.FormatJSON:
		return export.WriteJSON(w, rep.Document())
	case config.FormatCSV:
		return export.WriteCSV(w, export.Rows(rep.Shipments, rep.Result.Assignment, rep.Scores))
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}
