package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/walteh/csvpatch/pkg/stats"
)

// 🎨 Preview limits for the console summary
const (
	previewMalformed = 10
	previewMissing   = 20
	previewChanges   = 10

	counterWidth = 27
)

// 📊 PrintSummary writes the end-of-run summary block to w
func PrintSummary(w io.Writer, st stats.RunStats) {
	bar := strings.Repeat("=", bannerWidth)

	fmt.Fprintln(w)
	fmt.Fprintln(w, bar)
	fmt.Fprintln(w, color.New(color.Bold).Sprint("PROCESSING SUMMARY"))
	fmt.Fprintln(w, bar)
	counter(w, "Total rows in file:", st.TotalRows)
	counter(w, "Rows processed:", st.RowsProcessed)
	counter(w, "Rows modified:", st.RowsModified)
	counter(w, "Rows in output file:", st.RowsInOutput())
	counter(w, "Rows excluded:", st.RowsExcluded())
	counter(w, "Fields unchanged:", st.Unchanged)
	counter(w, "Errors encountered:", st.Errors)
	counter(w, "Malformed JSON rows:", len(st.Malformed))
	counter(w, "Rows missing target field:", len(st.MissingField))
	fmt.Fprintln(w, bar)

	if len(st.Malformed) > 0 {
		fmt.Fprintf(w, "\n%s\n", color.New(color.FgYellow).Sprint("Rows with malformed JSON:"))
		limit := len(st.Malformed)
		if limit > previewMalformed {
			limit = previewMalformed
		}
		for _, m := range st.Malformed[:limit] {
			fmt.Fprintf(w, "  Row %d: %s\n", m.Row, m.Err)
		}
		if len(st.Malformed) > previewMalformed {
			fmt.Fprintf(w, "  ... and %d more\n", len(st.Malformed)-previewMalformed)
		}
	}

	if len(st.MissingField) > 0 {
		fmt.Fprintf(w, "\n%s %d\n", color.New(color.FgYellow).Sprint("Rows missing target field:"), len(st.MissingField))
		rows := st.MissingField
		if len(rows) > previewMissing {
			fmt.Fprintln(w, "  First 20 rows:")
			rows = rows[:previewMissing]
		}
		for _, m := range rows {
			fmt.Fprintf(w, "  Row %d: %s\n", m.Row, m.Reason)
		}
	}

	if len(st.Changes) > 0 {
		fmt.Fprintf(w, "\n%s\n", color.New(color.FgGreen).Sprint("Sample of modified fields (first 10):"))
		limit := len(st.Changes)
		if limit > previewChanges {
			limit = previewChanges
		}
		for _, ch := range st.Changes[:limit] {
			fmt.Fprintf(w, "  Row %d: '%s' -> '%s'\n", ch.Row, ch.Original, ch.New)
		}
	}

	fmt.Fprintf(w, "\n%s\n", bar)
}

// counter prints one aligned label and value line
func counter(w io.Writer, label string, value int) {
	fmt.Fprintf(w, "%-*s%d\n", counterWidth, label, value)
}
