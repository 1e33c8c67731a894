// Writing the comparison out, as a table for people and csv for
// everything else.

package msaqc

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/andrew-torda/msaqc/pkg/rank"
)

// writeOut sends a table to a file, or stdout for "" or "-".
func writeOut(fname string, ct *rank.ComparisonTable,
	wrt func(io.Writer, *rank.ComparisonTable) error) error {
	if fname == "" || fname == "-" {
		return wrt(os.Stdout, ct)
	}
	fp, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("output file %s: %w", fname, err)
	}
	defer fp.Close()
	return wrt(fp, ct)
}

// WriteTable prints the ranked comparison the way a person wants to
// read it, best conservation at the top.
func WriteTable(w io.Writer, ct *rank.ComparisonTable) error {
	const line = "----------------------------------------------------------------------"
	fmt.Fprintf(w, "%-30s | %10s | %10s | %10s | %s\n",
		"Alignment", "Gap (%)", "Match (%)", "Entropy", "Tool")
	fmt.Fprintln(w, line)
	for _, r := range ct.Rows {
		if _, err := fmt.Fprintf(w, "%-30s | %10.3f | %10.3f | %10.4f | %s\n",
			r.Label, r.AvgGapPct, r.AvgMatchPct, r.AvgEntropy, r.Descriptor); err != nil {
			return err
		}
	}
	fmt.Fprintln(w, line)
	_, err := fmt.Fprintln(w, "Lower entropy means higher conservation.")
	return err
}

// WriteCsv writes the same rows for plotting or a spreadsheet.
func WriteCsv(w io.Writer, ct *rank.ComparisonTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"label", "gap_pct", "match_pct", "entropy", "tool"}); err != nil {
		return err
	}
	for _, r := range ct.Rows {
		rec := []string{
			r.Label,
			strconv.FormatFloat(r.AvgGapPct, 'f', 3, 64),
			strconv.FormatFloat(r.AvgMatchPct, 'f', 3, 64),
			strconv.FormatFloat(r.AvgEntropy, 'f', 4, 64),
			r.Descriptor,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
