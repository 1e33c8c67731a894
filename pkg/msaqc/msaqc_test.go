package msaqc_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/andrew-torda/msaqc/pkg/msaqc"
	"github.com/andrew-torda/msaqc/pkg/rank"
	"github.com/andrew-torda/msaqc/pkg/score"
)

// writeAln drops an alignment file into dir and returns its path.
func writeAln(t *testing.T, dir, name, content string) string {
	t.Helper()
	fname := filepath.Join(dir, name)
	if err := os.WriteFile(fname, []byte(content), 0644); err != nil {
		t.Fatal("writing test alignment:", err)
	}
	return fname
}

// Three alignments of the same imaginary thing. tcoffee's is fully
// conserved, clustal's has one variable column, mafft's two.
const (
	alnGood = ">a\nACDEF\n>b\nACDEF\n>c\nACDEF\n"
	alnMid  = ">a\nACDEF\n>b\nACDEG\n>c\nACDEF\n"
	alnPoor = ">a\nACDEF\n>b\nTCDEG\n>c\nACDEF\n"
	alnBad  = ">a\nACDEF\n>b\nACD\n" // unequal lengths
)

// TestScoreAllRanking runs three files through the pipeline pieces
// and checks the final ordering.
func TestScoreAllRanking(t *testing.T) {
	dir := t.TempDir()
	jobs := []Job{
		JobFromFile(writeAln(t, dir, "glob_tcoffee.fasta", alnGood)),
		JobFromFile(writeAln(t, dir, "glob_mafft.fasta", alnPoor)),
		JobFromFile(writeAln(t, dir, "glob_clustal.fasta", alnMid)),
	}
	results := ScoreAll(jobs, "")
	m := make(map[string]struct{})
	for _, r := range results {
		if r.Err != nil {
			t.Fatal("unexpected failure:", r.Err)
		}
		m[r.Label] = struct{}{}
	}
	if len(m) != 3 {
		t.Fatal("labels not unique across jobs")
	}

	byLabel := make(map[string]float64)
	for _, r := range results {
		byLabel[r.Label] = r.Score.AvgEntropy
	}
	if !(byLabel["glob_tcoffee"] < byLabel["glob_clustal"] &&
		byLabel["glob_clustal"] < byLabel["glob_mafft"]) {
		t.Fatal("entropies not ordered as constructed:", byLabel)
	}
}

// TestJobFromFile - label from the file name, descriptor from the
// tool suffix when there is one.
func TestJobFromFile(t *testing.T) {
	j := JobFromFile("/tmp/out/globins_mafft.fasta")
	if j.Label != "globins_mafft" {
		t.Fatal("label wrong:", j.Label)
	}
	if j.Descriptor != "MAFFT" {
		t.Fatal("descriptor wrong:", j.Descriptor)
	}
	j = JobFromFile("plain.fasta")
	if j.Label != "plain" || j.Descriptor != "" {
		t.Fatalf("plain file handled badly: %+v", j)
	}
}

// TestPartialFailure - one broken file is skipped, the others still
// make it into the comparison.
func TestPartialFailure(t *testing.T) {
	dir := t.TempDir()
	jobs := []Job{
		JobFromFile(writeAln(t, dir, "a_tcoffee.fasta", alnGood)),
		JobFromFile(writeAln(t, dir, "a_mafft.fasta", alnBad)),
	}
	results := ScoreAll(jobs, "")
	nok, nbad := 0, 0
	for _, r := range results {
		if r.Err != nil {
			nbad++
			if !strings.Contains(r.Err.Error(), "a_mafft") {
				t.Fatal("failure should name the file:", r.Err)
			}
		} else {
			nok++
		}
	}
	if nok != 1 || nbad != 1 {
		t.Fatalf("wanted 1 good and 1 bad, got %d and %d", nok, nbad)
	}
}

// TestMymain drives the whole thing from files to report, with csv,
// history db and plot on the side.
func TestMymain(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeAln(t, dir, "x_tcoffee.fasta", alnGood),
		writeAln(t, dir, "x_clustal.fasta", alnMid),
	}
	outfile := filepath.Join(dir, "report.txt")
	flags := &CmdFlag{
		CsvFile:  filepath.Join(dir, "report.csv"),
		DBFile:   filepath.Join(dir, "history.db"),
		PlotFile: filepath.Join(dir, "profile.png"),
	}
	if err := Mymain(flags, files, outfile); err != nil {
		t.Fatal("pipeline:", err)
	}

	rep, err := os.ReadFile(outfile)
	if err != nil {
		t.Fatal("reading report:", err)
	}
	// tcoffee is fully conserved so it must come first.
	it := strings.Index(string(rep), "x_tcoffee")
	ic := strings.Index(string(rep), "x_clustal")
	if it < 0 || ic < 0 || it > ic {
		t.Fatalf("ranking wrong in report:\n%s", rep)
	}

	csvb, err := os.ReadFile(flags.CsvFile)
	if err != nil {
		t.Fatal("reading csv:", err)
	}
	if !strings.HasPrefix(string(csvb), "label,gap_pct,match_pct,entropy,tool") {
		t.Fatal("csv header wrong:", string(csvb))
	}
	for _, f := range []string{flags.DBFile, flags.PlotFile} {
		if fi, err := os.Stat(f); err != nil || fi.Size() == 0 {
			t.Fatal("side output missing or empty:", f)
		}
	}
}

// TestMymainNothingScored - all inputs broken means an error, not an
// empty report.
func TestMymainNothingScored(t *testing.T) {
	dir := t.TempDir()
	files := []string{writeAln(t, dir, "bad.fasta", alnBad)}
	if err := Mymain(&CmdFlag{}, files, filepath.Join(dir, "r.txt")); err == nil {
		t.Fatal("expected an error when nothing could be scored")
	}
}

// TestWriteTable checks the shape of the human readable table.
func TestWriteTable(t *testing.T) {
	dir := t.TempDir()
	jobs := []Job{JobFromFile(writeAln(t, dir, "y_mafft.fasta", alnMid))}
	results := ScoreAll(jobs, "")
	if results[0].Err != nil {
		t.Fatal(results[0].Err)
	}
	var buf bytes.Buffer
	if err := WriteTable(&buf, mustCompare(t, results)); err != nil {
		t.Fatal("writing table:", err)
	}
	s := buf.String()
	if !strings.Contains(s, "y_mafft") || !strings.Contains(s, "MAFFT") {
		t.Fatalf("table missing fields:\n%s", s)
	}
	if !strings.Contains(s, "Entropy") {
		t.Fatalf("table missing header:\n%s", s)
	}
}

func mustCompare(t *testing.T, results []Result) *rank.ComparisonTable {
	t.Helper()
	scores := make(map[string]score.AlignmentScore)
	for _, r := range results {
		if r.Err == nil {
			scores[r.Label] = r.Score
		}
	}
	ct, err := rank.Compare(scores)
	if err != nil {
		t.Fatal("comparing:", err)
	}
	return ct
}
