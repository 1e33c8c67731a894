// Package aligner knows how to drive the external multiple sequence
// aligners. The metrics code never sees any of this. It gets alignment
// files and does not care where they came from.
//
// Each tool is an entry in a small table - a label, a descriptor for
// the report, and how to build its argument list. Adding an aligner
// means adding a row, nothing else.
package aligner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// A Tool is one external aligner. ToStdout marks tools like mafft
// which write the alignment to standard output rather than taking an
// output file argument.
type Tool struct {
	Label      string
	Descriptor string
	ToStdout   bool
	argv       func(infile, outfile string, nthread int) []string
}

// DfltThreads is what we ask of the aligners unless told otherwise.
const DfltThreads = 8

// Tools is the table of aligners we know about, in the order the
// original comparisons ran them.
func Tools() []Tool {
	return []Tool{
		{
			Label:      "tcoffee",
			Descriptor: "T-Coffee",
			argv: func(in, out string, nt int) []string {
				return []string{"t_coffee", "-seq", in,
					"-method=t_coffee_msa",
					"-output", "fasta_aln",
					"-outfile", out,
					"-multi_core", strconv.Itoa(nt)}
			},
		},
		{
			Label:      "mafft",
			Descriptor: "MAFFT",
			ToStdout:   true,
			argv: func(in, out string, nt int) []string {
				return []string{"mafft", "--auto", in}
			},
		},
		{
			Label:      "clustal",
			Descriptor: "Clustal Omega",
			argv: func(in, out string, nt int) []string {
				return []string{"clustalo", "-i", in, "-o", out,
					"--force", "--threads=" + strconv.Itoa(nt)}
			},
		},
	}
}

// ByLabel finds a tool in the table. The second return says if it
// was there.
func ByLabel(label string) (Tool, bool) {
	for _, t := range Tools() {
		if t.Label == label {
			return t, true
		}
	}
	return Tool{}, false
}

// Argv returns the command line the tool would run. Split out from
// Run so it can be checked without any aligner installed.
func (t Tool) Argv(infile, outfile string, nthread int) []string {
	if nthread <= 0 {
		nthread = DfltThreads
	}
	return t.argv(infile, outfile, nthread)
}

// Run aligns infile and leaves the result in outfile. The context lets
// a caller put a deadline around the whole thing. On failure we hand
// back whatever the aligner grumbled on stderr, since that is the only
// place these programs say anything useful.
func (t Tool) Run(ctx context.Context, infile, outfile string, nthread int) error {
	argv := t.Argv(infile, outfile, nthread)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if t.ToStdout {
		fp, err := os.Create(outfile)
		if err != nil {
			return fmt.Errorf("%s output file: %w", t.Label, err)
		}
		defer fp.Close()
		cmd.Stdout = fp
	}

	if err := cmd.Run(); err != nil {
		os.Remove(outfile) // do not leave a broken half-alignment about
		return fmt.Errorf("%s on %s: %w: %s",
			t.Label, infile, err, trimStderr(stderr.Bytes()))
	}
	return nil
}

// trimStderr keeps the tail of a stderr dump. The interesting line is
// almost always the last one.
func trimStderr(b []byte) string {
	const keep = 300
	b = bytes.TrimSpace(b)
	if len(b) > keep {
		b = b[len(b)-keep:]
	}
	return string(b)
}
