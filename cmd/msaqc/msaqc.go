// Score multiple sequence alignments and rank them by conservation.

package main

import (
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/andrew-torda/msaqc/pkg/msaqc"
	. "github.com/andrew-torda/msaqc/pkg/seq/common"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage:", path.Base(os.Args[0]),
		"[flags] alignment.fasta... [-o outfile]")
	long := `Given alignment files, score each one (gap %, match %, average
column entropy) and print a comparison ranked by conservation.
With -run, the arguments are unaligned fasta files or directories of
them; the external aligners are run first and their outputs scored.`
	fmt.Fprintln(os.Stderr, long)
	flag.PrintDefaults()
}

func main() {
	var flags msaqc.CmdFlag
	var outfile string

	flag.BoolVar(&flags.Run, "run", false, "run the aligners first, inputs are unaligned fasta")
	flag.StringVar(&flags.Tools, "tools", "", "comma separated aligners to run (tcoffee,mafft,clustal)")
	flag.StringVar(&flags.OutDir, "d", ".", "directory for aligner output files")
	flag.StringVar(&flags.GapSet, "gaps", DfltGapSet, "symbols treated as gaps")
	flag.StringVar(&outfile, "o", "", "write the report here instead of stdout")
	flag.StringVar(&flags.CsvFile, "csv", "", "also write the comparison as csv")
	flag.StringVar(&flags.DBFile, "db", "", "append scores to this history database")
	flag.StringVar(&flags.PlotFile, "plot", "", "write a conservation profile png of the best alignment")
	flag.StringVar(&flags.FontPath, "font", "", "ttf font for plot labels")
	flag.IntVar(&flags.NThread, "j", 0, "threads for the aligners, 0 for the default")
	flag.IntVar(&flags.Vbsty, "v", 3, "verbosity")
	flag.BoolVar(&flags.Time, "t", false, "print out timing information")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(ExitUsageError)
	}

	if err := msaqc.Mymain(&flags, flag.Args(), outfile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitFailure)
	}
	os.Exit(ExitSuccess)
}
