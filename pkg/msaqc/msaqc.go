// 27 april 2020

// Package msaqc is the driver behind cmd/msaqc. It can run the
// external aligners over an input, score the alignment files, rank
// them and write the comparison. Each file goes through its own
// pipeline, so one broken file never takes the others down with it.
package msaqc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/andrew-torda/msaqc/pkg/aligner"
	"github.com/andrew-torda/msaqc/pkg/plot"
	"github.com/andrew-torda/msaqc/pkg/rank"
	"github.com/andrew-torda/msaqc/pkg/score"
	"github.com/andrew-torda/msaqc/pkg/scoredb"
	"github.com/andrew-torda/msaqc/pkg/seq"
)

// CmdFlag is literally command line flags after parsing.
type CmdFlag struct {
	Run      bool   // run the aligners first, args are unaligned fasta
	Tools    string // comma separated tool labels, empty means all
	OutDir   string // where aligner output files go
	GapSet   string // symbols treated as gaps
	CsvFile  string // also write the table as csv here
	DBFile   string // append scores to this history db
	PlotFile string // write a conservation profile of the best alignment
	FontPath string // ttf for plot labels
	NThread  int    // threads handed to the aligners
	Vbsty    int    // verbosity
	Time     bool   // print run time at the end
}

// A Job is one alignment file waiting to be scored. The label must be
// unique across the run, the descriptor is free text for the report.
type Job struct {
	Fname      string
	Label      string
	Descriptor string
}

// A Result is a scored job, or its failure.
type Result struct {
	Job
	Score score.AlignmentScore
	Mets  []seq.ColMetrics
	Err   error
}

// scoreOne loads and scores a single alignment file.
func scoreOne(job Job, gapset string, r *Result) {
	r.Job = job
	opts := &seq.Options{GapSet: gapset}
	aln, err := seq.ReadAlignment(job.Fname, opts)
	if err != nil {
		r.Err = err
		return
	}
	r.Mets = aln.ColStats()
	r.Score, r.Err = score.Score(aln, job.Label, job.Descriptor)
}

// ScoreAll scores every job, one goroutine per file. The files share
// nothing, so the only synchronisation is waiting for them all.
func ScoreAll(jobs []Job, gapset string) []Result {
	results := make([]Result, len(jobs))
	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			scoreOne(jobs[i], gapset, &results[i])
		}(i)
	}
	wg.Wait()
	return results
}

// JobFromFile builds a job for an already aligned file. The label is
// the file base without extension. If the base ends "_tool" and the
// tool is one we know, its descriptor is picked up, the way the
// comparison names its outputs.
func JobFromFile(fname string) Job {
	base := filepath.Base(fname)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	job := Job{Fname: fname, Label: base}
	if i := strings.LastIndex(base, "_"); i >= 0 {
		if tool, ok := aligner.ByLabel(base[i+1:]); ok {
			job.Descriptor = tool.Descriptor
		}
	}
	return job
}

// fastaInputs expands a path into the fasta files to align. A file is
// taken as is. For a directory we take the usual suffixes.
func fastaInputs(path string) ([]string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		switch filepath.Ext(e.Name()) {
		case ".fasta", ".fa", ".fna":
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no fasta files in directory %s", path)
	}
	return files, nil
}

// pickTools turns the -tools flag into table entries.
func pickTools(spec string) ([]aligner.Tool, error) {
	if spec == "" {
		return aligner.Tools(), nil
	}
	var tools []aligner.Tool
	for _, label := range strings.Split(spec, ",") {
		label = strings.TrimSpace(label)
		tool, ok := aligner.ByLabel(label)
		if !ok {
			return nil, fmt.Errorf("unknown aligner \"%s\"", label)
		}
		tools = append(tools, tool)
	}
	return tools, nil
}

// runAligners aligns every input with every chosen tool and returns
// the jobs for the outputs that worked. A tool falling over is
// reported and skipped, as with a broken input file later.
func runAligners(flags *CmdFlag, inputs []string) []Job {
	tools, _ := pickTools(flags.Tools) // validated by the caller
	var jobs []Job
	for _, in := range inputs {
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		for _, tool := range tools {
			out := filepath.Join(flags.OutDir,
				base+"_"+tool.Label+".fasta")
			if flags.Vbsty > 2 {
				fmt.Println("running", tool.Label, "on", in)
			}
			err := tool.Run(context.Background(), in, out, flags.NThread)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			jobs = append(jobs, Job{Fname: out,
				Label: base + "_" + tool.Label, Descriptor: tool.Descriptor})
		}
	}
	return jobs
}

// Mymain is the whole pipeline: work out the jobs, score them, rank
// what survived, write the report. outfile of "" or "-" means stdout.
func Mymain(flags *CmdFlag, args []string, outfile string) error {
	if flags.Time {
		startTime := time.Now()
		end := func() { // Wrapping in a closure is helpful. Gives the right time.
			fmt.Println("finished after", time.Since(startTime).Milliseconds(), "ms")
		}
		defer end()
	}
	if len(args) == 0 {
		return fmt.Errorf("no input files given")
	}

	var jobs []Job
	if flags.Run {
		if _, err := pickTools(flags.Tools); err != nil {
			return err
		}
		if flags.OutDir != "" {
			if err := os.MkdirAll(flags.OutDir, 0755); err != nil {
				return err
			}
		}
		for _, arg := range args {
			inputs, err := fastaInputs(arg)
			if err != nil {
				return err
			}
			jobs = append(jobs, runAligners(flags, inputs)...)
		}
	} else {
		for _, arg := range args {
			jobs = append(jobs, JobFromFile(arg))
		}
	}

	results := ScoreAll(jobs, flags.GapSet)
	scores := make(map[string]score.AlignmentScore)
	metsByLabel := make(map[string][]seq.ColMetrics)
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintln(os.Stderr, "skipping:", r.Err)
			continue
		}
		scores[r.Label] = r.Score
		metsByLabel[r.Label] = r.Mets
	}

	ct, err := rank.Compare(scores)
	if err != nil {
		return fmt.Errorf("nothing to compare: %w", err)
	}

	if err := writeOut(outfile, ct, WriteTable); err != nil {
		return err
	}
	if flags.CsvFile != "" {
		if err := writeOut(flags.CsvFile, ct, WriteCsv); err != nil {
			return err
		}
	}
	if flags.DBFile != "" {
		if err := saveRun(flags.DBFile, args[0], ct); err != nil {
			return err
		}
	}
	if flags.PlotFile != "" {
		best := ct.Best()
		popts := &plot.Options{Title: best.Label, FontPath: flags.FontPath}
		if err := plot.WriteFile(flags.PlotFile, metsByLabel[best.Label], popts); err != nil {
			return err
		}
	}
	return nil
}

func saveRun(dbfile, input string, ct *rank.ComparisonTable) error {
	db, err := scoredb.Open(dbfile)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.SaveRun(input, ct.Rows)
	return err
}
