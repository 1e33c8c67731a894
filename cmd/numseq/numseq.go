// 3 Aug 2020

// Open a file and count the number of ">" characters. This might be
// the number of sequences. Handy before deciding whether a file is
// worth aligning at all.

package main

import (
	"fmt"
	"os"

	"github.com/andrew-torda/msaqc/pkg/numseq"
	. "github.com/andrew-torda/msaqc/pkg/seq/common"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage:", os.Args[0], "filename")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(ExitUsageError)
	}
	fname := os.Args[1]
	n, err := numseq.NumSeqs(fname)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitFailure)
	}

	fmt.Println(n)
	os.Exit(ExitSuccess)
}
