// 29 Apr 2020

package common

import (
	"fmt"
	"io"
	"os"
)

const (
	ExitSuccess = iota
	ExitFailure
	ExitUsageError
)

// GapChar is the conventional gap symbol. The aligners we care about
// (t_coffee, mafft, clustalo) all write it.
const GapChar byte = '-'

// DfltGapSet is the set of symbols treated as gaps unless the caller
// says otherwise. Some alignment formats use a dot, but we do not
// assume it. Callers widen the set explicitly.
const DfltGapSet = "-"

// WrtTemp writes a string to a temporary file and returns
// the filename. It is used all over the place in testing.
func WrtTemp(s string) (string, error) {
	f_tmp, err := os.CreateTemp("", "_del_me_testing")
	if err != nil {
		return "", fmt.Errorf("tempfile fail")
	}

	if _, err := io.WriteString(f_tmp, s); err != nil {
		return "", fmt.Errorf("writing string to temp file %v", f_tmp.Name())
	}
	name := f_tmp.Name()
	f_tmp.Close()
	return name, nil
}
