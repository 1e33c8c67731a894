package seq_test

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/andrew-torda/msaqc/pkg/brokenio"
	. "github.com/andrew-torda/msaqc/pkg/seq"
	"github.com/andrew-torda/msaqc/pkg/seq/common"
)

// approxEqual
func approxEqual(x, y float64) bool {
	const eps = 1e-9
	d := x - y
	return d < eps && d > -eps
}

func cmmtHelp(got, want string, t *testing.T) {
	t.Helper()
	if got != want {
		t.Fatalf("checking comments wanted \"%s\" got \"%s\"", want, got)
	}
}

// TestComment is to check that comments are read exactly, correctly
func TestComment(t *testing.T) {
	c0 := "testcomment no space"
	c1 := " testcomment with space at start"
	s := "aaa\n"
	seqs := ">" + c0 + "\n" + s + ">" + c1 + "\n" + s
	var aln Alignment
	if err := ReadFasta(strings.NewReader(seqs), &aln, nil); err != nil {
		t.Fatal("bust reading simple seqs in TestComment", err)
	}
	slc := aln.SeqSlc()
	cmmtHelp(slc[0].GetCmmt(), c0, t)
	cmmtHelp(slc[1].GetCmmt(), c1, t)
}

// TestReadAlignment reads a well formed file from disk and checks the
// sizes come out right.
func TestReadAlignment(t *testing.T) {
	s := `>s1
ACDEF
GHIKL
> s2
acdef
ghikl
>s3
AC-EF
GH-KL`
	fname, err := common.WrtTemp(s)
	if err != nil {
		t.Fatal("writing test file:", err)
	}
	defer os.Remove(fname)

	aln, err := ReadAlignment(fname, nil)
	if err != nil {
		t.Fatal("reading alignment:", err)
	}
	if aln.NSeq() != 3 {
		t.Fatal("wanted 3 seqs, got", aln.NSeq())
	}
	if aln.Len() != 10 {
		t.Fatal("wanted length 10, got", aln.Len())
	}
	// Case was normalised, so s1 and s2 are the same symbols.
	if string(aln.SeqSlc()[1].GetSeq()) != "ACDEFGHIKL" {
		t.Fatalf("case not normalised: %s", aln.SeqSlc()[1].GetSeq())
	}
}

// Everything in one alignment must be the same length, so a short
// sequence has to be rejected with a format error.
func TestUnequalLengths(t *testing.T) {
	s := `>s1
ACDEF
>s2
ACD`
	fname, err := common.WrtTemp(s)
	if err != nil {
		t.Fatal("writing test file:", err)
	}
	defer os.Remove(fname)

	_, err = ReadAlignment(fname, nil)
	if err == nil {
		t.Fatal("expected an error on unequal lengths")
	}
	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("wanted a *FormatError, got %T: %v", err, err)
	}
	if !strings.Contains(ferr.Msg, "expected 5, got 3 at record 2") {
		t.Fatal("error should say what was wrong, said:", ferr.Msg)
	}
	if ferr.Fname != fname {
		t.Fatal("error should carry the file name")
	}
}

// TestNoRecords and friends - the ways a file can be structurally broken
func TestBrokenFiles(t *testing.T) {
	tests := []struct {
		name string
		s    string
	}{
		{"empty file", ""},
		{"not fasta", "ACDEF\nGHIKL\n"},
		{"header no seq", ">s1\nACDEF\n>s2\n"},
		{"only a header", ">s1\n"},
	}
	for _, tt := range tests {
		fname, err := common.WrtTemp(tt.s)
		if err != nil {
			t.Fatal("writing test file:", err)
		}
		defer os.Remove(fname)
		_, err = ReadAlignment(fname, nil)
		if err == nil {
			t.Fatal("expected an error on", tt.name)
		}
		var ferr *FormatError
		if !errors.As(err, &ferr) {
			t.Fatalf("%s: wanted a *FormatError, got %T", tt.name, err)
		}
	}
}

// TestBufBoundary makes the lexer buffer small so even short test
// sequences span several reads.
func TestBufBoundary(t *testing.T) {
	const nseq = 5
	const sLen = 16
	sb := ""
	for i := 0; i < nseq; i++ {
		sb += fmt.Sprintf("> some %d comment\n", i)
		sb += strings.Repeat("A", sLen) + "\n"
	}
	for _, bsize := range []int{3, 4, 7, 16, 200} {
		SetFastaRdSize(bsize)
		var aln Alignment
		if err := ReadFasta(strings.NewReader(sb), &aln, nil); err != nil {
			t.Fatalf("bufsize %d: %v", bsize, err)
		}
		if aln.NSeq() != nseq {
			t.Fatalf("bufsize %d: wanted %d seqs, got %d", bsize, nseq, aln.NSeq())
		}
		for i := 0; i < nseq; i++ {
			if aln.SeqSlc()[i].Len() != sLen {
				t.Fatalf("bufsize %d seq %d wrong length", bsize, i)
			}
		}
	}
	SetFastaRdSize(512)
}

// TestReadError - a reader that dies mid-file must surface its error,
// not a half-parsed alignment. The read budget is one byte for the
// leading ">" plus two full lexer buffers, so the failure arrives as
// a real error and not as a short read.
func TestReadError(t *testing.T) {
	boom := errors.New("disk went away")
	SetFastaRdSize(4)
	defer SetFastaRdSize(512)

	rdr := brokenio.NewReader(strings.NewReader(">s1\nACGTACGTACGT\n"), 9, boom)
	var aln Alignment
	err := ReadFasta(rdr, &aln, nil)
	if err == nil {
		t.Fatal("expected the read error to come through")
	}
	if !errors.Is(err, boom) {
		t.Fatal("wanted our error back, got:", err)
	}
}

// TestProfile checks the column profile sums to NSeq for every column
func TestProfile(t *testing.T) {
	aln := Str2Alignment([]string{"AC-T", "AC-T", "AGG-", "TGGA"})
	for icol := 0; icol < aln.Len(); icol++ {
		p := aln.Profile(icol)
		sum := 0
		for _, n := range p {
			sum += n
		}
		if sum != aln.NSeq() {
			t.Fatalf("column %d counts sum to %d, want %d", icol, sum, aln.NSeq())
		}
	}
	if p := aln.Profile(2); p['-'] != 2 || p['G'] != 2 {
		t.Fatal("column 2 profile wrong:", p)
	}
}

// TestColStats works through the metric definitions column by column.
func TestColStats(t *testing.T) {
	// col 0: A A - -    gap 0.5, match 0.5, entropy 0 (only A among non-gaps)
	// col 1: A C G T    gap 0, match 0.25, entropy 2 bits
	// col 2: - - - -    all gaps. gap 1, match 0, entropy 0
	// col 3: A A A C    gap 0, match 0.75, entropy -(3/4 lg 3/4 + 1/4 lg 1/4)
	aln := Str2Alignment([]string{"AA-A", "AC-A", "-G-A", "-T-C"})
	mets := aln.ColStats()
	if len(mets) != 4 {
		t.Fatal("wanted 4 columns, got", len(mets))
	}
	e3 := -(0.75*math.Log2(0.75) + 0.25*math.Log2(0.25))
	want := []ColMetrics{
		{GapFrac: 0.5, MatchFrac: 0.5, Entropy: 0},
		{GapFrac: 0, MatchFrac: 0.25, Entropy: 2},
		{GapFrac: 1, MatchFrac: 0, Entropy: 0},
		{GapFrac: 0, MatchFrac: 0.75, Entropy: e3},
	}
	for i, w := range want {
		m := mets[i]
		if !approxEqual(m.GapFrac, w.GapFrac) ||
			!approxEqual(m.MatchFrac, w.MatchFrac) ||
			!approxEqual(m.Entropy, w.Entropy) {
			t.Fatalf("column %d got %+v want %+v", i, m, w)
		}
	}
}

// TestEntropyBounds - entropy lives in [0, lg of the number of symbol
// types seen] and is zero exactly when the non-gap residues agree.
func TestEntropyBounds(t *testing.T) {
	aln := Str2Alignment([]string{"AAAA", "ABAB", "ACBB", "ADBB"})
	for i, m := range aln.ColStats() {
		if m.Entropy < 0 || m.Entropy > math.Log2(4) {
			t.Fatal("entropy out of range at column", i, m.Entropy)
		}
	}
	if e := aln.ColStats()[0].Entropy; e != 0 {
		t.Fatal("conserved column should have zero entropy, got", e)
	}
}

// TestGapSet - the gap set is configurable. With "-." the dots become
// gaps too.
func TestGapSet(t *testing.T) {
	s := ">s1\nA.C\n>s2\nA-C\n>s3\nAGC\n"
	fname, err := common.WrtTemp(s)
	if err != nil {
		t.Fatal("writing test file:", err)
	}
	defer os.Remove(fname)

	aln, err := ReadAlignment(fname, &Options{GapSet: "-."})
	if err != nil {
		t.Fatal("reading alignment:", err)
	}
	m := aln.ColStats()[1]
	if !approxEqual(m.GapFrac, 2.0/3.0) {
		t.Fatal("dot should count as gap, gapfrac", m.GapFrac)
	}
	if !approxEqual(m.MatchFrac, 1.0/3.0) {
		t.Fatal("match frac with widened gap set wrong", m.MatchFrac)
	}

	// Same file with the default set. The dot is an ordinary symbol.
	aln, err = ReadAlignment(fname, nil)
	if err != nil {
		t.Fatal("reading alignment:", err)
	}
	m = aln.ColStats()[1]
	if !approxEqual(m.GapFrac, 1.0/3.0) {
		t.Fatal("default gap set, gapfrac", m.GapFrac)
	}
}

// TestGapPlusNonGap - gap fraction plus the non-gap fractions is one.
func TestGapPlusNonGap(t *testing.T) {
	aln := Str2Alignment([]string{"A-CT", "AG-T", "--GT", "AGGT"})
	for icol := 0; icol < aln.Len(); icol++ {
		p := aln.Profile(icol)
		nongap := 0
		for c, n := range p {
			if !aln.IsGap(c) {
				nongap += n
			}
		}
		m := aln.ColStats()[icol]
		if !approxEqual(m.GapFrac+float64(nongap)/float64(aln.NSeq()), 1.0) {
			t.Fatal("fractions do not add to one at column", icol)
		}
	}
}

// TestFindNdx
func TestFindNdx(t *testing.T) {
	aln := Str2Alignment([]string{"AAAA", "CCCC"}, "tt")
	if n := aln.FindNdx("tt1"); n != 1 {
		t.Fatal("findndx wanted 1 got", n)
	}
	if n := aln.FindNdx("no such thing"); n != -1 {
		t.Fatal("findndx should have failed, got", n)
	}
}
