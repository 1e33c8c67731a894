// 20 Dec 2017

// Package seq holds sequences, which begin their lives in fasta
// format, and groups of them which have been through a multiple
// alignment, so they are all the same length. It reads them and
// does the per-column tallies the quality metrics are built on.
package seq

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andrew-torda/matrix"
	"github.com/andrew-torda/msaqc/pkg/numseq"
	. "github.com/andrew-torda/msaqc/pkg/seq/common"
)

// seq is one aligned sequence, a comment and the residues.
type seq struct {
	cmmt string
	seq  []byte
}

// We only read ascii characters, so anything bigger than this is not
// valid.
const (
	MaxSym uint8 = 127
)

// Options contains all the choices passed in from the caller.
type Options struct {
	Vbsty     int    // verbosity
	ExpectSeq int    // expected number of sequences, to pre-size the slice
	GapSet    string // symbols treated as gaps, usually just "-"
}

// Constants
const cmmt_char byte = '>' // this introduces comments in fasta format

// FormatError says an alignment file was broken - no records, a header
// without residues, or sequences of different lengths. The caller
// usually wants to know which file, so we carry the name.
type FormatError struct {
	Fname string
	Msg   string
}

func (e *FormatError) Error() string {
	if e.Fname == "" {
		return "alignment format: " + e.Msg
	}
	return "alignment format: " + e.Fname + ": " + e.Msg
}

// Alignment is a group of sequences of the same length, along with
// the symbol bookkeeping for column statistics. It is built once by
// the loader and not changed afterwards, so concurrent readers need
// no locks.
type Alignment struct {
	symUsed  [MaxSym]bool  // which symbols are actually used
	mapping  [MaxSym]uint8 // mapping['C'] tells me the row used for C
	isGap    [MaxSym]bool  // which symbols count as gaps
	revmap   []uint8       // revmap[2] tells me the character in row 2
	seqs     []seq
	counts   *matrix.FMatrix2d
	usedKnwn bool // do we know which symbols are used ?
}

// GetSeq returns the sequence as the original byte slice
func (s seq) GetSeq() []byte { return s.seq }

// GetCmmt returns the comment without the leading ">"
func (s seq) GetCmmt() string { return s.cmmt }

// Len
func (s seq) Len() int { return len(s.seq) }

// Empty returns true if a sequence has no residues.
func (s seq) Empty() bool { return len(s.seq) == 0 }

// trimStr trims a string to n bytes if it is longer
func trimStr(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// Upper changes a sequence to upper case, in place.
// It only works with bytes, not runes.
// It can return an error if it encounters a symbol it does
// not like (value of MaxSym or higher).
func (s *seq) Upper() error {
	const diff = 'a' - 'A'
	const symerr = "bad sym \"%c\" at position %d starting \"%s\""
	t := s.GetSeq()
	for i := 0; i < len(t); i++ {
		c := t[i]
		if c >= MaxSym {
			return fmt.Errorf(symerr, c, i, trimStr(s.GetCmmt(), 40))
		}
		if 'a' <= c && c <= 'z' {
			t[i] -= diff
		}
	}
	return nil
}

// String returns a sequence, with its comment at the start as
// a single string
func (s seq) String() (t string) {
	t = fmt.Sprintf("%c%s\n", cmmt_char, s.GetCmmt())
	t += string(s.GetSeq())
	return
}

// NSeq returns the number of sequences, N in the statistics.
func (aln *Alignment) NSeq() int { return len(aln.seqs) }

// Len returns the length of the first sequence. The loader has already
// made sure all the others match, so this is the number of columns.
func (aln *Alignment) Len() int { return len(aln.seqs[0].GetSeq()) }

// SeqSlc returns the slice of sequences
func (aln *Alignment) SeqSlc() []seq { return aln.seqs }

// GetCounts gives us the normally non-exported counts
func (aln *Alignment) GetCounts() *matrix.FMatrix2d {
	if aln.counts == nil {
		aln.UsageSite()
	}
	return aln.counts
}

// GetRevmap returns the non-exported revmap
func (aln *Alignment) GetRevmap() []uint8 { return aln.revmap }

// GetMapping returns the row used for a specific character
func (aln *Alignment) GetMapping(c uint8) uint8 { return aln.mapping[c] }

// setGapSet marks which symbols are gaps. An empty string means the
// default set.
func (aln *Alignment) setGapSet(gapset string) {
	if gapset == "" {
		gapset = DfltGapSet
	}
	for i := range aln.isGap {
		aln.isGap[i] = false
	}
	for i := 0; i < len(gapset); i++ {
		c := gapset[i]
		if uint8(c) < MaxSym {
			aln.isGap[c] = true
		}
	}
}

// IsGap says whether a symbol counts as a gap in this alignment.
func (aln *Alignment) IsGap(c byte) bool {
	if uint8(c) >= MaxSym {
		return false
	}
	return aln.isGap[c]
}

// upper uppercases all the members of an alignment, so "a" and "A"
// end up as one symbol.
func (aln *Alignment) upper() error {
	for i := range aln.seqs {
		if err := aln.seqs[i].Upper(); err != nil {
			return err
		}
	}
	return nil
}

// checkLengths walks the sequences and complains about the first one
// whose length does not match the first sequence. The error message
// carries the record number, counting from 1, since that is what a
// person looking at the file wants.
func checkLengths(seq_set []seq) error {
	iwant := len(seq_set[0].GetSeq())
	for i := 1; i < len(seq_set); i++ {
		if ilen := len(seq_set[i].GetSeq()); ilen != iwant {
			return fmt.Errorf(
				"sequence lengths unequal: expected %d, got %d at record %d (%s)",
				iwant, ilen, i+1, trimStr(seq_set[i].GetCmmt(), 40))
		}
	}
	return nil
}

// finish does the checks and normalisation every alignment goes
// through, whatever the source of the sequences was.
func (aln *Alignment) finish(fname string, opts *Options) error {
	if len(aln.seqs) == 0 {
		return &FormatError{Fname: fname, Msg: "no sequences found"}
	}
	if err := aln.upper(); err != nil {
		return &FormatError{Fname: fname, Msg: err.Error()}
	}
	if err := checkLengths(aln.seqs); err != nil {
		return &FormatError{Fname: fname, Msg: err.Error()}
	}
	var gapset string
	if opts != nil {
		gapset = opts.GapSet
	}
	aln.setGapSet(gapset)
	return nil
}

// ReadAlignment takes a filename and reads an alignment from it.
// An empty name means standard input. Anything structurally wrong
// with the file comes back as a *FormatError.
func ReadAlignment(fname string, opts *Options) (*Alignment, error) {
	aln := new(Alignment)
	var fp io.ReadCloser
	var err error

	if opts == nil {
		opts = &Options{}
	}
	if fname != "" {
		if fp, err = os.Open(fname); err != nil {
			return nil, err
		}
		if opts.ExpectSeq == 0 { // Pre-count the records so the slice
			if n, e := numseq.NumSeqs(fname); e == nil { // is sized once.
				opts.ExpectSeq = n
			}
		}
	} else {
		fp = os.Stdin
	}
	defer fp.Close()

	if err := ReadFasta(fp, aln, opts); err != nil {
		return nil, &FormatError{Fname: fname, Msg: err.Error()}
	}
	if err := aln.finish(fname, opts); err != nil {
		return nil, err
	}
	return aln, nil
}

// FindNdx returns the index of the sequence whose comment contains a
// string. Numbering starts from zero. We remove any ">", space or tab
// at the start.
func (aln *Alignment) FindNdx(s string) int {
	s = strings.TrimLeft(s, " >\t")
	for i, sq := range aln.seqs {
		if strings.Contains(sq.GetCmmt(), s) {
			return i
		}
	}
	return -1
}

// Str2Alignment takes some strings and returns them as an alignment.
// sIn is a slice of strings which are the sequences.
// prefix is an optional argument. Sequences need names. If prefix is
// not given, sequences will be called "s0", "s1", ...
// Mostly a convenience for testing, so it panics rather than
// returning an error on broken input.
func Str2Alignment(sIn []string, prefix ...string) *Alignment {
	base := "s"
	if prefix != nil {
		base = prefix[0]
	}
	aln := new(Alignment)
	for i, s := range sIn {
		f := seq{cmmt: fmt.Sprint(base, i), seq: []byte(s)}
		aln.seqs = append(aln.seqs, f)
	}
	if err := aln.finish("", nil); err != nil {
		panic("Str2Alignment: " + err.Error())
	}
	return aln
}
