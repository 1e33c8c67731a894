// 6 Apr 2020
// colstats does the per-column tallies and metrics on an alignment.
// The functions have to live in this package, since they need access
// to the internals of a sequence.

package seq

import (
	"math"

	"github.com/andrew-torda/matrix"
)

const (
	badMap = math.MaxUint8 // marks a symbol as not seen
)

// ColMetrics is what we know about one alignment column. GapFrac and
// MatchFrac are fractions of N, the number of sequences. Entropy is
// Shannon entropy in bits over the non-gap residues only, so a heavily
// gapped but conserved column still scores as conserved. An all-gap
// column has no residue majority and no information, so MatchFrac and
// Entropy are both zero there.
type ColMetrics struct {
	GapFrac   float64
	MatchFrac float64
	Entropy   float64
}

// SetSymUsed fills out the bool array which says whether or not a
// symbol was used anywhere in the alignment.
func (aln *Alignment) SetSymUsed() {
	for _, ss := range aln.seqs {
		for _, c := range ss.GetSeq() {
			aln.symUsed[c] = true
		}
	}
	aln.usedKnwn = true
}

// mapsyms looks at the symbols (characters, bases, residues) used in
// an alignment. It then makes a little array for mapping each symbol
// to a row in the counts matrix.
func (aln *Alignment) mapsyms() {
	if aln.usedKnwn != true {
		aln.SetSymUsed()
	}
	for i := range aln.mapping { // Initialise with bad value, to
		aln.mapping[i] = badMap // trap errors later
	}

	var n uint8
	for i := range aln.symUsed {
		if aln.symUsed[i] {
			aln.mapping[i] = n
			if n >= badMap {
				panic("program bug")
			}
			aln.revmap = append(aln.revmap, uint8(i))
			n++
		}
	}
}

// UsageSite counts how many of each symbol/character appear at
// each site in the alignment.
// counts.Mat looks like [number_of_types][length_of_seq].
// We store it as a float32. The values are integer counts, which a
// float32 holds exactly for any alignment we will ever see, and the
// matrix type saves us allocating row by row.
func (aln *Alignment) UsageSite() {
	if len(aln.revmap) == 0 {
		aln.mapsyms()
	}
	nrow := len(aln.revmap)
	ncol := aln.Len()
	aln.counts = matrix.NewFMatrix2d(nrow, ncol)
	for _, ss := range aln.seqs {
		for i, c := range ss.GetSeq() {
			cmap := aln.mapping[c]
			aln.counts.Mat[cmap][i] += 1
		}
	}
}

// Profile returns the symbol counts at one column as a map from
// symbol to count. The counts over the map always add up to NSeq.
func (aln *Alignment) Profile(icol int) map[byte]int {
	if aln.counts == nil {
		aln.UsageSite()
	}
	p := make(map[byte]int)
	for irow, c := range aln.revmap {
		if n := aln.counts.Mat[irow][icol]; n > 0 {
			p[c] = int(n)
		}
	}
	return p
}

// ColStats walks the columns and computes the metrics for each one.
// Column order is ascending and one pass over the counts is enough.
// The loader has already validated the alignment, so nothing here
// can fail.
func (aln *Alignment) ColStats() []ColMetrics {
	if aln.counts == nil {
		aln.UsageSite()
	}
	nrow, ncol := aln.counts.Size()
	nseq := float64(aln.NSeq())
	mets := make([]ColMetrics, ncol)

	for icol := 0; icol < ncol; icol++ {
		var ngap, nonGapTot, nonGapMax float64
		for irow := 0; irow < nrow; irow++ {
			n := float64(aln.counts.Mat[irow][icol])
			if aln.isGap[aln.revmap[irow]] {
				ngap += n
				continue
			}
			nonGapTot += n
			if n > nonGapMax {
				nonGapMax = n
			}
		}
		m := &mets[icol]
		m.GapFrac = ngap / nseq
		if nonGapTot == 0 { // all-gap column
			continue
		}
		m.MatchFrac = nonGapMax / nseq
		for irow := 0; irow < nrow; irow++ {
			if aln.isGap[aln.revmap[irow]] {
				continue
			}
			n := float64(aln.counts.Mat[irow][icol])
			if n == 0 { // zero-probability terms contribute exactly 0
				continue
			}
			p := n / nonGapTot
			m.Entropy -= p * math.Log2(p)
		}
	}
	return mets
}

// GapFrac returns just the gap fraction per column. The plotting code
// wants it as a plain slice.
func (aln *Alignment) GapFrac() []float64 {
	mets := aln.ColStats()
	out := make([]float64, len(mets))
	for i, m := range mets {
		out[i] = m.GapFrac
	}
	return out
}

// EntropyProfile returns just the entropy per column.
func (aln *Alignment) EntropyProfile() []float64 {
	mets := aln.ColStats()
	out := make([]float64, len(mets))
	for i, m := range mets {
		out[i] = m.Entropy
	}
	return out
}
