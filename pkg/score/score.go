// Package score reduces the per-column metrics of one alignment to a
// single record. It is pure aggregation. The label and descriptor come
// from whoever ran the aligner, not from us.
package score

import (
	"fmt"

	"github.com/andrew-torda/msaqc/pkg/seq"
)

// AlignmentScore is the whole-alignment summary. Percentages are
// 0 to 100, entropy is bits. Built once, never changed.
type AlignmentScore struct {
	Label       string  // usually the tool that made the alignment
	Descriptor  string  // free text for the report
	AvgGapPct   float64 // mean column gap fraction * 100
	AvgMatchPct float64 // mean column match fraction * 100
	AvgEntropy  float64 // mean column entropy, bits
}

// EmptyAlignmentError means somebody asked us to average over zero
// columns. That is undefined and must not quietly become zero.
type EmptyAlignmentError struct {
	Label string
}

func (e *EmptyAlignmentError) Error() string {
	return fmt.Sprintf("empty alignment \"%s\": no columns to score", e.Label)
}

// Score averages the column metrics of an alignment into one record.
// Calling it twice on the same alignment gives bit-identical results,
// since the column walk is deterministic.
func Score(aln *seq.Alignment, label, descriptor string) (AlignmentScore, error) {
	sc := AlignmentScore{Label: label, Descriptor: descriptor}
	if aln.NSeq() == 0 || aln.Len() == 0 {
		return sc, &EmptyAlignmentError{Label: label}
	}
	mets := aln.ColStats()
	var gap, match, ntrpy float64
	for _, m := range mets {
		gap += m.GapFrac
		match += m.MatchFrac
		ntrpy += m.Entropy
	}
	ncol := float64(len(mets))
	sc.AvgGapPct = 100 * gap / ncol
	sc.AvgMatchPct = 100 * match / ncol
	sc.AvgEntropy = ntrpy / ncol
	return sc, nil
}
