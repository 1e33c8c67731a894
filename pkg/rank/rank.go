// Package rank turns a bag of alignment scores into an ordered
// comparison. Lower average entropy means better conservation, so it
// sorts ascending on that. Ties are broken on the label so two runs
// over the same data always print the same table.
package rank

import (
	"errors"
	"sort"

	"github.com/andrew-torda/msaqc/pkg/score"
)

// entropyTol is how close two average entropies have to be before we
// call them equal and fall back to the label.
const entropyTol = 1e-9

// ErrNoData is returned when a comparison is asked for with no scores.
var ErrNoData = errors.New("no alignment scores to compare")

// ComparisonTable is the ranked scores, best conservation first.
// It is built once and only read afterwards.
type ComparisonTable struct {
	Rows []score.AlignmentScore
}

// Compare takes one score per tool label and ranks them. The input map
// is not touched. It fails with ErrNoData on an empty map rather than
// producing an empty table.
func Compare(scores map[string]score.AlignmentScore) (*ComparisonTable, error) {
	if len(scores) == 0 {
		return nil, ErrNoData
	}
	rows := make([]score.AlignmentScore, 0, len(scores))
	for label, sc := range scores {
		sc.Label = label // the map key wins if they disagree
		rows = append(rows, sc)
	}
	sort.Slice(rows, func(i, j int) bool {
		d := rows[i].AvgEntropy - rows[j].AvgEntropy
		if d < -entropyTol {
			return true
		}
		if d > entropyTol {
			return false
		}
		return rows[i].Label < rows[j].Label
	})
	return &ComparisonTable{Rows: rows}, nil
}

// Best returns the top row, the most conserved alignment.
func (ct *ComparisonTable) Best() score.AlignmentScore { return ct.Rows[0] }
