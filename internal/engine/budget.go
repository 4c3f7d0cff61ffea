package engine

import "github.com/five82/dofp/internal/buffer"

// BudgetMode tells which rule produced the download-time budget.
type BudgetMode string

const (
	// BudgetSaving applies below the save threshold: only the next segment is fetched.
	BudgetSaving BudgetMode = "saving"
	// BudgetSegment allows one segment duration of download time.
	BudgetSegment BudgetMode = "segment"
	// BudgetSurplus allows the buffer surplus above the save threshold.
	BudgetSurplus BudgetMode = "surplus"
)

// Budget returns the download time available at this opportunity.
func Budget(s buffer.State, maximizeWhenHigh bool) (float64, BudgetMode) {
	switch {
	case s.Occupancy < s.Thresholds.Save:
		return s.SegmentDuration, BudgetSaving
	case maximizeWhenHigh && s.Occupancy > s.Thresholds.High:
		return s.Occupancy - s.Thresholds.Save, BudgetSurplus
	default:
		return s.SegmentDuration, BudgetSegment
	}
}
