package powertable

import "math"

const (
	smoothMinPowers    = 4
	smoothMinLines     = 2
	smoothMinLinePts   = 4
	spacingExponent    = 1.5
	spacingMinGapRatio = 0.02
	smoothMaxWindow    = 2
)

// SmoothReport counts the cells changed by each SmartSmooth stage
type SmoothReport struct {
	SpacingAdjustments int
	CurveAdjustments   int
}

// Total returns the number of cell changes across both stages
func (r SmoothReport) Total() int {
	return r.SpacingAdjustments + r.CurveAdjustments
}

// SmartSmooth redistributes every power column across its cadence lines and
// then smooths the interior of every line. Fails without touching the table
// when fewer than 4 power columns or fewer than 2 lines exist.
func (t *Table) SmartSmooth() (SmoothReport, error) {
	var report SmoothReport
	if n := len(t.AllPowersUsed()); n < smoothMinPowers {
		return report, &InsufficientDataError{Op: "smart smooth", Reason: "need at least 4 power levels"}
	}
	if t.LineCount() < smoothMinLines {
		return report, &InsufficientDataError{Op: "smart smooth", Reason: "need at least 2 cadence lines"}
	}

	report.SpacingAdjustments = t.spaceColumns()
	report.CurveAdjustments = t.smoothLines()
	return report, nil
}

// spaceColumns rewrites each power column so values fall from the column's
// max at the lowest cadence to its min at the highest, with progressively
// wider steps and a minimum gap between neighbours
func (t *Table) spaceColumns() int {
	adjustments := 0
	cadences := t.Cadences()
	for _, power := range t.AllPowersUsed() {
		var present []int
		lo, hi := math.MaxInt, math.MinInt
		for _, cadence := range cadences {
			if r, ok := t.lines[cadence][power]; ok {
				present = append(present, cadence)
				lo = min(lo, r)
				hi = max(hi, r)
			}
		}
		n := len(present)
		spread := hi - lo
		if n < 2 || spread <= 0 {
			continue
		}

		minGap := max(1, roundHalfUp(float64(spread)*spacingMinGapRatio))
		prev := 0
		for i, cadence := range present {
			progress := math.Pow(float64(i)/float64(n-1), spacingExponent)
			target := roundHalfUp(float64(hi) - progress*float64(spread))
			if i > 0 && prev-target < minGap {
				target = prev - minGap
			}
			target = max(0, target)
			if t.lines[cadence][power] != target {
				t.lines[cadence][power] = target
				adjustments++
			}
			prev = target
		}
	}
	return adjustments
}

// smoothLines replaces each interior point of lines with at least 4 points
// by an inverse-distance weighted average of its neighbours. Weights use the
// values from before this stage; endpoints are kept.
func (t *Table) smoothLines() int {
	adjustments := 0
	for _, cadence := range t.Cadences() {
		points := t.Points(cadence)
		n := len(points)
		if n < smoothMinLinePts {
			continue
		}
		window := min(smoothMaxWindow, n/3)
		for i := 1; i < n-1; i++ {
			var sum, weights float64
			for j := max(0, i-window); j <= min(n-1, i+window); j++ {
				w := 1 / float64(1+absInt(j-i))
				sum += float64(points[j].Resistance) * w
				weights += w
			}
			smoothed := t.clamp(roundHalfUp(sum / weights))
			if smoothed != points[i].Resistance {
				t.lines[cadence][points[i].Power] = smoothed
				adjustments++
			}
		}
	}
	return adjustments
}
