package powertable

import "sort"

// InsertWithFill adds a target point to a line together with the pitch grid
// points FillSequence proposes for it. Candidates are enforced and written
// one at a time in ascending power, so each one sees the ones before it.
// Existing points are never overwritten. The target's adjustment, if any, is
// returned as a warning.
func (t *Table) InsertWithFill(cadence, power, resistance, pitch int) ([]Point, *BoundsAdjustedWarning) {
	candidates := FillSequence(t.Points(cadence), power, resistance, pitch)
	added := make([]Point, 0, len(candidates))
	var warning *BoundsAdjustedWarning
	for _, c := range candidates {
		if _, exists := t.Get(cadence, c.Power); exists {
			continue
		}
		safe, w := t.Write(cadence, c.Power, c.Resistance)
		if c.Power == power {
			warning = w
		}
		added = append(added, Point{Power: c.Power, Resistance: safe})
	}
	return added, warning
}

// FillReport summarises a SmartFill run
type FillReport struct {
	CellsScanned int
	PointsAdded  int
}

// SmartFill populates every missing cell at every power used anywhere in the
// table. Brackets come from each line's points as they were before the run;
// enforcement sees the cells filled so far. Lines with fewer than two points
// are scanned but cannot be filled.
func (t *Table) SmartFill() (FillReport, error) {
	var report FillReport
	powers := t.AllPowersUsed()
	if len(powers) == 0 {
		return report, &InsufficientDataError{Op: "smart fill", Reason: "no power values found in table"}
	}

	for _, cadence := range t.Cadences() {
		known := t.Points(cadence)
		for _, power := range powers {
			report.CellsScanned++
			if _, ok := t.Get(cadence, power); ok {
				continue
			}
			r, ok := fillValue(known, power)
			if !ok {
				continue
			}
			t.Write(cadence, power, r)
			report.PointsAdded++
		}
	}
	return report, nil
}

// fillValue interpolates inside the line's span and extrapolates outside it
// using the slope of the two outermost points on that side
func fillValue(known []Point, power int) (int, bool) {
	n := len(known)
	if n < 2 {
		return 0, false
	}
	i := sort.Search(n, func(i int) bool { return known[i].Power > power })
	switch i {
	case 0:
		return Extrapolate(known[0].Power, known[0].Resistance, known[1].Power, known[1].Resistance, power), true
	case n:
		return Extrapolate(known[n-1].Power, known[n-1].Resistance, known[n-2].Power, known[n-2].Resistance, power), true
	default:
		l, r := known[i-1], known[i]
		return InterpolateBetween(l.Power, l.Resistance, r.Power, r.Resistance, power), true
	}
}
