package powertable

// ResolveConflicts repairs an already populated table in two greedy passes
// and returns the number of cells it changed.
//
// Pass 1 walks each line by ascending power and lifts any value that does
// not exceed its predecessor to predecessor+1 (capped at the ceiling).
// Pass 2 walks each power column by ascending cadence and drops any value
// that is not below the previous line's to previous-1 (floored at 0),
// carrying the corrected value forward.
func (t *Table) ResolveConflicts() (int, error) {
	if t.LineCount() == 0 {
		return 0, &InsufficientDataError{Op: "resolve conflicts", Reason: "table has no data"}
	}

	adjustments := 0
	cadences := t.Cadences()

	for _, cadence := range cadences {
		line := t.lines[cadence]
		powers := t.PowersOf(cadence)
		for i := 1; i < len(powers); i++ {
			prev := line[powers[i-1]]
			if line[powers[i]] <= prev {
				line[powers[i]] = min(prev+1, t.Config.MaxResistance)
				adjustments++
			}
		}
	}

	for _, power := range t.AllPowersUsed() {
		seen := false
		prev := 0
		for _, cadence := range cadences {
			r, ok := t.lines[cadence][power]
			if !ok {
				continue
			}
			if seen && r >= prev {
				r = max(0, prev-1)
				t.lines[cadence][power] = r
				adjustments++
			}
			prev = r
			seen = true
		}
	}

	return adjustments, nil
}
