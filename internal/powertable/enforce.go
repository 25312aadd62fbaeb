package powertable

// SafeResistance returns the value that can be written at (cadence, power)
// in place of proposed without crossing another line or breaking the
// ordering of this line.
//
// The steps run once, in order: exact points on other lines, segments of
// other lines, clamp, monotonicity within the line, clamp. It is a single
// greedy pass; on degenerate tables a later step may undo an earlier one.
func (t *Table) SafeResistance(cadence, power, proposed int) int {
	safe := proposed
	cadences := t.Cadences()

	for _, other := range cadences {
		if other == cadence {
			continue
		}
		if r, ok := t.lines[other][power]; ok {
			safe = pushPast(cadence, other, safe, r)
		}
	}

	for _, other := range cadences {
		if other == cadence {
			continue
		}
		if r, ok := t.InterpolatedAt(other, power); ok {
			safe = pushPast(cadence, other, safe, r)
		}
	}

	safe = t.clamp(safe)

	for _, p := range t.Points(cadence) {
		switch {
		case p.Power < power && p.Resistance >= safe:
			safe = p.Resistance + 1
		case p.Power > power && p.Resistance <= safe:
			safe = p.Resistance - 1
		}
	}

	return t.clamp(safe)
}

// pushPast moves safe to the correct side of a boundary value from another
// line: a higher cadence must sit strictly below it, a lower one strictly
// above.
func pushPast(cadence, otherCadence, safe, boundary int) int {
	if cadence > otherCadence {
		if safe >= boundary {
			return boundary - 1
		}
		return safe
	}
	if safe <= boundary {
		return boundary + 1
	}
	return safe
}

// Write enforces proposed and stores the result. The returned warning is
// non-nil when the stored value differs from the request.
func (t *Table) Write(cadence, power, proposed int) (int, *BoundsAdjustedWarning) {
	safe := t.SafeResistance(cadence, power, proposed)
	t.Set(cadence, power, safe)
	if safe != proposed {
		return safe, &BoundsAdjustedWarning{Cadence: cadence, Power: power, Requested: proposed, Applied: safe}
	}
	return safe, nil
}
