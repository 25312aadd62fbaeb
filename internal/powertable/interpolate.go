package powertable

import (
	"math"
	"sort"
)

// roundHalfUp rounds to the nearest integer with halves going towards
// positive infinity
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// InterpolateBetween returns the resistance at p on the straight segment
// (p1, r1) -> (p2, r2)
func InterpolateBetween(p1, r1, p2, r2, p int) int {
	if p1 == p2 {
		return r1
	}
	ratio := float64(p-p1) / float64(p2-p1)
	return roundHalfUp(float64(r1) + float64(r2-r1)*ratio)
}

// Extrapolate continues the slope of (pA, rA) -> (pB, rB) from pA out to p
func Extrapolate(pA, rA, pB, rB, p int) int {
	if pA == pB {
		return rA
	}
	slope := float64(rB-rA) / float64(pB-pA)
	return roundHalfUp(float64(rA) + slope*float64(p-pA))
}

// neighbours finds the nearest points strictly below and strictly above
// power in an ascending line
func neighbours(line []Point, power int) (left, right Point, hasLeft, hasRight bool) {
	i := sort.Search(len(line), func(i int) bool { return line[i].Power >= power })
	if i > 0 {
		left, hasLeft = line[i-1], true
	}
	if i < len(line) && line[i].Power == power {
		i++
	}
	if i < len(line) {
		right, hasRight = line[i], true
	}
	return left, right, hasLeft, hasRight
}

// InterpolatedAt returns the value of a line's segment at power. It only
// answers for powers strictly inside a segment; exact points and powers
// outside the line's span report false.
func (t *Table) InterpolatedAt(cadence, power int) (int, bool) {
	if _, exact := t.Get(cadence, power); exact {
		return 0, false
	}
	left, right, hasLeft, hasRight := neighbours(t.Points(cadence), power)
	if !hasLeft || !hasRight {
		return 0, false
	}
	return InterpolateBetween(left.Power, left.Resistance, right.Power, right.Resistance, power), true
}

// FillSequence returns the raw candidate points for adding
// (targetPower, targetResistance) to a line, ordered by power. Grid points
// sit at multiples of pitch from the nearest known power; a grid point closer
// than one pitch to the target or to the closing bracket is redundant and
// skipped. The target is always included. Candidates are not yet enforced.
func FillSequence(line []Point, targetPower, targetResistance, pitch int) []Point {
	if pitch <= 0 {
		pitch = DefaultPitchWatts
	}
	left, right, hasLeft, hasRight := neighbours(line, targetPower)

	tooClose := func(w int) bool {
		if absInt(w-targetPower) < pitch {
			return true
		}
		return hasRight && right.Power-w < pitch
	}

	var points []Point
	switch {
	case hasLeft && hasRight:
		for w := left.Power + pitch; w < right.Power; w += pitch {
			if tooClose(w) {
				continue
			}
			r := InterpolateBetween(left.Power, left.Resistance, right.Power, right.Resistance, w)
			points = append(points, Point{Power: w, Resistance: r})
		}
	case hasLeft:
		for w := left.Power + pitch; w <= targetPower; w += pitch {
			if tooClose(w) {
				continue
			}
			r := Extrapolate(left.Power, left.Resistance, targetPower, targetResistance, w)
			points = append(points, Point{Power: w, Resistance: r})
		}
	case hasRight:
		for w := targetPower; w < right.Power; w += pitch {
			if tooClose(w) {
				continue
			}
			r := Extrapolate(targetPower, targetResistance, right.Power, right.Resistance, w)
			points = append(points, Point{Power: w, Resistance: r})
		}
	}

	target := Point{Power: targetPower, Resistance: targetResistance}
	i := sort.Search(len(points), func(i int) bool { return points[i].Power > targetPower })
	points = append(points, Point{})
	copy(points[i+1:], points[i:])
	points[i] = target
	return points
}
