package powertable

import "fmt"

// ViolationKind names the invariant a Violation breaks
type ViolationKind int

const (
	ViolationBounds     ViolationKind = iota // resistance outside [0, MaxResistance]
	ViolationMonotonic                       // line not strictly increasing with power
	ViolationCrossOrder                      // higher cadence not strictly below lower cadence
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationBounds:
		return "bounds"
	case ViolationMonotonic:
		return "monotonic"
	case ViolationCrossOrder:
		return "cross-order"
	default:
		return fmt.Sprintf("ViolationKind(%d)", int(k))
	}
}

// Violation describes one broken invariant. For monotonic violations the
// "other" fields hold the preceding point on the same line; for cross-order
// violations they hold the lower-cadence line at the same power.
type Violation struct {
	Kind            ViolationKind
	Cadence         int
	Power           int
	Resistance      int
	OtherCadence    int
	OtherPower      int
	OtherResistance int
}

func (v Violation) String() string {
	switch v.Kind {
	case ViolationBounds:
		return fmt.Sprintf("%d RPM @ %dW: resistance %d out of bounds", v.Cadence, v.Power, v.Resistance)
	case ViolationMonotonic:
		return fmt.Sprintf("%d RPM: %dW=%d does not exceed %dW=%d",
			v.Cadence, v.Power, v.Resistance, v.OtherPower, v.OtherResistance)
	default:
		return fmt.Sprintf("%dW: %d RPM=%d is not below %d RPM=%d",
			v.Power, v.Cadence, v.Resistance, v.OtherCadence, v.OtherResistance)
	}
}

// Violations lists every bounds, intra-line and inter-line problem in the
// table, ordered by cadence then power
func (t *Table) Violations() []Violation {
	var out []Violation
	cadences := t.Cadences()

	for _, cadence := range cadences {
		points := t.Points(cadence)
		for i, p := range points {
			if p.Resistance < 0 || p.Resistance > t.Config.MaxResistance {
				out = append(out, Violation{Kind: ViolationBounds, Cadence: cadence, Power: p.Power, Resistance: p.Resistance})
			}
			if i > 0 && p.Resistance <= points[i-1].Resistance {
				out = append(out, Violation{
					Kind: ViolationMonotonic, Cadence: cadence, Power: p.Power, Resistance: p.Resistance,
					OtherCadence: cadence, OtherPower: points[i-1].Power, OtherResistance: points[i-1].Resistance,
				})
			}
		}
	}

	for _, power := range t.AllPowersUsed() {
		seen := false
		var prevCadence, prevR int
		for _, cadence := range cadences {
			r, ok := t.lines[cadence][power]
			if !ok {
				continue
			}
			if seen && r >= prevR {
				out = append(out, Violation{
					Kind: ViolationCrossOrder, Cadence: cadence, Power: power, Resistance: r,
					OtherCadence: prevCadence, OtherPower: power, OtherResistance: prevR,
				})
			}
			prevCadence, prevR, seen = cadence, r, true
		}
	}
	return out
}

// IsConsistent reports whether the table satisfies every invariant
func (t *Table) IsConsistent() bool {
	return len(t.Violations()) == 0
}
