package powertable

// ChangeKind classifies a cell difference between two tables
type ChangeKind int

const (
	ChangeAdded ChangeKind = iota
	ChangeRemoved
	ChangeModified
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	default:
		return "modified"
	}
}

// Change is one cell that differs between a base and a current table.
// Before is meaningless for added cells and After for removed ones.
type Change struct {
	Kind    ChangeKind
	Cadence int
	Power   int
	Before  int
	After   int
}

// Diff lists the cells of current that differ from base, ordered by cadence
// then power
func Diff(base, current *Table) []Change {
	cadences := make(map[int]struct{})
	for c := range base.lines {
		cadences[c] = struct{}{}
	}
	for c := range current.lines {
		cadences[c] = struct{}{}
	}

	var changes []Change
	for _, cadence := range sortedKeys(cadences) {
		powers := make(map[int]struct{})
		for p := range base.lines[cadence] {
			powers[p] = struct{}{}
		}
		for p := range current.lines[cadence] {
			powers[p] = struct{}{}
		}
		for _, power := range sortedKeys(powers) {
			before, inBase := base.Get(cadence, power)
			after, inCurrent := current.Get(cadence, power)
			switch {
			case inBase && !inCurrent:
				changes = append(changes, Change{Kind: ChangeRemoved, Cadence: cadence, Power: power, Before: before})
			case !inBase && inCurrent:
				changes = append(changes, Change{Kind: ChangeAdded, Cadence: cadence, Power: power, After: after})
			case before != after:
				changes = append(changes, Change{Kind: ChangeModified, Cadence: cadence, Power: power, Before: before, After: after})
			}
		}
	}
	return changes
}
