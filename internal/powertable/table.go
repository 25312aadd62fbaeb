package powertable

import (
	"maps"
	"slices"
)

// Defaults used when no configuration overrides them
const (
	DefaultMaxResistance     = 32029
	DefaultStorageMultiplier = 10
	DefaultPitchWatts        = 30
	DefaultHistoryCapacity   = 50
	MinHistoryCapacity       = 2 // a command's before and after states
)

// Config holds the table-wide settings that travel with every snapshot
type Config struct {
	MaxResistance     int // inclusive ceiling for every resistance value
	StorageMultiplier int // in-memory value = on-disk value * StorageMultiplier
}

// DefaultConfig returns the stock ceiling and multiplier
func DefaultConfig() Config {
	return Config{
		MaxResistance:     DefaultMaxResistance,
		StorageMultiplier: DefaultStorageMultiplier,
	}
}

// Point is one (power, resistance) entry on a cadence line
type Point struct {
	Power      int
	Resistance int
}

// Table maps cadence -> (power -> resistance). It performs no validation of
// its own: writers go through SafeResistance or one of the bulk operations.
// A Table is not safe for concurrent use.
type Table struct {
	lines  map[int]map[int]int
	Config Config
}

// NewTable creates an empty table
func NewTable(cfg Config) *Table {
	return &Table{
		lines:  make(map[int]map[int]int),
		Config: cfg,
	}
}

// Get returns the resistance at (cadence, power)
func (t *Table) Get(cadence, power int) (int, bool) {
	line, ok := t.lines[cadence]
	if !ok {
		return 0, false
	}
	r, ok := line[power]
	return r, ok
}

// Set writes a resistance, creating the cadence line if needed
func (t *Table) Set(cadence, power, resistance int) {
	line, ok := t.lines[cadence]
	if !ok {
		line = make(map[int]int)
		t.lines[cadence] = line
	}
	line[power] = resistance
}

// Remove deletes a point. A line left without points is dropped so that
// Cadences only ever reports lines that carry data.
func (t *Table) Remove(cadence, power int) bool {
	line, ok := t.lines[cadence]
	if !ok {
		return false
	}
	if _, ok := line[power]; !ok {
		return false
	}
	delete(line, power)
	if len(line) == 0 {
		delete(t.lines, cadence)
	}
	return true
}

// HasLine reports whether the cadence has at least one point
func (t *Table) HasLine(cadence int) bool {
	_, ok := t.lines[cadence]
	return ok
}

// Cadences returns all cadence values in ascending order
func (t *Table) Cadences() []int {
	return slices.Sorted(maps.Keys(t.lines))
}

// PowersOf returns the powers defined on a line in ascending order
func (t *Table) PowersOf(cadence int) []int {
	return slices.Sorted(maps.Keys(t.lines[cadence]))
}

// Points returns the points of a line ordered by ascending power
func (t *Table) Points(cadence int) []Point {
	line := t.lines[cadence]
	powers := slices.Sorted(maps.Keys(line))
	points := make([]Point, len(powers))
	for i, p := range powers {
		points[i] = Point{Power: p, Resistance: line[p]}
	}
	return points
}

// AllPowersUsed returns the sorted union of powers across all lines
func (t *Table) AllPowersUsed() []int {
	seen := make(map[int]struct{})
	for _, line := range t.lines {
		for p := range line {
			seen[p] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// LineCount returns the number of cadence lines
func (t *Table) LineCount() int {
	return len(t.lines)
}

// Len returns the total number of points in the table
func (t *Table) Len() int {
	n := 0
	for _, line := range t.lines {
		n += len(line)
	}
	return n
}

// MaxStored returns the largest resistance in the table, or -1 when empty
func (t *Table) MaxStored() int {
	highest := -1
	for _, line := range t.lines {
		for _, r := range line {
			highest = max(highest, r)
		}
	}
	return highest
}

// NearestPower returns the column in use closest to power. Ties go to the
// lower column. ok is false when the table is empty.
func (t *Table) NearestPower(power int) (nearest int, ok bool) {
	powers := t.AllPowersUsed()
	if len(powers) == 0 {
		return 0, false
	}
	nearest = powers[0]
	for _, p := range powers[1:] {
		if absInt(power-p) < absInt(power-nearest) {
			nearest = p
		}
	}
	return nearest, true
}

// Clone returns a deep copy sharing no maps with t
func (t *Table) Clone() *Table {
	c := &Table{
		lines:  make(map[int]map[int]int, len(t.lines)),
		Config: t.Config,
	}
	for cadence, line := range t.lines {
		c.lines[cadence] = maps.Clone(line)
	}
	return c
}

// Equal reports whether both tables hold the same points and config
func (t *Table) Equal(other *Table) bool {
	if other == nil || t.Config != other.Config || len(t.lines) != len(other.lines) {
		return false
	}
	for cadence, line := range t.lines {
		otherLine, ok := other.lines[cadence]
		if !ok || !maps.Equal(line, otherLine) {
			return false
		}
	}
	return true
}

func (t *Table) clamp(r int) int {
	return clampInt(r, 0, t.Config.MaxResistance)
}

func sortedKeys[V any](m map[int]V) []int {
	return slices.Sorted(maps.Keys(m))
}

func clampInt(value, minValue, maxValue int) int {
	if value < minValue {
		return minValue
	}
	if value > maxValue {
		return maxValue
	}
	return value
}

func absInt(value int) int {
	if value < 0 {
		return -value
	}
	return value
}
