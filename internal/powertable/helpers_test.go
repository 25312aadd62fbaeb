package powertable

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// tableOf builds a table with the default config from cadence -> power -> resistance
func tableOf(lines map[int]map[int]int) *Table {
	t := NewTable(DefaultConfig())
	for cadence, line := range lines {
		for power, r := range line {
			t.Set(cadence, power, r)
		}
	}
	return t
}

// planarTable samples r = 5000 - 30*cadence + 10*power at random cells. Every
// line of such a table is straight and lines never meet, so interpolation
// and extrapolation land exactly on the plane.
func planarTable(rng *rand.Rand) *Table {
	t := NewTable(DefaultConfig())
	for cadence := 40; cadence <= 120; cadence += 5 {
		if rng.IntN(3) == 0 {
			continue
		}
		for power := 50; power <= 500; power += 10 {
			if rng.IntN(4) != 0 {
				continue
			}
			t.Set(cadence, power, 5000-30*cadence+10*power)
		}
	}
	return t
}

func requireConsistent(t *testing.T, table *Table) {
	t.Helper()
	require.Empty(t, table.Violations())
}
