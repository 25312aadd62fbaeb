package powertable

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmartFill_Interpolates(t *testing.T) {
	table := tableOf(map[int]map[int]int{
		60: {100: 500, 200: 900, 300: 1300},
		90: {100: 400, 300: 1000},
	})

	report, err := table.SmartFill()
	require.NoError(t, err)
	assert.Equal(t, FillReport{CellsScanned: 6, PointsAdded: 1}, report)

	r, ok := table.Get(90, 200)
	assert.True(t, ok)
	assert.Equal(t, 700, r)
	requireConsistent(t, table)
}

func TestSmartFill_ExtrapolatesBothWays(t *testing.T) {
	table := tableOf(map[int]map[int]int{
		60: {100: 500, 200: 900},
		90: {200: 700, 300: 1000, 400: 1300},
	})

	report, err := table.SmartFill()
	require.NoError(t, err)
	assert.Equal(t, 3, report.PointsAdded)
	assert.Equal(t, []Point{{100, 500}, {200, 900}, {300, 1300}, {400, 1700}}, table.Points(60))
	assert.Equal(t, []Point{{100, 400}, {200, 700}, {300, 1000}, {400, 1300}}, table.Points(90))
	requireConsistent(t, table)
}

func TestSmartFill_SinglePointLineIsSkipped(t *testing.T) {
	table := tableOf(map[int]map[int]int{
		60: {100: 500},
		90: {100: 400, 200: 600},
	})

	report, err := table.SmartFill()
	require.NoError(t, err)
	assert.Equal(t, FillReport{CellsScanned: 4, PointsAdded: 0}, report)
	_, ok := table.Get(60, 200)
	assert.False(t, ok)
}

func TestSmartFill_EmptyTable(t *testing.T) {
	table := NewTable(DefaultConfig())
	_, err := table.SmartFill()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientData))
}

func TestSmartFill_IsIdempotent(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for range 50 {
		table := planarTable(rng)
		if table.Len() == 0 {
			continue
		}
		_, err := table.SmartFill()
		require.NoError(t, err)
		first := table.Clone()

		report, err := table.SmartFill()
		require.NoError(t, err)
		assert.Equal(t, 0, report.PointsAdded)
		assert.True(t, first.Equal(table))
	}
}

func TestSmartFill_PlanarTablesStayConsistent(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for range 50 {
		table := planarTable(rng)
		if table.Len() == 0 {
			continue
		}
		powers := table.AllPowersUsed()
		_, err := table.SmartFill()
		require.NoError(t, err)
		requireConsistent(t, table)

		for _, cadence := range table.Cadences() {
			if len(table.PowersOf(cadence)) < 2 {
				continue
			}
			assert.Equal(t, powers, table.PowersOf(cadence), "line %d should be complete", cadence)
		}
	}
}
