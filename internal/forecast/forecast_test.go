package forecast

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coc-ops/roombook-api/internal/models"
)

func sampleRequests() []models.Request {
	return []models.Request{
		{
			ID: "G1", Order: 1, Priority: 5, Size: 4,
			Primary:   models.Window{Start: 10, End: 12},
			Alternate: models.Window{Start: 14, End: 16},
		},
		{
			ID: "G2", Order: 2, Priority: 2, Size: 2,
			Primary:   models.Window{Start: 9, End: 10},
			Alternate: models.Window{Start: 16, End: 17},
		},
	}
}

func TestHourlyDemandCoversOpeningHours(t *testing.T) {
	engine := New(0, 0, nil)
	demand, err := engine.HourlyDemand(sampleRequests(), []models.Room{{ID: "R1", Capacity: 6}})
	require.NoError(t, err)

	require.Len(t, demand, 10)
	for hour := 8; hour < 18; hour++ {
		value, ok := demand[hour]
		require.True(t, ok, "hour %d missing", hour)
		assert.False(t, math.IsNaN(value))
		assert.Greater(t, value, 0.0)
	}
	// Baseline peaks at midday.
	assert.Greater(t, demand[12], demand[8])
	assert.Greater(t, demand[12], demand[17])
}

func TestHourlyDemandDefinedForUndersizedRoom(t *testing.T) {
	// A room smaller than every request still yields finite averages,
	// including the last opening hour.
	engine := New(0, 0, nil)
	demand, err := engine.HourlyDemand(sampleRequests(), []models.Room{{ID: "tiny", Capacity: 1}})
	require.NoError(t, err)

	value, ok := demand[17]
	require.True(t, ok)
	assert.False(t, math.IsNaN(value))
	assert.False(t, math.IsInf(value, 0))
}

func TestHourlyDemandEmptyInputs(t *testing.T) {
	engine := New(0, 0, nil)
	demand, err := engine.HourlyDemand(nil, nil)
	require.NoError(t, err)
	require.Len(t, demand, 10)
	for _, value := range demand {
		assert.Zero(t, value)
	}
}

func TestHourlyDemandPropagatesPredictorError(t *testing.T) {
	failing := func(FeatureVector) (float64, error) {
		return 0, errors.New("model offline")
	}
	engine := New(8, 18, failing)
	_, err := engine.HourlyDemand(sampleRequests(), []models.Room{{ID: "R1", Capacity: 6}})
	require.Error(t, err)
}

func TestHourlyDemandRejectsNonFinitePrediction(t *testing.T) {
	broken := func(FeatureVector) (float64, error) {
		return math.NaN(), nil
	}
	engine := New(8, 18, broken)
	_, err := engine.HourlyDemand(sampleRequests(), []models.Room{{ID: "R1", Capacity: 6}})
	require.Error(t, err)
}

func TestPeakAndQuiet(t *testing.T) {
	demand := map[int]float64{8: 1.5, 9: 3.0, 10: 0.5, 11: 3.0}
	peak, quiet := PeakAndQuiet(demand)
	assert.Equal(t, 9, peak)
	assert.Equal(t, 10, quiet)
}
