package finder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coc-ops/roombook-api/internal/models"
	appErrors "github.com/coc-ops/roombook-api/pkg/errors"
)

func newRequest() models.Request {
	return models.Request{
		ID:        "G9",
		Order:     3,
		Activity:  "retro",
		Priority:  3,
		Size:      2,
		Primary:   models.Window{Start: 10, End: 11},
		Alternate: models.Window{Start: 14, End: 15},
	}
}

func TestSuggestSkipsBookedIntervals(t *testing.T) {
	rooms := []models.Room{{ID: "R1", Capacity: 4}}
	assignments := []models.Assignment{
		{RequestID: "G1", RoomID: "R1", Window: models.Window{Start: 10, End: 12}},
	}

	slots, err := New(Config{}, nil).Suggest(newRequest(), assignments, rooms)
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.LessOrEqual(t, len(slots), 3)
	for _, slot := range slots {
		assert.GreaterOrEqual(t, slot.Window.Start, 8.0)
		assert.LessOrEqual(t, slot.Window.End, 18.0)
		assert.False(t, slot.Window.Overlaps(models.Window{Start: 10, End: 12}))
		assert.Equal(t, "low", slot.Density)
	}
}

func TestSuggestRanksByProximityToRequestedStart(t *testing.T) {
	rooms := []models.Room{{ID: "R1", Capacity: 4}}
	assignments := []models.Assignment{
		{RequestID: "G1", RoomID: "R1", Window: models.Window{Start: 10, End: 12}},
	}

	slots, err := New(Config{}, nil).Suggest(newRequest(), assignments, rooms)
	require.NoError(t, err)
	// Requested start is 10:00; 9-10 is the closest free hour.
	assert.Equal(t, models.Window{Start: 9, End: 10}, slots[0].Window)
	for i := 1; i < len(slots); i++ {
		assert.GreaterOrEqual(t, slots[i-1].Score, slots[i].Score)
	}
}

func TestSuggestDensityReflectsRoomLoad(t *testing.T) {
	rooms := []models.Room{{ID: "R1", Capacity: 4}}
	assignments := []models.Assignment{
		{RequestID: "G1", RoomID: "R1", Window: models.Window{Start: 8, End: 9}},
		{RequestID: "G2", RoomID: "R1", Window: models.Window{Start: 9, End: 10}},
	}

	slots, err := New(Config{}, nil).Suggest(newRequest(), assignments, rooms)
	require.NoError(t, err)
	for _, slot := range slots {
		assert.Equal(t, "medium", slot.Density)
	}
}

func TestSuggestSkipsRoomsTooSmall(t *testing.T) {
	rooms := []models.Room{{ID: "tiny", Capacity: 1}, {ID: "R1", Capacity: 4}}

	slots, err := New(Config{}, nil).Suggest(newRequest(), nil, rooms)
	require.NoError(t, err)
	for _, slot := range slots {
		assert.Equal(t, "R1", slot.RoomID)
	}
}

func TestSuggestNoAlternativeWhenDayFull(t *testing.T) {
	rooms := []models.Room{{ID: "R1", Capacity: 4}}
	assignments := []models.Assignment{
		{RequestID: "G1", RoomID: "R1", Window: models.Window{Start: 8, End: 18}},
	}

	_, err := New(Config{}, nil).Suggest(newRequest(), assignments, rooms)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoAlternative.Code, appErrors.FromError(err).Code)
}

func TestSuggestDiscardsWindowsPastClose(t *testing.T) {
	req := newRequest()
	req.Primary = models.Window{Start: 10, End: 13} // 3h duration
	rooms := []models.Room{{ID: "R1", Capacity: 4}}

	slots, err := New(Config{}, nil).Suggest(req, nil, rooms)
	require.NoError(t, err)
	for _, slot := range slots {
		assert.LessOrEqual(t, slot.Window.End, 18.0)
		assert.Equal(t, 3.0, slot.Window.Duration())
	}
}

func TestCustomScorerWins(t *testing.T) {
	rooms := []models.Room{{ID: "R1", Capacity: 4}}
	latest := func(req models.Request, room models.Room, w models.Window, bookings int) float64 {
		return w.Start
	}

	slots, err := New(Config{Scorer: latest}, nil).Suggest(newRequest(), nil, rooms)
	require.NoError(t, err)
	assert.Equal(t, 17.0, slots[0].Window.Start)
}
