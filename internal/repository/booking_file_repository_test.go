package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coc-ops/roombook-api/internal/models"
)

func sampleDayRequests() []models.Request {
	return []models.Request{
		{
			ID: "G1", Order: 1, Activity: "board meeting", Priority: 5, Size: 4,
			Primary:   models.Window{Start: 10, End: 12},
			Alternate: models.Window{Start: 13, End: 15},
		},
		{
			ID: "G2", Order: 2, Activity: "standup", Priority: 2, Size: 3,
			Primary:   models.Window{Start: 9.5, End: 10},
			Alternate: models.Window{Start: 16, End: 16.5},
		},
	}
}

func TestBookingFileRoundTrip(t *testing.T) {
	repo, err := NewBookingFileRepository(t.TempDir(), nil)
	require.NoError(t, err)

	original := sampleDayRequests()
	require.NoError(t, repo.Save("2025-03-14", original))

	loaded, err := repo.Load("2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestBookingFileMissingDayIsEmpty(t *testing.T) {
	repo, err := NewBookingFileRepository(t.TempDir(), nil)
	require.NoError(t, err)

	loaded, err := repo.Load("2025-01-01")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestBookingFileSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewBookingFileRepository(dir, nil)
	require.NoError(t, err)

	content := `{"order":1,"id":"G1","activity":"sync","main_start":9,"main_end":10,"alt_start":11,"alt_end":12,"priority":3,"size":2,"duration_main":1,"duration_alt":1}
not json at all
{"order":2,"id":"G2","activity":"review","main_start":13,"main_end":14,"alt_start":15,"alt_end":16,"priority":4,"size":5,"duration_main":1,"duration_alt":1}
`
	path := filepath.Join(dir, "bookings-2025-02-02.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loaded, err := repo.Load("2025-02-02")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "G1", loaded[0].ID)
	assert.Equal(t, "G2", loaded[1].ID)
}

func TestBookingFileSkipsRecordsOutsideFacilityHours(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewBookingFileRepository(dir, nil)
	require.NoError(t, err)

	content := `{"order":1,"id":"bad","activity":"late","main_start":19,"main_end":20,"alt_start":9,"alt_end":10,"priority":3,"size":2,"duration_main":1,"duration_alt":1}
{"order":2,"id":"ok","activity":"sync","main_start":9,"main_end":10,"alt_start":11,"alt_end":12,"priority":3,"size":2,"duration_main":1,"duration_alt":1}
`
	path := filepath.Join(dir, "bookings-2025-02-03.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loaded, err := repo.Load("2025-02-03")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "ok", loaded[0].ID)
}

func TestBookingFileSaveOverwrites(t *testing.T) {
	repo, err := NewBookingFileRepository(t.TempDir(), nil)
	require.NoError(t, err)

	require.NoError(t, repo.Save("2025-04-01", sampleDayRequests()))
	require.NoError(t, repo.Save("2025-04-01", sampleDayRequests()[:1]))

	loaded, err := repo.Load("2025-04-01")
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}
