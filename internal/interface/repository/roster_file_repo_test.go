package repository_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"crewroster-service/internal/domain/entity"
	"crewroster-service/internal/interface/repository"
	"crewroster-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func sampleDays() []entity.RosterDay {
	return []entity.RosterDay{
		{
			Date:    "2025-05-20",
			Duty:    "FlD",
			CheckIn: strPtr("0600"),
			Flights: []entity.Flight{
				{FlightNum: "DY100", Departure: "OSL", Arrival: strPtr("BGO"),
					DepTime: strPtr("0700"), ArrTime: strPtr("0800")},
			},
			TimeLimits: map[string]string{"FT": "06:25", "FDP": "08:10"},
			Crew:       entity.Crew{Cockpit: []string{"1 Pilot One"}},
		},
	}
}

func TestFileRosterRepoSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	repo := repository.NewFileRosterRepository(t.TempDir(), logger.NewNop())

	days := sampleDays()
	require.NoError(t, repo.Save("u1", days))

	loaded, err := repo.Load("u1")
	require.NoError(t, err)
	assert.Equal(t, days, loaded)
}

func TestFileRosterRepoLoad_absent(t *testing.T) {
	t.Parallel()
	repo := repository.NewFileRosterRepository(t.TempDir(), logger.NewNop())

	_, err := repo.Load("nobody")
	assert.ErrorIs(t, err, entity.ErrNoRoster)
}

func TestFileRosterRepoLoad_corruptFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	repo := repository.NewFileRosterRepository(dir, logger.NewNop())

	path := filepath.Join(dir, "roster_data_u1.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := repo.Load("u1")
	var corrupt *entity.CorruptDataError
	require.ErrorAs(t, err, &corrupt)
	assert.NotErrorIs(t, err, entity.ErrNoRoster)
}

func TestFileRosterRepoLoad_migratesVersion1(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	repo := repository.NewFileRosterRepository(dir, logger.NewNop())

	// Version 1 files were a bare array of days.
	days := sampleDays()
	data, err := json.Marshal(days)
	require.NoError(t, err)
	path := filepath.Join(dir, "roster_data_u1.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	loaded, err := repo.Load("u1")
	require.NoError(t, err)
	assert.Equal(t, days, loaded)
}

func TestFileRosterRepoLoad_unsupportedVersion(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	repo := repository.NewFileRosterRepository(dir, logger.NewNop())

	path := filepath.Join(dir, "roster_data_u1.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":99,"days":[]}`), 0o600))

	_, err := repo.Load("u1")
	var corrupt *entity.CorruptDataError
	assert.ErrorAs(t, err, &corrupt)
}

func TestFileRosterRepoSave_overwrites(t *testing.T) {
	t.Parallel()
	repo := repository.NewFileRosterRepository(t.TempDir(), logger.NewNop())

	require.NoError(t, repo.Save("u1", sampleDays()))
	replacement := []entity.RosterDay{{Date: "2025-06-01", Duty: "OFF"}}
	require.NoError(t, repo.Save("u1", replacement))

	loaded, err := repo.Load("u1")
	require.NoError(t, err)
	assert.Equal(t, replacement, loaded)
}

func TestFileRosterRepoClear(t *testing.T) {
	t.Parallel()
	repo := repository.NewFileRosterRepository(t.TempDir(), logger.NewNop())

	require.NoError(t, repo.Save("u1", sampleDays()))
	require.NoError(t, repo.Clear("u1"))

	_, err := repo.Load("u1")
	assert.ErrorIs(t, err, entity.ErrNoRoster)

	// Clearing again is not an error.
	assert.NoError(t, repo.Clear("u1"))
}

func TestFileRosterRepoClearAll_leavesUnrelatedFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	repo := repository.NewFileRosterRepository(dir, logger.NewNop())

	require.NoError(t, repo.Save("u1", sampleDays()))
	require.NoError(t, repo.Save("u2", sampleDays()))
	unrelated := filepath.Join(dir, "users.json")
	require.NoError(t, os.WriteFile(unrelated, []byte("[]"), 0o600))

	require.NoError(t, repo.ClearAll())

	_, err := repo.Load("u1")
	assert.ErrorIs(t, err, entity.ErrNoRoster)
	_, err = repo.Load("u2")
	assert.ErrorIs(t, err, entity.ErrNoRoster)

	_, err = os.Stat(unrelated)
	assert.NoError(t, err)
}
