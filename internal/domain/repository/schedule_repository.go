package repository

import (
	"context"

	"crewroster-service/internal/domain/entity"
)

// ScheduleRepository imports a roster from the remote PDF parsing service.
// ImportSchedule uploads the file and returns the decoded days sorted
// ascending by date. Failure modes: transport errors (wrapped), a
// *entity.ServerError for non-2xx answers, or a *entity.DecodingError when
// the response does not match the expected shape. It never touches local
// storage.
type ScheduleRepository interface {
	ImportSchedule(ctx context.Context, fileBytes []byte, fileName string) ([]entity.RosterDay, error)
}
