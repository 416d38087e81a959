package repository

import "crewroster-service/internal/domain/entity"

// RosterRepository persists one roster per user as a whole document.
// Save fully overwrites any prior roster; merging is the caller's job.
// Load returns entity.ErrNoRoster when nothing was ever saved and
// *entity.CorruptDataError when a file exists but cannot be parsed.
type RosterRepository interface {
	Save(userID string, days []entity.RosterDay) error
	Load(userID string) ([]entity.RosterDay, error)
	Clear(userID string) error
	ClearAll() error
}
