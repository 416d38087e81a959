package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"crewroster-service/internal/domain/entity"
	domainRepo "crewroster-service/internal/domain/repository"
	"crewroster-service/pkg/logger"
)

const rosterFilePrefix = "roster_data_"

// FileRosterRepository stores one JSON document per user in a data
// directory. Writes go through a temp file and rename so a crashed save
// never leaves a half-written roster behind.
type FileRosterRepository struct {
	dataDir string
	logger  logger.Logger
}

// NewFileRosterRepository creates a roster store rooted at dataDir.
func NewFileRosterRepository(dataDir string, logger logger.Logger) domainRepo.RosterRepository {
	return &FileRosterRepository{
		dataDir: dataDir,
		logger:  logger,
	}
}

func (r *FileRosterRepository) filePath(userID string) string {
	return filepath.Join(r.dataDir, rosterFilePrefix+userID+".json")
}

// Save overwrites the user's roster with the given days.
func (r *FileRosterRepository) Save(userID string, days []entity.RosterDay) error {
	doc := entity.RosterDocument{
		Version: entity.SchemaVersion,
		Days:    days,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode roster: %w", err)
	}

	path := r.filePath(userID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write roster file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace roster file: %w", err)
	}

	r.logger.Debug("Roster saved", "userId", userID, "days", len(days))
	return nil
}

// Load reads the user's roster. Version-1 files (a bare array of days, as
// the first release wrote) are migrated transparently.
func (r *FileRosterRepository) Load(userID string) ([]entity.RosterDay, error) {
	path := r.filePath(userID)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, entity.ErrNoRoster
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	days, err := decodeRosterDocument(data)
	if err != nil {
		return nil, &entity.CorruptDataError{Path: path, Err: err}
	}
	return days, nil
}

func decodeRosterDocument(data []byte) ([]entity.RosterDay, error) {
	var doc entity.RosterDocument
	if err := json.Unmarshal(data, &doc); err == nil && doc.Version != 0 {
		if doc.Version > entity.SchemaVersion {
			return nil, fmt.Errorf("unsupported roster schema version %d", doc.Version)
		}
		return doc.Days, nil
	}

	// Version 1: a bare JSON array with no envelope.
	var days []entity.RosterDay
	if err := json.Unmarshal(data, &days); err != nil {
		return nil, err
	}
	return days, nil
}

// Clear removes the user's roster file. A missing file is not an error.
func (r *FileRosterRepository) Clear(userID string) error {
	err := os.Remove(r.filePath(userID))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove roster file: %w", err)
	}
	return nil
}

// ClearAll removes every roster file in the data dir, recognized by the
// store's naming convention. Unrelated files are left alone.
func (r *FileRosterRepository) ClearAll() error {
	entries, err := os.ReadDir(r.dataDir)
	if err != nil {
		return fmt.Errorf("failed to list data dir: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, rosterFilePrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(r.dataDir, name)); err != nil {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}
	return nil
}
