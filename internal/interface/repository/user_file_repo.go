package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"crewroster-service/internal/domain/entity"
	domainRepo "crewroster-service/internal/domain/repository"
)

// FileUserRepository keeps all registered users in one JSON file. The user
// base is a handful of crew members per installation, so a flat file read
// on each lookup is fine.
type FileUserRepository struct {
	mu   sync.Mutex
	path string
}

// NewFileUserRepository creates a user store backed by users.json in dataDir.
func NewFileUserRepository(dataDir string) domainRepo.UserRepository {
	return &FileUserRepository{path: filepath.Join(dataDir, "users.json")}
}

func (r *FileUserRepository) readAll() ([]entity.User, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user file: %w", err)
	}
	var users []entity.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to decode user file: %w", err)
	}
	return users, nil
}

func (r *FileUserRepository) writeAll(users []entity.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write user file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace user file: %w", err)
	}
	return nil
}

// Create adds a user, rejecting duplicate emails.
func (r *FileUserRepository) Create(user entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.readAll()
	if err != nil {
		return err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, user.Email) {
			return entity.ErrUserExists
		}
	}
	return r.writeAll(append(users, user))
}

// FindByEmail looks a user up by email, case-insensitively.
func (r *FileUserRepository) FindByEmail(email string) (entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.readAll()
	if err != nil {
		return entity.User{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return entity.User{}, entity.ErrUserNotFound
}

// FindByID looks a user up by ID.
func (r *FileUserRepository) FindByID(id string) (entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.readAll()
	if err != nil {
		return entity.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return entity.User{}, entity.ErrUserNotFound
}
