package repository

import "crewroster-service/internal/domain/entity"

// UserRepository persists registered users.
// FindByEmail and FindByID return entity.ErrUserNotFound for unknown users;
// Create returns entity.ErrUserExists when the email is already registered.
type UserRepository interface {
	Create(user entity.User) error
	FindByEmail(email string) (entity.User, error)
	FindByID(id string) (entity.User, error)
}
