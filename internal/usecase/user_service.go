package usecase

import (
	"fmt"
	"strings"
	"time"

	"crewroster-service/internal/domain/entity"
	"crewroster-service/internal/domain/repository"
	"crewroster-service/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles registration, login and session tokens.
type UserService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    logger.Logger
}

// NewUserService creates a user service signing session tokens with
// jwtSecret.
func NewUserService(userRepo repository.UserRepository, jwtSecret string, tokenTTL time.Duration, logger logger.Logger) *UserService {
	return &UserService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Register creates a new user with a bcrypt password hash.
func (s *UserService) Register(email, password string) (entity.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return entity.User{}, fmt.Errorf("email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return entity.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := entity.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.Create(user); err != nil {
		return entity.User{}, err
	}

	s.logger.Info("User registered", "userId", user.ID)
	return user, nil
}

// Login verifies the credentials and returns a signed session token.
func (s *UserService) Login(email, password string) (entity.User, string, error) {
	user, err := s.userRepo.FindByEmail(strings.TrimSpace(email))
	if err != nil {
		return entity.User{}, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return entity.User{}, "", entity.ErrUserNotFound
	}

	token, err := s.issueToken(user)
	if err != nil {
		return entity.User{}, "", err
	}
	return user, token, nil
}

func (s *UserService) issueToken(user entity.User) (string, error) {
	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.ID,
		Issuer:    "crewroster-service",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Authenticate validates a bearer token and returns the user ID it was
// issued for.
func (s *UserService) Authenticate(authHeader string) (string, error) {
	raw := strings.TrimPrefix(authHeader, "Bearer ")
	if raw == "" {
		return "", fmt.Errorf("no token provided")
	}

	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid token")
	}
	return claims.Subject, nil
}
