package services

import (
	"chat-engine/models"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// UserService is the GORM-backed user directory. Account management proper
// lives outside the engine; this covers the lookups the chat surface needs
// and implements UserFinder for the projector.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) CreateUser(user *models.User) error {
	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("username taken: %w", ErrConflict)
		}
		return err
	}
	return nil
}

// TouchLastLogin stamps the login time on the given user.
func (s *UserService) TouchLastLogin(user *models.User) error {
	now := time.Now()
	user.LastLogin = &now
	return s.db.Model(user).Update("last_login", &now).Error
}
