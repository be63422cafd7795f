package store

import (
	"workflow-board-api/internal/apperr"
	"workflow-board-api/internal/models"

	"github.com/google/uuid"
)

// GetUser loads one user by id.
func (s *Store) GetUser(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err, "user %s not found", id)
	}
	return &user, nil
}

// GetUserByEmail loads one user by email.
func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err, "user with email %s not found", email)
	}
	return &user, nil
}

// CreateUser persists a new user.
func (s *Store) CreateUser(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if err := s.db.Create(user).Error; err != nil {
		return apperr.Unavailable(err, "failed to create user")
	}
	return nil
}

// ListUsers returns every user, for assignee pickers.
func (s *Store) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("name asc").Find(&users).Error; err != nil {
		return nil, apperr.Unavailable(err, "failed to fetch users")
	}
	return users, nil
}
