package service

import (
	"github.com/budget-buddy/api/internal/models"
	"github.com/budget-buddy/api/internal/repository"
	"github.com/budget-buddy/api/pkg/crypto"
	"gorm.io/gorm"
)

// ProfileService handles profile reads and account-level mutations
type ProfileService struct {
	db          *gorm.DB
	userRepo    *repository.UserRepository
	budgetRepo  *repository.BudgetRepository
	expenseRepo *repository.ExpenseRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(db *gorm.DB, userRepo *repository.UserRepository, budgetRepo *repository.BudgetRepository, expenseRepo *repository.ExpenseRepository) *ProfileService {
	return &ProfileService{
		db:          db,
		userRepo:    userRepo,
		budgetRepo:  budgetRepo,
		expenseRepo: expenseRepo,
	}
}

// UpdateProfileRequest represents a profile update request. Empty
// fields are left unchanged.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" binding:"omitempty,max=50"`
	LastName  string `json:"last_name" binding:"omitempty,max=50"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone" binding:"omitempty,max=30"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=100"`
}

// GetProfile returns the user's profile
func (s *ProfileService) GetProfile(userID uint) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile updates name, email and phone. A new email must not
// belong to another user.
func (s *ProfileService) UpdateProfile(userID uint, req *UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if req.Email != "" && req.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrEmailTaken
		}
		user.Email = req.Email
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword replaces the user's password after verifying the
// current one.
func (s *ProfileService) ChangePassword(userID uint, req *ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	if !crypto.CheckPassword(req.CurrentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	passwordHash, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = passwordHash
	return s.userRepo.Update(user)
}

// DeleteAccount verifies the password and removes the user together
// with their budget and every expense, in one transaction. Nothing may
// outlive the user row.
func (s *ProfileService) DeleteAccount(userID uint, password string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	if !crypto.CheckPassword(password, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.expenseRepo.WithTx(tx).DeleteByUserID(userID); err != nil {
			return err
		}
		if err := s.budgetRepo.WithTx(tx).DeleteByUserID(userID); err != nil {
			return err
		}
		return s.userRepo.WithTx(tx).Delete(userID)
	})
}
