package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"task-manager/internal/models"
)

// UserRepository is the credential store: user records keyed by unique email.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. The email must not already be taken; the check is
// case-insensitive and backed by the unique index on the column.
func (r *UserRepository) Create(user *models.User) error {
	var count int64
	if err := r.db.Model(&models.User{}).
		Where("LOWER(email) = LOWER(?)", user.Email).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return models.ErrDuplicateEmail
	}

	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("LOWER(email) = LOWER(?)", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) UpdatePassword(id uint, passwordHash string) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return fmt.Errorf("update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListAssignable returns the users a principal may pick as task assignee,
// ordered by name. Admins see everyone; non-admins only see regular users, so
// an Admin never even appears in their dropdown.
func (r *UserRepository) ListAssignable(p *models.Principal) ([]models.User, error) {
	if p == nil {
		return nil, models.ErrUnauthorized
	}

	query := r.db.Order("name asc")
	if !p.IsAdmin() {
		query = query.Where("role = ?", models.RoleUser)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list assignable users: %w", err)
	}
	return users, nil
}
