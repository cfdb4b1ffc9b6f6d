// Package auth verifies credentials and issues principals. Passwords are
// stored bcrypt-hashed only; a raw password never reaches the database.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"task-manager/internal/models"
	"task-manager/internal/repository"
)

type Authenticator struct {
	users *repository.UserRepository
}

func NewAuthenticator(users *repository.UserRepository) *Authenticator {
	return &Authenticator{users: users}
}

type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Designation models.Designation
	Department  models.Department
	Role        models.Role
}

// Register creates a new user account. The role defaults to User; admins are
// seeded from the environment, never through the form.
func (a *Authenticator) Register(input RegisterInput) (*models.User, error) {
	verr := models.NewValidationError()

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)

	if input.Name == "" {
		verr.Add("Name", "Full Name is required.")
	}
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		verr.Add("Email", "A valid email is required.")
	}
	if len(input.Password) < 6 {
		verr.Add("Password", "Password must be at least 6 characters.")
	}
	if !models.ValidDesignation(input.Designation) {
		verr.Add("Designation", "Unknown designation.")
	}
	if !models.ValidDepartment(input.Department) {
		verr.Add("Department", "Unknown department.")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	if input.Role == "" {
		input.Role = models.RoleUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Designation:  input.Designation,
		Department:   input.Department,
		Role:         input.Role,
	}
	if err := a.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies email and password and returns the principal for the
// session. Unknown email and wrong password both come back as
// ErrInvalidCredentials so callers cannot enumerate accounts.
func (a *Authenticator) Authenticate(email, password string) (*models.Principal, error) {
	user, err := a.users.FindByEmail(email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return &models.Principal{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
	}, nil
}

// ChangePassword re-hashes and stores a new password after verifying the
// current one. The caller is responsible for destroying the active session
// afterwards; a password change signs the user out.
func (a *Authenticator) ChangePassword(userID uint, currentPassword, newPassword, confirm string) error {
	verr := models.NewValidationError()
	if len(newPassword) < 6 {
		verr.Add("NewPassword", "New password must be at least 6 characters.")
	}
	if newPassword != confirm {
		verr.Add("ConfirmPassword", "The new password and confirmation do not match.")
	}
	if verr.HasErrors() {
		return verr
	}

	user, err := a.users.FindByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return models.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return a.users.UpdatePassword(user.ID, string(hash))
}
