package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"task-manager/internal/database"
	"task-manager/internal/models"
)

// newTestDB opens a per-test in-memory database. cache=shared keeps every
// pooled connection on the same store; the test name keeps tests apart.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Designation:  models.DesignationSDE,
		Department:   models.DepartmentIT,
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

func principalFor(u *models.User) *models.Principal {
	return &models.Principal{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
	}
}

func validTask(assignee *models.User, category string) *models.Task {
	assigned := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return &models.Task{
		Name:             "Write report",
		Description:      "Quarterly report",
		AssignedDate:     assigned,
		SubmissionDate:   assigned.AddDate(0, 0, 7),
		Status:           models.StatusPending,
		AssignedPersonID: assignee.ID,
		CategoryName:     category,
	}
}
