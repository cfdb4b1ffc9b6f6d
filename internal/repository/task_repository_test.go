package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/models"
)

func TestTaskCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	userA := seedUser(t, db, "Alice", "alice@example.com", models.RoleUser)
	seedCategory(t, db, "Ops")

	task := validTask(userA, "Ops")
	require.NoError(t, repo.Create(principalFor(userA), task))
	require.NotZero(t, task.ID)

	got, err := repo.Get(principalFor(userA), task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write report", got.Name)
	assert.Equal(t, uint(1), got.Version)
	require.NotNil(t, got.AssignedPerson)
	assert.Equal(t, "Alice", got.AssignedPerson.Name)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Ops", got.Category.Name)
}

func TestTaskCreateNonAdminCannotAssignToAdmin(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	admin := seedUser(t, db, "Boss", "boss@example.com", models.RoleAdmin)
	userA := seedUser(t, db, "Alice", "alice@example.com", models.RoleUser)
	seedCategory(t, db, "Ops")

	task := validTask(admin, "Ops")
	err := repo.Create(principalFor(userA), task)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "AssignedPersonID")

	// an admin assigning to an admin is fine
	task = validTask(admin, "Ops")
	require.NoError(t, repo.Create(principalFor(admin), task))
}

func TestTaskCreateAggregatesAllViolations(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	admin := seedUser(t, db, "Boss", "boss@example.com", models.RoleAdmin)
	userA := seedUser(t, db, "Alice", "alice@example.com", models.RoleUser)
	seedCategory(t, db, "Ops")

	assigned := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	task := &models.Task{
		Name:             "", // required
		AssignedDate:     assigned,
		SubmissionDate:   assigned.AddDate(0, 0, -3), // before assigned
		Status:           models.StatusPending,
		AssignedPersonID: admin.ID,  // admin assignee from a non-admin
		CategoryName:     "Missing", // unknown category
	}

	err := repo.Create(principalFor(userA), task)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "Name")
	assert.Contains(t, verr.Fields, "AssignedDate")
	assert.Contains(t, verr.Fields, "AssignedPersonID")
	assert.Contains(t, verr.Fields, "CategoryName")
}

func TestTaskCreateDateOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	userA := seedUser(t, db, "Alice", "alice@example.com", models.RoleUser)
	seedCategory(t, db, "Ops")

	task := validTask(userA, "Ops")
	task.AssignedDate = task.SubmissionDate.AddDate(0, 0, 1)

	err := repo.Create(principalFor(userA), task)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "AssignedDate")

	// equal dates are allowed
	task = validTask(userA, "Ops")
	task.AssignedDate = task.SubmissionDate
	require.NoError(t, repo.Create(principalFor(userA), task))
}

func TestTaskCreateUnknownAssignee(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	userA := seedUser(t, db, "Alice", "alice@example.com", models.RoleUser)
	seedCategory(t, db, "Ops")

	task := validTask(userA, "Ops")
	task.AssignedPersonID = 9999

	err := repo.Create(principalFor(userA), task)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "AssignedPersonID")
}

func TestTaskListVisibility(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	admin := seedUser(t, db, "Boss", "boss@example.com", models.RoleAdmin)
	userA := seedUser(t, db, "Alice", "alice@example.com", models.RoleUser)
	userB := seedUser(t, db, "Bob", "bob@example.com", models.RoleUser)
	seedCategory(t, db, "Ops")

	taskA := validTask(userA, "Ops")
	require.NoError(t, repo.Create(principalFor(userA), taskA))
	taskB := validTask(userB, "Ops")
	taskB.Status = models.StatusCompleted
	require.NoError(t, repo.Create(principalFor(userB), taskB))

	// non-admins only see their own tasks
	listA, err := repo.List(principalFor(userA), "")
	require.NoError(t, err)
	require.Len(t, listA, 1)
	assert.Equal(t, userA.ID, listA[0].AssignedPersonID)

	// admins see everything
	listAdmin, err := repo.List(principalFor(admin), "")
	require.NoError(t, err)
	assert.Len(t, listAdmin, 2)

	// rows come enriched with assignee and category
	require.NotNil(t, listAdmin[0].AssignedPerson)
	require.NotNil(t, listAdmin[0].Category)

	// status filter narrows, case-insensitively
	completed, err := repo.List(principalFor(admin), "completed")
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, models.StatusCompleted, completed[0].Status)

	// an unknown filter value is ignored, not an error
	all, err := repo.List(principalFor(admin), "bogus")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = repo.List(nil, "")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestTaskGetOwnership(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	userA := seedUser(t, db, "Alice", "alice@example.com", models.RoleUser)
	userB := seedUser(t, db, "Bob", "bob@example.com", models.RoleUser)
	admin := seedUser(t, db, "Boss", "boss@example.com", models.RoleAdmin)
	seedCategory(t, db, "Ops")

	task := validTask(userA, "Ops")
	require.NoError(t, repo.Create(principalFor(userA), task))

	_, err := repo.Get(principalFor(userB), task.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = repo.Get(principalFor(admin), task.ID)
	assert.NoError(t, err)

	_, err = repo.Get(principalFor(userA), 9999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestTaskUpdateNonOwnerForbiddenAndUnchanged(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	userA := seedUser(t, db, "Alice", "alice@example.com", models.RoleUser)
	userB := seedUser(t, db, "Bob", "bob@example.com", models.RoleUser)
	seedCategory(t, db, "Ops")

	task := validTask(userA, "Ops")
	require.NoError(t, repo.Create(principalFor(userA), task))

	patch := validTask(userB, "Ops")
	patch.Name = "Hijacked"
	patch.Version = 1
	err := repo.Update(principalFor(userB), task.ID, patch)
	assert.ErrorIs(t, err, models.ErrForbidden)

	var stored models.Task
	require.NoError(t, db.First(&stored, task.ID).Error)
	assert.Equal(t, "Write report", stored.Name)
	assert.Equal(t, userA.ID, stored.AssignedPersonID)
	assert.Equal(t, uint(1), stored.Version)
}

func TestTaskUpdateStaleVersionConflicts(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	userA := seedUser(t, db, "Alice", "alice@example.com", models.RoleUser)
	seedCategory(t, db, "Ops")

	task := validTask(userA, "Ops")
	require.NoError(t, repo.Create(principalFor(userA), task))

	// both writers read version 1
	first := validTask(userA, "Ops")
	first.Name = "First writer"
	first.Version = 1
	require.NoError(t, repo.Update(principalFor(userA), task.ID, first))

	second := validTask(userA, "Ops")
	second.Name = "Second writer"
	second.Version = 1
	err := repo.Update(principalFor(userA), task.ID, second)
	assert.ErrorIs(t, err, models.ErrConflict)

	// the first write stuck and bumped the version
	var stored models.Task
	require.NoError(t, db.First(&stored, task.ID).Error)
	assert.Equal(t, "First writer", stored.Name)
	assert.Equal(t, uint(2), stored.Version)

	// retry against the fresh version succeeds
	second.Version = stored.Version
	require.NoError(t, repo.Update(principalFor(userA), task.ID, second))
}

func TestTaskUpdateMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	userA := seedUser(t, db, "Alice", "alice@example.com", models.RoleUser)
	seedCategory(t, db, "Ops")

	patch := validTask(userA, "Ops")
	patch.Version = 1
	err := repo.Update(principalFor(userA), 9999, patch)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestTaskDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	userA := seedUser(t, db, "Alice", "alice@example.com", models.RoleUser)
	userB := seedUser(t, db, "Bob", "bob@example.com", models.RoleUser)
	seedCategory(t, db, "Ops")

	task := validTask(userA, "Ops")
	require.NoError(t, repo.Create(principalFor(userA), task))

	err := repo.Delete(principalFor(userB), task.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	require.NoError(t, repo.Delete(principalFor(userA), task.ID))

	err = repo.Delete(principalFor(userA), task.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
