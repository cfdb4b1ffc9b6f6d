package repository

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"task-manager/internal/models"
	"task-manager/internal/policy"
)

// TaskRepository performs task CRUD on behalf of a principal. Every operation
// goes through the authorization policy and the data invariants before it
// touches the database.
type TaskRepository struct {
	db       *gorm.DB
	validate *validator.Validate
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{
		db:       db,
		validate: validator.New(),
	}
}

// Create validates and inserts a task. All violated rules are reported
// together in one ValidationError so the form can show every problem at once.
func (r *TaskRepository) Create(p *models.Principal, task *models.Task) error {
	if p == nil {
		return models.ErrUnauthorized
	}
	if !policy.CanAccess(p, policy.ActionCreate, nil) {
		return models.ErrForbidden
	}

	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if err := r.validateTask(p, task); err != nil {
		return err
	}

	task.Version = 1
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// Get loads a task with its assignee and category. Non-admins only see tasks
// assigned to them.
func (r *TaskRepository) Get(p *models.Principal, id uint) (*models.Task, error) {
	if p == nil {
		return nil, models.ErrUnauthorized
	}

	var task models.Task
	err := r.db.Preload("AssignedPerson").Preload("Category").First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	if !policy.CanAccess(p, policy.ActionView, &task) {
		return nil, models.ErrForbidden
	}
	return &task, nil
}

// Update applies patch to the stored task. The stored row is loaded first so
// the ownership check runs against what the database says, not against ids
// supplied by the caller. The patched state is fully re-validated, then
// committed with a version guard: a stale patch.Version means someone else
// updated the row since it was read, and the caller gets ErrConflict.
func (r *TaskRepository) Update(p *models.Principal, id uint, patch *models.Task) error {
	if p == nil {
		return models.ErrUnauthorized
	}

	var stored models.Task
	err := r.db.First(&stored, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load task: %w", err)
	}

	if !policy.CanAccess(p, policy.ActionEdit, &stored) {
		return models.ErrForbidden
	}

	if patch.Status == "" {
		patch.Status = stored.Status
	}
	if err := r.validateTask(p, patch); err != nil {
		return err
	}

	res := r.db.Model(&models.Task{}).
		Where("id = ? AND version = ?", id, patch.Version).
		Updates(map[string]interface{}{
			"name":               patch.Name,
			"description":        patch.Description,
			"assigned_date":      patch.AssignedDate,
			"submission_date":    patch.SubmissionDate,
			"status":             patch.Status,
			"assigned_person_id": patch.AssignedPersonID,
			"category_name":      patch.CategoryName,
			"version":            patch.Version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// either the row vanished or somebody got there first
		var count int64
		if err := r.db.Model(&models.Task{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("recheck task: %w", err)
		}
		if count == 0 {
			return models.ErrNotFound
		}
		return models.ErrConflict
	}
	return nil
}

func (r *TaskRepository) Delete(p *models.Principal, id uint) error {
	if p == nil {
		return models.ErrUnauthorized
	}

	var task models.Task
	err := r.db.First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load task: %w", err)
	}

	if !policy.CanAccess(p, policy.ActionDelete, &task) {
		return models.ErrForbidden
	}

	if err := r.db.Delete(&task).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// List returns the tasks visible to the principal: all of them for an admin,
// only their own for a regular user. statusFilter narrows the list when it
// names a known status; anything else is silently ignored and the unfiltered
// role-scoped list comes back.
func (r *TaskRepository) List(p *models.Principal, statusFilter string) ([]models.Task, error) {
	if p == nil {
		return nil, models.ErrUnauthorized
	}

	query := r.db.Preload("AssignedPerson").Preload("Category").
		Order("submission_date asc, id asc")
	if !p.IsAdmin() {
		query = query.Where("assigned_person_id = ?", p.UserID)
	}
	if status, ok := models.ParseStatus(statusFilter); ok {
		query = query.Where("status = ?", status)
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// validateTask checks every data invariant against the prospective state and
// aggregates the violations.
func (r *TaskRepository) validateTask(p *models.Principal, task *models.Task) error {
	verr := models.NewValidationError()

	if err := r.validate.Struct(task); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate task: %w", err)
		}
		for _, fe := range fieldErrs {
			switch fe.Tag() {
			case "required":
				verr.Add(fe.Field(), fe.Field()+" is required.")
			case "max":
				verr.Add(fe.Field(), fe.Field()+" must be at most "+fe.Param()+" characters.")
			default:
				verr.Add(fe.Field(), fe.Field()+" is invalid.")
			}
		}
	}

	if _, ok := models.ParseStatus(string(task.Status)); !ok {
		verr.Add("Status", "Unknown status.")
	}

	if !task.AssignedDate.IsZero() && !task.SubmissionDate.IsZero() &&
		task.AssignedDate.After(task.SubmissionDate) {
		verr.Add("AssignedDate", "Assigned Date must be on or before Submission Date.")
	}

	if task.AssignedPersonID == 0 {
		verr.Add("AssignedPersonID", "Please select a user to assign.")
	} else {
		var assignee models.User
		err := r.db.First(&assignee, task.AssignedPersonID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			verr.Add("AssignedPersonID", "Selected user not found.")
		case err != nil:
			return fmt.Errorf("load assignee: %w", err)
		case !policy.CanAssign(p, &assignee):
			verr.Add("AssignedPersonID", "You cannot assign tasks to Admin users.")
		}
	}

	if task.CategoryName == "" {
		verr.Add("CategoryName", "Please select a category.")
	} else {
		var count int64
		if err := r.db.Model(&models.Category{}).
			Where("name = ?", task.CategoryName).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check category: %w", err)
		}
		if count == 0 {
			verr.Add("CategoryName", "Selected category not found.")
		}
	}

	return verr.ErrOrNil()
}
