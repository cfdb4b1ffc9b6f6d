package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"task-manager/internal/models"
)

// CategoryRepository manages categories. Category names are the natural key;
// deleting a category cascades to its tasks.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("name asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) FindByName(name string) (*models.Category, error) {
	var category models.Category
	err := r.db.First(&category, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &category, nil
}

func (r *CategoryRepository) Create(category *models.Category) error {
	verr := models.NewValidationError()

	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		verr.Add("Name", "Name is required.")
	} else if len(category.Name) > 100 {
		verr.Add("Name", "Name must be at most 100 characters.")
	}
	if len(category.Description) > 250 {
		verr.Add("Description", "Description must be at most 250 characters.")
	}

	if category.Name != "" {
		var count int64
		if err := r.db.Model(&models.Category{}).
			Where("LOWER(name) = LOWER(?)", category.Name).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check category name: %w", err)
		}
		if count > 0 {
			verr.Add("Name", "A category with this name already exists.")
		}
	}

	if verr.HasErrors() {
		return verr
	}

	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// Delete removes a category and all of its tasks. The cascade runs in one
// transaction so a failure leaves both tables untouched. There is no HTTP
// route for this yet; callers are code-level only.
func (r *CategoryRepository) Delete(name string) error {
	var category models.Category
	err := r.db.First(&category, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find category: %w", err)
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_name = ?", category.Name).
			Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("delete category tasks: %w", err)
		}
		if err := tx.Delete(&category).Error; err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}
