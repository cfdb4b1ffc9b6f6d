package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-manager/internal/database"
	"task-manager/internal/middleware"
	"task-manager/internal/models"
	"task-manager/internal/repository"
)

type CategoryHandler struct {
	categories *repository.CategoryRepository
}

func NewCategoryHandler(categories *repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) Index(c *gin.Context) {
	categories, err := h.categories.List()
	if err != nil {
		fail(c, err)
		return
	}

	render(c, http.StatusOK, "category_index.html", gin.H{"categories": categories})
}

func (h *CategoryHandler) ShowCreate(c *gin.Context) {
	render(c, http.StatusOK, "category_create.html", gin.H{"form": categoryForm{}})
}

type categoryForm struct {
	Name        string `form:"name"`
	Description string `form:"description"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var form categoryForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "category_create.html", gin.H{"error": "Form is invalid.", "form": categoryForm{}})
		return
	}

	category := &models.Category{
		Name:        form.Name,
		Description: form.Description,
	}
	err := h.categories.Create(category)
	if fields, ok := validationFields(err); ok {
		render(c, http.StatusBadRequest, "category_create.html", gin.H{
			"form":        form,
			"fieldErrors": fields,
		})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	if p := middleware.Principal(c); p != nil {
		database.CreateAuditLog(p.UserID, "category", 0, "create", "Created category "+category.Name)
	}

	c.Redirect(http.StatusFound, "/Tasks/Index")
}
