package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"task-manager/internal/database"
	"task-manager/internal/middleware"
	"task-manager/internal/models"
	"task-manager/internal/repository"
)

type TaskHandler struct {
	tasks      *repository.TaskRepository
	users      *repository.UserRepository
	categories *repository.CategoryRepository
}

func NewTaskHandler(tasks *repository.TaskRepository, users *repository.UserRepository, categories *repository.CategoryRepository) *TaskHandler {
	return &TaskHandler{tasks: tasks, users: users, categories: categories}
}

var statusList = []models.Status{
	models.StatusPending,
	models.StatusCompleted,
	models.StatusInProgress,
	models.StatusOverdue,
}

func (h *TaskHandler) Index(c *gin.Context) {
	p := middleware.Principal(c)

	tasks, err := h.tasks.List(p, "")
	if err != nil {
		fail(c, err)
		return
	}

	render(c, http.StatusOK, "tasks_index.html", gin.H{
		"tasks":      tasks,
		"statusList": statusList,
	})
}

// Filter narrows the list by status. An unknown status value is silently
// ignored and the unfiltered role-scoped list comes back.
func (h *TaskHandler) Filter(c *gin.Context) {
	p := middleware.Principal(c)
	raw := c.Query("status")

	tasks, err := h.tasks.List(p, raw)
	if err != nil {
		fail(c, err)
		return
	}

	data := gin.H{
		"tasks":      tasks,
		"statusList": statusList,
	}
	if status, ok := models.ParseStatus(raw); ok {
		data["Filter"] = status
	}
	render(c, http.StatusOK, "tasks_index.html", data)
}

func (h *TaskHandler) ShowCreate(c *gin.Context) {
	p := middleware.Principal(c)

	data, err := h.dropdowns(p, nil)
	if err != nil {
		fail(c, err)
		return
	}
	data["form"] = taskForm{}
	render(c, http.StatusOK, "tasks_create.html", data)
}

type taskForm struct {
	Name             string `form:"name"`
	Description      string `form:"description"`
	AssignedDate     string `form:"assigned_date"`
	SubmissionDate   string `form:"submission_date"`
	Status           string `form:"status"`
	AssignedPersonID uint   `form:"assigned_person_id"`
	CategoryName     string `form:"category_name"`
	Version          uint   `form:"version"`
}

const dateLayout = "2006-01-02"

// toTask turns the posted form into a prospective task. Unparseable dates are
// reported as field errors alongside whatever the repository finds.
func (f *taskForm) toTask() (*models.Task, *models.ValidationError) {
	verr := models.NewValidationError()
	task := &models.Task{
		Name:             strings.TrimSpace(f.Name),
		Description:      strings.TrimSpace(f.Description),
		Status:           models.Status(f.Status),
		AssignedPersonID: f.AssignedPersonID,
		CategoryName:     f.CategoryName,
		Version:          f.Version,
	}

	if f.AssignedDate == "" {
		verr.Add("AssignedDate", "Assigned Date is required.")
	} else if d, err := time.Parse(dateLayout, f.AssignedDate); err != nil {
		verr.Add("AssignedDate", "Assigned Date is not a valid date.")
	} else {
		task.AssignedDate = d
	}

	if f.SubmissionDate == "" {
		verr.Add("SubmissionDate", "Submission Date is required.")
	} else if d, err := time.Parse(dateLayout, f.SubmissionDate); err != nil {
		verr.Add("SubmissionDate", "Submission Date is not a valid date.")
	} else {
		task.SubmissionDate = d
	}

	return task, verr
}

func (h *TaskHandler) Create(c *gin.Context) {
	p := middleware.Principal(c)

	var form taskForm
	if err := c.ShouldBind(&form); err != nil {
		h.redisplay(c, p, "tasks_create.html", form, map[string][]string{
			"form": {"Form is invalid."},
		})
		return
	}

	task, verr := form.toTask()
	if verr.HasErrors() {
		h.redisplay(c, p, "tasks_create.html", form, verr.Fields)
		return
	}

	err := h.tasks.Create(p, task)
	if fields, ok := validationFields(err); ok {
		h.redisplay(c, p, "tasks_create.html", form, fields)
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	database.CreateAuditLog(p.UserID, "task", task.ID, "create", "Created task "+task.Name)

	c.Redirect(http.StatusFound, "/Tasks/Index")
}

func (h *TaskHandler) ShowEdit(c *gin.Context) {
	p := middleware.Principal(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := h.tasks.Get(p, id)
	if err != nil {
		fail(c, err)
		return
	}

	data, err := h.dropdowns(p, task)
	if err != nil {
		fail(c, err)
		return
	}
	data["task"] = task
	render(c, http.StatusOK, "tasks_edit.html", data)
}

func (h *TaskHandler) Edit(c *gin.Context) {
	p := middleware.Principal(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var form taskForm
	if err := c.ShouldBind(&form); err != nil {
		h.redisplayEdit(c, p, &models.Task{ID: id, Version: form.Version}, map[string][]string{
			"form": {"Form is invalid."},
		})
		return
	}

	task, verr := form.toTask()
	task.ID = id
	if verr.HasErrors() {
		h.redisplayEdit(c, p, task, verr.Fields)
		return
	}

	err := h.tasks.Update(p, id, task)
	if fields, ok := validationFields(err); ok {
		h.redisplayEdit(c, p, task, fields)
		return
	}
	if errors.Is(err, models.ErrConflict) {
		h.redisplayEdit(c, p, task, map[string][]string{
			"form": {"This task was modified by someone else. Please reload and retry."},
		})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	database.CreateAuditLog(p.UserID, "task", id, "update", "Updated task "+task.Name)

	c.Redirect(http.StatusFound, "/Tasks/Index")
}

func (h *TaskHandler) Details(c *gin.Context) {
	p := middleware.Principal(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := h.tasks.Get(p, id)
	if err != nil {
		fail(c, err)
		return
	}

	render(c, http.StatusOK, "tasks_details.html", gin.H{"task": task})
}

// ShowDelete renders the confirmation page.
func (h *TaskHandler) ShowDelete(c *gin.Context) {
	p := middleware.Principal(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := h.tasks.Get(p, id)
	if err != nil {
		fail(c, err)
		return
	}

	render(c, http.StatusOK, "tasks_delete.html", gin.H{"task": task})
}

func (h *TaskHandler) Delete(c *gin.Context) {
	p := middleware.Principal(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.tasks.Delete(p, id); err != nil {
		fail(c, err)
		return
	}

	database.CreateAuditLog(p.UserID, "task", id, "delete", "Deleted task")

	c.Redirect(http.StatusFound, "/Tasks/Index")
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusNotFound, "not found")
		return 0, false
	}
	return uint(id), true
}

// dropdowns loads the select-list data for the create/edit forms. The user
// list is already role-scoped, so a non-admin is never shown an Admin to
// assign to.
func (h *TaskHandler) dropdowns(p *models.Principal, task *models.Task) (gin.H, error) {
	users, err := h.users.ListAssignable(p)
	if err != nil {
		return nil, err
	}
	categories, err := h.categories.List()
	if err != nil {
		return nil, err
	}
	data := gin.H{
		"users":      users,
		"categories": categories,
		"statusList": statusList,
	}
	if task != nil {
		data["task"] = task
	}
	return data, nil
}

func (h *TaskHandler) redisplay(c *gin.Context, p *models.Principal, tmpl string, form taskForm, fields map[string][]string) {
	data, err := h.dropdowns(p, nil)
	if err != nil {
		fail(c, err)
		return
	}
	data["form"] = form
	data["fieldErrors"] = fields
	render(c, http.StatusBadRequest, tmpl, data)
}

// redisplayEdit re-renders the edit form with the submitted values so the
// user can correct and resubmit without losing input.
func (h *TaskHandler) redisplayEdit(c *gin.Context, p *models.Principal, task *models.Task, fields map[string][]string) {
	data, err := h.dropdowns(p, task)
	if err != nil {
		fail(c, err)
		return
	}
	data["fieldErrors"] = fields
	render(c, http.StatusBadRequest, "tasks_edit.html", data)
}
