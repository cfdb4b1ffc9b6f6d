package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"task-manager/internal/auth"
	"task-manager/internal/database"
	"task-manager/internal/middleware"
	"task-manager/internal/models"
	"task-manager/internal/repository"
)

type UserHandler struct {
	authenticator *auth.Authenticator
	users         *repository.UserRepository
}

func NewUserHandler(authenticator *auth.Authenticator, users *repository.UserRepository) *UserHandler {
	return &UserHandler{authenticator: authenticator, users: users}
}

func (h *UserHandler) ShowSignUp(c *gin.Context) {
	render(c, http.StatusOK, "signup.html", gin.H{"form": signUpForm{}})
}

type signUpForm struct {
	Name        string `form:"name"`
	Email       string `form:"email"`
	Password    string `form:"password"`
	Designation string `form:"designation"`
	Department  string `form:"department"`
}

func (h *UserHandler) SignUp(c *gin.Context) {
	var form signUpForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "signup.html", gin.H{"error": "Form is invalid.", "form": signUpForm{}})
		return
	}

	user, err := h.authenticator.Register(auth.RegisterInput{
		Name:        form.Name,
		Email:       form.Email,
		Password:    form.Password,
		Designation: models.Designation(form.Designation),
		Department:  models.Department(form.Department),
	})
	if errors.Is(err, models.ErrDuplicateEmail) {
		render(c, http.StatusBadRequest, "signup.html", gin.H{
			"form":        form,
			"fieldErrors": map[string][]string{"Email": {"Email already exists."}},
		})
		return
	}
	if fields, ok := validationFields(err); ok {
		render(c, http.StatusBadRequest, "signup.html", gin.H{
			"form":        form,
			"fieldErrors": fields,
		})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	database.CreateAuditLog(user.ID, "user", user.ID, "create", "Registered user "+user.Email)

	c.Redirect(http.StatusFound, "/User/SignIn")
}

func (h *UserHandler) ShowSignIn(c *gin.Context) {
	render(c, http.StatusOK, "signin.html", gin.H{})
}

type signInForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (h *UserHandler) SignIn(c *gin.Context) {
	var form signInForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "signin.html", gin.H{"error": "Form is invalid."})
		return
	}

	principal, err := h.authenticator.Authenticate(form.Email, form.Password)
	if errors.Is(err, models.ErrInvalidCredentials) {
		render(c, http.StatusBadRequest, "signin.html", gin.H{"error": "Invalid email or password."})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	sess := sessions.Default(c)
	sess.Set(middleware.SessionUserID, principal.UserID)
	sess.Set(middleware.SessionUserName, principal.Name)
	sess.Set(middleware.SessionUserEmail, principal.Email)
	sess.Set(middleware.SessionUserRole, string(principal.Role))
	sess.Set(middleware.SessionLastActive, time.Now().Unix())
	_ = sess.Save()

	c.Redirect(http.StatusFound, "/Tasks/Index")
}

func (h *UserHandler) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	c.Redirect(http.StatusFound, "/User/SignIn")
}

func (h *UserHandler) Profile(c *gin.Context) {
	p := middleware.Principal(c)
	if p == nil {
		c.Redirect(http.StatusFound, "/User/SignIn")
		return
	}

	user, err := h.users.FindByID(p.UserID)
	if err != nil {
		fail(c, err)
		return
	}

	render(c, http.StatusOK, "profile.html", gin.H{"user": user})
}

func (h *UserHandler) ShowChangePassword(c *gin.Context) {
	render(c, http.StatusOK, "change_password.html", gin.H{})
}

type changePasswordForm struct {
	CurrentPassword string `form:"current_password"`
	NewPassword     string `form:"new_password"`
	ConfirmPassword string `form:"confirm_password"`
}

// ChangePassword verifies the current password, stores the new hash, then
// destroys the session; changing a password signs the user out.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	p := middleware.Principal(c)
	if p == nil {
		c.Redirect(http.StatusFound, "/User/SignIn")
		return
	}

	var form changePasswordForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "change_password.html", gin.H{"error": "Form is invalid."})
		return
	}

	err := h.authenticator.ChangePassword(p.UserID, form.CurrentPassword, form.NewPassword, form.ConfirmPassword)
	if errors.Is(err, models.ErrInvalidCredentials) {
		render(c, http.StatusBadRequest, "change_password.html", gin.H{
			"fieldErrors": map[string][]string{"CurrentPassword": {"Current password is incorrect."}},
		})
		return
	}
	if fields, ok := validationFields(err); ok {
		render(c, http.StatusBadRequest, "change_password.html", gin.H{"fieldErrors": fields})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()

	c.Redirect(http.StatusFound, "/User/SignIn")
}
