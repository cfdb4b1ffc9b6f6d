package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"task-manager/internal/middleware"
	"task-manager/internal/models"
)

// render wraps c.HTML and threads the current principal and the anti-forgery
// token into every template.
func render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if p := middleware.Principal(c); p != nil {
		data["CurrentUser"] = p
		data["CurrentUserName"] = p.Name
		data["IsAdmin"] = p.IsAdmin()
	}
	data["CSRFToken"] = middleware.CSRFToken(c)

	c.HTML(status, tmpl, data)
}

// fail maps domain errors onto the HTTP surface: expired/missing sessions go
// back to sign-in, Forbidden and NotFound short-circuit with no detail, and
// anything unexpected becomes the generic error page.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		c.Redirect(http.StatusFound, "/User/SignIn")
	case errors.Is(err, models.ErrForbidden):
		c.String(http.StatusForbidden, "access denied")
	case errors.Is(err, models.ErrNotFound):
		c.String(http.StatusNotFound, "not found")
	default:
		log.Printf("internal error: %v", err)
		render(c, http.StatusInternalServerError, "error.html", gin.H{
			"error": "Something went wrong. Please try again later.",
		})
	}
}

// validationFields extracts the field-message map when err is a
// ValidationError, so forms can be redisplayed with messages in place.
func validationFields(err error) (map[string][]string, bool) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}
