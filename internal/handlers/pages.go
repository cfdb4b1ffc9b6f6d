package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-manager/internal/middleware"
)

func IndexPage(c *gin.Context) {
	p := middleware.Principal(c)
	if p != nil {
		c.Redirect(http.StatusFound, "/Tasks/Index")
		return
	}
	render(c, http.StatusOK, "index.html", gin.H{
		"isAuthed": false,
	})
}
