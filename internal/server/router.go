package server

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"task-manager/internal/auth"
	"task-manager/internal/config"
	"task-manager/internal/handlers"
	"task-manager/internal/middleware"
	"task-manager/internal/models"
	"task-manager/internal/repository"
)

func NewRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Static("/static", "./web/static")
	r.LoadHTMLGlob("web/templates/*.html")

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(middleware.SessionIdleTimeout.Seconds()),
		HttpOnly: true,
	})
	r.Use(sessions.Sessions("tm_session", store))

	r.Use(middleware.ResolvePrincipal())
	r.Use(middleware.CSRF())

	users := repository.NewUserRepository(db)
	categories := repository.NewCategoryRepository(db)
	tasks := repository.NewTaskRepository(db)
	authenticator := auth.NewAuthenticator(users)

	userHandler := handlers.NewUserHandler(authenticator, users)
	taskHandler := handlers.NewTaskHandler(tasks, users, categories)
	categoryHandler := handlers.NewCategoryHandler(categories)

	r.GET("/", handlers.IndexPage)

	// AUTH
	userGroup := r.Group("/User")
	userGroup.GET("/SignUp", userHandler.ShowSignUp)
	userGroup.POST("/SignUp", userHandler.SignUp)
	userGroup.GET("/SignIn", userHandler.ShowSignIn)
	userGroup.POST("/SignIn", userHandler.SignIn)

	userAuth := r.Group("/User", middleware.RequireAuth())
	userAuth.POST("/Logout", userHandler.Logout)
	userAuth.GET("/Profile", userHandler.Profile)
	userAuth.GET("/ChangePassword", userHandler.ShowChangePassword)
	userAuth.POST("/ChangePassword", userHandler.ChangePassword)

	// TASKS
	tasksGroup := r.Group("/Tasks", middleware.RequireAuth())
	tasksGroup.GET("/Index", taskHandler.Index)
	tasksGroup.GET("/Filter", taskHandler.Filter)
	tasksGroup.GET("/Create", taskHandler.ShowCreate)
	tasksGroup.POST("/Create", taskHandler.Create)
	tasksGroup.GET("/Edit/:id", taskHandler.ShowEdit)
	tasksGroup.POST("/Edit/:id", taskHandler.Edit)
	tasksGroup.GET("/Details/:id", taskHandler.Details)
	tasksGroup.GET("/Delete/:id", taskHandler.ShowDelete)
	tasksGroup.POST("/Delete/:id", taskHandler.Delete)
	tasksGroup.GET("/Profile", userHandler.Profile)

	// CATEGORIES
	categoryGroup := r.Group("/Category", middleware.RequireAuth())
	categoryGroup.GET("/Index", categoryHandler.Index)

	// creating categories is for admins only
	categoryGroup.GET("/Create",
		middleware.RequireRole(models.RoleAdmin),
		categoryHandler.ShowCreate,
	)
	categoryGroup.POST("/Create",
		middleware.RequireRole(models.RoleAdmin),
		categoryHandler.Create,
	)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
