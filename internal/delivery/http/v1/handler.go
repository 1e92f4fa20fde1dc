package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/services"
)

type Handler interface {
	HandleHealth(c *gin.Context)

	HandleRegister(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleMe(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleGetDashboardSummary(c *gin.Context)

	HandleCreateProject(c *gin.Context)
	HandleGetProjects(c *gin.Context)
	HandleGetProject(c *gin.Context)
	HandleUpdateProject(c *gin.Context)
	HandleDeleteProject(c *gin.Context)

	HandleCreateProjectTask(c *gin.Context)
	HandleGetProjectTasks(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
}

type handlerImpl struct {
	logger    zerolog.Logger
	auth      services.AuthService
	projects  services.ProjectService
	tasks     services.TaskService
	dashboard services.DashboardService
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	projectService services.ProjectService,
	taskService services.TaskService,
	dashboardService services.DashboardService,
) Handler {
	registerValidation()

	return &handlerImpl{
		logger:    logger,
		auth:      authService,
		projects:  projectService,
		tasks:     taskService,
		dashboard: dashboardService,
	}
}
