package v1

import "github.com/gin-gonic/gin"

func RegisterRoutes(router gin.IRouter, h Handler) {
	router.GET("/health", h.HandleHealth)

	authRouter := router.Group("/auth")
	authRouter.POST("/register", h.HandleRegister)
	authRouter.POST("/login", h.HandleLogin)
	authRouter.GET("/me", h.HandleAuthMiddleware, h.HandleMe)

	protected := router.Group("", h.HandleAuthMiddleware)
	protected.GET("/dashboard/summary", h.HandleGetDashboardSummary)

	projectsRouter := protected.Group("/projects")
	projectsRouter.GET("", h.HandleGetProjects)
	projectsRouter.POST("", h.HandleCreateProject)
	projectsRouter.GET("/:id", h.HandleGetProject)
	projectsRouter.PATCH("/:id", h.HandleUpdateProject)
	projectsRouter.DELETE("/:id", h.HandleDeleteProject)
	projectsRouter.GET("/:id/tasks", h.HandleGetProjectTasks)
	projectsRouter.POST("/:id/tasks", h.HandleCreateProjectTask)

	tasksRouter := protected.Group("/tasks")
	tasksRouter.GET("", h.HandleGetTasks)
	tasksRouter.GET("/:id", h.HandleGetTask)
	tasksRouter.PATCH("/:id", h.HandleUpdateTask)
	tasksRouter.DELETE("/:id", h.HandleDeleteTask)
}
