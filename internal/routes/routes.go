package routes

import (
	"workflow-board-api/internal/handlers"
	"workflow-board-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Setup wires all routes onto a fresh engine.
func Setup(api *handlers.API) *gin.Engine {
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public routes (no authentication required)
	apiGroup := ginRouter.Group("/api")
	{
		apiGroup.POST("/auth/signup", api.Signup)
		apiGroup.POST("/auth/login", api.Login)
	}

	// Protected routes (authentication required)
	protected := apiGroup.Group("")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		// Project endpoints
		protected.GET("/projects", api.ListProjects)
		protected.POST("/projects", api.CreateProject)
		protected.GET("/projects/:id", api.GetProject)
		protected.PUT("/projects/:id", api.UpdateProject)
		protected.DELETE("/projects/:id", api.DeleteProject)
		protected.POST("/projects/:id/members", api.InviteMember)
		protected.DELETE("/projects/:id/members/:userId", api.RemoveMember)
		protected.GET("/projects/:id/activity", api.GetProjectActivity)

		// Task endpoints
		protected.GET("/projects/:id/tasks", api.ListTasks)
		protected.POST("/projects/:id/tasks", api.CreateTask)
		protected.GET("/projects/:id/board", api.GetBoard)
		protected.GET("/tasks/:id", api.GetTask)
		protected.PUT("/tasks/:id", api.UpdateTask)
		protected.PATCH("/tasks/:id/status", api.TransitionTaskStatus)
		protected.DELETE("/tasks/:id", api.DeleteTask)
		protected.GET("/tasks/:id/activity", api.GetTaskActivity)

		// Users endpoint
		protected.GET("/users", api.ListUsers)
	}

	// Realtime endpoint (token also accepted via ?token= for browsers)
	ginRouter.GET("/ws", middleware.JWTAuthMiddleware(), api.WebSocket)

	return ginRouter
}
