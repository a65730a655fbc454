package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamdesk/internal/handlers"
	"teamdesk/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	teamHandler *handlers.TeamHandler,
	projectHandler *handlers.ProjectHandler,
	taskHandler *handlers.TaskHandler,
	commentHandler *handlers.CommentHandler,
	fileHandler *handlers.FileHandler,
	notificationHandler *handlers.NotificationHandler,
) *gin.Engine {

	// ---- public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	// ---- protected
	r.Use(middleware.Auth(jwtSecret))

	users := r.Group("/users")
	{
		users.GET("/me", userHandler.Me)
		users.PUT("/me", userHandler.Update)
		users.PUT("/me/telegram", userHandler.LinkTelegram)
	}

	teams := r.Group("/teams")
	{
		teams.POST("", teamHandler.Create)
		teams.GET("", teamHandler.List)
		teams.GET("/:teamURL", teamHandler.Get)
		teams.PUT("/:teamURL", teamHandler.Update)
		teams.DELETE("/:teamURL", teamHandler.Delete)

		teams.GET("/:teamURL/members", teamHandler.ListMembers)
		teams.POST("/:teamURL/members", teamHandler.AddMember)
		teams.DELETE("/:teamURL/members/:userID", teamHandler.RemoveMember)
		teams.PUT("/:teamURL/members/:userID/role", teamHandler.ChangeRole)

		teams.POST("/:teamURL/projects", projectHandler.Create)
		teams.GET("/:teamURL/projects", projectHandler.ListByTeam)
	}

	projects := r.Group("/projects")
	{
		projects.GET("/:projectURL", projectHandler.Get)
		projects.PUT("/:projectURL", projectHandler.Update)
		projects.DELETE("/:projectURL", projectHandler.Delete)

		projects.GET("/:projectURL/participants", projectHandler.ListParticipants)
		projects.POST("/:projectURL/participants", projectHandler.AddParticipant)
		projects.DELETE("/:projectURL/participants/:userID", projectHandler.RemoveParticipant)

		projects.POST("/:projectURL/tasks", taskHandler.Create)
		projects.GET("/:projectURL/tasks", taskHandler.ListByProject)
	}

	tasks := r.Group("/tasks")
	{
		tasks.GET("/:taskID", taskHandler.Get)
		tasks.PATCH("/:taskID", taskHandler.Patch)
		tasks.DELETE("/:taskID", taskHandler.Delete)

		tasks.POST("/:taskID/payload", taskHandler.UploadPayload)
		tasks.GET("/:taskID/payload", taskHandler.DownloadPayload)

		tasks.POST("/:taskID/assignees", taskHandler.Assign)
		tasks.DELETE("/:taskID/assignees/:userID", taskHandler.Unassign)

		tasks.GET("/:taskID/comments", commentHandler.ListByTask)
		tasks.POST("/:taskID/comments", commentHandler.Create)

		tasks.POST("/:taskID/files", fileHandler.Upload)
		tasks.GET("/:taskID/files", fileHandler.ListByTask)
	}

	comments := r.Group("/comments")
	{
		comments.DELETE("/:commentID", commentHandler.Delete)
		comments.POST("/:commentID/like", commentHandler.Like)
	}

	files := r.Group("/files")
	{
		files.GET("/:fileID", fileHandler.Download)
		files.DELETE("/:fileID", fileHandler.Delete)
	}

	notifications := r.Group("/notifications")
	{
		notifications.GET("", notificationHandler.List)
		notifications.PUT("/:id/read", notificationHandler.MarkRead)
		notifications.POST("/read-all", notificationHandler.MarkAllRead)
		notifications.POST("/check-due", notificationHandler.CheckDue)
	}

	return r
}
