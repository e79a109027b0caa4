package notification

import (
	"hrportal/internal/middleware"
	"hrportal/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	notifications.Use(middleware.ExtractUserID())
	notifications.Use(middleware.ContextLogger(zap.L()))
	{
		notifications.GET("", rbac.Authorize(rbacService, "notification", "read"), handler.GetAll)
		notifications.GET("/stream", rbac.Authorize(rbacService, "notification", "read"), handler.Stream)
		notifications.GET("/unread-count", rbac.Authorize(rbacService, "notification", "read"), handler.UnreadCount)
		notifications.POST("/:id/read", rbac.Authorize(rbacService, "notification", "read"), handler.MarkRead)
		notifications.POST("/read-all", rbac.Authorize(rbacService, "notification", "read"), handler.MarkAllRead)
	}
}
