package leave

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
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	leaves.Use(middleware.ExtractUserID())
	leaves.Use(middleware.ContextLogger(zap.L()))
	{
		leaves.GET("", rbac.Authorize(rbacService, "leave", "read"), handler.GetAll)
		leaves.GET("/pending-approvals", rbac.Authorize(rbacService, "leave", "approve"), handler.PendingApprovals)
		leaves.GET("/calendar", rbac.Authorize(rbacService, "leave", "read"), handler.Calendar)
		leaves.GET("/:id", rbac.Authorize(rbacService, "leave", "read"), handler.GetById)
		leaves.GET("/:id/history", rbac.Authorize(rbacService, "leave", "read"), handler.History)
		leaves.POST("", rbac.Authorize(rbacService, "leave", "create"), handler.Create)
		leaves.PUT("/:id", rbac.Authorize(rbacService, "leave", "update"), handler.Update)
		leaves.POST("/:id/attachments", rbac.Authorize(rbacService, "leave", "update"), handler.UploadAttachment)
		leaves.POST("/:id/approve", rbac.Authorize(rbacService, "leave", "approve"), handler.Approve)
		leaves.POST("/:id/reject", rbac.Authorize(rbacService, "leave", "reject"), handler.Reject)
		leaves.POST("/:id/cancel", rbac.Authorize(rbacService, "leave", "cancel"), handler.Cancel)
		leaves.POST("/:id/comments", rbac.Authorize(rbacService, "leave", "read"), handler.AddComment)
		leaves.DELETE("/:id", rbac.Authorize(rbacService, "leave", "cancel"), handler.Delete)
	}
}
