package question

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
	questions := r.Group("/questions")
	questions.Use(middleware.AuthMiddleware())
	questions.Use(middleware.ExtractUserID())
	questions.Use(middleware.ContextLogger(zap.L()))
	{
		questions.GET("/categories", rbac.Authorize(rbacService, "question", "read"), handler.GetCategories)
		questions.GET("", rbac.Authorize(rbacService, "question", "read"), handler.GetAll)
		questions.GET("/overdue", rbac.Authorize(rbacService, "question", "review"), handler.Overdue)
		questions.GET("/stats", rbac.Authorize(rbacService, "question", "review"), handler.Stats)
		questions.GET("/:id", rbac.Authorize(rbacService, "question", "read"), handler.GetById)
		questions.POST("", rbac.Authorize(rbacService, "question", "write"), handler.Create)
		questions.PUT("/:id", rbac.Authorize(rbacService, "question", "write"), handler.Update)
		questions.POST("/:id/attachments", rbac.Authorize(rbacService, "question", "write"), handler.UploadAttachment)
		questions.POST("/:id/submit", rbac.Authorize(rbacService, "question", "write"), handler.Submit)
		questions.POST("/:id/messages", rbac.Authorize(rbacService, "question", "write"), handler.AddMessage)
		questions.POST("/:id/status", rbac.Authorize(rbacService, "question", "write"), handler.ChangeStatus)
		questions.POST("/:id/assign", rbac.Authorize(rbacService, "question", "review"), handler.Assign)
		questions.DELETE("/:id", rbac.Authorize(rbacService, "question", "write"), handler.Delete)
	}
}
