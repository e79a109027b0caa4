package dashboard

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
	dashboard := r.Group("/dashboard")
	dashboard.Use(middleware.AuthMiddleware())
	dashboard.Use(middleware.ExtractUserID())
	dashboard.Use(middleware.ContextLogger(zap.L()))
	{
		dashboard.GET("/summary", rbac.Authorize(rbacService, "dashboard", "read"), handler.Summary)
	}
}
