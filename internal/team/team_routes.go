package team

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
	teams := r.Group("/teams")
	teams.Use(middleware.AuthMiddleware())
	teams.Use(middleware.ExtractUserID())
	teams.Use(middleware.ContextLogger(zap.L()))
	{
		teams.GET("", rbac.Authorize(rbacService, "team", "read"), handler.GetAll)
		teams.GET("/:id", rbac.Authorize(rbacService, "team", "read"), handler.GetById)
		teams.POST("", rbac.Authorize(rbacService, "team", "write"), handler.Create)
		teams.POST("/:id/members", rbac.Authorize(rbacService, "team", "write"), handler.AddMember)
		teams.DELETE("/:id/members/:employeeId", rbac.Authorize(rbacService, "team", "write"), handler.RemoveMember)
		teams.PUT("/:id/members/:employeeId/promote", rbac.Authorize(rbacService, "team", "write"), handler.PromoteMember)
		teams.PUT("/:id/permissions", rbac.Authorize(rbacService, "team", "write"), handler.UpdatePermissions)
		teams.DELETE("/:id", rbac.Authorize(rbacService, "team", "write"), handler.Delete)
	}
}
