package employee

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
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	employees.Use(middleware.ExtractUserID())
	employees.Use(middleware.ContextLogger(zap.L()))
	{
		employees.GET("/me", handler.Me)
		employees.GET("/me/balance", rbac.Authorize(rbacService, "balance", "read"), handler.MyBalance)
		employees.GET("", rbac.Authorize(rbacService, "employee", "read"), handler.GetAll)
		employees.GET("/:id", rbac.Authorize(rbacService, "employee", "read"), handler.GetById)
		employees.POST("", rbac.Authorize(rbacService, "employee", "write"), handler.Create)
		employees.PUT("/:id", rbac.Authorize(rbacService, "employee", "write"), handler.Update)
		employees.PUT("/:id/balance", rbac.Authorize(rbacService, "balance", "write"), handler.SetBalance)
		employees.DELETE("/:id", rbac.Authorize(rbacService, "employee", "write"), handler.Delete)
	}
}
