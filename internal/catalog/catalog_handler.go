package catalog

import (
	"net/http"

	"hrportal/internal/middleware"
	"hrportal/internal/rbac"
	"hrportal/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// GetLeaveTypes serves the nested basket taxonomy.
func (h *Handler) GetLeaveTypes(c *gin.Context) {
	response.Success(c, http.StatusOK, SupportedTypes(), nil)
}

// GetRequestTypes serves the flat list accepted by direct requests.
func (h *Handler) GetRequestTypes(c *gin.Context) {
	response.Success(c, http.StatusOK, RequestTypes(), nil)
}

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	catalog := r.Group("/catalog")
	catalog.Use(middleware.AuthMiddleware())
	catalog.Use(middleware.ExtractUserID())
	catalog.Use(middleware.ContextLogger(zap.L()))
	{
		catalog.GET("/leave-types", rbac.Authorize(rbacService, "catalog", "read"), handler.GetLeaveTypes)
		catalog.GET("/request-types", rbac.Authorize(rbacService, "catalog", "read"), handler.GetRequestTypes)
	}
}
