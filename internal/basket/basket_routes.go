package basket

import (
	"hrportal/internal/middleware"
	"hrportal/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	baskets := r.Group("/basket")
	baskets.Use(middleware.AuthMiddleware())
	baskets.Use(middleware.ExtractUserID())
	baskets.Use(middleware.ContextLogger(zap.L()))
	{
		baskets.GET("", rbac.Authorize(rbacService, "basket", "read"), handler.Get)
		baskets.POST("/items", rbac.Authorize(rbacService, "basket", "write"), handler.AddItem)
		baskets.PUT("/items/:index", rbac.Authorize(rbacService, "basket", "write"), handler.EditItem)
		baskets.DELETE("/items/:index", rbac.Authorize(rbacService, "basket", "write"), handler.RemoveItem)
		baskets.PATCH("/items/:index/justification", rbac.Authorize(rbacService, "basket", "write"), handler.UpdateJustification)
		baskets.POST("/items/:index/attachments", rbac.Authorize(rbacService, "basket", "write"), handler.UploadAttachment)
		baskets.DELETE("", rbac.Authorize(rbacService, "basket", "write"), handler.Clear)
		if redisClient != nil {
			baskets.POST(
				"/submit",
				middleware.Idempotency(redisClient),
				rbac.Authorize(rbacService, "basket", "write"),
				handler.Submit,
			)
		} else {
			baskets.POST("/submit", rbac.Authorize(rbacService, "basket", "write"), handler.Submit)
		}
	}
}
