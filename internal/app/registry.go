package app

import (
	"database/sql"
	"os"

	"hrportal/internal/auth"
	"hrportal/internal/basket"
	"hrportal/internal/catalog"
	"hrportal/internal/dashboard"
	"hrportal/internal/employee"
	"hrportal/internal/files"
	"hrportal/internal/leave"
	"hrportal/internal/ledger"
	"hrportal/internal/messaging/kafka"
	"hrportal/internal/middleware"
	"hrportal/internal/notification"
	"hrportal/internal/question"
	"hrportal/internal/rbac"
	"hrportal/internal/team"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	router.Use(middleware.RequestID())

	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	basketRepo := basket.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	questionRepo := question.NewRepository(gormDB)
	teamRepo := team.NewRepository(gormDB)

	// --- File storage ---
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	fileStore, err := files.NewLocalStore(uploadDir)
	if err != nil {
		return err
	}

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// --- Services ---
	ledgerService := ledger.NewService(gormDB)
	resolver := leave.NewApproverResolver(employeeRepo, teamRepo)

	authService := auth.NewService(authRepo, employeeRepo)
	employeeService := employee.NewService(db, employeeRepo)
	teamService := team.NewService(teamRepo)
	leaveService := leave.NewService(db, leaveRepo, employeeRepo, resolver, ledgerService, outboxRepo, fileStore)
	basketService := basket.NewService(db, basketRepo, leaveService, fileStore)
	questionService := question.NewService(db, questionRepo, employeeRepo, outboxRepo)
	notificationRegistry := notification.NewRegistry()
	notificationService := notification.NewService(notificationRepo, notificationRegistry)
	dashboardService := dashboard.NewService(ledgerService, leaveRepo, basketRepo, questionRepo, notificationRepo, rdb)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	basketHandler := basket.NewHandler(basketService, fileStore, rdb)
	catalogHandler := catalog.NewHandler()
	dashboardHandler := dashboard.NewHandler(dashboardService)
	employeeHandler := employee.NewHandler(employeeService)
	leaveHandler := leave.NewHandler(leaveService, fileStore)
	notificationHandler := notification.NewHandler(notificationService, notificationRegistry)
	questionHandler := question.NewHandler(questionService, fileStore)
	teamHandler := team.NewHandler(teamService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		basket.RegisterRoutes(api, basketHandler, rbacService, rdb)
		catalog.RegisterRoutes(api, catalogHandler, rbacService)
		dashboard.RegisterRoutes(api, dashboardHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		notification.RegisterRoutes(api, notificationHandler, rbacService)
		question.RegisterRoutes(api, questionHandler, rbacService)
		team.RegisterRoutes(api, teamHandler, rbacService)
	}

	return nil
}
