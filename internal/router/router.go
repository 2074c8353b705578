package router

import (
	"time"

	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/config"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/handler"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/middleware"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/repository"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/service"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	workRepo := repository.NewWorkRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	contractRepo := repository.NewContractRepository(db)
	contractItemRepo := repository.NewContractItemRepository(db)
	measurementRepo := repository.NewMeasurementRepository(db)
	userRepo := repository.NewUserRepository(db)
	userTypeRepo := repository.NewUserTypeRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, userTypeRepo, refreshTokenRepo, cfg)
	workSvc := service.NewWorkService(workRepo)
	supplierSvc := service.NewSupplierService(supplierRepo)
	contractSvc := service.NewContractService(contractRepo, contractItemRepo, workRepo, supplierRepo, measurementRepo)
	measurementSvc := service.NewMeasurementService(measurementRepo, contractRepo, contractItemRepo, workRepo, supplierRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	worksH := handler.NewWorksHandler(workSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	contractsH := handler.NewContractsHandler(contractSvc)
	measurementsH := handler.NewMeasurementsHandler(measurementSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
		auth.POST("/logout", authH.Logout)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	api := r.Group("/api", jwtMW)
	{
		works := api.Group("/works")
		{
			works.POST("", worksH.Create)
			works.GET("", worksH.List)
			works.GET("/:id", worksH.Get)
			works.PUT("/:id", worksH.Update)
			works.DELETE("/:id", worksH.Delete)
		}

		suppliers := api.Group("/suppliers")
		{
			suppliers.POST("", suppliersH.Create)
			suppliers.GET("", suppliersH.List)
			suppliers.GET("/:id", suppliersH.Get)
			suppliers.PUT("/:id", suppliersH.Update)
		}

		contracts := api.Group("/contracts")
		{
			contracts.POST("", contractsH.Create)
			contracts.GET("", contractsH.List)
			contracts.GET("/:id", contractsH.Get)
		}

		measurements := api.Group("/measurements")
		{
			measurements.POST("", measurementsH.Create)
			measurements.GET("", measurementsH.List)
			measurements.GET("/enriched", measurementsH.ListEnriched)
			measurements.GET("/:id", measurementsH.Get)
			measurements.GET("/:id/report", measurementsH.DownloadReport)
			// Review is restricted to user types flagged as approvers
			measurements.PATCH("/:id/approve", middleware.RequireApprover(), measurementsH.Approve)
			measurements.PATCH("/:id/reject", middleware.RequireApprover(), measurementsH.Reject)
		}

		api.POST("/users", authH.CreateUser)
		api.GET("/user-types", authH.ListUserTypes)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
