package routes

import (
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/controllers"
	"maintenance-system/internal/repositories"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/config"
	"maintenance-system/pkg/middleware"
	"maintenance-system/pkg/service"
)

// InitRouter собирает весь граф зависимостей и развешивает маршруты.
// Репозитории -> сервисы -> контроллеры, сверху вниз, в одном месте.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, logger *zap.Logger, cfg *config.Config) services.OverdueServiceInterface {
	api := e.Group("/api")

	// --- репозитории ---
	txManager := repositories.NewTxManager(dbConn)
	userRepo := repositories.NewUserRepository(dbConn, logger)
	departmentRepo := repositories.NewDepartmentRepository(dbConn)
	teamRepo := repositories.NewTeamRepository(dbConn)
	teamMemberRepo := repositories.NewTeamMemberRepository(dbConn)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn)
	requestRepo := repositories.NewRequestRepository(dbConn)

	var cacheRepo repositories.CacheRepositoryInterface
	if redisClient != nil {
		cacheRepo = repositories.NewRedisCacheRepository(redisClient)
	}

	// --- сервисы ---
	teamAccessService := services.NewTeamAccessService(teamMemberRepo, cacheRepo, logger, cfg.MembershipCacheTTL)
	authService := services.NewAuthService(userRepo, jwtSvc, logger)
	userService := services.NewUserService(userRepo)
	departmentService := services.NewDepartmentService(departmentRepo)
	teamService := services.NewTeamService(teamRepo, teamMemberRepo, userRepo, teamAccessService, logger)
	equipmentService := services.NewEquipmentService(equipmentRepo, requestRepo, logger)
	requestService := services.NewRequestService(requestRepo, equipmentRepo, teamAccessService, txManager, logger, cfg.Requests)
	reportService := services.NewReportService(requestRepo, logger)
	overdueService := services.NewOverdueService(requestRepo, logger)

	// --- контроллеры ---
	authMW := middleware.NewAuthMiddleware(jwtSvc, userRepo, logger)
	authCtrl := controllers.NewAuthController(authService, logger)
	userCtrl := controllers.NewUserController(userService, logger)
	departmentCtrl := controllers.NewDepartmentController(departmentService, logger)
	teamCtrl := controllers.NewTeamController(teamService, logger)
	equipmentCtrl := controllers.NewEquipmentController(equipmentService, logger)
	requestCtrl := controllers.NewRequestController(requestService, logger)
	reportCtrl := controllers.NewReportController(reportService, logger)

	e.GET("/health", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	runAuthRouter(api, authCtrl, authMW)

	secureGroup := api.Group("", authMW.Auth)
	runUserRouter(secureGroup, userCtrl)
	runDepartmentRouter(secureGroup, departmentCtrl)
	runTeamRouter(secureGroup, teamCtrl)
	runEquipmentRouter(secureGroup, equipmentCtrl)
	runRequestRouter(secureGroup, requestCtrl)
	runReportRouter(secureGroup, reportCtrl)

	return overdueService
}
