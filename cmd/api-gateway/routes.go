package main

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/class-scheduling-api/internal/handler"
	"github.com/noah-isme/class-scheduling-api/internal/middleware"
	"github.com/noah-isme/class-scheduling-api/internal/models"
	"github.com/noah-isme/class-scheduling-api/internal/repository"
	"github.com/noah-isme/class-scheduling-api/internal/service"
	"github.com/noah-isme/class-scheduling-api/pkg/config"
	"github.com/noah-isme/class-scheduling-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/class-scheduling-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/class-scheduling-api/pkg/middleware/requestid"
)

type routeDeps struct {
	cfg          *config.Config
	logger       *zap.Logger
	metrics      *service.MetricsService
	db           *sqlx.DB
	cache        *repository.CacheRepository
	verifier     *service.TokenVerifier
	dispatcher   *service.ScheduleEventDispatcher
	schedules    *service.ScheduleService
	availability *service.AvailabilityService
	statistics   *service.StatisticsService
	views        *service.ScheduleViewService
}

func newRouter(deps routeDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.logger))
	r.Use(corsmiddleware.New(deps.cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.metrics))
	r.Use(middleware.WithResponseMeta())

	ops := handler.NewMetricsHandler(deps.metrics, map[string]handler.Pinger{
		"postgres": deps.db,
		"redis":    handler.PingerFunc(deps.cache.Ping),
	})
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	r.GET("/metrics", ops.Prometheus)

	if deps.cfg.Swagger.Enabled && deps.cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	schedules := handler.NewScheduleHandler(deps.schedules, deps.dispatcher)
	availability := handler.NewAvailabilityHandler(deps.availability)
	statistics := handler.NewStatisticsHandler(deps.statistics)
	views := handler.NewScheduleViewHandler(deps.views)

	authorities := middleware.RequireRoles(models.SchedulingAuthorities...)
	limitWrites := middleware.RateLimit(deps.cache, deps.cfg.RateLimit.WriteLimit, deps.cfg.RateLimit.Window, deps.logger)

	api := r.Group(deps.cfg.APIPrefix, middleware.JWT(deps.verifier))

	api.GET("/schedules", schedules.List)
	api.POST("/schedules", authorities, limitWrites, schedules.Create)
	api.GET("/schedules/available/instructors", availability.Instructors)
	api.GET("/schedules/available/rooms", availability.Rooms)
	api.GET("/schedules/sessions", schedules.Sessions)
	api.GET("/schedules/statistics", statistics.Statistics)
	api.GET("/schedules/:id", schedules.Get)
	api.PATCH("/schedules/:id", authorities, limitWrites, schedules.Update)
	api.DELETE("/schedules/:id", authorities, limitWrites, schedules.Delete)

	api.GET("/departments/:department/schedule", views.Department)
	api.GET("/students/:id/schedule", middleware.RequireRolesOrSelf(models.SchedulingAuthorities...), views.Student)
	api.GET("/instructors/:id/schedule",
		middleware.RequireRolesOrSelf(append([]models.UserRole{models.RoleTeacher}, models.SchedulingAuthorities...)...),
		views.Instructor,
	)

	return r
}
