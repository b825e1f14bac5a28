package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/timetable-api/api/swagger"
	"github.com/noah-isme/timetable-api/internal/handler"
	"github.com/noah-isme/timetable-api/internal/middleware"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/repository"
	"github.com/noah-isme/timetable-api/internal/service"
	"github.com/noah-isme/timetable-api/pkg/cache"
	"github.com/noah-isme/timetable-api/pkg/config"
	"github.com/noah-isme/timetable-api/pkg/database"
	"github.com/noah-isme/timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/timetable-api/pkg/middleware/requestid"
)

// @title Timetable API
// @version 0.1.0
// @description Academic timetable manager with automatic schedule generation
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Cache.TTL, logr, false)
	} else {
		defer redisClient.Close() //nolint:errcheck
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled)
	}

	courseRepo := repository.NewCourseRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	slotRepo := repository.NewTimeSlotRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	userRepo := repository.NewUserRepository(db)

	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, validate, logr)
	roomSvc := service.NewRoomService(roomRepo, validate, logr)
	slotSvc := service.NewTimeSlotService(slotRepo, validate, logr)
	timetableSvc := service.NewTimetableService(timetableRepo, teacherRepo, cacheSvc, validate, logr)
	generatorSvc := service.NewGeneratorService(courseRepo, teacherRepo, roomRepo, slotRepo, timetableRepo, cacheSvc, metricsSvc, logr)
	exportSvc := service.NewExportService(timetableRepo, nil, nil, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "timetable-api",
	})

	authHandler := handler.NewAuthHandler(authSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	roomHandler := handler.NewRoomHandler(roomSvc)
	slotHandler := handler.NewTimeSlotHandler(slotSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc, generatorSvc, exportSvc)
	systemHandler := handler.NewSystemHandler(db, redisClient, metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", systemHandler.Health)
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/auth/me", authHandler.Me)
	protected.GET("/system/metrics", systemHandler.Metrics)

	admin := middleware.RequireRoles(models.RoleAdmin)

	protected.GET("/courses", courseHandler.List)
	protected.GET("/courses/:id", courseHandler.Get)
	protected.POST("/courses", admin, courseHandler.Create)
	protected.PUT("/courses/:id", admin, courseHandler.Update)
	protected.DELETE("/courses/:id", admin, courseHandler.Delete)

	protected.GET("/teachers", teacherHandler.List)
	protected.GET("/teachers/:id", teacherHandler.Get)
	protected.POST("/teachers", admin, teacherHandler.Create)
	protected.PUT("/teachers/:id", admin, teacherHandler.Update)
	protected.DELETE("/teachers/:id", admin, teacherHandler.Delete)

	protected.GET("/rooms", roomHandler.List)
	protected.GET("/rooms/:id", roomHandler.Get)
	protected.POST("/rooms", admin, roomHandler.Create)
	protected.PUT("/rooms/:id", admin, roomHandler.Update)
	protected.DELETE("/rooms/:id", admin, roomHandler.Delete)

	protected.GET("/timeslots", slotHandler.List)
	protected.GET("/timeslots/:id", slotHandler.Get)
	protected.POST("/timeslots", admin, slotHandler.Create)
	protected.PUT("/timeslots/:id", admin, slotHandler.Update)
	protected.DELETE("/timeslots/:id", admin, slotHandler.Delete)

	protected.GET("/timetable", timetableHandler.List)
	protected.GET("/timetable/available-slots", timetableHandler.AvailableSlots)
	protected.GET("/timetable/:id", timetableHandler.Get)
	protected.POST("/timetable", admin, timetableHandler.Create)
	protected.POST("/timetable/generate", admin, timetableHandler.Generate)
	protected.DELETE("/timetable/:id", admin, timetableHandler.Delete)
	protected.DELETE("/timetable", admin, timetableHandler.Clear)
	if cfg.Exports.Enabled {
		protected.GET("/timetable/export", timetableHandler.Export)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
