package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"fable/internal/config"
	"fable/internal/handler"
	authHandler "fable/internal/handler/auth"
	libraryHandler "fable/internal/handler/library"
	mediaHandler "fable/internal/handler/media"
	readerHandler "fable/internal/handler/reader"
	"fable/internal/pkg/cache"
	"fable/internal/pkg/jwt"
	"fable/internal/pkg/mongodb"
	"fable/internal/pkg/storagefactory"
	authRepo "fable/internal/repository/auth"
	libraryRepo "fable/internal/repository/library"
	"fable/internal/server/middleware"
	"fable/internal/service"
)

// Server HTTP 服务器
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	mongo  *mongodb.Client
	redis  *cache.RedisCache
}

// New 创建服务器实例
func New(cfg *config.Config) (*Server, error) {
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// 初始化 MongoDB (可选)
	var mongoClient *mongodb.Client
	if cfg.Mongo.URI != "" {
		client, err := mongodb.New(&cfg.Mongo)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to MongoDB, continuing without it")
		} else {
			mongoClient = client
			log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

			if err := mongodb.EnsureIndexes(mongoClient.Database()); err != nil {
				log.Warn().Err(err).Msg("failed to ensure indexes")
			}
		}
	}

	// 初始化 Redis (可选，用于阅读视图缓存)
	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without it")
		} else {
			redisCache = rc
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	srv := &Server{
		cfg:    cfg,
		engine: engine,
		mongo:  mongoClient,
		redis:  redisCache,
	}

	srv.setupRoutes()

	return srv, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS())

	// 健康检查
	healthHandler := handler.NewHealthHandler()
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if s.mongo == nil {
		log.Warn().Msg("MongoDB not configured, API endpoints disabled")
		return
	}

	db := s.mongo.Database()

	// JWT 参数，未配置时使用默认值
	jwtSecret := s.cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "default-secret-key-change-in-production"
		log.Warn().Msg("JWT secret not configured, using default (NOT SECURE for production)")
	}
	accessTokenExpiry := s.cfg.Auth.AccessTokenExpiry
	if accessTokenExpiry == 0 {
		accessTokenExpiry = 24 * time.Hour
	}
	refreshTokenExpiry := s.cfg.Auth.RefreshTokenExpiry
	if refreshTokenExpiry == 0 {
		refreshTokenExpiry = 7 * 24 * time.Hour
	}

	// 仓库
	userRepo := authRepo.NewUserRepo(db)
	refreshTokenRepo := authRepo.NewRefreshTokenRepo(db)
	seriesRepo := libraryRepo.NewSeriesRepo(db)
	storyRepo := libraryRepo.NewStoryRepo(db)
	chapterRepo := libraryRepo.NewChapterRepo(db)
	sceneRepo := libraryRepo.NewSceneRepo(db)
	triggerRepo := libraryRepo.NewTriggerRepo(db)
	assetRepo := libraryRepo.NewMediaAssetRepo(db)

	// 存储句柄惰性初始化，凭证未就绪时首个媒体请求返回503并在下次重试
	storageProvider := storagefactory.NewProvider(&s.cfg.Storage)

	// 服务
	authSvc := service.NewAuthService(userRepo, refreshTokenRepo, jwtSecret, accessTokenExpiry, refreshTokenExpiry)
	librarySvc := service.NewLibraryService(seriesRepo, storyRepo, chapterRepo, sceneRepo)
	mediaSvc := service.NewMediaService(assetRepo, triggerRepo, sceneRepo, chapterRepo, storyRepo, seriesRepo, storageProvider)
	readerSvc := service.NewReaderService(sceneRepo, chapterRepo, storyRepo, seriesRepo, triggerRepo, mediaSvc, s.redis, s.cfg.Reader.ViewCacheTTL)

	// 处理器
	authHdl := authHandler.NewHandler(authSvc)
	libraryHdl := libraryHandler.NewHandler(librarySvc)
	readerHdl := readerHandler.NewHandler(readerSvc)
	mediaHdl := mediaHandler.NewHandler(mediaSvc)

	jwtUtil := jwt.NewJWT(jwtSecret, accessTokenExpiry)

	// API v1
	v1 := s.engine.Group("/api/v1")
	{
		// 认证接口（公开）
		v1.POST("/auth/register", authHdl.Register)
		v1.POST("/auth/login", authHdl.Login)
		v1.POST("/auth/refresh", authHdl.Refresh)

		// 需要认证的接口：书库浏览、阅读视图和媒体取流均要求登录
		authed := v1.Group("")
		authed.Use(middleware.Auth(jwtUtil))
		{
			authed.POST("/auth/logout", authHdl.Logout)
			authed.GET("/auth/me", authHdl.GetMe)

			// 书库
			authed.GET("/series", libraryHdl.ListSeries)
			authed.GET("/series/:series_id/stories", libraryHdl.ListStories)
			authed.GET("/stories/:story_id", libraryHdl.GetStory)
			authed.GET("/stories/:story_id/chapters", libraryHdl.GetChapters)
			authed.GET("/chapters/:chapter_id/scenes", libraryHdl.GetScenes)
			authed.POST("/chapters/:chapter_id/stats", libraryHdl.RecomputeChapterStats)

			// 阅读视图
			authed.GET("/scenes/:scene_id/view", readerHdl.GetSceneView)
			authed.GET("/chapters/:chapter_id/view", readerHdl.GetChapterView)

			// 媒体取流
			authed.GET("/scenes/:scene_id/media/:filename", mediaHdl.FetchMedia)
		}
	}
}

// Run 启动服务器
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		if s.mongo != nil {
			if err := s.mongo.Close(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to close MongoDB connection")
			}
		}
		if s.redis != nil {
			if err := s.redis.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close Redis connection")
			}
		}

		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
