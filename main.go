package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/resumeforge/resumeforge/handlers"
	"github.com/resumeforge/resumeforge/internal/builder"
	"github.com/resumeforge/resumeforge/internal/config"
	"github.com/resumeforge/resumeforge/internal/database"
	"github.com/resumeforge/resumeforge/internal/draft"
	"github.com/resumeforge/resumeforge/internal/export"
	"github.com/resumeforge/resumeforge/internal/faq"
	"github.com/resumeforge/resumeforge/internal/oidc"
	"github.com/resumeforge/resumeforge/internal/resume"
	resumehandler "github.com/resumeforge/resumeforge/internal/resume/handler"
	"github.com/resumeforge/resumeforge/internal/resume/repository"
	"github.com/resumeforge/resumeforge/internal/resume/service"
	"github.com/resumeforge/resumeforge/internal/sessions"
	"github.com/resumeforge/resumeforge/internal/storage"
	"github.com/resumeforge/resumeforge/internal/tokens"
	"github.com/resumeforge/resumeforge/internal/users"
	"github.com/resumeforge/resumeforge/pkg/logger"
	"github.com/resumeforge/resumeforge/pkg/metrics"
	"github.com/resumeforge/resumeforge/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	logger.Infof("config loaded: records=%s drafts=%s mongo=%v redis=%v oidc=%v minio=%v",
		cfg.RecordStore(), cfg.Draft.Backend, cfg.MongoDB.URI != "", cfg.Redis.Addr() != "", cfg.OIDC.Issuer != "", cfg.MinIO.Endpoint != "")

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Disposition")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})
	r.Use(gin.Logger(), gin.Recovery())

	ctx := context.Background()

	// Redis first: the rate limiter, blacklist, sessions and drafts can all use it.
	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
		} else {
			rdb = client
			logger.Infof("connected to Redis: %s", addr)
		}
	}
	blacklist := sessions.NewBlacklist(rdb)

	if cfg.RateLimit.Enabled {
		if rdb != nil {
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.Window))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	var mongoDB *mongo.Database
	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectMongoRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second)
		if err != nil {
			logger.Warnf("could not connect to MongoDB: %v", err)
		} else {
			defer func() { _ = client.Disconnect(ctx) }()
			mongoDB = client.Database(cfg.MongoDB.Database)
		}
	}

	var userRepo users.UserRepository = users.NewMemoryUserRepository()
	var sessionRepo sessions.Repository = sessions.NewMemoryRepository()
	var history export.History = export.NewMemoryHistory()
	if mongoDB != nil {
		if repo, err := users.NewMongoUserRepository(ctx, mongoDB.Collection("users")); err != nil {
			logger.Warnf("users: mongo repository unavailable: %v", err)
		} else {
			userRepo = repo
		}
		if repo, err := sessions.NewMongoRepository(ctx, mongoDB.Collection("sessions")); err != nil {
			logger.Warnf("sessions: mongo repository unavailable: %v", err)
		} else {
			sessionRepo = repo
		}
		history = export.NewMongoHistory(mongoDB)
	}
	if rdb != nil {
		sessionRepo = sessions.NewRedisRepository(rdb, "session:")
		logger.Infof("using Redis for session storage")
	}
	userSvc := users.NewService(userRepo)
	sessionsSvc := sessions.NewService(sessionRepo)

	recordStore := "memory"
	var records repository.Repository = repository.NewMemoryRepo()
	switch cfg.RecordStore() {
	case "postgres":
		pool, err := database.ConnectPostgres(ctx, cfg.Postgres.DSN, cfg.Postgres.Timeout)
		if err != nil {
			logger.Warnf("postgres unavailable, keeping resumes in memory: %v", err)
			break
		}
		if err := database.RunMigrations(ctx, pool); err != nil {
			logger.Fatalf("postgres migrations failed: %v", err)
		}
		defer pool.Close()
		records = repository.NewPostgresRepo(pool)
		recordStore = "postgres"
	case "mongo":
		if mongoDB == nil {
			break
		}
		repo, err := repository.NewMongoRepo(ctx, mongoDB.Collection("resumes"))
		if err != nil {
			logger.Warnf("mongo resume repository unavailable: %v", err)
			break
		}
		records = repo
		recordStore = "mongo"
	}
	logger.Infof("resume records stored in %s", recordStore)

	exportOpts := export.DefaultOptions()
	exportOpts.ChromePath = cfg.Export.ChromePath
	if cfg.Export.Timeout > 0 {
		exportOpts.Timeout = cfg.Export.Timeout
	}
	exporterOpts := []export.Option{export.WithHistory(history)}
	var objects *storage.MinIOStorage
	if cfg.MinIO.Endpoint != "" {
		objects, err = storage.NewMinIOStorage(ctx, storage.Config{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			UseSSL:    cfg.MinIO.UseSSL,
			Bucket:    cfg.MinIO.Bucket,
		})
		if err != nil {
			logger.Warnf("minio unavailable, exports will not be uploaded: %v", err)
		} else {
			exporterOpts = append(exporterOpts, export.WithObjectStore(objects, cfg.MinIO.URLTTL))
		}
	}
	exporter := export.NewExporter(export.NewChromeRenderer(exportOpts), exporterOpts...)

	b := builder.New(service.New(records, cfg.Server.GatewayTimeout), exporter)
	backend, durable := draftBackend(cfg, rdb)
	var draftOpts []draft.RegistryOption
	if durable {
		draftOpts = append(draftOpts, draft.WithIdleEviction(cfg.Draft.IdleTTL))
	}
	drafts := draft.NewRegistry(backend, resume.NewID, draftOpts...)
	go drafts.Run(ctx, time.Minute)

	responder := faq.NewTimeSeededResponder()
	if cfg.Chat.Seed != 0 {
		responder = faq.NewResponder(cfg.Chat.Seed)
	}

	issuer, err := newIssuer(cfg)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	var provider *oidc.Provider
	if cfg.OIDC.Issuer != "" && cfg.OIDC.ClientID != "" {
		provider, err = oidc.NewProvider(ctx, cfg.OIDC)
		if err != nil {
			logger.Warnf("failed to initialize OIDC provider: %v", err)
			provider = nil
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{
			"records": true,
			"users":   true,
			"drafts":  true,
		}
		if cfg.RecordStore() != "memory" && recordStore == "memory" {
			deps["records"] = false
			ready = false
		}
		if cfg.MongoDB.URI != "" {
			deps["mongo"] = mongoDB != nil
			deps["users"] = mongoDB != nil
		}
		if cfg.Redis.Addr() != "" {
			deps["redis"] = rdb != nil
			if rdb == nil {
				ready = false
			}
		}
		if cfg.Draft.Backend == "redis" && rdb == nil {
			deps["drafts"] = false
			ready = false
		}
		if cfg.OIDC.Issuer != "" {
			deps["oidc"] = provider != nil
		}
		if cfg.MinIO.Endpoint != "" {
			deps["minio"] = objects != nil
		}

		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	authOpts := []handlers.AuthOption{
		handlers.WithBlacklist(blacklist),
		handlers.WithRefreshTTL(cfg.JWT.RefreshTokenTTL),
		handlers.WithSecureCookies(cfg.Server.Environment == "production"),
	}
	if provider != nil {
		authOpts = append(authOpts, handlers.WithOAuthProvider(provider))
	}
	auth := handlers.NewAuthHandler(userSvc, sessionsSvc, issuer, authOpts...)
	auth.Register(r)

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(issuer, middleware.WithBlacklist(blacklist)))
	auth.RegisterProtected(api)
	resumehandler.New(b, drafts,
		resumehandler.WithChat(responder, cfg.Chat.Delay),
		resumehandler.WithExportHistory(exporter),
	).Register(api)

	handlers.RegisterSwagger(r)
	handlers.NewPageHandler(b, drafts, issuer, middleware.WithBlacklist(blacklist)).Register(r)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Debugf("services: oidc=%v minio=%v jwt_secret_set=%v", provider != nil, objects != nil, cfg.JWT.Secret != "")
	logger.Infof("starting resumeforge on %s", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server failed: %v", err)
	}
}

func newIssuer(cfg *config.Config) (*tokens.Issuer, error) {
	issuer, err := tokens.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("jwt issuer: %w", err)
	}
	return issuer, nil
}

// draftBackend picks the per-user draft storage. Redis keys and file names
// are namespaced by owner so one user's snapshot never shadows another's.
// durable is false when drafts only live in process memory.
func draftBackend(cfg *config.Config, rdb *redis.Client) (backend draft.BackendFunc, durable bool) {
	switch cfg.Draft.Backend {
	case "redis":
		if rdb != nil {
			return func(owner string) draft.Backend {
				return draft.NewRedisBackend(rdb, "draft:"+owner+":")
			}, true
		}
		logger.Warnf("DRAFT_BACKEND=redis but Redis is unavailable; drafts are kept in memory")
	case "file":
		fs := afero.NewOsFs()
		return func(owner string) draft.Backend {
			return draft.NewFileBackend(fs, draft.OwnerDir(cfg.Draft.Dir, owner))
		}, true
	}
	return func(string) draft.Backend { return draft.NewMemoryBackend() }, false
}
