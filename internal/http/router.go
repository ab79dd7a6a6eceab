package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/TC28082003/datanaver/internal/auth"
	"github.com/TC28082003/datanaver/internal/config"
	"github.com/TC28082003/datanaver/internal/http/handlers"
	"github.com/TC28082003/datanaver/internal/http/middlewares"
	"github.com/TC28082003/datanaver/internal/observability"
	"github.com/TC28082003/datanaver/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(recovery(log, cfg.Env))
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(middlewares.CORSMiddleware())
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(middlewares.RequireJSON())

	// metrics

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)
	r.Use(prom.GinHandleMiddleware())
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	r.GET("/", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "Navigation App Backend is running!")
	})

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	profilesRepo := postgres.NewProfilesRepo(pool, prom)

	// session issuer + token middleware
	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	authMw := middlewares.NewAuthMiddleware(jwtManager)

	// wire up handlers
	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager)
	profileHandler := handlers.NewProfileHandler(profilesRepo, log)

	authGroup := r.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/status", authMw.RequireAuth(), authHandler.Status)

	userGroup := r.Group("/api/user")
	userGroup.Use(authMw.RequireAuth())
	userGroup.GET("/profile", profileHandler.GetProfile)
	userGroup.PUT("/profile", profileHandler.PutProfile)

	r.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{
			"message": fmt.Sprintf("Endpoint not found: %s %s", ctx.Request.Method, ctx.Request.URL.Path),
		})
	})

	return r
}

// recovery converts panics into a sanitized 500. Outside dev the detail is
// suppressed.
func recovery(log *slog.Logger, env string) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(ctx *gin.Context, recovered interface{}) {
		log.Error("unhandled server error", "panic", fmt.Sprint(recovered), "path", ctx.Request.URL.Path)

		message := "An internal server error occurred."

		if env == "dev" {
			message = fmt.Sprint(recovered)
		}

		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": message})
	})
}
