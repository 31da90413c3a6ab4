package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/uni-mart/unimart-backend/internal/api/http"
	apimiddleware "github.com/uni-mart/unimart-backend/internal/api/http/middleware"
	"github.com/uni-mart/unimart-backend/internal/auth"
	authhttp "github.com/uni-mart/unimart-backend/internal/auth/http"
	authmiddleware "github.com/uni-mart/unimart-backend/internal/auth/middleware"
	carthttp "github.com/uni-mart/unimart-backend/internal/cart/http"
	cartrepo "github.com/uni-mart/unimart-backend/internal/cart/repository"
	"github.com/uni-mart/unimart-backend/internal/docstore"
	"github.com/uni-mart/unimart-backend/internal/feed"
	listingshttp "github.com/uni-mart/unimart-backend/internal/listings/http"
	listingsrepo "github.com/uni-mart/unimart-backend/internal/listings/repository"
	"github.com/uni-mart/unimart-backend/internal/media"
	"github.com/uni-mart/unimart-backend/internal/metrics"
	"github.com/uni-mart/unimart-backend/internal/session"
)

type RouterDeps struct {
	ServiceName string
	Version     string

	Store    docstore.Store
	Cache    *redis.Client
	Verifier auth.Verifier
	Revoker  authhttp.TokenRevoker
	Sessions *session.Provider
	Uploader *media.Uploader
	Metrics  *metrics.Collector

	RateLimitPerMinute int
	RateLimitBurst     int
}

func BuildRouter(dep RouterDeps) (*gin.Engine, *apimiddleware.RateLimiter) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(apimiddleware.RequestIDMiddleware())
	if dep.Metrics != nil {
		r.Use(dep.Metrics.Middleware())
	}
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type", "X-Request-Id"},
		MaxAge:          10 * time.Minute,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Cache)
	healthHandler.RegisterRoutes(r)

	if dep.Metrics != nil {
		r.GET("/metrics", gin.WrapH(dep.Metrics.Handler()))
	}

	api := r.Group("/api/v1")

	public := api.Group("/auth")
	protected := api.Group("")
	protected.Use(authmiddleware.RequireIdentity(dep.Verifier))

	limiter := apimiddleware.NewRateLimiter(dep.RateLimitPerMinute, dep.RateLimitBurst)
	protected.Use(limiter.Middleware())
	protected.Use(apimiddleware.NewInFlightGuard().Middleware())

	authHandler := authhttp.NewHandler(dep.Verifier, dep.Sessions, dep.Revoker)
	authhttp.Register(public, protected.Group("/auth"), authHandler)

	listingsRepo := listingsrepo.NewRepo(dep.Store)
	cartsRepo := cartrepo.NewRepo(dep.Store)

	listingshttp.Register(protected.Group("/listings"), listingsRepo)
	feed.Register(protected.Group("/feed"), listingsRepo)
	carthttp.Register(protected.Group("/cart"), cartsRepo, listingsRepo)
	media.Register(protected.Group("/media"), dep.Uploader)

	return r, limiter
}
