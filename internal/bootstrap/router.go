package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httpapi "github.com/GoSim-25-26J-441/go-fund-backend/internal/api/http"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/api/http/middleware"
	authmw "github.com/GoSim-25-26J-441/go-fund-backend/internal/auth/middleware"
	projecthttp "github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/http"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/service"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	DB             httpapi.Pinger
	Redis          httpapi.Pinger
	// Auth authenticates every /api/v1 request (Firebase or header mode).
	Auth     gin.HandlerFunc
	Projects *service.ProjectService
	Logger   *zap.Logger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	log := dep.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if dep.Auth == nil {
		dep.Auth = authmw.HeaderAuth()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.Use(dep.Auth)
	api.Use(middleware.NewRateLimiter(dep.RateLimitRPS, dep.RateLimitBurst).Mutating())

	projectsGroup := api.Group("/projects")
	projecthttp.New(dep.Projects, log).Register(projectsGroup, authmw.RequireGovernor())

	return r
}
