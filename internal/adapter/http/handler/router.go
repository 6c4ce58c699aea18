package handler

import (
	"umkm-terminal/internal/adapter/http/middleware"
	"umkm-terminal/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	SessionSvc     ports.SessionService
	BurnerSvc      ports.BurnerService
	RecoverySvc    ports.RecoveryService
	Sweeper        SweepRunner
	RateLimitStore ports.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Cookie         CookieConfig
	CronSecret     string
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(64 << 10))

	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		rule, ok := rules[group]
		if deps.RateLimitStore == nil || !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1")
	sessionAuth := middleware.SessionAuth(deps.SessionSvc, deps.Cookie.Name, deps.Logger)

	// --- Session (public login, authenticated profile) ---
	sessionHandler := NewSessionHandler(deps.AuthSvc, deps.SessionSvc, deps.Cookie)
	v1.POST("/session", rl("session"), sessionHandler.Create)
	v1.DELETE("/session", sessionHandler.Delete)
	v1.GET("/me", sessionAuth, sessionHandler.Me)

	// --- Burners (session cookie) ---
	burnerHandler := NewBurnerHandler(deps.BurnerSvc, deps.Logger)
	recoveryHandler := NewRecoveryHandler(deps.RecoverySvc)
	burners := v1.Group("/burners", sessionAuth)
	{
		burners.POST("", rl("burner_new"), burnerHandler.Create)
		burners.GET("", rl("burners"), burnerHandler.List)
		burners.POST("/recover", rl("recover_all"), recoveryHandler.RecoverMine)
		burners.GET("/:address", rl("burners"), burnerHandler.Get)
		burners.POST("/:address/recover", rl("recover"), recoveryHandler.RecoverOne)
	}

	// --- Cron (bearer secret) ---
	cronHandler := NewCronHandler(deps.Sweeper, deps.BurnerSvc)
	cron := v1.Group("/cron", middleware.CronAuth(deps.CronSecret))
	{
		cron.POST("/sweep", rl("cron"), cronHandler.Sweep)
		cron.GET("/stats", cronHandler.Stats)
	}

	return r
}
