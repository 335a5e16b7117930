package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter/v3"

	"github.com/karuteens/moderation/internal/config"
	"github.com/karuteens/moderation/internal/http/handlers"
	"github.com/karuteens/moderation/internal/http/middleware"
	"github.com/karuteens/moderation/internal/service"
)

// Handlers набор обработчиков, которые подключает роутер.
type Handlers struct {
	Scan        *handlers.ScanHandler
	AutoFlags   *handlers.AutoFlagHandler
	Reports     *handlers.ReportHandler
	Enforcement *handlers.EnforcementHandler
	Appeals     *handlers.AppealHandler
	Content     *handlers.ContentHandler
	Feed        *handlers.FeedHandler
	Health      *handlers.HealthHandler
}

// Deps зависимости middleware.
type Deps struct {
	Tokens         middleware.TokenParser
	Policy         service.AuthorizationPolicy
	ScanQueue      middleware.ScanQueue
	RateLimitStore limiter.Store
}

func SetupRouter(cfg *config.Config, h Handlers, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	// ContentScan снаружи ErrorHandler: к его проверке статуса ошибка уже отрендерена.
	r.Use(middleware.ContentScan(deps.ScanQueue, middleware.DefaultScanRoutes()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.AuthMiddleware(deps.Tokens)
	admin := middleware.AdminOnly(deps.Policy)
	intakeLimit := middleware.RateLimitMiddleware(deps.RateLimitStore, cfg.RateLimitLimit, cfg.RateLimitPeriod)
	validID := middleware.UUIDValidator("id")

	api := r.Group("/api")

	// Пользовательский контент, который проверяет сканер.
	content := api.Group("")
	content.Use(auth)
	{
		content.PUT("/profile", h.Content.UpdateProfile)
		content.POST("/posts", h.Content.CreatePost)
		content.GET("/posts/:id", validID, h.Content.GetPost)
		content.POST("/posts/:id/comments", validID, h.Content.CreateComment)
	}

	api.POST("/reports", auth, intakeLimit, h.Reports.CreateReport)

	moderation := api.Group("/moderation")
	{
		moderation.GET("/scan", h.Scan.Status)
		moderation.POST("/scan", auth, intakeLimit, h.Scan.Scan)

		// Токен ленты передаётся в query и проверяется внутри обработчика.
		moderation.GET("/feed", h.Feed.Handle)

		moderation.POST("/flags", auth, h.AutoFlags.SubmitFlag)
		moderation.GET("/flags", auth, admin, h.AutoFlags.ListFlags)
		moderation.PUT("/flags/:id", auth, admin, validID, h.AutoFlags.UpdateFlagStatus)
		moderation.POST("/flags/:id/promote", auth, admin, validID, h.AutoFlags.PromoteFlag)

		moderation.GET("/reports", auth, admin, h.Reports.ListReports)
		// Автор жалобы видит свою жалобу, проверка в сервисе.
		moderation.GET("/reports/:id", auth, validID, h.Reports.GetReport)
		moderation.PUT("/reports/:id", auth, admin, validID, h.Reports.UpdateReportStatus)

		moderation.POST("/actions", auth, admin, h.Enforcement.CreateAction)
		moderation.GET("/actions", auth, admin, h.Enforcement.ListActions)

		moderation.POST("/appeals", auth, intakeLimit, h.Appeals.CreateAppeal)
		moderation.GET("/appeals", auth, h.Appeals.ListAppeals)
		moderation.PUT("/appeals/:id", auth, admin, validID, h.Appeals.UpdateAppealStatus)
	}

	return r
}
