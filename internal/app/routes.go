package app

import (
	"context"

	"github.com/Okano804/ChatTODO/internal/cache"
	"github.com/Okano804/ChatTODO/internal/clock"
	"github.com/Okano804/ChatTODO/internal/config"
	"github.com/Okano804/ChatTODO/internal/extract"
	"github.com/Okano804/ChatTODO/internal/handlers"
	"github.com/Okano804/ChatTODO/internal/notify"
	"github.com/Okano804/ChatTODO/internal/repo"
	"github.com/Okano804/ChatTODO/internal/service"
	"github.com/Okano804/ChatTODO/internal/sweep"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	_ "github.com/Okano804/ChatTODO/docs"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client, llm extract.Generator, mailer notify.Mailer) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	api := r.Group("/api/v1")

	zone := clock.NewZone(cfg.Time.ZoneName, cfg.Time.ZoneOffset.Duration())
	clk := clock.System()

	todoRepo := repo.NewPGTodoRepo(db)
	todoCache := cache.NewTodoCache(rdb, cfg.Redis.DefaultTTL.Duration())
	dispatcher := notify.NewDispatcher(todoRepo, mailer, zone, cfg.Notify.BossEmail)
	sweeper := sweep.New(todoRepo, dispatcher, clk, cfg.Notify.PollInterval.Duration())
	todoSvc := service.NewTodoService(todoRepo, todoCache, clk, func(ctx context.Context, id string) (bool, string) {
		out := sweeper.CatchUp(ctx, id)
		if out.Err != nil {
			return false, out.Err.Error()
		}
		return out.OK, out.Skipped
	})

	extractor := extract.New(llm, zone, clk)

	registerTodoRoutes(api, handlers.NewTodoHandler(todoSvc, zone))
	api.POST("/chat", handlers.NewChatHandler(extractor, zone).Chat)
	api.GET("/notify", handlers.NewNotifyHandler(sweeper, cfg.Notify.CronSecret, cfg.App.Env).Trigger)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "ChatTODO API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"openapi": "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTodoRoutes(api *gin.RouterGroup, h *handlers.TodoHandler) {
	api.POST("/todos", h.Create)
	api.GET("/todos", h.List)
	api.GET("/todos/overdue", h.Overdue)
	api.GET("/todos/:id", h.GetByID)
	api.PUT("/todos/:id", h.Update)
	api.PATCH("/todos/:id", h.Toggle)
	api.DELETE("/todos/:id", h.Delete)
}
