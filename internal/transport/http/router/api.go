package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"personal-apis/internal/access"
	"personal-apis/internal/core/auth"
	"personal-apis/internal/transport/http/handler"
	mdw "personal-apis/internal/transport/http/middleware"
)

type Handlers struct {
	Tasks        *handler.TaskHandler
	Registration *handler.RegistrationHandler
	Login        *handler.LoginHandler
}

func NewAPIEngine(l *zap.Logger, jwter *auth.JWTer, h Handlers) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true // /register 只接受 POST，其余 405

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		cors.Default(),
		mdw.Metrics(),
		mdw.AccessLog(l),
		mdw.Principal(jwter),
	)

	// 健康检查 / 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/register", handler.Require(access.AnonymousOnly), h.Registration.Create)
	r.POST("/login", h.Login.Login)

	tasks := r.Group("/tasks", handler.Require(access.AuthenticatedOnly))
	tasks.GET("", h.Tasks.List)
	tasks.POST("", h.Tasks.Create)
	tasks.GET("/:id", h.Tasks.Retrieve)
	tasks.PUT("/:id", h.Tasks.Update)
	tasks.PATCH("/:id", h.Tasks.PartialUpdate)
	tasks.DELETE("/:id", h.Tasks.Delete)

	return r
}
