package api

import (
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/socialgram/config"
	_ "github.com/d60-Lab/socialgram/docs"
	"github.com/d60-Lab/socialgram/internal/api/handler"
	"github.com/d60-Lab/socialgram/internal/api/middleware"
	"github.com/d60-Lab/socialgram/internal/service"
	"github.com/d60-Lab/socialgram/pkg/metrics"
)

// NewRouter 组装中间件与全部路由
func NewRouter(cfg *config.Config, h *handler.Handler, auth service.AuthService) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	handler.RegisterValidators()

	r := gin.New()
	r.MaxMultipartMemory = cfg.Upload.MaxSizeMB << 20
	r.Use(middleware.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(middleware.Logger())
	r.Use(metrics.Middleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths(uncompressedPaths(cfg.Upload))))
	r.Use(cors.New(corsConfig(cfg.CORS)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if cfg.Upload.URLPrefix != "" {
		r.Static(cfg.Upload.URLPrefix, cfg.Upload.Dir)
	}

	requireAuth := middleware.Auth(auth)

	users := r.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.GET("/profile", requireAuth, h.Profile)
		users.GET("/allusers", h.ListUsers)
		users.PUT("", requireAuth, h.UpdateProfile)
		users.PUT("/follow/:id", requireAuth, h.Follow)
		users.PUT("/unfollow/:id", requireAuth, h.Unfollow)
		users.GET("/:id", h.GetUser)
		users.GET("/:id/followers", h.ListFans)
		users.GET("/:id/following", h.ListFollowing)
	}

	posts := r.Group("/posts")
	{
		posts.GET("", middleware.OptionalAuth(auth), h.ListPosts)
		posts.POST("", requireAuth, h.CreatePost)
		posts.GET("/saved", requireAuth, h.ListSaved)
		posts.GET("/search", requireAuth, h.SearchPosts)
		posts.GET("/user/:id", requireAuth, h.ListUserPosts)
		posts.GET("/:id", requireAuth, h.GetPost)
		posts.PUT("/:id", requireAuth, h.UpdatePost)
		posts.DELETE("/:id", requireAuth, h.DeletePost)
		posts.PUT("/like/:id", requireAuth, h.LikePost)
		posts.PUT("/unlike/:id", requireAuth, h.UnlikePost)
		posts.PUT("/comment/:id", requireAuth, h.CommentPost)
		posts.PUT("/save/:id", requireAuth, h.SavePost)
		posts.PUT("/unsave/:id", requireAuth, h.UnsavePost)
	}
	return r
}

// corsConfig 未配置来源时放开全部来源
func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowOrigins) == 0 || lo.Contains(cfg.AllowOrigins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowOrigins
	}
	return c
}

// uncompressedPaths 不经 gzip 的路径前缀
func uncompressedPaths(up config.UploadConfig) []string {
	paths := []string{"/metrics"}
	if up.URLPrefix != "" {
		paths = append(paths, up.URLPrefix)
	}
	return paths
}
