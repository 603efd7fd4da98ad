package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/fintalk/fintalk/internal/config"
	"github.com/fintalk/fintalk/internal/db"
	"github.com/fintalk/fintalk/internal/handler"
	"github.com/fintalk/fintalk/internal/middleware"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, cfg config.AppConfig) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("fintalk_session", store))

	if len(cfg.CORSOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = cfg.CORSOrigins
		corsCfg.AllowCredentials = true
		r.Use(cors.New(corsCfg))
	}

	// 静态文件服务
	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	authRequired := middleware.AuthRequired(api.DB())
	writeLimit := middleware.RateLimit(cfg.RateLimitPerMinute)

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/auth/register", writeLimit, api.Register)
		apiGroup.POST("/auth/login", writeLimit, api.Login)
		apiGroup.POST("/auth/logout", api.Logout)

		// 公共读取接口
		apiGroup.GET("/posts", api.ListPosts)
		apiGroup.GET("/posts/search", api.SearchPosts)
		apiGroup.GET("/posts/:id", api.GetPost)
		apiGroup.GET("/posts/:id/media", api.ListPostMedia)
		apiGroup.GET("/users/:id/followers", api.ListFollowers)
		apiGroup.GET("/users/:id/following", api.ListFollowing)

		// 需要登录的接口
		auth := apiGroup.Group("")
		auth.Use(authRequired)
		{
			auth.GET("/me", api.Me)
			auth.GET("/me/saved", api.ListSaved)
			auth.POST("/posts/:id/save", writeLimit, api.SavePost)
			auth.DELETE("/posts/:id/save", api.UnsavePost)
			auth.POST("/users/:id/follow", writeLimit, api.FollowUser)
			auth.DELETE("/users/:id/follow", api.UnfollowUser)
			auth.POST("/posts/:id/flags", writeLimit, api.FlagPost)

			// 作者及以上
			author := auth.Group("")
			author.Use(middleware.RoleRequired(db.RoleAuthor))
			{
				author.POST("/posts", writeLimit, api.CreatePost)
				author.PUT("/posts/:id", writeLimit, api.UpdatePost)
				author.DELETE("/posts/:id", api.DeletePost)
				author.POST("/posts/:id/publish", writeLimit, api.PublishPost)
				author.POST("/uploads", writeLimit, api.UploadMedia)
				author.POST("/posts/:id/media/:mediaId", writeLimit, api.AttachMedia)
				author.DELETE("/posts/:id/media/:mediaId", api.DetachMedia)
			}

			// 版主及以上
			moderator := auth.Group("")
			moderator.Use(middleware.RoleRequired(db.RoleModerator))
			{
				moderator.GET("/flags", api.ListFlags)
				moderator.POST("/flags/:id/resolve", api.ResolveFlag)
				moderator.POST("/flags/:id/dismiss", api.DismissFlag)
			}
		}
	}

	return r
}
