package api

import (
	"Cinebase/internal/api/middleware"
	"Cinebase/internal/pkg/consts"
	"Cinebase/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/user")
		{
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.POST("/login", group.UserHandler.Login)

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.GET("/info", group.UserHandler.GetUserInfo)
				authGroup.GET("/interests", group.UserHandler.GetInterests)
				authGroup.GET("/likes", group.UserHandler.GetLikedMovies)
			}
		}

		movieGroup := apiGroup.Group("/movie")
		{
			movieGroup.GET("/list", group.MovieHandler.ListMovies)
			movieGroup.GET("/search", group.MovieHandler.SearchMovies)
			movieGroup.GET("/:movie_id", group.MovieHandler.GetMovie)
			movieGroup.GET("/:movie_id/similar", group.RecommendHandler.SimilarMovies)

			// 需要登录 & 拥有 admin 角色
			adminGroup := movieGroup.Group("")
			adminGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(consts.RoleAdmin))
			{
				adminGroup.POST("", group.MovieHandler.CreateMovie)
				adminGroup.PUT("/:movie_id", group.MovieHandler.UpdateMovie)
				adminGroup.PUT("/:movie_id/status", group.MovieHandler.UpdateMovieStatus)
				adminGroup.DELETE("/:movie_id", group.MovieHandler.DeleteMovie)
				adminGroup.POST("/:movie_id/video", group.MovieHandler.AddVideo)
				adminGroup.DELETE("/:movie_id/video/:video_id", group.MovieHandler.RemoveVideo)
				adminGroup.POST("/:movie_id/poster", group.MediaHandler.UploadPoster)
				adminGroup.POST("/:movie_id/poster/import", group.MediaHandler.ImportPoster)
			}
		}

		categoryGroup := apiGroup.Group("/category")
		{
			categoryGroup.GET("/list", group.CategoryHandler.ListCategories)

			adminGroup := categoryGroup.Group("")
			adminGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(consts.RoleAdmin))
			{
				adminGroup.POST("", group.CategoryHandler.CreateCategory)
				adminGroup.DELETE("/:category_id", group.CategoryHandler.DeleteCategory)
			}
		}

		signalGroup := apiGroup.Group("/signal")
		signalGroup.Use(middleware.AuthMiddleware())
		{
			signalGroup.POST("", group.SignalHandler.Record)
		}

		recommendGroup := apiGroup.Group("/recommend")
		recommendGroup.Use(middleware.AuthMiddleware())
		{
			recommendGroup.GET("", group.RecommendHandler.Recommend)
		}

		maintenanceGroup := apiGroup.Group("/maintenance")
		maintenanceGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(consts.RoleAdmin))
		{
			maintenanceGroup.POST("/sweep", group.MaintenanceHandler.Sweep)
		}
	}

	return r
}
