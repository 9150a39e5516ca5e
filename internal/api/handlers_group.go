package api

import "Cinebase/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler        *handler.UserHandler
	MovieHandler       *handler.MovieHandler
	MediaHandler       *handler.MediaHandler
	CategoryHandler    *handler.CategoryHandler
	SignalHandler      *handler.SignalHandler
	RecommendHandler   *handler.RecommendHandler
	MaintenanceHandler *handler.MaintenanceHandler
}
