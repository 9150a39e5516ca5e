package handler

import (
	"Cinebase/internal/pkg/response"
	"Cinebase/internal/service"

	"github.com/gin-gonic/gin"
)

type MaintenanceHandler struct {
	maintenanceSvc service.MaintenanceService
}

func NewMaintenanceHandler(maintenanceSvc service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenanceSvc: maintenanceSvc,
	}
}

// Sweep 管理端手动触发一次清扫
func (s *MaintenanceHandler) Sweep(c *gin.Context) {
	result, err := s.maintenanceSvc.Sweep(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
