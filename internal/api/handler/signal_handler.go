package handler

import (
	"Cinebase/internal/api/dto"
	"Cinebase/internal/pkg/response"
	"Cinebase/internal/service"

	"github.com/gin-gonic/gin"
)

type SignalHandler struct {
	signalSvc service.SignalService
}

func NewSignalHandler(signalSvc service.SignalService) *SignalHandler {
	return &SignalHandler{
		signalSvc: signalSvc,
	}
}

// Record 上报一条行为信号（view / like / unlike）
func (s *SignalHandler) Record(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.SignalDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	action := service.ParseAction(req.Action)
	if err := s.signalSvc.Record(c.Request.Context(), userID, req.MovieID, action); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
