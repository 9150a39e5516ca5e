package handler

import (
	"Cinebase/internal/api/dto"
	"Cinebase/internal/pkg/response"
	"Cinebase/internal/service"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	movieSvc service.MovieService
}

func NewMediaHandler(movieSvc service.MovieService) *MediaHandler {
	return &MediaHandler{
		movieSvc: movieSvc,
	}
}

// UploadPoster 表单上传海报文件
func (s *MediaHandler) UploadPoster(c *gin.Context) {
	movieID, err := parseIDParam(c, "movie_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	fileHeader, err := c.FormFile("poster")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, service.ErrFileNotSupported)
		return
	}
	defer file.Close()

	url, err := s.movieSvc.UploadPoster(c.Request.Context(), movieID, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"poster_url": url})
}

// ImportPoster 从外部地址拉取海报
func (s *MediaHandler) ImportPoster(c *gin.Context) {
	movieID, err := parseIDParam(c, "movie_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.PosterImportDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	url, err := s.movieSvc.ImportPoster(c.Request.Context(), movieID, req.URL)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"poster_url": url})
}
