package handler

import (
	"Cinebase/internal/api/dto"
	"Cinebase/internal/pkg/response"
	"Cinebase/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type MovieHandler struct {
	movieSvc service.MovieService
}

func NewMovieHandler(movieSvc service.MovieService) *MovieHandler {
	return &MovieHandler{
		movieSvc: movieSvc,
	}
}

func (s *MovieHandler) GetMovie(c *gin.Context) {
	movieID, err := parseIDParam(c, "movie_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	movie, err := s.movieSvc.GetMovie(c.Request.Context(), movieID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, movie)
}

func (s *MovieHandler) ListMovies(c *gin.Context) {
	page, pageSize := parsePageQuery(c)

	movies, err := s.movieSvc.ListMovies(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, movies)
}

func (s *MovieHandler) SearchMovies(c *gin.Context) {
	keyword := c.Query("keyword")
	page, pageSize := parsePageQuery(c)

	movies, err := s.movieSvc.SearchMovies(c.Request.Context(), keyword, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, movies)
}

func (s *MovieHandler) CreateMovie(c *gin.Context) {
	var req dto.MovieBaseDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	movieID, err := s.movieSvc.CreateMovie(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"movie_id": movieID})
}

func (s *MovieHandler) UpdateMovie(c *gin.Context) {
	movieID, err := parseIDParam(c, "movie_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.MovieBaseDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.movieSvc.UpdateMovie(c.Request.Context(), movieID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *MovieHandler) UpdateMovieStatus(c *gin.Context) {
	movieID, err := parseIDParam(c, "movie_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.MovieStatusDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.movieSvc.UpdateMovieStatus(c.Request.Context(), movieID, req.Status); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *MovieHandler) DeleteMovie(c *gin.Context) {
	movieID, err := parseIDParam(c, "movie_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.movieSvc.DeleteMovie(c.Request.Context(), movieID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *MovieHandler) AddVideo(c *gin.Context) {
	movieID, err := parseIDParam(c, "movie_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.VideoBaseDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	videoID, err := s.movieSvc.AddVideo(c.Request.Context(), movieID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"video_id": videoID})
}

func (s *MovieHandler) RemoveVideo(c *gin.Context) {
	movieID, err := parseIDParam(c, "movie_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	videoID, err := parseIDParam(c, "video_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.movieSvc.RemoveVideo(c.Request.Context(), movieID, videoID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func parseIDParam(c *gin.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

func parsePageQuery(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return page, pageSize
}
