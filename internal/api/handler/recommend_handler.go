package handler

import (
	"Cinebase/internal/api/dto"
	"Cinebase/internal/pkg/response"
	"Cinebase/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type RecommendHandler struct {
	recommendSvc  service.RecommendService
	similaritySvc service.SimilarityService
}

func NewRecommendHandler(recommendSvc service.RecommendService, similaritySvc service.SimilarityService) *RecommendHandler {
	return &RecommendHandler{
		recommendSvc:  recommendSvc,
		similaritySvc: similaritySvc,
	}
}

// Recommend 当前用户的个性化推荐列表
func (s *RecommendHandler) Recommend(c *gin.Context) {
	userID := c.GetUint64("user_id")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	movies, err := s.recommendSvc.RecommendMovies(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, movies)
}

// SimilarMovies 相似影片列表
func (s *RecommendHandler) SimilarMovies(c *gin.Context) {
	movieID, err := parseIDParam(c, "movie_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	candidates, err := s.similaritySvc.SimilarMovies(c.Request.Context(), movieID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := make([]*dto.SimilarMovieDTO, 0, len(candidates))
	for _, cand := range candidates {
		result = append(result, &dto.SimilarMovieDTO{
			RecommendedMovieDTO: dto.RecommendedMovieDTO{
				ID:         cand.Movie.ID,
				Title:      cand.Movie.Title,
				PosterURL:  cand.Movie.PosterURL,
				Year:       cand.Movie.Year,
				ViewsCount: cand.Movie.ViewsCount,
				LikesCount: cand.Movie.LikesCount,
			},
			Score: cand.Score,
		})
	}
	response.Success(c, result)
}
