package handler

import (
	"Cinebase/internal/api/dto"
	"Cinebase/internal/pkg/response"
	"Cinebase/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categorySvc service.CategoryService
}

func NewCategoryHandler(categorySvc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categorySvc: categorySvc,
	}
}

func (s *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := s.categorySvc.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, categories)
}

func (s *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryBaseDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	categoryID, err := s.categorySvc.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"category_id": categoryID})
}

func (s *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID, err := parseIDParam(c, "category_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.categorySvc.DeleteCategory(c.Request.Context(), categoryID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
