package dto

// CategoryDTO 分类
type CategoryDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CategoryBaseDTO 分类 - 新增
type CategoryBaseDTO struct {
	Name        string `json:"name" binding:"required" validate:"min=1,max=50"`
	Description string `json:"description" validate:"max=255"`
}
