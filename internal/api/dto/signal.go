package dto

// SignalDTO 用户行为信号
type SignalDTO struct {
	MovieID uint64 `json:"movie_id" binding:"required"`
	Action  string `json:"action" binding:"required" validate:"oneof=view like unlike"`
}

// SignalEventDTO Kafka 信号事件，和 HTTP 入口共用 action 语义
type SignalEventDTO struct {
	UserID  uint64 `json:"user_id"`
	MovieID uint64 `json:"movie_id"`
	Action  string `json:"action"`
}
