package kafka

import (
	"Cinebase/internal/api/dto"
	"Cinebase/internal/service"
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// SignalHandler 消费行为信号事件，和 HTTP 入口走同一套打分逻辑
type SignalHandler struct {
	signalService service.SignalService
}

func NewSignalHandler(signalService service.SignalService) *SignalHandler {
	return &SignalHandler{signalService: signalService}
}

func (s *SignalHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("signal consumer setup")
	return nil
}

func (s *SignalHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("signal consumer cleanup")
	return nil
}

func (s *SignalHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-signal consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-signal process batch error", "err", err)
		return err
	}
	return nil
}

func (s *SignalHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event dto.SignalEventDTO
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		// 坏消息不重试，否则会卡死整个分区
		log.Error("unmarshal signal event error", "err", err)
		return nil
	}

	action := service.ParseAction(event.Action)
	err := s.signalService.Record(ctx, event.UserID, event.MovieID, action)
	if err == nil {
		return nil
	}
	// 业务类错误（参数、影片不存在、重复点赞）重试也不会好转
	if errors.Is(err, service.ErrParamInvalid) ||
		errors.Is(err, service.ErrMovieNotFound) ||
		errors.Is(err, service.ErrActionDuplicate) {
		log.Warn("drop invalid signal event",
			"user_id", event.UserID, "movie_id", event.MovieID, "action", event.Action, "err", err)
		return nil
	}
	return err
}
