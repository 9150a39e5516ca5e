package kafka

import (
	"Cinebase/internal/api/config"
	"Cinebase/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	signalConsumer sarama.ConsumerGroup
	signalHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(
	cfg *config.Config,
	signalService service.SignalService,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	signalConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaSignalConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	signalHandler := NewSignalHandler(signalService)

	return &ConsumerManager{
		signalConsumer: signalConsumer,
		signalHandler:  signalHandler,
	}, nil
}

// Start 启动所有消费者，阻塞到 ctx 取消
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	go func() {
		topic := cfg.KafkaSignalConsumer.Topic
		log.Info("Signal consumer started", "topic", topic)
		for {
			if err := m.signalConsumer.Consume(ctx, []string{topic}, m.signalHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.signalConsumer.Close(); err != nil {
		log.Error("Failed to close signal consumer", "err", err)
	}

	return nil
}
