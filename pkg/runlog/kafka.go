package runlog

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Kafka отправляет результаты в топик; ключ сообщения - путь отчета,
// поэтому события одного отчета попадают в одну партицию.
type Kafka struct {
	writer *kafka.Writer
}

// NewKafka создает writer; подключение устанавливается при первой отправке
func NewKafka(cfg Config) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			MaxAttempts:  3,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Publish отправляет результат
func (k *Kafka) Publish(ctx context.Context, result RunResult) error {
	payload, err := result.marshal()
	if err != nil {
		return err
	}

	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(result.Report),
		Value: payload,
		Time:  result.FinishedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}
	return nil
}

// Close закрывает writer
func (k *Kafka) Close() error {
	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	return nil
}
