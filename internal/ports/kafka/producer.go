package kafka

import (
	"context"
)

// IKafkaProducer интерфейс для отправки сообщений в Kafka
type IKafkaProducer interface {
	// Send отправляет сообщение с ключом
	Send(ctx context.Context, key string, value []byte) error
	// Close закрывает producer
	Close() error
}
