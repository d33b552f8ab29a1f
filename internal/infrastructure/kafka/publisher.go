package kafka

import (
	"context"
	"time"

	"github.com/au-parking/parking-core-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

type DefaultKafkaPublisher struct {
	writer *kafka.Writer
}

func NewDefaultKafkaPublisher(brokers []string) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *DefaultKafkaPublisher) Publish(topic string, msgs ...domain.Message) error {
	kafkaMsgs := make([]kafka.Message, len(msgs))
	for i, msg := range msgs {
		kafkaMsgs[i] = kafka.Message{
			Topic: topic,
			Key:   msg.Key,
			Value: msg.Value,
			Time:  time.Now(),
		}
	}
	return p.writer.WriteMessages(context.Background(), kafkaMsgs...)
}

func (p *DefaultKafkaPublisher) Close() error {
	return p.writer.Close()
}
