package event

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/segmentio/kafka-go"
)

// KafkaにJSONで発行する Publisher 実装。
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
	}
}

func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, ev OrderCreated) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	//同じ注文は同じパーティションに入るようにorder_idをキーにする
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(ev.OrderID, 10)),
		Value: b,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
