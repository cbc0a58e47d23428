package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher emits chat events to Kafka, keyed by room so events for one room
// stay on one partition. Best-effort: the relay never waits on a retry.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &Publisher{writer: w}
}

type chatEvent struct {
	Type     string `json:"type"`
	RoomName string `json:"room_name"`
	UserName string `json:"user_name"`
	Content  string `json:"content,omitempty"`
	At       int64  `json:"at"`
}

func (p *Publisher) publish(ctx context.Context, ev chatEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.RoomName),
		Value: b,
		Time:  time.Now(),
	})
}

func (p *Publisher) PublishUserJoined(ctx context.Context, roomName, userName string) error {
	return p.publish(ctx, chatEvent{Type: "userJoined", RoomName: roomName, UserName: userName, At: time.Now().Unix()})
}

func (p *Publisher) PublishMessageSent(ctx context.Context, roomName, userName, content string) error {
	return p.publish(ctx, chatEvent{Type: "messageSent", RoomName: roomName, UserName: userName, Content: content, At: time.Now().Unix()})
}

func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
