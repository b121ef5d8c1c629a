package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	EntityProduct  = "product"
	EntityCategory = "category"
	EntityTag      = "tag"
	EntityUser     = "user"
)

type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Entity     string    `json:"entity"`
	EntityID   uint      `json:"entity_id"`
	Name       string    `json:"name,omitempty"`
	ActorID    uint      `json:"actor_id,omitempty"`
	TagIDs     []uint    `json:"tag_ids,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New builds an event typed "<entity>_<action>", e.g. product_created.
func New(entity, action string, id uint, name string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       entity + "_" + action,
		Entity:     entity,
		EntityID:   id,
		Name:       name,
		OccurredAt: time.Now().UTC(),
	}
}

func (e Event) Key() string {
	return e.Entity + ":" + strconv.FormatUint(uint64(e.EntityID), 10)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	msg, err := Message(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write %s: %w", event.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Message encodes event as a kafka message keyed by entity so every event
// for one record lands on the same partition.
func Message(event Event) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.Key()),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}, nil
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
