package queue

import (
	"context"
	"log"

	"github.com/IBM/sarama"
)

// MessageHandler processes one consumed message. If shouldMark is false or
// an error is returned, the message is not marked and will be redelivered.
type MessageHandler interface {
	HandleMessage(ctx context.Context, message []byte) (shouldMark bool, err error)
}

// Consumer reads URL jobs from Kafka and hands them to a handler.
type Consumer struct {
	group   sarama.ConsumerGroup
	handler MessageHandler
	topic   string
}

// ConsumerConfig holds Kafka consumer configuration.
type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	Handler MessageHandler
}

// NewConsumer creates a consumer group member for the URL topic.
func NewConsumer(config ConsumerConfig) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		group:   group,
		handler: config.Handler,
		topic:   config.Topic,
	}, nil
}

// Run consumes until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	go func() {
		for err := range c.group.Errors() {
			log.Printf("kafka consumer error: %v", err)
		}
	}()

	for {
		if err := c.group.Consume(ctx, []string{c.topic}, &groupHandler{c}); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("kafka consume error: %v", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Close shuts the consumer group down.
func (c *Consumer) Close() error {
	return c.group.Close()
}

type groupHandler struct {
	consumer *Consumer
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		shouldMark, err := h.consumer.handler.HandleMessage(session.Context(), msg.Value)
		if err != nil {
			log.Printf("message handling failed (offset %d): %v", msg.Offset, err)
		}
		if shouldMark {
			session.MarkMessage(msg, "")
		}
	}
	return nil
}
