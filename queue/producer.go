package queue

import (
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
)

// URLJob is the message body exchanged on the article-URL topic.
type URLJob struct {
	URL        string `json:"url"`
	Discovered string `json:"discovered,omitempty"` // feed or homepage that produced it
}

// Producer publishes URL jobs for ingestion workers.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducer creates a synchronous producer for the URL topic.
func NewProducer(brokers []string, topic string) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	saramaConfig.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, err
	}
	return &Producer{producer: producer, topic: topic}, nil
}

// Publish enqueues one URL job, keyed by URL so retries of the same
// article land on the same partition.
func (p *Producer) Publish(job URLJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal url job: %w", err)
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(job.URL),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("publish url job: %w", err)
	}
	return nil
}

// Close flushes and closes the producer.
func (p *Producer) Close() error {
	return p.producer.Close()
}
