package services

import (
	"fmt"
	"time"

	"b2b-catalog/logger"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

// IKafkaService defines the interface for Kafka operations.
type IKafkaService interface {
	PushMessage(topic, key string, message []byte) error
	Close() error
}

// KafkaService implements IKafkaService using Sarama.
type KafkaService struct {
	producer sarama.SyncProducer
}

// NewKafkaService connects a synchronous producer to brokers.
func NewKafkaService(brokers []string) (IKafkaService, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to start Sarama producer: %w", err)
	}

	logger.GetAppLogger().WithField("brokers", brokers).Info("Kafka producer connected")
	return NewKafkaServiceWithProducer(producer), nil
}

// NewKafkaServiceWithProducer wraps an existing producer.
func NewKafkaServiceWithProducer(producer sarama.SyncProducer) IKafkaService {
	return &KafkaService{producer: producer}
}

// PushMessage sends a message to the specified Kafka topic. Messages sharing a
// key land on the same partition.
func (s *KafkaService) PushMessage(topic, key string, message []byte) error {
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(message),
	}
	if key != "" {
		msg.Key = sarama.StringEncoder(key)
	}

	log := logger.GetAppLogger().WithField("topic", topic)
	partition, offset, err := s.producer.SendMessage(msg)
	if err != nil {
		log.WithError(err).Error("Failed to send message to Kafka")
		return err
	}
	log.WithFields(logrus.Fields{"partition": partition, "offset": offset}).Debug("Message sent to Kafka")
	return nil
}

func (s *KafkaService) Close() error {
	return s.producer.Close()
}
