// Command quote-notifier consumes order events and e-mails sales and customers.
package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"b2b-catalog/config"
	"b2b-catalog/logger"
	"b2b-catalog/notifier"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/sirupsen/logrus"
)

const retryBackoff = 5 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(&logger.LogConfig{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		Path:       cfg.Log.Path,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLog := logger.GetAppLogger()

	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":        strings.Join(cfg.Kafka.Brokers, ","),
		"group.id":                 cfg.Kafka.GroupID,
		"auto.offset.reset":        "earliest",
		"enable.auto.commit":       false, // commit after the mail went out
		"isolation.level":          "read_committed",
		"allow.auto.create.topics": false,
	})
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create consumer")
	}
	defer c.Close()

	topics := []string{cfg.Kafka.QuoteTopic, cfg.Kafka.StatusTopic}
	if err := c.SubscribeTopics(topics, nil); err != nil {
		appLog.WithError(err).Fatal("Failed to subscribe")
	}
	appLog.WithField("topics", topics).Info("Consuming order events")

	handler := notifier.NewHandler(notifier.NewGomailSender(notifier.SMTPConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	}), cfg.Mail.QuoteRecipient)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	for ctx.Err() == nil {
		msg, err := c.ReadMessage(500 * time.Millisecond)
		if err != nil {
			var ke kafka.Error
			if errors.As(err, &ke) && (ke.Code() == kafka.ErrTimedOut || ke.Code() == kafka.ErrPartitionEOF) {
				continue
			}
			appLog.WithError(err).Warn("Read error")
			continue
		}

		msgLog := appLog.WithFields(logrus.Fields{
			"topic":     *msg.TopicPartition.Topic,
			"partition": msg.TopicPartition.Partition,
			"offset":    msg.TopicPartition.Offset,
			"key":       string(msg.Key),
		})

		err = handler.Handle(ctx, msg.Value)
		switch {
		case err == nil:
		case errors.Is(err, notifier.ErrMalformed):
			// a bad payload never gets better; skip it
			msgLog.WithError(err).Error("Skipping malformed event")
		default:
			msgLog.WithError(err).Warn("Delivery failed, will retry")
			if err := c.Seek(msg.TopicPartition, 0); err != nil {
				msgLog.WithError(err).Error("Seek failed")
			}
			select {
			case <-ctx.Done():
			case <-time.After(retryBackoff):
			}
			continue
		}

		if _, err := c.CommitMessage(msg); err != nil {
			msgLog.WithError(err).Error("Commit failed")
		}
	}
	appLog.Info("Signal received, shutting down")
}
