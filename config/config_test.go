package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("KAFKA_TOPIC_ORDER_EVENTS", "")
	t.Setenv("KAFKA_TOPIC_STOCK_EVENTS", "")
	t.Setenv("KAFKA_CONSUMER_GROUP", "")

	cfg := Load()

	assert.Equal(t, "order-events", cfg.Kafka.TopicOrder)
	assert.Equal(t, "stock-events", cfg.Kafka.TopicStock)
	assert.Equal(t, "commerce-service-group", cfg.Kafka.ConsumerGroup)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KAFKA_TOPIC_STOCK_EVENTS", "stock-movements")

	cfg := Load()

	assert.Equal(t, "stock-movements", cfg.Kafka.TopicStock)
}
