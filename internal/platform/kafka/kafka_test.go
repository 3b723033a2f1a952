package kafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"spotter/internal/platform/config"
)

func TestNew_NoBrokers(t *testing.T) {
	client, err := New(context.Background(), config.Kafka{Topic: "spotter.audit"})
	assert.ErrorIs(t, err, ErrNoBrokers)
	assert.Nil(t, client)
}
