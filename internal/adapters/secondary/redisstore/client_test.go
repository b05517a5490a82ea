package redisstore

import (
	"context"
	"testing"

	"artifact-catalog-service/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestNewClient_Disabled(t *testing.T) {
	assert.Nil(t, NewClient(context.Background(), config.RedisConfig{Enabled: false, Addr: "localhost:6379"}))
}

func TestNewClient_Unreachable(t *testing.T) {
	assert.Nil(t, NewClient(context.Background(), config.RedisConfig{Enabled: true, Addr: "127.0.0.1:1"}))
}
