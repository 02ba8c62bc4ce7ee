package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/Team-Name-exists/Heritiq/config"
)

func TestNewLoggerLevel(t *testing.T) {
	logger := newLogger(&config.Config{AppEnv: "production", LogLevel: "warn"})
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())

	logger = newLogger(&config.Config{AppEnv: "production", LogLevel: "loud"})
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestCORSConfig(t *testing.T) {
	c := corsConfig([]string{"https://shop.example", "*"})
	assert.True(t, c.AllowAllOrigins)
	assert.Empty(t, c.AllowOrigins)

	c = corsConfig([]string{"https://shop.example"})
	assert.False(t, c.AllowAllOrigins)
	assert.Equal(t, []string{"https://shop.example"}, c.AllowOrigins)
	assert.Contains(t, c.AllowHeaders, "X-API-KEY")
}
