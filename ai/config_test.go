package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.GenerationHost)
	assert.NotEmpty(t, cfg.EmbeddingModel)
	assert.NotEmpty(t, cfg.GenerationModel)
	assert.Equal(t, 16, cfg.MaxBatchSize)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, time.Second, cfg.RetryBaseDelay)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.NoError(t, cfg.Validate())
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://models.internal:8080/v1"),
		WithEmbeddingModel("amazon.titan-embed-text-v2:0"),
		WithGenerationModel("anthropic.claude-3-5-sonnet-20241022-v2:0"),
		WithMaxBatchSize(32),
		WithRetry(5, 2*time.Second),
		WithRequestTimeout(10*time.Second),
	)

	assert.Equal(t, "http://models.internal:8080/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://models.internal:8080/v1", cfg.GenerationHost)
	assert.Equal(t, 32, cfg.MaxBatchSize)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Normalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"adds v1 suffix", "http://localhost:11434", "http://localhost:11434/v1"},
		{"strips trailing slash", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"already normalized", "http://localhost:11434/v1", "http://localhost:11434/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(WithHost(tt.host))
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.EmbeddingHost)
			assert.Equal(t, tt.want, cfg.GenerationHost)
		})
	}
}

func TestConfig_GenerationModelID(t *testing.T) {
	cfg := NewConfig(WithGenerationModel("base-model"))
	assert.Equal(t, "base-model", cfg.GenerationModelID())

	cfg = NewConfig(
		WithGenerationModel("base-model"),
		WithInferenceProfile("us.anthropic.claude-3-5-sonnet-20241022-v2:0"),
	)
	assert.Equal(t, "us.anthropic.claude-3-5-sonnet-20241022-v2:0", cfg.GenerationModelID(),
		"inference profile must take precedence over the model identifier")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing embedding host", func(c *Config) { c.EmbeddingHost = "" }, true},
		{"missing generation host", func(c *Config) { c.GenerationHost = "" }, true},
		{"missing embedding model", func(c *Config) { c.EmbeddingModel = "" }, true},
		{"missing generation model and profile", func(c *Config) {
			c.GenerationModel = ""
			c.InferenceProfile = ""
		}, true},
		{"profile alone is enough", func(c *Config) {
			c.GenerationModel = ""
			c.InferenceProfile = "profile-alias"
		}, false},
		{"invalid batch size", func(c *Config) { c.MaxBatchSize = 0 }, true},
		{"invalid attempts", func(c *Config) { c.MaxAttempts = 0 }, true},
		{"invalid request timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
