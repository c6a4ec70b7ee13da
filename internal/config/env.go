// Package config provides application configuration.
package config

import (
	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration. Field names map to
// environment variables with the SEGUN_ prefix. Nested structs use an
// underscore delimiter (e.g. SEGUN_LLM_BASE_URL).
type EnvConfig struct {
	// Host is the API server host to bind to.
	// Env: SEGUN_HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the API server port to listen on.
	// Env: SEGUN_PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// LogLevel is the log verbosity level.
	// Env: SEGUN_LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: SEGUN_LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// APIKeys is a comma-separated list of valid API keys for the HTTP facade.
	// Env: SEGUN_API_KEYS
	APIKeys string `envconfig:"API_KEYS"`

	// WebOrigin is the allowed CORS origin for the web client.
	// Env: SEGUN_WEB_ORIGIN
	WebOrigin string `envconfig:"WEB_ORIGIN"`

	// TelegramToken is the bot token. The bot is disabled when empty.
	// Env: SEGUN_TELEGRAM_TOKEN
	TelegramToken string `envconfig:"TELEGRAM_TOKEN"`

	// Mongo configures the document store.
	Mongo MongoEnv `envconfig:"MONGO"`

	// LLM configures the chat-completion endpoint for the pipeline stages.
	LLM EndpointEnv `envconfig:"LLM"`

	// Embedding configures the embedding endpoint.
	Embedding EmbeddingEnv `envconfig:"EMBEDDING"`

	// Search configures retrieval defaults.
	Search SearchEnv `envconfig:"SEARCH"`
}

// MongoEnv holds environment configuration for MongoDB.
type MongoEnv struct {
	// URI is the connection string.
	// Env: SEGUN_MONGO_URI
	URI string `envconfig:"URI"`

	// Database is the database name.
	// Env: SEGUN_MONGO_DATABASE (default: abokicode_db)
	Database string `envconfig:"DATABASE" default:"abokicode_db"`

	// Timeout is the per-operation timeout in seconds.
	// Env: SEGUN_MONGO_TIMEOUT (default: 15)
	Timeout float64 `envconfig:"TIMEOUT" default:"15"`
}

// EndpointEnv holds environment configuration for the LLM endpoint.
type EndpointEnv struct {
	// BaseURL is the base URL for an OpenAI-compatible endpoint.
	// Env: SEGUN_LLM_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Model is the model identifier.
	// Env: SEGUN_LLM_MODEL (default: gpt-4o-mini)
	Model string `envconfig:"MODEL" default:"gpt-4o-mini"`

	// APIKey is the API key for authentication.
	// Env: SEGUN_LLM_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// Timeout is the per-call timeout in seconds.
	// Env: SEGUN_LLM_TIMEOUT (default: 60)
	Timeout float64 `envconfig:"TIMEOUT" default:"60"`

	// MaxRetries is the schema-validation retry bound per stage.
	// Env: SEGUN_LLM_MAX_RETRIES (default: 2)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"2"`

	// MaxConcurrent is the process-wide cap on in-flight model calls.
	// Env: SEGUN_LLM_MAX_CONCURRENT (default: 5)
	MaxConcurrent int `envconfig:"MAX_CONCURRENT" default:"5"`
}

// EmbeddingEnv holds environment configuration for the embedding model.
type EmbeddingEnv struct {
	// BaseURL is the base URL for a remote embedding endpoint. When empty,
	// the local hugot model is used instead.
	// Env: SEGUN_EMBEDDING_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Model is the model identifier.
	// Env: SEGUN_EMBEDDING_MODEL (default: all-MiniLM-L6-v2)
	Model string `envconfig:"MODEL" default:"all-MiniLM-L6-v2"`

	// APIKey is the API key for a remote endpoint.
	// Env: SEGUN_EMBEDDING_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// Dimension is the model's output vector size. Must match the dimension
	// of the persisted chunk embeddings exactly.
	// Env: SEGUN_EMBEDDING_DIMENSION (default: 384)
	Dimension int `envconfig:"DIMENSION" default:"384"`

	// BatchSize is the number of texts per embedding call.
	// Env: SEGUN_EMBEDDING_BATCH_SIZE (default: 64)
	BatchSize int `envconfig:"BATCH_SIZE" default:"64"`

	// CacheDir is where local model files live.
	// Env: SEGUN_EMBEDDING_CACHE_DIR (default: ~/.segun/models)
	CacheDir string `envconfig:"CACHE_DIR"`
}

// SearchEnv holds environment configuration for retrieval defaults.
type SearchEnv struct {
	// IndexName is the Atlas vector index name.
	// Env: SEGUN_SEARCH_INDEX_NAME (default: lecture-index)
	IndexName string `envconfig:"INDEX_NAME" default:"lecture-index"`

	// VectorPath is the document path of the embedding field.
	// Env: SEGUN_SEARCH_VECTOR_PATH (default: embedding)
	VectorPath string `envconfig:"VECTOR_PATH" default:"embedding"`

	// TopK is the default number of results.
	// Env: SEGUN_SEARCH_TOP_K (default: 5)
	TopK int `envconfig:"TOP_K" default:"5"`

	// Candidates is the default ANN candidate count.
	// Env: SEGUN_SEARCH_CANDIDATES (default: 200)
	Candidates int `envconfig:"CANDIDATES" default:"200"`
}

// LoadFromEnv loads configuration from environment variables with the
// SEGUN_ prefix.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("segun", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}
