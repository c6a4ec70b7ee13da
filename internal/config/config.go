package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// AppConfig is the normalized, validated application configuration.
type AppConfig struct {
	host          string
	port          int
	logLevel      string
	logFormat     LogFormat
	apiKeys       []string
	webOrigin     string
	telegramToken string

	mongoURI      string
	mongoDatabase string
	mongoTimeout  time.Duration

	llmBaseURL       string
	llmModel         string
	llmAPIKey        string
	llmTimeout       time.Duration
	llmMaxRetries    int
	llmMaxConcurrent int

	embeddingBaseURL   string
	embeddingModel     string
	embeddingAPIKey    string
	embeddingDimension int
	embeddingBatchSize int
	embeddingCacheDir  string

	searchIndexName  string
	searchVectorPath string
	searchTopK       int
	searchCandidates int
}

// Normalize converts raw environment values into an AppConfig, filling in
// derived defaults. Call Validate before using the result.
func (e EnvConfig) Normalize() AppConfig {
	format := LogFormatPretty
	if strings.EqualFold(e.LogFormat, string(LogFormatJSON)) {
		format = LogFormatJSON
	}

	var keys []string
	for _, k := range strings.Split(e.APIKeys, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}

	cacheDir := e.Embedding.CacheDir
	if cacheDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cacheDir = filepath.Join(home, ".segun", "models")
		}
	}

	return AppConfig{
		host:          e.Host,
		port:          e.Port,
		logLevel:      strings.ToUpper(e.LogLevel),
		logFormat:     format,
		apiKeys:       keys,
		webOrigin:     e.WebOrigin,
		telegramToken: e.TelegramToken,

		mongoURI:      e.Mongo.URI,
		mongoDatabase: e.Mongo.Database,
		mongoTimeout:  secondsToDuration(e.Mongo.Timeout),

		llmBaseURL:       e.LLM.BaseURL,
		llmModel:         e.LLM.Model,
		llmAPIKey:        e.LLM.APIKey,
		llmTimeout:       secondsToDuration(e.LLM.Timeout),
		llmMaxRetries:    e.LLM.MaxRetries,
		llmMaxConcurrent: e.LLM.MaxConcurrent,

		embeddingBaseURL:   e.Embedding.BaseURL,
		embeddingModel:     e.Embedding.Model,
		embeddingAPIKey:    e.Embedding.APIKey,
		embeddingDimension: e.Embedding.Dimension,
		embeddingBatchSize: e.Embedding.BatchSize,
		embeddingCacheDir:  cacheDir,

		searchIndexName:  e.Search.IndexName,
		searchVectorPath: e.Search.VectorPath,
		searchTopK:       e.Search.TopK,
		searchCandidates: e.Search.Candidates,
	}
}

// Validate checks deploy-time invariants and fails fast on violations.
func (c AppConfig) Validate() error {
	if c.mongoURI == "" {
		return fmt.Errorf("SEGUN_MONGO_URI is required")
	}
	if c.embeddingDimension <= 0 {
		return fmt.Errorf("SEGUN_EMBEDDING_DIMENSION must be positive, got %d", c.embeddingDimension)
	}
	if c.embeddingBatchSize <= 0 {
		return fmt.Errorf("SEGUN_EMBEDDING_BATCH_SIZE must be positive, got %d", c.embeddingBatchSize)
	}
	if c.llmMaxConcurrent <= 0 {
		return fmt.Errorf("SEGUN_LLM_MAX_CONCURRENT must be positive, got %d", c.llmMaxConcurrent)
	}
	if c.llmMaxRetries < 0 {
		return fmt.Errorf("SEGUN_LLM_MAX_RETRIES must not be negative, got %d", c.llmMaxRetries)
	}
	if c.searchTopK <= 0 {
		return fmt.Errorf("SEGUN_SEARCH_TOP_K must be positive, got %d", c.searchTopK)
	}
	// Candidate count below top-k would make every query fail spec
	// construction; reject it at startup instead.
	if c.searchCandidates < c.searchTopK {
		return fmt.Errorf("SEGUN_SEARCH_CANDIDATES (%d) must be >= SEGUN_SEARCH_TOP_K (%d)", c.searchCandidates, c.searchTopK)
	}
	return nil
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Host returns the API server host.
func (c AppConfig) Host() string { return c.host }

// Port returns the API server port.
func (c AppConfig) Port() int { return c.port }

// Addr returns the API server listen address.
func (c AppConfig) Addr() string { return fmt.Sprintf("%s:%d", c.host, c.port) }

// LogLevel returns the log verbosity level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log output format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// APIKeys returns the accepted API keys.
func (c AppConfig) APIKeys() []string {
	keys := make([]string, len(c.apiKeys))
	copy(keys, c.apiKeys)
	return keys
}

// WebOrigin returns the allowed CORS origin.
func (c AppConfig) WebOrigin() string { return c.webOrigin }

// TelegramToken returns the bot token.
func (c AppConfig) TelegramToken() string { return c.telegramToken }

// MongoURI returns the MongoDB connection string.
func (c AppConfig) MongoURI() string { return c.mongoURI }

// MongoDatabase returns the database name.
func (c AppConfig) MongoDatabase() string { return c.mongoDatabase }

// MongoTimeout returns the per-operation database timeout.
func (c AppConfig) MongoTimeout() time.Duration { return c.mongoTimeout }

// LLMBaseURL returns the chat endpoint base URL.
func (c AppConfig) LLMBaseURL() string { return c.llmBaseURL }

// LLMModel returns the chat model identifier.
func (c AppConfig) LLMModel() string { return c.llmModel }

// LLMAPIKey returns the chat endpoint API key.
func (c AppConfig) LLMAPIKey() string { return c.llmAPIKey }

// LLMTimeout returns the per-call chat timeout.
func (c AppConfig) LLMTimeout() time.Duration { return c.llmTimeout }

// LLMMaxRetries returns the per-stage retry bound.
func (c AppConfig) LLMMaxRetries() int { return c.llmMaxRetries }

// LLMMaxConcurrent returns the process-wide in-flight model call cap.
func (c AppConfig) LLMMaxConcurrent() int { return c.llmMaxConcurrent }

// EmbeddingBaseURL returns the remote embedding endpoint, empty for local.
func (c AppConfig) EmbeddingBaseURL() string { return c.embeddingBaseURL }

// EmbeddingModel returns the embedding model identifier.
func (c AppConfig) EmbeddingModel() string { return c.embeddingModel }

// EmbeddingAPIKey returns the embedding endpoint API key.
func (c AppConfig) EmbeddingAPIKey() string { return c.embeddingAPIKey }

// EmbeddingDimension returns the embedding vector size.
func (c AppConfig) EmbeddingDimension() int { return c.embeddingDimension }

// EmbeddingBatchSize returns the number of texts per embedding call.
func (c AppConfig) EmbeddingBatchSize() int { return c.embeddingBatchSize }

// EmbeddingCacheDir returns the local model cache directory.
func (c AppConfig) EmbeddingCacheDir() string { return c.embeddingCacheDir }

// SearchIndexName returns the vector index name.
func (c AppConfig) SearchIndexName() string { return c.searchIndexName }

// SearchVectorPath returns the embedding field path.
func (c AppConfig) SearchVectorPath() string { return c.searchVectorPath }

// SearchTopK returns the default result count.
func (c AppConfig) SearchTopK() int { return c.searchTopK }

// SearchCandidates returns the default ANN candidate count.
func (c AppConfig) SearchCandidates() int { return c.searchCandidates }
