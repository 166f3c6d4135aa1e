package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"callinsight/pkg/analytics"
	"callinsight/pkg/errors"
)

// Config represents the complete application configuration
type Config struct {
	HTTP      HTTPConfig      `json:"http"`
	Logging   LoggingConfig   `json:"logging"`
	Messaging MessagingConfig `json:"messaging"`
	Batch     BatchConfig     `json:"batch"`
	Engine    EngineConfig    `json:"engine"`
}

// HTTPConfig holds the API server configuration
type HTTPConfig struct {
	Enabled       bool          `json:"enabled" env:"HTTP_ENABLED" default:"true"`
	Port          int           `json:"port" env:"HTTP_PORT" default:"8080"`
	ReadTimeout   time.Duration `json:"read_timeout" env:"HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout  time.Duration `json:"write_timeout" env:"HTTP_WRITE_TIMEOUT" default:"30s"`
	EnableMetrics bool          `json:"enable_metrics" env:"HTTP_ENABLE_METRICS" default:"true"`
	MaxBodyBytes  int64         `json:"max_body_bytes" env:"HTTP_MAX_BODY_BYTES" default:"10485760"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `json:"level" env:"LOG_LEVEL" default:"info"`
	Format string `json:"format" env:"LOG_FORMAT" default:"text"`
}

// MessagingConfig holds AMQP report delivery configuration. Publishing is
// disabled when the URL is empty.
type MessagingConfig struct {
	AMQPURL       string `json:"amqp_url" env:"AMQP_URL" default:""`
	AMQPQueueName string `json:"amqp_queue_name" env:"AMQP_QUEUE_NAME" default:"analysis_reports"`
}

// Enabled reports whether AMQP delivery is configured.
func (m *MessagingConfig) Enabled() bool {
	return m.AMQPURL != "" && m.AMQPQueueName != ""
}

// BatchConfig holds batch analysis limits
type BatchConfig struct {
	Workers  int `json:"workers" env:"BATCH_WORKERS" default:"0"`
	MaxItems int `json:"max_items" env:"BATCH_MAX_ITEMS" default:"64"`
}

// EngineConfig holds the tunable scalars of the analytics engine plus an
// optional YAML file overriding the built-in lexicon and keyword tables.
type EngineConfig struct {
	PolarityThreshold          float64 `json:"polarity_threshold" env:"ENGINE_POLARITY_THRESHOLD" default:"0.05"`
	SentimentWeight            float64 `json:"sentiment_weight" env:"ENGINE_WEIGHT_SENTIMENT" default:"0.35"`
	IntentWeight               float64 `json:"intent_weight" env:"ENGINE_WEIGHT_INTENT" default:"0.15"`
	PolitenessWeight           float64 `json:"politeness_weight" env:"ENGINE_WEIGHT_POLITENESS" default:"0.25"`
	OutcomeWeight              float64 `json:"outcome_weight" env:"ENGINE_WEIGHT_OUTCOME" default:"0.25"`
	WordsPerMinute             float64 `json:"words_per_minute" env:"ENGINE_WORDS_PER_MINUTE" default:"150"`
	KeyPhraseLimit             int     `json:"key_phrase_limit" env:"ENGINE_KEY_PHRASE_LIMIT" default:"7"`
	OutcomeResolutionThreshold float64 `json:"outcome_resolution_threshold" env:"ENGINE_OUTCOME_RESOLUTION_THRESHOLD" default:"0.3"`
	TablesFile                 string  `json:"tables_file" env:"ENGINE_TABLES_FILE" default:""`
}

// Load reads application configuration from the environment, trying .env
// files the way the rest of the tooling expects them.
func Load(logger *logrus.Logger) (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		logger.WithError(err).Warn("Failed to get current working directory")
		wd = "unknown"
	}

	possibleEnvFiles := []string{
		".env",
		"../.env",
		filepath.Join(wd, ".env"),
	}

	var loadedFrom string
	for _, envFile := range possibleEnvFiles {
		if _, statErr := os.Stat(envFile); statErr == nil {
			if loadErr := godotenv.Load(envFile); loadErr == nil {
				loadedFrom, _ = filepath.Abs(envFile)
				break
			}
		}
	}

	if loadedFrom != "" {
		logger.WithFields(logrus.Fields{
			"working_dir": wd,
			"path":        loadedFrom,
		}).Info("Successfully loaded .env file")
	} else {
		logger.WithField("working_dir", wd).Debug("No .env file found, using environment variables only")
	}

	config := &Config{}

	if err := loadHTTPConfig(logger, &config.HTTP); err != nil {
		return nil, errors.Wrap(err, "failed to load HTTP configuration")
	}
	if err := loadLoggingConfig(logger, &config.Logging); err != nil {
		return nil, errors.Wrap(err, "failed to load logging configuration")
	}
	if err := loadMessagingConfig(logger, &config.Messaging); err != nil {
		return nil, errors.Wrap(err, "failed to load messaging configuration")
	}
	if err := loadBatchConfig(logger, &config.Batch); err != nil {
		return nil, errors.Wrap(err, "failed to load batch configuration")
	}
	if err := loadEngineConfig(logger, &config.Engine); err != nil {
		return nil, errors.Wrap(err, "failed to load engine configuration")
	}

	return config, nil
}

func loadHTTPConfig(logger *logrus.Logger, cfg *HTTPConfig) error {
	cfg.Enabled = getEnvBool(logger, "HTTP_ENABLED", true)
	cfg.Port = getEnvInt(logger, "HTTP_PORT", 8080)
	cfg.ReadTimeout = getEnvDuration(logger, "HTTP_READ_TIMEOUT", 10*time.Second)
	cfg.WriteTimeout = getEnvDuration(logger, "HTTP_WRITE_TIMEOUT", 30*time.Second)
	cfg.EnableMetrics = getEnvBool(logger, "HTTP_ENABLE_METRICS", true)
	cfg.MaxBodyBytes = int64(getEnvInt(logger, "HTTP_MAX_BODY_BYTES", 10*1024*1024))

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return errors.New("HTTP_PORT must be between 1 and 65535")
	}
	return nil
}

func loadLoggingConfig(logger *logrus.Logger, cfg *LoggingConfig) error {
	cfg.Level = getEnvString(logger, "LOG_LEVEL", "info")
	cfg.Format = getEnvString(logger, "LOG_FORMAT", "text")

	if _, err := logrus.ParseLevel(cfg.Level); err != nil {
		return errors.Wrap(err, "invalid LOG_LEVEL")
	}
	return nil
}

func loadMessagingConfig(logger *logrus.Logger, cfg *MessagingConfig) error {
	cfg.AMQPURL = getEnvString(logger, "AMQP_URL", "")
	cfg.AMQPQueueName = getEnvString(logger, "AMQP_QUEUE_NAME", "analysis_reports")
	return nil
}

func loadBatchConfig(logger *logrus.Logger, cfg *BatchConfig) error {
	cfg.Workers = getEnvInt(logger, "BATCH_WORKERS", 0)
	cfg.MaxItems = getEnvInt(logger, "BATCH_MAX_ITEMS", 64)

	if cfg.MaxItems <= 0 {
		return errors.New("BATCH_MAX_ITEMS must be positive")
	}
	return nil
}

func loadEngineConfig(logger *logrus.Logger, cfg *EngineConfig) error {
	cfg.PolarityThreshold = getEnvFloat(logger, "ENGINE_POLARITY_THRESHOLD", 0.05)
	cfg.SentimentWeight = getEnvFloat(logger, "ENGINE_WEIGHT_SENTIMENT", 0.35)
	cfg.IntentWeight = getEnvFloat(logger, "ENGINE_WEIGHT_INTENT", 0.15)
	cfg.PolitenessWeight = getEnvFloat(logger, "ENGINE_WEIGHT_POLITENESS", 0.25)
	cfg.OutcomeWeight = getEnvFloat(logger, "ENGINE_WEIGHT_OUTCOME", 0.25)
	cfg.WordsPerMinute = getEnvFloat(logger, "ENGINE_WORDS_PER_MINUTE", 150)
	cfg.KeyPhraseLimit = getEnvInt(logger, "ENGINE_KEY_PHRASE_LIMIT", 7)
	cfg.OutcomeResolutionThreshold = getEnvFloat(logger, "ENGINE_OUTCOME_RESOLUTION_THRESHOLD", 0.3)
	cfg.TablesFile = getEnvString(logger, "ENGINE_TABLES_FILE", "")
	return nil
}

// BuildEngineConfig materializes the analytics engine configuration: the
// built-in tables, the env-tunable scalars, and finally any YAML table
// overrides. The result still goes through analytics validation when the
// engine is constructed, so a bad weights file fails startup.
func (c *Config) BuildEngineConfig(logger *logrus.Logger) (*analytics.Config, error) {
	engineCfg := analytics.DefaultConfig()

	engineCfg.PolarityThreshold = c.Engine.PolarityThreshold
	engineCfg.Weights = analytics.Weights{
		Sentiment:  c.Engine.SentimentWeight,
		Intent:     c.Engine.IntentWeight,
		Politeness: c.Engine.PolitenessWeight,
		Outcome:    c.Engine.OutcomeWeight,
	}
	engineCfg.WordsPerMinute = c.Engine.WordsPerMinute
	engineCfg.KeyPhraseLimit = c.Engine.KeyPhraseLimit
	engineCfg.OutcomeResolutionThreshold = c.Engine.OutcomeResolutionThreshold

	if c.Engine.TablesFile != "" {
		data, err := os.ReadFile(c.Engine.TablesFile)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read engine tables file",
				map[string]interface{}{"path": c.Engine.TablesFile})
		}
		if err := yaml.Unmarshal(data, engineCfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse engine tables file",
				map[string]interface{}{"path": c.Engine.TablesFile})
		}
		logger.WithField("path", c.Engine.TablesFile).Info("Loaded engine table overrides")
	}

	return engineCfg, nil
}

// SetupLogger applies the logging configuration to a logrus logger.
func (c *Config) SetupLogger(logger *logrus.Logger) {
	level, err := logrus.ParseLevel(c.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(c.Logging.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// Environment variable helpers with defaults and debug reporting.

func getEnvString(logger *logrus.Logger, key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(logger *logrus.Logger, key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"key":     key,
			"value":   value,
			"default": defaultValue,
		}).Warn("Invalid integer value, using default")
		return defaultValue
	}
	return parsed
}

func getEnvFloat(logger *logrus.Logger, key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"key":     key,
			"value":   value,
			"default": defaultValue,
		}).Warn("Invalid float value, using default")
		return defaultValue
	}
	return parsed
}

func getEnvBool(logger *logrus.Logger, key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"key":     key,
			"value":   value,
			"default": defaultValue,
		}).Warn("Invalid boolean value, using default")
		return defaultValue
	}
	return parsed
}

func getEnvDuration(logger *logrus.Logger, key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"key":     key,
			"value":   value,
			"default": defaultValue,
		}).Warn("Invalid duration value, using default")
		return defaultValue
	}
	return parsed
}
