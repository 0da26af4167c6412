package configuration

import (
	"time"
)

// Path is the location of the YAML configuration file.
type Path string

type Config struct {
	Service      ServiceConfig      `yaml:"service"`
	Discord      DiscordConfig      `yaml:"discord"`
	AI           AIConfig           `yaml:"ai"`
	Conversation ConversationConfig `yaml:"conversation"`
	Documents    DocumentsConfig    `yaml:"documents"`
	Throttler    ThrottlerConfig    `yaml:"throttler"`
	Redis        RedisConfig        `yaml:"redis"`
	Database     DatabaseConfig     `yaml:"database"`
	Proxy        ProxyConfig        `yaml:"proxy"`
	Network      NetworkConfig      `yaml:"network"`
	Features     FeaturesConfig     `yaml:"features"`
	Localization LocalizationConfig `yaml:"localization"`
}

type ServiceConfig struct {
	StartupPort            int `yaml:"startup_port"`
	SystemMetricsPort      int `yaml:"system_metrics_port"`
	ApplicationMetricsPort int `yaml:"application_metrics_port"`
}

type DiscordConfig struct {
	BotToken       string `yaml:"bot_token"`
	Status         string `yaml:"status"`
	ReplyChunkSize int    `yaml:"reply_chunk_size"`
	CommandPrefix  string `yaml:"command_prefix"`
}

type AIConfig struct {
	Provider        string        `yaml:"provider"`
	XAIToken        string        `yaml:"xai_token"`
	XAIBaseURL      string        `yaml:"xai_base_url"`
	OpenRouterToken string        `yaml:"open_router_token"`
	Model           string        `yaml:"model"`
	FallbackModels  []string      `yaml:"fallback_models"`
	Temperature     float32       `yaml:"temperature"`
	Timeout         time.Duration `yaml:"timeout"`

	SimpleMaxTokens   int `yaml:"simple_max_tokens"`
	DetailedMaxTokens int `yaml:"detailed_max_tokens"`

	Pricing AI_PricingConfig `yaml:"pricing"`
	Retry   AI_RetryConfig   `yaml:"retry"`
	Breaker AI_BreakerConfig `yaml:"breaker"`
	Images  AI_ImagesConfig  `yaml:"images"`
}

type AI_PricingConfig struct {
	InputPerMillion  string `yaml:"input_per_million"`
	OutputPerMillion string `yaml:"output_per_million"`
}

type AI_RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

type AI_BreakerConfig struct {
	MaxRequests      uint32        `yaml:"max_requests"`
	Interval         time.Duration `yaml:"interval"`
	Timeout          time.Duration `yaml:"timeout"`
	MinRequests      uint32        `yaml:"min_requests"`
	FailureThreshold float64       `yaml:"failure_threshold"`
}

type AI_ImagesConfig struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
}

type ConversationConfig struct {
	SizeMetric          string        `yaml:"size_metric"`
	Encoding            string        `yaml:"encoding"`
	MaxSize             int           `yaml:"max_size"`
	MaxTurns            int           `yaml:"max_turns"`
	IdleTTL             time.Duration `yaml:"idle_ttl"`
	SimpleWordThreshold int           `yaml:"simple_word_threshold"`
	ShortQuestionWords  int           `yaml:"short_question_words"`
}

type DocumentsConfig struct {
	MaxPages int   `yaml:"max_pages"`
	MaxChars int   `yaml:"max_chars"`
	MaxBytes int64 `yaml:"max_bytes"`
}

type ThrottlerConfig struct {
	Backend string        `yaml:"backend"`
	Limit   int           `yaml:"limit"`
	Window  time.Duration `yaml:"window"`
}

type RedisConfig struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	MaxRetries  int           `yaml:"max_retries"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"ssl_mode"`
	TimeZone string `yaml:"time_zone"`
}

type ProxyConfig struct {
	URL      string `yaml:"url"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type NetworkConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

type FeaturesConfig struct {
	Enabled           bool   `yaml:"enabled"`
	UnleashAPIURL     string `yaml:"unleash_api_url"`
	UnleashAppName    string `yaml:"unleash_app_name"`
	UnleashInstanceID string `yaml:"unleash_instance_id"`
	RefreshInterval   int    `yaml:"refresh_interval"`
}

type LocalizationConfig struct {
	DefaultLanguage    string   `yaml:"default_language"`
	SupportedLanguages []string `yaml:"supported_languages"`
}
