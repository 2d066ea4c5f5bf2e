package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	LogSourceGateway       = "gateway"
	LogSourceElasticsearch = "elasticsearch"
	LogSourceFile          = "file"
)

type Config struct {
	Server        ServerConfig
	Gateway       GatewayConfig
	Dashboard     DashboardConfig
	Chart         ChartConfig
	Credential    CredentialConfig
	LogSource     LogSourceConfig
	Elasticsearch ElasticsearchConfig
	Kafka         KafkaConfig
	LogLevel      string
}

type ServerConfig struct {
	Port string
}

type GatewayConfig struct {
	BaseURL        string
	TaskAPIBaseURL string // defaults to BaseURL
	Timeout        time.Duration
	RecentLogLimit int
}

type DashboardConfig struct {
	AutoRefreshInterval time.Duration // 0 disables
	LoadOnStart         bool
}

type ChartConfig struct {
	Format string // png or svg
	Width  int
	Height int
}

type CredentialConfig struct {
	FilePath string
}

type LogSourceConfig struct {
	Kind     string // gateway, elasticsearch or file
	FilePath string // export file read by the file source
}

type ElasticsearchConfig struct {
	Addresses  []string
	Username   string
	Password   string
	LogIndex   string
	MaxRecords int
}

type KafkaConfig struct {
	Brokers       []string // empty disables snapshot publishing
	SnapshotTopic string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("GATEWAY_BASE_URL", "http://localhost:8000")
	viper.SetDefault("GATEWAY_TIMEOUT", "10s")
	viper.SetDefault("GATEWAY_RECENT_LOG_LIMIT", 50)
	viper.SetDefault("DASHBOARD_AUTO_REFRESH_INTERVAL", "0s")
	viper.SetDefault("DASHBOARD_LOAD_ON_START", true)
	viper.SetDefault("CHART_FORMAT", "png")
	viper.SetDefault("CHART_WIDTH", 800)
	viper.SetDefault("CHART_HEIGHT", 400)
	viper.SetDefault("CREDENTIAL_FILE_PATH", "./credential.json")
	viper.SetDefault("LOG_SOURCE", LogSourceGateway)
	viper.SetDefault("LOG_SOURCE_FILE_PATH", "./logs/api_logs.txt")
	viper.SetDefault("ELASTICSEARCH_ADDRESSES", "http://localhost:9200")
	viper.SetDefault("ELASTICSEARCH_LOG_INDEX", "gateway-logs")
	viper.SetDefault("ELASTICSEARCH_MAX_RECORDS", 10000)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_SNAPSHOT_TOPIC", "dashboard_snapshots")

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config
	config.Server.Port = viper.GetString("SERVER_PORT")
	config.LogLevel = viper.GetString("LOG_LEVEL")

	// --- Gateway ---
	config.Gateway.BaseURL = strings.TrimRight(viper.GetString("GATEWAY_BASE_URL"), "/")
	config.Gateway.TaskAPIBaseURL = strings.TrimRight(viper.GetString("TASK_API_BASE_URL"), "/")
	if config.Gateway.TaskAPIBaseURL == "" {
		config.Gateway.TaskAPIBaseURL = config.Gateway.BaseURL
	}
	config.Gateway.Timeout = viper.GetDuration("GATEWAY_TIMEOUT")
	config.Gateway.RecentLogLimit = viper.GetInt("GATEWAY_RECENT_LOG_LIMIT")

	// --- Dashboard ---
	config.Dashboard.AutoRefreshInterval = viper.GetDuration("DASHBOARD_AUTO_REFRESH_INTERVAL")
	config.Dashboard.LoadOnStart = viper.GetBool("DASHBOARD_LOAD_ON_START")

	// --- Chart ---
	config.Chart.Format = strings.ToLower(viper.GetString("CHART_FORMAT"))
	config.Chart.Width = viper.GetInt("CHART_WIDTH")
	config.Chart.Height = viper.GetInt("CHART_HEIGHT")

	config.Credential.FilePath = viper.GetString("CREDENTIAL_FILE_PATH")

	// --- Log Source ---
	config.LogSource.Kind = strings.ToLower(viper.GetString("LOG_SOURCE"))
	config.LogSource.FilePath = viper.GetString("LOG_SOURCE_FILE_PATH")

	// --- Elasticsearch ---
	config.Elasticsearch.Addresses = splitList(viper.GetString("ELASTICSEARCH_ADDRESSES"))
	config.Elasticsearch.Username = viper.GetString("ELASTICSEARCH_USERNAME")
	config.Elasticsearch.Password = viper.GetString("ELASTICSEARCH_PASSWORD")
	config.Elasticsearch.LogIndex = viper.GetString("ELASTICSEARCH_LOG_INDEX")
	config.Elasticsearch.MaxRecords = viper.GetInt("ELASTICSEARCH_MAX_RECORDS")

	// --- Kafka ---
	config.Kafka.Brokers = splitList(viper.GetString("KAFKA_BROKERS"))
	config.Kafka.SnapshotTopic = viper.GetString("KAFKA_SNAPSHOT_TOPIC")

	if level, err := zerolog.ParseLevel(config.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	} else {
		log.Warn().Str("level", config.LogLevel).Msg("Unknown log level, keeping default")
	}

	log.Info().
		Str("gateway", config.Gateway.BaseURL).
		Str("task_api", config.Gateway.TaskAPIBaseURL).
		Str("log_source", config.LogSource.Kind).
		Dur("auto_refresh", config.Dashboard.AutoRefreshInterval).
		Msg("Config loaded")
	return &config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
