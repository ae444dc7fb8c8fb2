package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Embedding  EmbeddingConfig  `mapstructure:"embedding"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Query      QueryConfig      `mapstructure:"query"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

type KafkaConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    string `mapstructure:"port"`
	GroupID string `mapstructure:"group_id"`
}

type StorageConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type EmbeddingConfig struct {
	Provider  string `mapstructure:"provider"`
	Model     string `mapstructure:"model"`
	APIKey    string `mapstructure:"api_key"`
	Dimension int    `mapstructure:"dimension"`
	BatchSize int    `mapstructure:"batch_size"`
}

type ProcessingConfig struct {
	ChunkSize     int `mapstructure:"chunk_size"`
	ChunkOverlap  int `mapstructure:"chunk_overlap"`
	MaxFileSizeMB int `mapstructure:"max_file_size_mb"`
	MaxConcurrent int `mapstructure:"max_concurrent"`
}

type QueryConfig struct {
	MaxResults          int     `mapstructure:"max_results"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	CacheEnabled        bool    `mapstructure:"cache_enabled"`
	CacheTTLSeconds     int     `mapstructure:"cache_ttl_seconds"`
}

var globalConfig Config

func Load(configPath string) error {
	if err := loadConfigFile(configPath, "config", &globalConfig); err != nil {
		return fmt.Errorf("could not load main config file: %w", err)
	}

	setDefaultValues()

	return nil
}

func loadConfigFile(configPath, fileName string, out interface{}) error {
	viper.SetConfigName(fileName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return err
		}
	}

	return viper.Unmarshal(out)
}

func setDefaultValues() {
	if globalConfig.Server.Port == 0 {
		globalConfig.Server.Port = 8080
	}
	if globalConfig.Server.MetricsPort == 0 {
		globalConfig.Server.MetricsPort = 9090
	}
	if globalConfig.Database.Port == 0 {
		globalConfig.Database.Port = 5432
	}
	if globalConfig.Database.SSLMode == "" {
		globalConfig.Database.SSLMode = "disable"
	}
	if globalConfig.Redis.Port == 0 {
		globalConfig.Redis.Port = 6379
	}
	if globalConfig.Kafka.GroupID == "" {
		globalConfig.Kafka.GroupID = "rag-document-processor"
	}
	if globalConfig.Storage.Bucket == "" {
		globalConfig.Storage.Bucket = "rag-documents"
	}
	if globalConfig.Embedding.Provider == "" {
		globalConfig.Embedding.Provider = "local"
	}
	if globalConfig.Embedding.Dimension == 0 {
		globalConfig.Embedding.Dimension = 1536
	}
	if globalConfig.Embedding.BatchSize == 0 {
		globalConfig.Embedding.BatchSize = 32
	}
	if globalConfig.Processing.ChunkSize == 0 {
		globalConfig.Processing.ChunkSize = 1000
	}
	if globalConfig.Processing.ChunkOverlap == 0 {
		globalConfig.Processing.ChunkOverlap = 200
	}
	if globalConfig.Processing.MaxFileSizeMB == 0 {
		globalConfig.Processing.MaxFileSizeMB = 50
	}
	if globalConfig.Processing.MaxConcurrent == 0 {
		globalConfig.Processing.MaxConcurrent = 5
	}
	if globalConfig.Query.MaxResults == 0 {
		globalConfig.Query.MaxResults = 5
	}
	if globalConfig.Query.SimilarityThreshold == 0 {
		globalConfig.Query.SimilarityThreshold = 0.7
	}
	if globalConfig.Query.CacheTTLSeconds == 0 {
		globalConfig.Query.CacheTTLSeconds = 3600
	}
}

func GetConfig() *Config {
	return &globalConfig
}
