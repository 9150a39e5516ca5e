package config

import (
	"errors"
	"time"
)

// Config 配置主体
type Config struct {
	Server              ServerConfig        `mapstructure:"server"`
	DB                  DBConfig            `mapstructure:"database"`
	Redis               RedisConfig         `mapstructure:"redis"`
	Logstash            LogstashConfig      `mapstructure:"logstash"`
	Elastic             ElasticConfig       `mapstructure:"elastic"`
	MinIO               MinIOConfig         `mapstructure:"minio"`
	Kafka               KafkaConfig         `mapstructure:"kafka"`
	KafkaSignalConsumer KafkaSignalConsumer `mapstructure:"kafka_signal_consumer"`
	Recommender         RecommenderConfig   `mapstructure:"recommender"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// ElasticConfig Elastic配置
type ElasticConfig struct {
	Address  string         `mapstructure:"address"`
	Username string         `mapstructure:"username"`
	Password string         `mapstructure:"password"`
	Indices  ElasticIndices `mapstructure:"indices"`
}

// ElasticIndices Elastic索引
type ElasticIndices struct {
	MovieIndex string `mapstructure:"movie_index"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	Endpoint     string `mapstructure:"endpoint"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	PosterBucket string `mapstructure:"poster_bucket"`
	UseSSL       bool   `mapstructure:"use_ssl"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaSignalConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// RecommenderConfig 兴趣打分与推荐引擎的数值常量，启动时校验，非法即退出
type RecommenderConfig struct {
	InterestIncrement       float64 `mapstructure:"interest_increment"`
	MaxInterestScore        float64 `mapstructure:"max_interest_score"`
	RecommendationThreshold float64 `mapstructure:"recommendation_threshold"`
	StalenessDays           int     `mapstructure:"staleness_days"`
	InactivityDays          int     `mapstructure:"inactivity_days"`
	ViewDedupHours          int     `mapstructure:"view_dedup_hours"`
	StoreTimeoutMs          int     `mapstructure:"store_timeout_ms"`
}

func (c *RecommenderConfig) Validate() error {
	if c.InterestIncrement <= 0 {
		return errors.New("recommender.interest_increment 必须大于 0")
	}
	if c.MaxInterestScore <= 0 {
		return errors.New("recommender.max_interest_score 必须大于 0")
	}
	if c.RecommendationThreshold < 0 || c.RecommendationThreshold > c.MaxInterestScore {
		return errors.New("recommender.recommendation_threshold 超出合法范围")
	}
	if c.StalenessDays <= 0 || c.InactivityDays <= 0 {
		return errors.New("recommender 清理窗口必须为正")
	}
	if c.ViewDedupHours <= 0 {
		return errors.New("recommender.view_dedup_hours 必须大于 0")
	}
	if c.StoreTimeoutMs <= 0 {
		return errors.New("recommender.store_timeout_ms 必须大于 0")
	}
	return nil
}

func (c *RecommenderConfig) StalenessWindow() time.Duration {
	return time.Duration(c.StalenessDays) * 24 * time.Hour
}

func (c *RecommenderConfig) InactivityWindow() time.Duration {
	return time.Duration(c.InactivityDays) * 24 * time.Hour
}

func (c *RecommenderConfig) ViewDedupWindow() time.Duration {
	return time.Duration(c.ViewDedupHours) * time.Hour
}

func (c *RecommenderConfig) StoreTimeout() time.Duration {
	return time.Duration(c.StoreTimeoutMs) * time.Millisecond
}
