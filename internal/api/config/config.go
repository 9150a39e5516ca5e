package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	viper.SetDefault("recommender.interest_increment", 0.2)
	viper.SetDefault("recommender.max_interest_score", 5.0)
	viper.SetDefault("recommender.recommendation_threshold", 0.5)
	viper.SetDefault("recommender.staleness_days", 90)
	viper.SetDefault("recommender.inactivity_days", 180)
	viper.SetDefault("recommender.view_dedup_hours", 24)
	viper.SetDefault("recommender.store_timeout_ms", 500)

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 推荐引擎常量非法属于致命错误，绝不带病启动
	if err := cfg.Recommender.Validate(); err != nil {
		return fmt.Errorf("invalid recommender config: %w", err)
	}

	Cfg = &cfg

	return nil
}
