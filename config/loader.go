package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Load 读取配置：默认值 → lightcycle.yaml（可选）→ LIGHTCYCLE_* 环境变量
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("port", 4000)
	v.SetDefault("steps", 1)
	v.SetDefault("tickRate", 20)
	v.SetDefault("endDelay", "750ms")
	v.SetDefault("dialTimeout", "5s")
	v.SetDefault("logFile", "lightcycle.log")
	v.SetDefault("debug", false)
	v.SetDefault("spectateAddr", "")
	v.SetDefault("headless", false)

	v.SetConfigName("lightcycle")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	// default config path
	v.AddConfigPath(".")
	v.AddConfigPath("config")

	v.SetEnvPrefix("LIGHTCYCLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查取值范围
func Validate(cfg *Config) error {
	if cfg.Host == "" {
		return fmt.Errorf("host must not be empty")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.Steps < 1 {
		return fmt.Errorf("steps must be at least 1, got %d", cfg.Steps)
	}
	if cfg.TickRate < 0 {
		return fmt.Errorf("tickRate must not be negative, got %d", cfg.TickRate)
	}
	if cfg.EndDelay < 0 || cfg.DialTimeout < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}

// ParsePort 解析命令行端口；0、越界或非数字都视为无效
func ParsePort(s string) (int, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	return int(n), nil
}
