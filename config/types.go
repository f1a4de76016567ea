package config

import "time"

// Config 客户端配置（文件 / 环境变量 / 命令行三层覆盖）
type Config struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Steps        int           `mapstructure:"steps"`    // 每个服务端 Tick 推进的步数
	TickRate     int           `mapstructure:"tickRate"` // 每秒 Tick 数（本地节拍）
	EndDelay     time.Duration `mapstructure:"endDelay"`
	DialTimeout  time.Duration `mapstructure:"dialTimeout"`
	LogFile      string        `mapstructure:"logFile"`
	Debug        bool          `mapstructure:"debug"`
	SpectateAddr string        `mapstructure:"spectateAddr"` // 为空表示不开启旁观服务
	Headless     bool          `mapstructure:"headless"`     // 不接管终端，无本地输入
}
