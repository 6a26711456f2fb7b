package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// APIKeyEnv 配置文件未填写 api_key 时读取的环境变量
const APIKeyEnv = "CINEMIND_LLM_API_KEY"

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Engine      EngineConfig      `yaml:"engine"`
	Store       StoreConfig       `yaml:"store"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	Provider string        `yaml:"provider"` // "openai"（默认）或 "gemini"
	BaseURL  string        `yaml:"base_url"`
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 调用 LLM 的限流配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// EngineConfig 编排引擎配置
type EngineConfig struct {
	ParallelFacets bool `yaml:"parallel_facets"`
}

// StoreConfig 持久化配置
type StoreConfig struct {
	Driver   string `yaml:"driver"` // "postgres"、"mongo" 或 "memory"
	DSN      string `yaml:"dsn"`
	Database string `yaml:"database"` // 仅 mongo 使用
}

// LoadConfig 从指定路径加载配置
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()

	return &cfg, nil
}

// ApplyDefaults 为未填写的字段补充默认值
func (c *Config) ApplyDefaults() {
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv(APIKeyEnv)
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.Concurrency.RPM <= 0 {
		c.Concurrency.RPM = 60
	}
	if c.Concurrency.QPS <= 0 {
		c.Concurrency.QPS = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "memory"
	}
}
