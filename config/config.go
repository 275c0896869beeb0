package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the proxy.
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	Agent     AgentConfig     `mapstructure:"agent"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP listener settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// AgentConfig describes the upstream news-agent service.
type AgentConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	AppName string        `mapstructure:"app_name"`
	Prompt  string        `mapstructure:"prompt"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func (a AgentConfig) Validate() error {
	if strings.TrimSpace(a.BaseURL) == "" {
		return fmt.Errorf("agent.base_url is required")
	}
	if strings.TrimSpace(a.AppName) == "" {
		return fmt.Errorf("agent.app_name is required")
	}
	if a.Timeout <= 0 {
		return fmt.Errorf("agent.timeout must be greater than zero")
	}
	return nil
}

// TelemetryConfig contains telemetry and monitoring settings
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoadConfig loads config from file
func LoadConfig(path string) *Config {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("json")   // REQUIRED if the config file does not have the extension in the name
	viper.SetDefault("general.debug", false)
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("server.address", ":8090")
	viper.SetDefault("agent.base_url", "https://news-agent.codeshare.live")
	viper.SetDefault("agent.app_name", "news_agent")
	viper.SetDefault("agent.prompt", "Latest news on Electric Vehicles")
	viper.SetDefault("agent.timeout", 30*time.Second)
	viper.SetDefault("telemetry.enabled", true)

	if path == "" {
		viper.AddConfigPath("./config") // path to look for the config file in
		viper.AddConfigPath(".")        // optionally look for config in the working directory
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("NEWSPROXY")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	viper.AutomaticEnv() // read in environment variables that match (NEWSPROXY_*)

	if err := viper.ReadInConfig(); err != nil {
		// Defaults and env cover every key, so a missing file is fine.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}
	if err := config.Agent.Validate(); err != nil {
		panic(err)
	}
	return &config
}
