package server

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the server configuration.
type Config struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	DataDir string `mapstructure:"data_dir"`
}

// Addr returns the listen address as host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(configPath string) (*viper.Viper, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.data_dir", "./data")
	v.SetDefault("server.demo_mode", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("database.path", "./data/wispgate.db")

	// Plugin defaults
	v.SetDefault("plugins.directory.enabled", true)
	v.SetDefault("plugins.directory.passphrase", "")
	v.SetDefault("plugins.directory.probe_timeout", "3s")
	v.SetDefault("plugins.directory.probe_count", 3)
	v.SetDefault("plugins.gateway.enabled", true)
	v.SetDefault("plugins.gateway.audit_retention_days", 90)
	v.SetDefault("plugins.gateway.maintenance_interval", "1h")
	v.SetDefault("plugins.billing.enabled", true)
	v.SetDefault("plugins.billing.authorized_list", "authorized")
	v.SetDefault("plugins.billing.pending_list", "pending")
	v.SetDefault("plugins.billing.pending_timeout", "1d")
	v.SetDefault("plugins.mqtt.enabled", true)
	v.SetDefault("plugins.mqtt.broker_url", "")
	v.SetDefault("plugins.mqtt.topic_prefix", "wispgate")
	v.SetDefault("plugins.mqtt.qos", 1)
	v.SetDefault("plugins.mqtt.retain_router_state", true)
	v.SetDefault("plugins.webhook.enabled", true)
	v.SetDefault("plugins.webhook.url", "")
	v.SetDefault("plugins.webhook.timeout", "10s")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("wispgate")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/wispgate")
	}

	// Environment variable support: WG_SERVER_PORT=9090
	v.SetEnvPrefix("WG")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is fine -- use defaults
	}

	return v, nil
}
