package gateway

import "time"

// GatewayConfig holds configuration for the Gateway module.
type GatewayConfig struct {
	AuditRetentionDays  int           `mapstructure:"audit_retention_days"`
	MaintenanceInterval time.Duration `mapstructure:"maintenance_interval"`
}

// DefaultConfig returns the default Gateway configuration.
func DefaultConfig() GatewayConfig {
	return GatewayConfig{
		AuditRetentionDays:  90,
		MaintenanceInterval: time.Hour,
	}
}
