package billing

// BillingConfig holds billing module settings. The list names and the
// pending timeout are device-side vocabulary: timeouts use the device
// duration syntax ("1d", "12h"), not Go's.
type BillingConfig struct {
	AuthorizedList string `mapstructure:"authorized_list"`
	PendingList    string `mapstructure:"pending_list"`
	PendingTimeout string `mapstructure:"pending_timeout"`
}

// DefaultConfig returns the default billing configuration.
func DefaultConfig() BillingConfig {
	return BillingConfig{
		AuthorizedList: "authorized",
		PendingList:    "pending",
		PendingTimeout: "1d",
	}
}
