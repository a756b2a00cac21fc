package gateway

// Event topics published by the Gateway module.
const (
	// TopicCommandExecuted fires after every proxied command, success or
	// failure. Payload: map[string]string with router_id, protocol,
	// method, path and outcome.
	TopicCommandExecuted = "gateway.command.executed"
)
