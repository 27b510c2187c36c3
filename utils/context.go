package utils

// ContextKey is the type for request-scoped context values.
type ContextKey string

// Request-scoped context keys set by handlers when building the flow context.
const (
	RequestIDKey ContextKey = "request_id"
	UserAgentKey ContextKey = "user_agent"
	IPAddressKey ContextKey = "ip_address"
	EndpointKey  ContextKey = "endpoint"
	TimeoutKey   ContextKey = "timeout"
	UserIDKey    ContextKey = "user_id"
)
