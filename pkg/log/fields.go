package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Actor (matches pkg/middleware/auth.go keys)
	FieldUserID = "user_id"

	// Service
	FieldService = "service"

	// Directory
	FieldCoachID   = "coach_id"
	FieldSource    = "source"
	FieldOperation = "operation"
	FieldReason    = "reason"
	FieldCount     = "count"
	FieldURL       = "url"
)

// HeaderRequestID is propagated on inbound and outbound HTTP calls.
const HeaderRequestID = "X-Request-ID"
