package audit

// Entry represents a single recorded API request.
type Entry struct {
	ID         string `json:"id"`
	Timestamp  string `json:"timestamp"`
	Method     string `json:"method"`
	Endpoint   string `json:"endpoint"`
	StatusCode int    `json:"status_code"`
	ErrorKind  string `json:"error_kind,omitempty"`
	RequestID  string `json:"request_id"`
	Retried    int    `json:"retried"` // 1 if this attempt followed a forced token refresh
	LatencyMs  int64  `json:"latency_ms"`
}

// QueryOpts holds filters for request log queries.
type QueryOpts struct {
	Method    string
	Endpoint  string
	ErrorKind string
	Failed    bool
	Since     string
	Limit     int
}

// EndpointStat holds aggregated request counts for a single endpoint.
type EndpointStat struct {
	Endpoint string `json:"endpoint"`
	Count    int    `json:"count"`
	Failures int    `json:"failures"`
}
