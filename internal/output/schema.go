package output

import "time"

// ErrorResponse is the standard JSON error format
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"` // Remediation hint (suggested fix command)
}

// NewError creates a new error response
func NewError(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// TimestampedResponse adds a timestamp to any response
type TimestampedResponse struct {
	GeneratedAt time.Time `json:"generated_at"`
}

// NewTimestamped creates a timestamped response base
func NewTimestamped() TimestampedResponse {
	return TimestampedResponse{GeneratedAt: time.Now().UTC()}
}

// VersionResponse is the output format for version command
type VersionResponse struct {
	TimestampedResponse
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuiltAt   string `json:"built_at,omitempty"`
	BuiltBy   string `json:"built_by,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}
