package models

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Error     string      `json:"error,omitempty"`
	Count     *int        `json:"count,omitempty"`
	Retryable bool        `json:"retryable,omitempty"`
}
