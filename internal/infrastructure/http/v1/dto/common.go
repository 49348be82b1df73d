// Package dto provides Data Transfer Objects for API requests/responses.
package dto

// Envelope is the uniform success response body.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorBody describes a failed operation.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorEnvelope is the uniform failure response body.
type ErrorEnvelope struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// OK wraps data in a success envelope.
func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// Fail wraps an error description in a failure envelope.
func Fail(code, message string, details map[string]any) ErrorEnvelope {
	return ErrorEnvelope{
		Success: false,
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// IDResponse carries just a created entity's identifier.
type IDResponse struct {
	ID string `json:"id"`
}

// ListResponse is a paginated listing payload.
type ListResponse struct {
	Items      []any `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}
