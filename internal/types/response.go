package types

// Response is the uniform envelope returned by every endpoint.
type Response struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// SuccessResponse wraps data in the envelope with an optional message.
func SuccessResponse(data any, message string) Response {
	return Response{Success: true, Message: message, Data: data}
}

// ErrorResponse wraps a failure message and optional per-field errors.
func ErrorResponse(message string, errs ...string) Response {
	return Response{Success: false, Message: message, Errors: errs}
}
