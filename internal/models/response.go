package models

// APIResponse is a generic API response wrapper
type APIResponse struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   message,
	}
}

// NewValidationErrorResponse creates a validation error response. The current
// view is sent along so the client can render the inline errors in place.
func NewValidationErrorResponse(errors map[string]string, data any) APIResponse {
	return APIResponse{
		Success: false,
		Data:    data,
		Error:   "Validation failed",
		Errors:  errors,
	}
}

// NewFailureResponse reports a failed action together with the resulting
// state.
func NewFailureResponse(message string, data any) APIResponse {
	return APIResponse{
		Success: false,
		Data:    data,
		Error:   message,
	}
}
