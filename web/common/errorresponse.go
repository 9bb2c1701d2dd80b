package common

// ErrorResponse is the error envelope every failing endpoint returns.
// Message holds either a taxonomy code (AlreadyTaken, NotFound, DBError)
// or a human-readable validation message.
type ErrorResponse struct {
	Message string `json:"message"`
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		Message: message,
	}
}
