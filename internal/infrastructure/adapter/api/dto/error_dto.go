package dto

// ErrorResponse is the standard error body: a stable numeric code for
// clients to branch on plus a human-readable message.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse builds an error body
func NewErrorResponse(code int, message string) ErrorResponse {
	return ErrorResponse{Code: code, Message: message}
}
