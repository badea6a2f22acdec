package dto

// ErrorResponseDTO is the common error body for JSON responses.
type ErrorResponseDTO struct {
	Error string `json:"error" example:"view_not_found"`
}

// MessageResponseDTO is a plain message body.
type MessageResponseDTO struct {
	Message string `json:"message" example:"view closed"`
}

// FormErrorDTO lists the inline messages of a failed form validation.
type FormErrorDTO struct {
	Errors []string `json:"errors"`
}
