package dto

// WebhookPayload is the JSON document sealed inside a webhook envelope.
// Payload holds newline-delimited bank lines.
type WebhookPayload struct {
	Payload   string `json:"payload"`
	AccountID string `json:"account_id"`
}

// WebhookAck is the plaintext sealed into the response envelope.
type WebhookAck struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}
