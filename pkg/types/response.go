package types

// Envelope wraps every successful payload as {"data": ...}.
type Envelope[T any] struct {
	Data T `json:"data"`
}

// SuccessEnvelope is the untyped envelope written by the API.
type SuccessEnvelope = Envelope[any]

// APIError is the public body of a failed request. RequestID echoes the
// X-Request-Id response header so callers can quote it to support.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
