// Package types holds the JSON envelopes shared by the API and its client.
package types

// SuccessEnvelope wraps a 2xx body as {"data": ...}.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// DataEnvelope is the typed decode target for a SuccessEnvelope.
type DataEnvelope[T any] struct {
	Data T `json:"data"`
}

// APIError is what a client sees of a failure. Details is only set for codes
// that allow it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps a failed response as {"error": {...}}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Coded reports whether the envelope names an error code; proxies and load
// balancers answer without one.
func (e ErrorEnvelope) Coded() bool {
	return e.Error.Code != ""
}
