package errors

import "net/http"

// Code is the stable, client-visible identifier of a failure class.
type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodeRateLimit     Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeDependency    Code = "DEPENDENCY_ERROR"

	// checkout preconditions
	CodeNotAuthenticated Code = "NOT_AUTHENTICATED"
	CodeNoPaymentMethod  Code = "NO_PAYMENT_METHOD"
	CodeEmptyCart        Code = "EMPTY_CART"

	// client-side synchronizer
	CodeInFlight Code = "IN_FLIGHT"
	CodeTimeout  Code = "TIMEOUT"
)

// Metadata drives how a Code is rendered over HTTP. When ExposeMessage is
// set the error's own message replaces PublicMessage.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
	ExposeMessage  bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:    {HTTPStatus: http.StatusBadRequest, PublicMessage: "validation failed", DetailsAllowed: true, ExposeMessage: true},
	CodeUnauthorized:  {HTTPStatus: http.StatusUnauthorized, PublicMessage: "authentication required", ExposeMessage: true},
	CodeForbidden:     {HTTPStatus: http.StatusForbidden, PublicMessage: "access denied", ExposeMessage: true},
	CodeNotFound:      {HTTPStatus: http.StatusNotFound, PublicMessage: "resource not found", ExposeMessage: true},
	CodeConflict:      {HTTPStatus: http.StatusConflict, PublicMessage: "conflict detected", ExposeMessage: true},
	CodeStateConflict: {HTTPStatus: http.StatusUnprocessableEntity, PublicMessage: "state transition disallowed", DetailsAllowed: true, ExposeMessage: true},
	CodeRateLimit:     {HTTPStatus: http.StatusTooManyRequests, PublicMessage: "rate limit exceeded", DetailsAllowed: true, ExposeMessage: true},
	CodeInternal:      {HTTPStatus: http.StatusInternalServerError, Retryable: true, PublicMessage: "internal server error"},
	CodeDependency:    {HTTPStatus: http.StatusServiceUnavailable, Retryable: true, PublicMessage: "dependency unavailable", DetailsAllowed: true},

	CodeNotAuthenticated: {HTTPStatus: http.StatusUnauthorized, PublicMessage: "sign in to place an order", ExposeMessage: true},
	CodeNoPaymentMethod:  {HTTPStatus: http.StatusBadRequest, PublicMessage: "add a payment method to your profile to place an order", ExposeMessage: true},
	CodeEmptyCart:        {HTTPStatus: http.StatusBadRequest, PublicMessage: "cart is empty", ExposeMessage: true},

	CodeInFlight: {HTTPStatus: http.StatusConflict, Retryable: true, PublicMessage: "an update for this item is already in progress", DetailsAllowed: true},
	CodeTimeout:  {HTTPStatus: http.StatusGatewayTimeout, Retryable: true, PublicMessage: "request timed out"},
}

// MetadataFor falls back to CodeInternal for unknown codes.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// statusCodes resolves statuses shared by several codes to the generic one.
var statusCodes = map[int]Code{
	http.StatusBadRequest:          CodeValidation,
	http.StatusUnauthorized:        CodeUnauthorized,
	http.StatusForbidden:           CodeForbidden,
	http.StatusNotFound:            CodeNotFound,
	http.StatusConflict:            CodeConflict,
	http.StatusUnprocessableEntity: CodeStateConflict,
	http.StatusTooManyRequests:     CodeRateLimit,
	http.StatusRequestTimeout:      CodeTimeout,
	http.StatusGatewayTimeout:      CodeTimeout,
	http.StatusBadGateway:          CodeDependency,
	http.StatusServiceUnavailable:  CodeDependency,
}

// CodeForStatus maps an HTTP status received from a peer back onto a Code.
// Used when a response carries no error envelope.
func CodeForStatus(status int) Code {
	if code, ok := statusCodes[status]; ok {
		return code
	}
	return CodeInternal
}
