package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure kinds. They are terminal and never collapsed into one another.
var (
	ErrInventoryRejected    = errors.New("inventory rejected")
	ErrInventoryUnavailable = errors.New("inventory unavailable")
	ErrPaymentRejected      = errors.New("payment rejected")
	ErrPaymentTimeout       = errors.New("payment timeout")
	ErrPaymentUnavailable   = errors.New("payment unavailable")
)

// StepError is a classified downstream failure. It matches its kind and
// its cause with errors.Is.
type StepError struct {
	Kind error
	// StatusCode is the collaborator's HTTP status for rejections, 0 otherwise.
	StatusCode int
	Err        error
}

func NewStepError(kind error, statusCode int, cause error) *StepError {
	return &StepError{Kind: kind, StatusCode: statusCode, Err: cause}
}

func (e *StepError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%v: status %d", e.Kind, e.StatusCode)
	default:
		return e.Kind.Error()
	}
}

func (e *StepError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Kind returns a stable classification string for err.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInventoryRejected):
		return "inventory_rejected"
	case errors.Is(err, ErrInventoryUnavailable):
		return "inventory_unavailable"
	case errors.Is(err, ErrPaymentRejected):
		return "payment_rejected"
	case errors.Is(err, ErrPaymentTimeout):
		return "payment_timeout"
	case errors.Is(err, ErrPaymentUnavailable):
		return "payment_unavailable"
	default:
		return "internal"
	}
}

// HTTPStatus returns the status the caller sees for err. Rejections pass
// the collaborator's error status through.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInventoryRejected), errors.Is(err, ErrPaymentRejected):
		if code := rejectedStatus(err); code >= http.StatusBadRequest {
			return code
		}
		return http.StatusBadGateway
	case errors.Is(err, ErrInventoryUnavailable), errors.Is(err, ErrPaymentUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, ErrPaymentTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Detail returns the caller-facing message for err.
func Detail(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInventoryRejected):
		return "Inventory check failed"
	case errors.Is(err, ErrInventoryUnavailable):
		return "Inventory service unavailable"
	case errors.Is(err, ErrPaymentRejected):
		return "Payment processing failed"
	case errors.Is(err, ErrPaymentTimeout):
		return "Payment service timeout"
	case errors.Is(err, ErrPaymentUnavailable):
		return "Payment service unavailable"
	default:
		return "Internal error"
	}
}

func rejectedStatus(err error) int {
	var se *StepError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
