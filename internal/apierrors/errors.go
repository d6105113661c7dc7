package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure classes every remote call and workflow step resolves to. Handlers
// translate these to HTTP status codes; nothing above the route boundary
// inspects raw upstream responses.
var (
	// ErrValidation: bad or missing caller input.
	ErrValidation = errors.New("validation error")

	// ErrConfig: required configuration absent (operator-fixable).
	ErrConfig = errors.New("configuration error")

	// ErrUpstreamAuth: the remote platform rejected our credentials.
	ErrUpstreamAuth = errors.New("upstream authentication failed")

	// ErrUpstreamUnavailable: network failure, timeout or 5xx from the
	// remote platform. Retry-safe for idempotent reads only.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrNotFound: remote or local entity absent.
	ErrNotFound = errors.New("not found")
)

// Workflow step labels carried by PartialFailureError.
const (
	StepResolveInventoryItem = "resolve_inventory_item"
	StepInventorySet         = "inventory_set"
	StepLocalPersist         = "local_persist"
)

// PartialFailureError reports that a price/stock update failed after the
// remote price mutation had already taken effect. The step label is part of
// the API contract: callers need it to decide between retrying the whole
// operation and manually reconciling remote state.
type PartialFailureError struct {
	Step string
	Err  error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("price updated remotely but step %s failed: %v", e.Step, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps a taxonomy error to the status code the route boundary
// responds with.
func HTTPStatus(err error) int {
	var partial *PartialFailureError
	switch {
	case errors.As(err, &partial):
		return http.StatusInternalServerError
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConfig),
		errors.Is(err, ErrUpstreamAuth),
		errors.Is(err, ErrUpstreamUnavailable):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
