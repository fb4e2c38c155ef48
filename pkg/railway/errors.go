package railway

import "fmt"

// APIError is a failure reported by the Railway control plane itself: the
// GraphQL response carried a non-empty errors array. The first error's
// message is surfaced.
type APIError struct {
	Operation string
	Message   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("railway api error (%s): %s", e.Operation, e.Message)
}

// NotFoundError indicates a resource the caller asked for does not exist,
// e.g. a project with no environments at all.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("railway %s not found: %s", e.Resource, e.ID)
}

// ResourceNotReadyError indicates retries were exhausted while waiting for
// an asynchronously created resource to become queryable.
type ResourceNotReadyError struct {
	Resource string
	Attempts int
}

func (e *ResourceNotReadyError) Error() string {
	return fmt.Sprintf("railway %s not ready after %d attempts", e.Resource, e.Attempts)
}

// WaitTimeoutError is the typed timeout outcome of a readiness poll. It is
// distinct from APIError so callers can treat "still provisioning"
// differently from "provisioning failed".
type WaitTimeoutError struct {
	Resource   string
	Elapsed    string
	LastStatus string
}

func (e *WaitTimeoutError) Error() string {
	if e.LastStatus != "" {
		return fmt.Sprintf("timed out after %s waiting for %s (last status %s)", e.Elapsed, e.Resource, e.LastStatus)
	}
	return fmt.Sprintf("timed out after %s waiting for %s", e.Elapsed, e.Resource)
}
