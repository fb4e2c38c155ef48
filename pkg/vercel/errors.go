package vercel

import "fmt"

// APIError is a non-2xx response from the Vercel control plane, carrying
// the platform's own error message when one was decodable.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("vercel api error (%d %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("vercel api error (%d): %s", e.Status, e.Message)
}

// DeploymentFailedError means a deployment reached a terminal state other
// than READY.
type DeploymentFailedError struct {
	DeploymentID string
	State        string
}

func (e *DeploymentFailedError) Error() string {
	return fmt.Sprintf("deployment %s ended in state %s", e.DeploymentID, e.State)
}

// DeploymentTimeoutError means the readiness poll gave up before the
// deployment reached a terminal state. The deployment stays in whatever
// state the platform last reported.
type DeploymentTimeoutError struct {
	DeploymentID string
	Elapsed      string
	LastState    string
}

func (e *DeploymentTimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for deployment %s (last state %s)", e.Elapsed, e.DeploymentID, e.LastState)
}
