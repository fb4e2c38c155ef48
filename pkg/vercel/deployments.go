package vercel

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Deployment states. READY, ERROR and CANCELED are terminal.
const (
	StateQueued   = "QUEUED"
	StateBuilding = "BUILDING"
	StateReady    = "READY"
	StateError    = "ERROR"
	StateCanceled = "CANCELED"
)

type Deployment struct {
	ID        string `json:"uid"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	State     string `json:"state"`
	Target    string `json:"target,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

// Terminal reports whether no further state transition can occur.
func (d Deployment) Terminal() bool {
	switch d.State {
	case StateReady, StateError, StateCanceled:
		return true
	}
	return false
}

type GitSource struct {
	Type string `json:"type"`
	Repo string `json:"repo,omitempty"`
	Ref  string `json:"ref,omitempty"`
}

type createDeploymentRequest struct {
	Name      string     `json:"name"`
	Target    string     `json:"target,omitempty"`
	GitSource *GitSource `json:"gitSource,omitempty"`
}

// CreateDeployment triggers a new build for a project.
func (c *Client) CreateDeployment(ctx context.Context, projectName, target string, gitSource *GitSource) (*Deployment, error) {
	req := createDeploymentRequest{
		Name:      projectName,
		Target:    target,
		GitSource: gitSource,
	}

	var out Deployment
	if err := c.doRequest(ctx, http.MethodPost, "/v13/deployments", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetDeployment(ctx context.Context, deploymentID string) (*Deployment, error) {
	path := fmt.Sprintf("/v13/deployments/%s", url.PathEscape(deploymentID))

	var out struct {
		Deployment
		ReadyState string `json:"readyState"`
	}
	if err := c.doRequest(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	dep := out.Deployment
	if dep.State == "" {
		dep.State = out.ReadyState
	}
	return &dep, nil
}

type listDeploymentsResponse struct {
	Deployments []Deployment `json:"deployments"`
}

// ListDeployments returns a project's deployments, newest first.
func (c *Client) ListDeployments(ctx context.Context, projectID string, limit int) ([]Deployment, error) {
	query := url.Values{}
	query.Set("projectId", projectID)
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var out listDeploymentsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/v6/deployments", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Deployments, nil
}

// WaitForDeployment polls a deployment until it reaches READY, fails with
// a DeploymentFailedError on any other terminal state, or gives up with a
// DeploymentTimeoutError once the timeout elapses. Unlike the database
// platform's tolerant poll, a call failure here propagates immediately.
func (c *Client) WaitForDeployment(ctx context.Context, deploymentID string, timeout, pollInterval time.Duration) (*Deployment, error) {
	start := c.now()
	deadline := start.Add(timeout)
	lastState := ""

	for {
		if c.now().After(deadline) {
			return nil, &DeploymentTimeoutError{
				DeploymentID: deploymentID,
				Elapsed:      c.now().Sub(start).String(),
				LastState:    lastState,
			}
		}

		dep, err := c.GetDeployment(ctx, deploymentID)
		if err != nil {
			return nil, err
		}
		lastState = dep.State

		if dep.Terminal() {
			if dep.State == StateReady {
				return dep, nil
			}
			return nil, &DeploymentFailedError{DeploymentID: deploymentID, State: dep.State}
		}

		c.sleep(pollInterval)
	}
}
