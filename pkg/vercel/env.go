package vercel

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Variable targets. Every write carries the full target set; the platform
// has no partial-patch semantics worth relying on.
const (
	TargetProduction  = "production"
	TargetPreview     = "preview"
	TargetDevelopment = "development"
)

// Variable types.
const (
	TypePlain     = "plain"
	TypeEncrypted = "encrypted"
)

type EnvVar struct {
	ID     string   `json:"id,omitempty"`
	Key    string   `json:"key"`
	Value  string   `json:"value"`
	Target []string `json:"target"`
	Type   string   `json:"type"`
}

// AllTargets is the default scope set for provisioned configuration.
func AllTargets() []string {
	return []string{TargetProduction, TargetPreview, TargetDevelopment}
}

type addEnvResponse struct {
	Created []EnvVar `json:"created"`
}

// AddEnvironmentVariables bulk-creates variables on a project. The caller
// is responsible for deleting any existing variable with the same key
// first; the platform has no atomic upsert.
func (c *Client) AddEnvironmentVariables(ctx context.Context, projectID string, vars []EnvVar) ([]EnvVar, error) {
	path := fmt.Sprintf("/v10/projects/%s/env", url.PathEscape(projectID))

	var out addEnvResponse
	if err := c.doRequest(ctx, http.MethodPost, path, nil, vars, &out); err != nil {
		return nil, err
	}
	return out.Created, nil
}

type listEnvResponse struct {
	Envs []EnvVar `json:"envs"`
}

func (c *Client) GetEnvironmentVariables(ctx context.Context, projectID string) ([]EnvVar, error) {
	path := fmt.Sprintf("/v9/projects/%s/env", url.PathEscape(projectID))

	var out listEnvResponse
	if err := c.doRequest(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Envs, nil
}

type updateEnvRequest struct {
	Value  string   `json:"value"`
	Target []string `json:"target,omitempty"`
	Type   string   `json:"type,omitempty"`
}

func (c *Client) UpdateEnvironmentVariable(ctx context.Context, projectID, envID, value string, target []string, varType string) error {
	path := fmt.Sprintf("/v9/projects/%s/env/%s", url.PathEscape(projectID), url.PathEscape(envID))
	return c.doRequest(ctx, http.MethodPatch, path, nil, updateEnvRequest{Value: value, Target: target, Type: varType}, nil)
}

func (c *Client) DeleteEnvironmentVariable(ctx context.Context, projectID, envID string) error {
	path := fmt.Sprintf("/v9/projects/%s/env/%s", url.PathEscape(projectID), url.PathEscape(envID))
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil, nil)
}
