package vercel

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Project is a hosting project bound to a template repository.
type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Framework string `json:"framework"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`

	Link *ProjectLink `json:"link,omitempty"`

	LatestDeployments []Deployment `json:"latestDeployments,omitempty"`
}

type ProjectLink struct {
	Type string `json:"type"`
	Repo string `json:"repo"`
	Org  string `json:"org"`
}

type createProjectRequest struct {
	Name          string             `json:"name"`
	Framework     string             `json:"framework,omitempty"`
	GitRepository *gitRepositorySpec `json:"gitRepository,omitempty"`
}

type gitRepositorySpec struct {
	Type string `json:"type"`
	Repo string `json:"repo"`
}

// CreateProject creates a hosting project bound to the given template
// repository ("owner/repo"). Creation implicitly triggers a first
// deployment from the repository's default branch.
func (c *Client) CreateProject(ctx context.Context, name, templateRepository, framework string) (*Project, error) {
	req := createProjectRequest{
		Name:      name,
		Framework: framework,
	}
	if templateRepository != "" {
		req.GitRepository = &gitRepositorySpec{Type: "github", Repo: templateRepository}
	}

	var project Project
	if err := c.doRequest(ctx, http.MethodPost, "/v10/projects", nil, req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// GetProject fetches a project by id or name.
func (c *Client) GetProject(ctx context.Context, idOrName string) (*Project, error) {
	var project Project
	path := fmt.Sprintf("/v9/projects/%s", url.PathEscape(idOrName))
	if err := c.doRequest(ctx, http.MethodGet, path, nil, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

type listProjectsResponse struct {
	Projects []Project `json:"projects"`
}

// ListProjects returns up to limit projects, newest first. This is the
// basis for fleet-wide enumeration by name prefix.
func (c *Client) ListProjects(ctx context.Context, limit int) ([]Project, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var out listProjectsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/v10/projects", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

// DeleteProject removes a hosting project and everything attached to it.
func (c *Client) DeleteProject(ctx context.Context, idOrName string) error {
	path := fmt.Sprintf("/v9/projects/%s", url.PathEscape(idOrName))
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil, nil)
}
