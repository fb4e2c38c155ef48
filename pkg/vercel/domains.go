package vercel

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type Domain struct {
	Name         string               `json:"name"`
	ApexName     string               `json:"apexName,omitempty"`
	Verified     bool                 `json:"verified"`
	Redirect     string               `json:"redirect,omitempty"`
	GitBranch    string               `json:"gitBranch,omitempty"`
	CreatedAt    int64                `json:"createdAt,omitempty"`
	UpdatedAt    int64                `json:"updatedAt,omitempty"`
	ProjectID    string               `json:"projectId,omitempty"`
	Verification []DomainVerification `json:"verification,omitempty"`
}

type DomainVerification struct {
	Type   string `json:"type"`
	Domain string `json:"domain"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

type addDomainRequest struct {
	Name string `json:"name"`
}

// AddDomain attaches a custom domain to a project. DNS ownership
// verification happens asynchronously on the platform; an unverified
// domain is not an error here.
func (c *Client) AddDomain(ctx context.Context, projectID, domain string) (*Domain, error) {
	path := fmt.Sprintf("/v10/projects/%s/domains", url.PathEscape(projectID))

	var out Domain
	if err := c.doRequest(ctx, http.MethodPost, path, nil, addDomainRequest{Name: domain}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type listDomainsResponse struct {
	Domains []Domain `json:"domains"`
}

func (c *Client) GetDomains(ctx context.Context, projectID string) ([]Domain, error) {
	path := fmt.Sprintf("/v9/projects/%s/domains", url.PathEscape(projectID))

	var out listDomainsResponse
	if err := c.doRequest(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Domains, nil
}

func (c *Client) RemoveDomain(ctx context.Context, projectID, domain string) error {
	path := fmt.Sprintf("/v9/projects/%s/domains/%s", url.PathEscape(projectID), url.PathEscape(domain))
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil, nil)
}
