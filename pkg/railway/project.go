package railway

import (
	"context"
	"strings"
)

// DatabaseInstance describes one fully provisioned tenant database. The
// connection strings are discovered asynchronously and populated only
// after a successful readiness poll.
type DatabaseInstance struct {
	ProjectID     string
	ServiceID     string
	EnvironmentID string

	// InternalURL routes over the platform's private network; PublicURL
	// is reachable from outside via the TCP proxy.
	InternalURL string
	PublicURL   string
}

const projectCreateMutation = `
mutation projectCreate($input: ProjectCreateInput!) {
  projectCreate(input: $input) {
    id
    name
  }
}`

// CreateProject creates an empty Railway project scoped to the configured
// team, when one is set.
func (c *Client) CreateProject(ctx context.Context, name, description string) (string, error) {
	input := map[string]interface{}{
		"name":        name,
		"description": description,
	}
	if c.cfg.TeamID != "" {
		input["teamId"] = c.cfg.TeamID
	}

	var out struct {
		ProjectCreate struct {
			ID string `json:"id"`
		} `json:"projectCreate"`
	}
	if err := c.doQuery(ctx, "projectCreate", projectCreateMutation, map[string]interface{}{"input": input}, &out); err != nil {
		return "", err
	}
	return out.ProjectCreate.ID, nil
}

const projectDeleteMutation = `
mutation projectDelete($id: String!) {
  projectDelete(id: $id)
}`

// DeleteProject removes a project and everything inside it. Never called
// by the provisioning flow; exists for manual operator cleanup.
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	return c.doQuery(ctx, "projectDelete", projectDeleteMutation, map[string]interface{}{"id": projectID}, nil)
}

const projectEnvironmentsQuery = `
query environments($projectId: String!) {
  project(id: $projectId) {
    environments {
      edges {
        node {
          id
          name
        }
      }
    }
  }
}`

// ProductionEnvironmentID resolves the environment named "production"
// (case-insensitively), falling back to the first environment when no name
// matches. Projects always get a default environment at creation, so an
// empty list means the project id is wrong.
func (c *Client) ProductionEnvironmentID(ctx context.Context, projectID string) (string, error) {
	var out struct {
		Project struct {
			Environments struct {
				Edges []struct {
					Node struct {
						ID   string `json:"id"`
						Name string `json:"name"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"environments"`
		} `json:"project"`
	}
	if err := c.doQuery(ctx, "environments", projectEnvironmentsQuery, map[string]interface{}{"projectId": projectID}, &out); err != nil {
		return "", err
	}

	edges := out.Project.Environments.Edges
	if len(edges) == 0 {
		return "", &NotFoundError{Resource: "environment", ID: projectID}
	}
	for _, e := range edges {
		if strings.EqualFold(e.Node.Name, "production") {
			return e.Node.ID, nil
		}
	}
	return edges[0].Node.ID, nil
}
