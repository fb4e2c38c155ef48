package railway

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	postgresImage = "ghcr.io/railwayapp-templates/postgres-ssl:16"
	postgresPort  = 5432
)

const serviceCreateMutation = `
mutation serviceCreate($input: ServiceCreateInput!) {
  serviceCreate(input: $input) {
    id
    name
  }
}`

const serviceInstanceUpdateMutation = `
mutation serviceInstanceUpdate($serviceId: String!, $environmentId: String!, $input: ServiceInstanceUpdateInput!) {
  serviceInstanceUpdate(serviceId: $serviceId, environmentId: $environmentId, input: $input)
}`

const variableCollectionUpsertMutation = `
mutation variableCollectionUpsert($input: VariableCollectionUpsertInput!) {
  variableCollectionUpsert(input: $input)
}`

const serviceInstanceRedeployMutation = `
mutation serviceInstanceRedeploy($serviceId: String!, $environmentId: String!) {
  serviceInstanceRedeploy(serviceId: $serviceId, environmentId: $environmentId)
}`

const tcpProxyCreateMutation = `
mutation tcpProxyCreate($input: TCPProxyCreateInput!) {
  tcpProxyCreate(input: $input) {
    id
    domain
    proxyPort
  }
}`

// CreateDatabaseService provisions a Postgres service inside the given
// project and environment: create the service record, bind it to the
// database image, seed credential variables, redeploy, then expose the
// database port through a TCP proxy. Any platform error aborts the
// sequence immediately.
//
// The password is generated locally with crypto/rand and is never logged.
func (c *Client) CreateDatabaseService(ctx context.Context, projectID, environmentID string) (string, error) {
	var created struct {
		ServiceCreate struct {
			ID string `json:"id"`
		} `json:"serviceCreate"`
	}
	err := c.doQuery(ctx, "serviceCreate", serviceCreateMutation, map[string]interface{}{
		"input": map[string]interface{}{
			"projectId": projectID,
			"name":      "postgres",
		},
	}, &created)
	if err != nil {
		return "", err
	}
	serviceID := created.ServiceCreate.ID

	err = c.doQuery(ctx, "serviceInstanceUpdate", serviceInstanceUpdateMutation, map[string]interface{}{
		"serviceId":     serviceID,
		"environmentId": environmentID,
		"input": map[string]interface{}{
			"source": map[string]interface{}{"image": postgresImage},
		},
	}, nil)
	if err != nil {
		return "", err
	}

	password, err := generatePassword()
	if err != nil {
		return "", fmt.Errorf("generate database password: %w", err)
	}
	err = c.doQuery(ctx, "variableCollectionUpsert", variableCollectionUpsertMutation, map[string]interface{}{
		"input": map[string]interface{}{
			"projectId":     projectID,
			"environmentId": environmentID,
			"serviceId":     serviceID,
			"variables": map[string]string{
				"PGUSER":            "postgres",
				"PGPASSWORD":        password,
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": password,
				"POSTGRES_DB":       "railway",
				"PGDATABASE":        "railway",
				"PGPORT":            fmt.Sprintf("%d", postgresPort),
			},
		},
	}, nil)
	if err != nil {
		return "", err
	}

	err = c.doQuery(ctx, "serviceInstanceRedeploy", serviceInstanceRedeployMutation, map[string]interface{}{
		"serviceId":     serviceID,
		"environmentId": environmentID,
	}, nil)
	if err != nil {
		return "", err
	}

	err = c.doQuery(ctx, "tcpProxyCreate", tcpProxyCreateMutation, map[string]interface{}{
		"input": map[string]interface{}{
			"environmentId":   environmentID,
			"serviceId":       serviceID,
			"applicationPort": postgresPort,
		},
	}, nil)
	if err != nil {
		return "", err
	}

	return serviceID, nil
}

const latestDeploymentQuery = `
query deployments($input: DeploymentListInput!) {
  deployments(input: $input, first: 1) {
    edges {
      node {
        id
        status
      }
    }
  }
}`

// WaitForServiceDeployment polls the service's most recent deployment at a
// fixed interval until it reports SUCCESS or the timeout elapses. Transient
// call errors during polling are treated as "not yet ready" rather than
// aborting the poll; variables may simply not exist yet that early.
func (c *Client) WaitForServiceDeployment(ctx context.Context, serviceID, environmentID string, timeout, pollInterval time.Duration) error {
	start := c.now()
	deadline := start.Add(timeout)
	lastStatus := ""

	for {
		if c.now().After(deadline) {
			return &WaitTimeoutError{
				Resource:   "database service deployment",
				Elapsed:    c.now().Sub(start).String(),
				LastStatus: lastStatus,
			}
		}

		status, err := c.latestDeploymentStatus(ctx, serviceID, environmentID)
		if err == nil {
			lastStatus = status
			if status == "SUCCESS" {
				return nil
			}
			if status == "FAILED" || status == "CRASHED" {
				return &APIError{Operation: "deployments", Message: fmt.Sprintf("service deployment ended in %s", status)}
			}
		}

		c.sleep(pollInterval)
	}
}

func (c *Client) latestDeploymentStatus(ctx context.Context, serviceID, environmentID string) (string, error) {
	var out struct {
		Deployments struct {
			Edges []struct {
				Node struct {
					ID     string `json:"id"`
					Status string `json:"status"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"deployments"`
	}
	err := c.doQuery(ctx, "deployments", latestDeploymentQuery, map[string]interface{}{
		"input": map[string]interface{}{
			"serviceId":     serviceID,
			"environmentId": environmentID,
		},
	}, &out)
	if err != nil {
		return "", err
	}
	if len(out.Deployments.Edges) == 0 {
		return "", &NotFoundError{Resource: "deployment", ID: serviceID}
	}
	return out.Deployments.Edges[0].Node.Status, nil
}

func generatePassword() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
