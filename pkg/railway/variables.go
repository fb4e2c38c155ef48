package railway

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

const variablesQuery = `
query variables($projectId: String!, $environmentId: String!, $serviceId: String!) {
  variables(projectId: $projectId, environmentId: $environmentId, serviceId: $serviceId)
}`

// Variables returns the service's variable map for one environment.
func (c *Client) Variables(ctx context.Context, projectID, environmentID, serviceID string) (map[string]string, error) {
	var out struct {
		Variables map[string]string `json:"variables"`
	}
	err := c.doQuery(ctx, "variables", variablesQuery, map[string]interface{}{
		"projectId":     projectID,
		"environmentId": environmentID,
		"serviceId":     serviceID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Variables, nil
}

// DatabaseURL resolves the private-network connection string for a
// provisioned database service. Variables are not guaranteed to be
// readable immediately after the deployment reports success, so the read
// retries up to maxRetries times with a fixed delay before giving up with
// a ResourceNotReadyError.
func (c *Client) DatabaseURL(ctx context.Context, projectID, environmentID, serviceID string, maxRetries int, retryDelay time.Duration) (string, error) {
	return c.resolveURL(ctx, projectID, environmentID, serviceID, maxRetries, retryDelay, false)
}

// PublicDatabaseURL resolves the externally routable counterpart, built
// from the TCP proxy's domain and port.
func (c *Client) PublicDatabaseURL(ctx context.Context, projectID, environmentID, serviceID string, maxRetries int, retryDelay time.Duration) (string, error) {
	return c.resolveURL(ctx, projectID, environmentID, serviceID, maxRetries, retryDelay, true)
}

func (c *Client) resolveURL(ctx context.Context, projectID, environmentID, serviceID string, maxRetries int, retryDelay time.Duration, public bool) (string, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			c.sleep(retryDelay)
		}

		vars, err := c.Variables(ctx, projectID, environmentID, serviceID)
		if err != nil {
			lastErr = err
			continue
		}
		if u := connectionURLFrom(vars, public); u != "" {
			return u, nil
		}
	}

	name := "database url"
	if public {
		name = "public database url"
	}
	if lastErr != nil {
		return "", fmt.Errorf("%w: last error: %v", &ResourceNotReadyError{Resource: name, Attempts: maxRetries}, lastErr)
	}
	return "", &ResourceNotReadyError{Resource: name, Attempts: maxRetries}
}

// connectionURLFrom builds a connection string from the variable map.
// Resolution order: primary credentials plus a platform routing host, then
// a pre-built URL variable, then legacy discrete host variables.
func connectionURLFrom(vars map[string]string, public bool) string {
	user := vars["PGUSER"]
	if user == "" {
		user = vars["POSTGRES_USER"]
	}
	password := vars["PGPASSWORD"]
	if password == "" {
		password = vars["POSTGRES_PASSWORD"]
	}
	database := vars["PGDATABASE"]
	if database == "" {
		database = vars["POSTGRES_DB"]
	}

	if user != "" && password != "" && database != "" {
		if public {
			host := vars["RAILWAY_TCP_PROXY_DOMAIN"]
			port := vars["RAILWAY_TCP_PROXY_PORT"]
			if host != "" && port != "" {
				return buildPostgresURL(user, password, host, port, database)
			}
		} else {
			host := vars["RAILWAY_PRIVATE_DOMAIN"]
			if host != "" {
				return buildPostgresURL(user, password, host, fmt.Sprintf("%d", postgresPort), database)
			}
		}
	}

	if public {
		if u := vars["DATABASE_PUBLIC_URL"]; u != "" {
			return u
		}
	} else if u := vars["DATABASE_URL"]; u != "" {
		return u
	}

	// Legacy services expose discrete host variables instead.
	host := vars["PGHOST"]
	port := vars["PGPORT"]
	if port == "" {
		port = fmt.Sprintf("%d", postgresPort)
	}
	if host != "" && user != "" && password != "" && database != "" {
		return buildPostgresURL(user, password, host, port, database)
	}

	return ""
}

func buildPostgresURL(user, password, host, port, database string) string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		url.QueryEscape(user), url.QueryEscape(password), host, port, database)
}
