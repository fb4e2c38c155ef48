package provisioning

import (
	"context"
	"time"

	"github.com/sonyho2715/wealthpro-cloud/pkg/railway"
	"github.com/sonyho2715/wealthpro-cloud/pkg/vercel"
)

// DatabasePlatform is the slice of the Railway client the orchestrator
// drives. Satisfied by *railway.Client.
type DatabasePlatform interface {
	CreateProject(ctx context.Context, name, description string) (string, error)
	ProductionEnvironmentID(ctx context.Context, projectID string) (string, error)
	CreateDatabaseService(ctx context.Context, projectID, environmentID string) (string, error)
	WaitForServiceDeployment(ctx context.Context, serviceID, environmentID string, timeout, pollInterval time.Duration) error
	DatabaseURL(ctx context.Context, projectID, environmentID, serviceID string, maxRetries int, retryDelay time.Duration) (string, error)
	PublicDatabaseURL(ctx context.Context, projectID, environmentID, serviceID string, maxRetries int, retryDelay time.Duration) (string, error)
}

// HostingPlatform is the slice of the Vercel client the orchestrator
// drives. Satisfied by *vercel.Client.
type HostingPlatform interface {
	CreateProject(ctx context.Context, name, templateRepository, framework string) (*vercel.Project, error)
	AddEnvironmentVariables(ctx context.Context, projectID string, vars []vercel.EnvVar) ([]vercel.EnvVar, error)
	AddDomain(ctx context.Context, projectID, domain string) (*vercel.Domain, error)
	ListDeployments(ctx context.Context, projectID string, limit int) ([]vercel.Deployment, error)
	WaitForDeployment(ctx context.Context, deploymentID string, timeout, pollInterval time.Duration) (*vercel.Deployment, error)
}

// Compile-time checks so a drifting client signature fails the build
// rather than a test.
var (
	_ DatabasePlatform = (*railway.Client)(nil)
	_ HostingPlatform  = (*vercel.Client)(nil)
)
