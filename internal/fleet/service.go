package fleet

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sonyho2715/wealthpro-cloud/internal/domain/tenant"
	"github.com/sonyho2715/wealthpro-cloud/pkg/railway"
	"github.com/sonyho2715/wealthpro-cloud/pkg/vercel"
)

// HostingAPI is the slice of the Vercel client fleet operations use.
// Satisfied by *vercel.Client.
type HostingAPI interface {
	ListProjects(ctx context.Context, limit int) ([]vercel.Project, error)
	GetProject(ctx context.Context, idOrName string) (*vercel.Project, error)
	DeleteProject(ctx context.Context, idOrName string) error
	GetEnvironmentVariables(ctx context.Context, projectID string) ([]vercel.EnvVar, error)
	AddEnvironmentVariables(ctx context.Context, projectID string, vars []vercel.EnvVar) ([]vercel.EnvVar, error)
	DeleteEnvironmentVariable(ctx context.Context, projectID, envID string) error
	ListDeployments(ctx context.Context, projectID string, limit int) ([]vercel.Deployment, error)
	GetDomains(ctx context.Context, projectID string) ([]vercel.Domain, error)
	CurrentUser(ctx context.Context) (*vercel.User, error)
}

// DatabaseAPI is the slice of the Railway client fleet operations use,
// only for pre-flight checks. Satisfied by *railway.Client.
type DatabaseAPI interface {
	Me(ctx context.Context) (*railway.Account, error)
}

var (
	_ HostingAPI  = (*vercel.Client)(nil)
	_ DatabaseAPI = (*railway.Client)(nil)
)

// Service operates on the set of all previously provisioned tenant
// hosting projects, identified purely by the shared name prefix. There is
// no separate inventory store: the hosting platform's own project listing
// is the source of truth.
type Service struct {
	hosting   HostingAPI
	db        DatabaseAPI
	listLimit int
	logger    *zap.Logger
}

func New(hosting HostingAPI, db DatabaseAPI, listLimit int, logger *zap.Logger) *Service {
	if listLimit <= 0 {
		listLimit = 100
	}
	return &Service{
		hosting:   hosting,
		db:        db,
		listLimit: listLimit,
		logger:    logger.Named("fleet"),
	}
}

// List enumerates tenant hosting projects, newest first.
func (s *Service) List(ctx context.Context) ([]vercel.Project, error) {
	projects, err := s.hosting.ListProjects(ctx, s.listLimit)
	if err != nil {
		return nil, fmt.Errorf("list hosting projects: %w", err)
	}

	prefix := tenant.ProjectPrefix + "-"
	fleet := make([]vercel.Project, 0, len(projects))
	for _, p := range projects {
		if strings.HasPrefix(p.Name, prefix) {
			fleet = append(fleet, p)
		}
	}
	sort.Slice(fleet, func(i, j int) bool { return fleet[i].CreatedAt > fleet[j].CreatedAt })
	return fleet, nil
}

// ProjectInfo is the detailed status view for one tenant project.
// Variable values are never included, only names.
type ProjectInfo struct {
	Project          *vercel.Project
	LatestDeployment *vercel.Deployment
	Domains          []vercel.Domain
	VariableNames    []string
}

// Info fetches a project, its most recent deployment, its domains, and
// its environment variable names.
func (s *Service) Info(ctx context.Context, projectName string) (*ProjectInfo, error) {
	project, err := s.hosting.GetProject(ctx, projectName)
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", projectName, err)
	}

	info := &ProjectInfo{Project: project}

	deployments, err := s.hosting.ListDeployments(ctx, project.ID, 1)
	if err != nil {
		return nil, fmt.Errorf("list deployments for %s: %w", projectName, err)
	}
	if len(deployments) > 0 {
		info.LatestDeployment = &deployments[0]
	}

	domains, err := s.hosting.GetDomains(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("list domains for %s: %w", projectName, err)
	}
	info.Domains = domains

	envs, err := s.hosting.GetEnvironmentVariables(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("list environment variables for %s: %w", projectName, err)
	}
	for _, env := range envs {
		info.VariableNames = append(info.VariableNames, env.Key)
	}
	sort.Strings(info.VariableNames)

	return info, nil
}

// Delete removes the hosting project only. The sibling database project
// is deliberately left alone: the two platforms share no transaction, and
// cross-deleting on a typo'd name is too dangerous. Confirmation is the
// CLI's responsibility.
func (s *Service) Delete(ctx context.Context, projectName string) error {
	if err := s.hosting.DeleteProject(ctx, projectName); err != nil {
		return fmt.Errorf("delete project %s: %w", projectName, err)
	}
	s.logger.Info("project_deleted", zap.String("project", projectName))
	return nil
}

// VerifyReport carries the independent outcome of each platform's
// pre-flight check.
type VerifyReport struct {
	HostingOK   bool
	HostingUser string
	HostingErr  error

	DatabaseOK      bool
	DatabaseAccount string
	DatabaseErr     error
}

// Verify independently checks liveness and authentication of both
// platform clients. One platform's failure never masks the other's
// outcome.
func (s *Service) Verify(ctx context.Context) VerifyReport {
	var report VerifyReport

	if user, err := s.hosting.CurrentUser(ctx); err != nil {
		report.HostingErr = err
	} else {
		report.HostingOK = true
		report.HostingUser = user.Username
		if report.HostingUser == "" {
			report.HostingUser = user.Email
		}
	}

	if s.db == nil {
		report.DatabaseErr = fmt.Errorf("database platform client not configured")
		return report
	}
	if account, err := s.db.Me(ctx); err != nil {
		report.DatabaseErr = err
	} else {
		report.DatabaseOK = true
		report.DatabaseAccount = account.Email
	}

	return report
}
