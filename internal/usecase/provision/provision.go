package provision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/sonyho2715/wealthpro-cloud/internal/config"
	"github.com/sonyho2715/wealthpro-cloud/internal/cryptoutils"
	"github.com/sonyho2715/wealthpro-cloud/internal/domain/provisioning"
	"github.com/sonyho2715/wealthpro-cloud/internal/domain/tenant"
	"github.com/sonyho2715/wealthpro-cloud/pkg/railway"
	"github.com/sonyho2715/wealthpro-cloud/pkg/vercel"
)

// Options bound the polling behaviour of one provisioning run.
type Options struct {
	DatabaseDeployTimeout time.Duration
	DatabasePollInterval  time.Duration

	VariableRetries    int
	VariableRetryDelay time.Duration

	DeployTimeout      time.Duration
	DeployPollInterval time.Duration
}

func DefaultOptions() Options {
	return Options{
		DatabaseDeployTimeout: 5 * time.Minute,
		DatabasePollInterval:  5 * time.Second,
		VariableRetries:       10,
		VariableRetryDelay:    5 * time.Second,
		DeployTimeout:         10 * time.Minute,
		DeployPollInterval:    10 * time.Second,
	}
}

// UseCase produces one fully configured tenant instance from an Identity,
// or a diagnosable partial failure. Stateless between runs; fleet
// membership is rediscovered by naming convention.
type UseCase struct {
	db      provisioning.DatabasePlatform
	hosting provisioning.HostingPlatform
	cfg     *config.Config
	opts    Options
	logger  *zap.Logger

	// out receives the operator-facing progress trace.
	out io.Writer
}

func New(db provisioning.DatabasePlatform, hosting provisioning.HostingPlatform, cfg *config.Config, opts Options, logger *zap.Logger) *UseCase {
	return &UseCase{
		db:      db,
		hosting: hosting,
		cfg:     cfg,
		opts:    opts,
		logger:  logger.Named("provision"),
		out:     os.Stdout,
	}
}

// SetOutput redirects the progress trace; tests pass io.Discard.
func (uc *UseCase) SetOutput(w io.Writer) { uc.out = w }

func (uc *UseCase) printf(format string, args ...interface{}) {
	fmt.Fprintf(uc.out, format+"\n", args...)
}

// Execute runs the full provisioning sequence. Steps are strictly
// ordered: each remote call's result gates the next step. Database and
// hosting-project creation hard-fail the run; domain attachment and the
// final deployment wait degrade to warnings because both commonly need
// time or manual DNS action outside our control.
func (uc *UseCase) Execute(ctx context.Context, id tenant.Identity) *provisioning.Result {
	result := &provisioning.Result{
		RunID:  ulid.Make().String(),
		Tenant: id,
	}
	logger := uc.logger.With(zap.String("run_id", result.RunID))

	fail := func(step provisioning.Step, err error) *provisioning.Result {
		result.FailureStep = step
		result.Err = err
		logger.Error("provisioning_failed",
			zap.String("step", string(step)),
			zap.Error(err),
		)
		return result
	}

	// Step 1: derive names, validate input before any remote call.
	if err := id.Validate(); err != nil {
		return fail(provisioning.StepValidate, err)
	}
	projectName := id.ProjectName()
	logger.Info("provisioning_started",
		zap.String("project", projectName),
		zap.String("tenant", id.Email),
	)
	uc.printf("Provisioning tenant %s as %s", id.Email, projectName)

	// Step 2: database platform, end to end. No hosting-side calls are
	// attempted when any part of this fails.
	database, err := uc.provisionDatabase(ctx, id, projectName)
	result.Database = database
	if err != nil {
		return fail(provisioning.StepDatabase, err)
	}
	uc.printf("  database ready (project %s)", database.ProjectID)

	// Step 3: hosting project bound to the template repository.
	uc.printf("Creating hosting project from %s", uc.cfg.TemplateRepository)
	project, err := uc.hosting.CreateProject(ctx, projectName, uc.cfg.TemplateRepository, uc.cfg.TemplateFramework)
	if err != nil {
		return fail(provisioning.StepHostingProject, err)
	}
	result.Hosting = project
	uc.printf("  hosting project %s created", project.ID)

	// Step 4: full required configuration, one bulk call. Every key the
	// template expects at boot must exist before the first deployment
	// can succeed.
	uc.printf("Injecting environment configuration")
	vars, err := uc.buildEnvironment(id, database)
	if err != nil {
		return fail(provisioning.StepEnvironment, err)
	}
	if _, err := uc.hosting.AddEnvironmentVariables(ctx, project.ID, vars); err != nil {
		return fail(provisioning.StepEnvironment, err)
	}

	// Step 5: custom domain, best effort. DNS propagation is outside the
	// platform's control, so a failure here must not abort already
	// paid-for resources.
	if domain := id.CustomDomain(uc.cfg.AppRootDomain); domain != "" {
		uc.printf("Attaching custom domain %s", domain)
		if _, err := uc.hosting.AddDomain(ctx, project.ID, domain); err != nil {
			warning := fmt.Sprintf("custom domain %s could not be attached: %v (may require manual DNS setup)", domain, err)
			result.Warnings = append(result.Warnings, warning)
			logger.Warn("domain_attach_failed", zap.String("domain", domain), zap.Error(err))
			uc.printf("  warning: %s", warning)
		} else {
			result.CustomDomainURL = uc.cfg.AppRootScheme + "://" + domain
		}
	}

	// Step 6: project creation implicitly triggered a deployment; wait
	// for it, but treat a timeout as "still in progress" rather than a
	// failed run.
	uc.waitForFirstDeployment(ctx, result, project, logger)

	result.Success = true
	logger.Info("provisioning_completed",
		zap.String("project", projectName),
		zap.Bool("deployment_pending", result.DeploymentPending),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result
}

func (uc *UseCase) provisionDatabase(ctx context.Context, id tenant.Identity, projectName string) (*railway.DatabaseInstance, error) {
	uc.printf("Creating database project %s", projectName)
	description := fmt.Sprintf("WealthPro tenant database for %s", id.Email)

	projectID, err := uc.db.CreateProject(ctx, projectName, description)
	if err != nil {
		return nil, fmt.Errorf("create database project: %w", err)
	}
	db := &railway.DatabaseInstance{ProjectID: projectID}

	environmentID, err := uc.db.ProductionEnvironmentID(ctx, projectID)
	if err != nil {
		return db, fmt.Errorf("resolve production environment: %w", err)
	}
	db.EnvironmentID = environmentID

	uc.printf("  creating postgres service")
	serviceID, err := uc.db.CreateDatabaseService(ctx, projectID, environmentID)
	if err != nil {
		return db, fmt.Errorf("create database service: %w", err)
	}
	db.ServiceID = serviceID

	uc.printf("  waiting for database deployment")
	err = uc.db.WaitForServiceDeployment(ctx, serviceID, environmentID, uc.opts.DatabaseDeployTimeout, uc.opts.DatabasePollInterval)
	if err != nil {
		return db, fmt.Errorf("database deployment: %w", err)
	}

	uc.printf("  resolving connection strings")
	internalURL, err := uc.db.DatabaseURL(ctx, projectID, environmentID, serviceID, uc.opts.VariableRetries, uc.opts.VariableRetryDelay)
	if err != nil {
		return db, fmt.Errorf("resolve internal database url: %w", err)
	}
	db.InternalURL = internalURL

	publicURL, err := uc.db.PublicDatabaseURL(ctx, projectID, environmentID, serviceID, uc.opts.VariableRetries, uc.opts.VariableRetryDelay)
	if err != nil {
		return db, fmt.Errorf("resolve public database url: %w", err)
	}
	db.PublicURL = publicURL

	return db, nil
}

// buildEnvironment assembles the fixed configuration contract the
// template application expects at boot.
func (uc *UseCase) buildEnvironment(id tenant.Identity, db *railway.DatabaseInstance) ([]vercel.EnvVar, error) {
	sessionSecret, err := cryptoutils.GenerateSessionSecret()
	if err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}

	appURL := ""
	if domain := id.CustomDomain(uc.cfg.AppRootDomain); domain != "" {
		appURL = uc.cfg.AppRootScheme + "://" + domain
	}

	vars := []vercel.EnvVar{
		// The hosting platform cannot reach the database platform's
		// private network, so the app gets the public route.
		{Key: "DATABASE_URL", Value: db.PublicURL, Target: vercel.AllTargets(), Type: vercel.TypeEncrypted},
		{Key: "SESSION_SECRET", Value: sessionSecret, Target: vercel.AllTargets(), Type: vercel.TypeEncrypted},
		{Key: "AGENT_EMAIL", Value: id.Email, Target: vercel.AllTargets(), Type: vercel.TypePlain},
		{Key: "AGENT_FIRST_NAME", Value: id.FirstName, Target: vercel.AllTargets(), Type: vercel.TypePlain},
		{Key: "AGENT_LAST_NAME", Value: id.LastName, Target: vercel.AllTargets(), Type: vercel.TypePlain},
		{Key: "BRAND_NAME", Value: id.BrandName, Target: vercel.AllTargets(), Type: vercel.TypePlain},
		{Key: "BRAND_COLOR", Value: id.BrandColor, Target: vercel.AllTargets(), Type: vercel.TypePlain},
	}
	if id.Phone != "" {
		vars = append(vars, vercel.EnvVar{Key: "AGENT_PHONE", Value: id.Phone, Target: vercel.AllTargets(), Type: vercel.TypePlain})
	}
	if appURL != "" {
		vars = append(vars, vercel.EnvVar{Key: "APP_URL", Value: appURL, Target: vercel.AllTargets(), Type: vercel.TypePlain})
	}
	return vars, nil
}

func (uc *UseCase) waitForFirstDeployment(ctx context.Context, result *provisioning.Result, project *vercel.Project, logger *zap.Logger) {
	uc.printf("Waiting for initial deployment")

	deployments, err := uc.hosting.ListDeployments(ctx, project.ID, 1)
	if err != nil || len(deployments) == 0 {
		result.DeploymentPending = true
		warning := "no deployment visible yet; check the hosting dashboard later"
		if err != nil {
			warning = fmt.Sprintf("could not list deployments: %v", err)
		}
		result.Warnings = append(result.Warnings, warning)
		uc.printf("  warning: %s", warning)
		return
	}

	dep, err := uc.hosting.WaitForDeployment(ctx, deployments[0].ID, uc.opts.DeployTimeout, uc.opts.DeployPollInterval)
	switch {
	case err == nil:
		result.DeploymentURL = "https://" + dep.URL
		uc.printf("  deployment ready: %s", result.DeploymentURL)

	case isDeploymentTimeout(err):
		result.DeploymentPending = true
		result.DeploymentURL = "https://" + deployments[0].URL
		warning := fmt.Sprintf("deployment still in progress after %s; check later at %s", uc.opts.DeployTimeout, result.DeploymentURL)
		result.Warnings = append(result.Warnings, warning)
		logger.Warn("deployment_wait_timeout", zap.String("deployment_id", deployments[0].ID))
		uc.printf("  warning: %s", warning)

	default:
		warning := fmt.Sprintf("initial deployment did not become ready: %v", err)
		result.Warnings = append(result.Warnings, warning)
		logger.Warn("deployment_wait_failed", zap.Error(err))
		uc.printf("  warning: %s", warning)
	}
}

func isDeploymentTimeout(err error) bool {
	var timeout *vercel.DeploymentTimeoutError
	return errors.As(err, &timeout)
}
