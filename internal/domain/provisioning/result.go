package provisioning

import (
	"github.com/sonyho2715/wealthpro-cloud/internal/domain/tenant"
	"github.com/sonyho2715/wealthpro-cloud/pkg/railway"
	"github.com/sonyho2715/wealthpro-cloud/pkg/vercel"
)

// Step identifies which stage of a provisioning run failed, so an
// operator can resume or clean up manually.
type Step string

const (
	StepValidate       Step = "validate"
	StepDatabase       Step = "database"
	StepHostingProject Step = "hosting"
	StepEnvironment    Step = "environment"
	StepDomain         Step = "domain"
	StepDeployment     Step = "deployment"
)

// Result is produced exactly once per provisioning run. A failed run
// still carries whatever resources were actually created; the
// orchestrator never deletes resources it created before a later step
// failed.
type Result struct {
	RunID   string
	Success bool

	Tenant   tenant.Identity
	Database *railway.DatabaseInstance
	Hosting  *vercel.Project

	DeploymentURL   string
	CustomDomainURL string

	// DeploymentPending is set when the final readiness wait timed out:
	// the run still counts as successful and the operator should check
	// the deployment later.
	DeploymentPending bool

	FailureStep Step
	Err         error

	// Warnings collects failures of best-effort steps (domain
	// attachment, deployment wait) that do not abort the run.
	Warnings []string
}

// ErrorMessage renders the failure for operator output.
func (r *Result) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
