package fleet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sonyho2715/wealthpro-cloud/pkg/railway"
	"github.com/sonyho2715/wealthpro-cloud/pkg/vercel"
)

// fakeHosting is an in-memory hosting platform with per-project variable
// stores and optional per-project failure injection.
type fakeHosting struct {
	projects []vercel.Project
	envs     map[string][]vercel.EnvVar
	domains  map[string][]vercel.Domain
	deploys  map[string][]vercel.Deployment

	nextEnvID int

	failEnvWriteFor map[string]bool
	listErr         error
	userErr         error
}

func newFakeHosting(names ...string) *fakeHosting {
	f := &fakeHosting{
		envs:            map[string][]vercel.EnvVar{},
		domains:         map[string][]vercel.Domain{},
		deploys:         map[string][]vercel.Deployment{},
		failEnvWriteFor: map[string]bool{},
	}
	for i, name := range names {
		f.projects = append(f.projects, vercel.Project{
			ID:        fmt.Sprintf("prj_%d", i),
			Name:      name,
			CreatedAt: int64(1000 - i),
		})
	}
	return f
}

func (f *fakeHosting) projectByID(id string) *vercel.Project {
	for i := range f.projects {
		if f.projects[i].ID == id || f.projects[i].Name == id {
			return &f.projects[i]
		}
	}
	return nil
}

func (f *fakeHosting) ListProjects(ctx context.Context, limit int) ([]vercel.Project, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.projects, nil
}

func (f *fakeHosting) GetProject(ctx context.Context, idOrName string) (*vercel.Project, error) {
	if p := f.projectByID(idOrName); p != nil {
		return p, nil
	}
	return nil, &vercel.APIError{Status: 404, Code: "not_found", Message: "project not found"}
}

func (f *fakeHosting) DeleteProject(ctx context.Context, idOrName string) error {
	for i := range f.projects {
		if f.projects[i].Name == idOrName || f.projects[i].ID == idOrName {
			f.projects = append(f.projects[:i], f.projects[i+1:]...)
			return nil
		}
	}
	return &vercel.APIError{Status: 404, Code: "not_found", Message: "project not found"}
}

func (f *fakeHosting) GetEnvironmentVariables(ctx context.Context, projectID string) ([]vercel.EnvVar, error) {
	p := f.projectByID(projectID)
	if p == nil {
		return nil, &vercel.APIError{Status: 404, Message: "project not found"}
	}
	return f.envs[p.ID], nil
}

func (f *fakeHosting) AddEnvironmentVariables(ctx context.Context, projectID string, vars []vercel.EnvVar) ([]vercel.EnvVar, error) {
	p := f.projectByID(projectID)
	if p == nil {
		return nil, &vercel.APIError{Status: 404, Message: "project not found"}
	}
	if f.failEnvWriteFor[p.Name] {
		return nil, &vercel.APIError{Status: 500, Message: "write rejected"}
	}
	created := make([]vercel.EnvVar, 0, len(vars))
	for _, v := range vars {
		f.nextEnvID++
		v.ID = fmt.Sprintf("env_%d", f.nextEnvID)
		f.envs[p.ID] = append(f.envs[p.ID], v)
		created = append(created, v)
	}
	return created, nil
}

func (f *fakeHosting) DeleteEnvironmentVariable(ctx context.Context, projectID, envID string) error {
	p := f.projectByID(projectID)
	if p == nil {
		return &vercel.APIError{Status: 404, Message: "project not found"}
	}
	envs := f.envs[p.ID]
	for i := range envs {
		if envs[i].ID == envID {
			f.envs[p.ID] = append(envs[:i], envs[i+1:]...)
			return nil
		}
	}
	return &vercel.APIError{Status: 404, Message: "env not found"}
}

func (f *fakeHosting) ListDeployments(ctx context.Context, projectID string, limit int) ([]vercel.Deployment, error) {
	p := f.projectByID(projectID)
	if p == nil {
		return nil, &vercel.APIError{Status: 404, Message: "project not found"}
	}
	return f.deploys[p.ID], nil
}

func (f *fakeHosting) GetDomains(ctx context.Context, projectID string) ([]vercel.Domain, error) {
	p := f.projectByID(projectID)
	if p == nil {
		return nil, &vercel.APIError{Status: 404, Message: "project not found"}
	}
	return f.domains[p.ID], nil
}

func (f *fakeHosting) CurrentUser(ctx context.Context) (*vercel.User, error) {
	if f.userErr != nil {
		return nil, f.userErr
	}
	return &vercel.User{ID: "usr_1", Username: "ops", Email: "ops@example.com"}, nil
}

type fakeDatabase struct {
	err error
}

func (f *fakeDatabase) Me(ctx context.Context) (*railway.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &railway.Account{Email: "ops@example.com"}, nil
}

func newTestService(hosting *fakeHosting) *Service {
	return New(hosting, &fakeDatabase{}, 100, zap.NewNop())
}

func TestList_FiltersByPrefix(t *testing.T) {
	hosting := newFakeHosting("wealthpro-jane", "unrelated-app", "wealthpro-bob")
	svc := newTestService(hosting)

	fleet, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, fleet, 2)
	assert.Equal(t, "wealthpro-jane", fleet[0].Name)
	assert.Equal(t, "wealthpro-bob", fleet[1].Name)
}

func TestInfo_OmitsVariableValues(t *testing.T) {
	hosting := newFakeHosting("wealthpro-jane")
	hosting.envs["prj_0"] = []vercel.EnvVar{
		{ID: "env_1", Key: "DATABASE_URL", Value: "postgresql://secret"},
		{ID: "env_2", Key: "BRAND_NAME", Value: "Jane Wealth"},
	}
	hosting.domains["prj_0"] = []vercel.Domain{{Name: "jane.advisors.example.com", Verified: false}}
	hosting.deploys["prj_0"] = []vercel.Deployment{{ID: "dpl_1", State: vercel.StateReady, URL: "wealthpro-jane.vercel.app"}}

	svc := newTestService(hosting)
	info, err := svc.Info(context.Background(), "wealthpro-jane")
	require.NoError(t, err)

	assert.Equal(t, []string{"BRAND_NAME", "DATABASE_URL"}, info.VariableNames)
	require.NotNil(t, info.LatestDeployment)
	assert.Equal(t, vercel.StateReady, info.LatestDeployment.State)
	require.Len(t, info.Domains, 1)
	assert.False(t, info.Domains[0].Verified)
}

func TestDelete_RemovesOnlyHostingProject(t *testing.T) {
	hosting := newFakeHosting("wealthpro-jane", "wealthpro-bob")
	svc := newTestService(hosting)

	require.NoError(t, svc.Delete(context.Background(), "wealthpro-jane"))
	assert.Len(t, hosting.projects, 1)

	err := svc.Delete(context.Background(), "wealthpro-jane")
	assert.Error(t, err)
}

func TestVerify_IndependentOutcomes(t *testing.T) {
	t.Run("both healthy", func(t *testing.T) {
		svc := newTestService(newFakeHosting())
		report := svc.Verify(context.Background())
		assert.True(t, report.HostingOK)
		assert.Equal(t, "ops", report.HostingUser)
		assert.True(t, report.DatabaseOK)
	})

	t.Run("database failure does not mask hosting", func(t *testing.T) {
		svc := New(newFakeHosting(), &fakeDatabase{err: errors.New("bad token")}, 100, zap.NewNop())
		report := svc.Verify(context.Background())
		assert.True(t, report.HostingOK)
		assert.False(t, report.DatabaseOK)
		assert.Error(t, report.DatabaseErr)
	})

	t.Run("hosting failure does not mask database", func(t *testing.T) {
		hosting := newFakeHosting()
		hosting.userErr = errors.New("expired token")
		svc := newTestService(hosting)
		report := svc.Verify(context.Background())
		assert.False(t, report.HostingOK)
		assert.True(t, report.DatabaseOK)
	})
}

func TestSetVariable_ReplaceSemantics(t *testing.T) {
	hosting := newFakeHosting("wealthpro-jane")
	svc := newTestService(hosting)
	ctx := context.Background()

	first := vercel.EnvVar{Key: "FEATURE_FLAG", Value: "a", Target: []string{vercel.TargetProduction}}
	require.NoError(t, svc.SetVariable(ctx, "prj_0", first))

	second := vercel.EnvVar{Key: "FEATURE_FLAG", Value: "b", Target: vercel.AllTargets()}
	require.NoError(t, svc.SetVariable(ctx, "prj_0", second))

	envs := hosting.envs["prj_0"]
	require.Len(t, envs, 1)
	assert.Equal(t, "b", envs[0].Value)
	// The second write's scope set wins outright; scopes are never merged
	// across writes.
	assert.Equal(t, vercel.AllTargets(), envs[0].Target)
}

func TestBatchUpdate_IsolatesFailures(t *testing.T) {
	hosting := newFakeHosting("wealthpro-a", "wealthpro-b", "wealthpro-c")
	hosting.failEnvWriteFor["wealthpro-b"] = true
	svc := newTestService(hosting)

	tally, err := svc.BatchUpdate(context.Background(), vercel.EnvVar{Key: "K", Value: "v"})
	require.NoError(t, err)

	assert.Equal(t, 2, tally.Succeeded)
	assert.Equal(t, 1, tally.Failed)
	require.Len(t, tally.Outcomes, 3)
	assert.NoError(t, tally.Outcomes[0].Err)
	assert.Error(t, tally.Outcomes[1].Err)
	// The third project was still attempted after the second failed.
	assert.NoError(t, tally.Outcomes[2].Err)
	assert.Len(t, hosting.envs["prj_2"], 1)
}

func writeTemplate(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseTemplate(t *testing.T) {
	path := writeTemplate(t, `
# comment line
A=1
B=2

EMPTY=
PLACEHOLDER=your-api-key-here
BRACKETS=<fill me in>
`)

	tmpl, err := ParseTemplate(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, tmpl.Variables)
	assert.ElementsMatch(t, []string{"EMPTY", "PLACEHOLDER", "BRACKETS"}, tmpl.Skipped)
}

func TestSync_RoundTrip(t *testing.T) {
	hosting := newFakeHosting("wealthpro-jane")
	svc := newTestService(hosting)
	ctx := context.Background()

	first, err := ParseTemplate(writeTemplate(t, "A=1\nB=2\n"))
	require.NoError(t, err)
	applied, err := svc.Sync(ctx, "prj_0", first)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)

	second, err := ParseTemplate(writeTemplate(t, "A=3\n"))
	require.NoError(t, err)
	applied, err = svc.Sync(ctx, "prj_0", second)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	// B untouched, A replaced.
	byKey := map[string]string{}
	for _, env := range hosting.envs["prj_0"] {
		byKey[env.Key] = env.Value
	}
	assert.Equal(t, map[string]string{"A": "3", "B": "2"}, byKey)
}

func TestDeleteVariable(t *testing.T) {
	hosting := newFakeHosting("wealthpro-jane")
	hosting.envs["prj_0"] = []vercel.EnvVar{{ID: "env_1", Key: "K", Value: "v"}}
	svc := newTestService(hosting)

	require.NoError(t, svc.DeleteVariable(context.Background(), "prj_0", "K"))
	assert.Empty(t, hosting.envs["prj_0"])

	err := svc.DeleteVariable(context.Background(), "prj_0", "K")
	assert.Error(t, err)
}
