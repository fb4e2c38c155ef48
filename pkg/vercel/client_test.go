package vercel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := New(Config{BaseURL: server.URL, APIToken: "test-token", TeamID: "team_123"})

	now := time.Unix(1700000000, 0)
	c.now = func() time.Time { return now }
	c.sleep = func(d time.Duration) { now = now.Add(d) }

	return c
}

func TestCreateProject_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v10/projects", r.URL.Path)
		assert.Equal(t, "team_123", r.URL.Query().Get("teamId"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req createProjectRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "wealthpro-jane", req.Name)
		require.NotNil(t, req.GitRepository)
		assert.Equal(t, "sonyho2715/wealth-pro-template", req.GitRepository.Repo)

		json.NewEncoder(w).Encode(Project{ID: "prj_1", Name: "wealthpro-jane"})
	})

	project, err := client.CreateProject(context.Background(), "wealthpro-jane", "sonyho2715/wealth-pro-template", "nextjs")
	require.NoError(t, err)
	assert.Equal(t, "prj_1", project.ID)
}

func TestCreateProject_PlatformErrorMessageSurfaced(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"error": {"code": "project_exists", "message": "Project already exists"}}`)
	})

	_, err := client.CreateProject(context.Background(), "wealthpro-jane", "", "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "project_exists", apiErr.Code)
	assert.Equal(t, "Project already exists", apiErr.Message)
}

func TestEnvironmentVariableCRUD(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v10/projects/prj_1/env":
			var vars []EnvVar
			require.NoError(t, json.NewDecoder(r.Body).Decode(&vars))
			for i := range vars {
				vars[i].ID = fmt.Sprintf("env_%d", i)
			}
			json.NewEncoder(w).Encode(addEnvResponse{Created: vars})

		case r.Method == http.MethodGet && r.URL.Path == "/v9/projects/prj_1/env":
			json.NewEncoder(w).Encode(listEnvResponse{Envs: []EnvVar{
				{ID: "env_0", Key: "DATABASE_URL", Type: TypeEncrypted, Target: AllTargets()},
			}})

		case r.Method == http.MethodDelete && r.URL.Path == "/v9/projects/prj_1/env/env_0":
			w.WriteHeader(http.StatusOK)

		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	})

	ctx := context.Background()

	created, err := client.AddEnvironmentVariables(ctx, "prj_1", []EnvVar{
		{Key: "DATABASE_URL", Value: "postgresql://u:p@h/db", Target: AllTargets(), Type: TypeEncrypted},
		{Key: "BRAND_NAME", Value: "Jane Wealth", Target: AllTargets(), Type: TypePlain},
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)

	envs, err := client.GetEnvironmentVariables(ctx, "prj_1")
	require.NoError(t, err)
	require.Len(t, envs, 1)
	assert.Equal(t, "DATABASE_URL", envs[0].Key)

	require.NoError(t, client.DeleteEnvironmentVariable(ctx, "prj_1", "env_0"))
}

func TestListProjects(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v10/projects", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(listProjectsResponse{Projects: []Project{
			{ID: "prj_1", Name: "wealthpro-jane"},
			{ID: "prj_2", Name: "unrelated"},
		}})
	})

	projects, err := client.ListProjects(context.Background(), 50)
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}

func TestWaitForDeployment(t *testing.T) {
	deploymentJSON := func(state string) string {
		return fmt.Sprintf(`{"uid": "dpl_1", "url": "wealthpro-jane.vercel.app", "readyState": %q}`, state)
	}

	t.Run("ready", func(t *testing.T) {
		calls := 0
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			state := StateBuilding
			if calls >= 2 {
				state = StateReady
			}
			fmt.Fprint(w, deploymentJSON(state))
		})

		dep, err := client.WaitForDeployment(context.Background(), "dpl_1", time.Minute, time.Second)
		require.NoError(t, err)
		assert.Equal(t, StateReady, dep.State)
		assert.Equal(t, "wealthpro-jane.vercel.app", dep.URL)
	})

	t.Run("terminal failure names the state", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, deploymentJSON(StateCanceled))
		})

		_, err := client.WaitForDeployment(context.Background(), "dpl_1", time.Minute, time.Second)
		var failed *DeploymentFailedError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, StateCanceled, failed.State)
	})

	t.Run("timeout before terminal state", func(t *testing.T) {
		calls := 0
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			state := StateBuilding
			if calls >= 3 {
				state = StateReady
			}
			fmt.Fprint(w, deploymentJSON(state))
		})

		// Two polls fit the budget; READY on the third must surface as a
		// timeout, not success.
		_, err := client.WaitForDeployment(context.Background(), "dpl_1", 1500*time.Millisecond, time.Second)
		var timeout *DeploymentTimeoutError
		require.ErrorAs(t, err, &timeout)
		assert.Equal(t, StateBuilding, timeout.LastState)
		assert.Equal(t, 2, calls)
		// Elapsed reports time actually spent (two one-second polls), not
		// the configured budget.
		assert.Equal(t, "2s", timeout.Elapsed)
	})

	t.Run("call failure propagates immediately", func(t *testing.T) {
		calls := 0
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error": {"code": "internal", "message": "boom"}}`)
		})

		_, err := client.WaitForDeployment(context.Background(), "dpl_1", time.Minute, time.Second)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 1, calls)
	})
}

func TestRetryOnlyOnSafeMethods(t *testing.T) {
	gets, posts := 0, 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			gets++
		} else {
			posts++
		}
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error": {"code": "internal", "message": "boom"}}`)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, APIToken: "t", RetryCount: 2, RetryDelay: time.Millisecond})

	_, err := client.ListProjects(context.Background(), 10)
	assert.Error(t, err)
	assert.Equal(t, 3, gets)

	_, err = client.CreateProject(context.Background(), "p", "", "")
	assert.Error(t, err)
	assert.Equal(t, 1, posts)
}

func TestDeploymentTerminal(t *testing.T) {
	assert.True(t, Deployment{State: StateReady}.Terminal())
	assert.True(t, Deployment{State: StateError}.Terminal())
	assert.True(t, Deployment{State: StateCanceled}.Terminal())
	assert.False(t, Deployment{State: StateQueued}.Terminal())
	assert.False(t, Deployment{State: StateBuilding}.Terminal())
}

func TestCreateDeployment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v13/deployments", r.URL.Path)

		var req createDeploymentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "wealthpro-jane", req.Name)
		assert.Equal(t, "production", req.Target)
		require.NotNil(t, req.GitSource)
		assert.Equal(t, "main", req.GitSource.Ref)

		fmt.Fprint(w, `{"uid": "dpl_9", "readyState": "QUEUED", "state": "QUEUED"}`)
	})

	dep, err := client.CreateDeployment(context.Background(), "wealthpro-jane", "production",
		&GitSource{Type: "github", Repo: "sonyho2715/wealth-pro-template", Ref: "main"})
	require.NoError(t, err)
	assert.Equal(t, "dpl_9", dep.ID)
	assert.Equal(t, StateQueued, dep.State)
}

func TestUpdateEnvironmentVariable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/v9/projects/prj_1/env/env_7", r.URL.Path)

		var req updateEnvRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "#ff0000", req.Value)
		assert.Equal(t, AllTargets(), req.Target)
		assert.Equal(t, TypePlain, req.Type)

		fmt.Fprint(w, `{}`)
	})

	err := client.UpdateEnvironmentVariable(context.Background(), "prj_1", "env_7", "#ff0000", AllTargets(), TypePlain)
	require.NoError(t, err)
}

func TestRemoveDomain(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/v9/projects/prj_1/domains/jane.advisors.example.com", r.URL.Path)
		fmt.Fprint(w, `{}`)
	})

	err := client.RemoveDomain(context.Background(), "prj_1", "jane.advisors.example.com")
	require.NoError(t, err)
}
