package fleet

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sonyho2715/wealthpro-cloud/pkg/vercel"
)

// SetVariable writes one environment variable with replace semantics:
// every existing variable with the same key is deleted first, then the
// new value is created with the full scope set. The platform has no
// atomic upsert; a crash between the delete and the create leaves the key
// absent until the next successful write.
func (s *Service) SetVariable(ctx context.Context, projectID string, v vercel.EnvVar) error {
	if len(v.Target) == 0 {
		v.Target = vercel.AllTargets()
	}
	if v.Type == "" {
		v.Type = vercel.TypePlain
	}

	existing, err := s.hosting.GetEnvironmentVariables(ctx, projectID)
	if err != nil {
		return fmt.Errorf("read existing variables: %w", err)
	}
	for _, env := range existing {
		if env.Key != v.Key {
			continue
		}
		if err := s.hosting.DeleteEnvironmentVariable(ctx, projectID, env.ID); err != nil {
			return fmt.Errorf("delete existing %s: %w", v.Key, err)
		}
	}

	if _, err := s.hosting.AddEnvironmentVariables(ctx, projectID, []vercel.EnvVar{v}); err != nil {
		return fmt.Errorf("create %s: %w", v.Key, err)
	}
	return nil
}

// DeleteVariable removes every variable with the given key.
func (s *Service) DeleteVariable(ctx context.Context, projectID, key string) error {
	existing, err := s.hosting.GetEnvironmentVariables(ctx, projectID)
	if err != nil {
		return fmt.Errorf("read existing variables: %w", err)
	}

	found := false
	for _, env := range existing {
		if env.Key != key {
			continue
		}
		found = true
		if err := s.hosting.DeleteEnvironmentVariable(ctx, projectID, env.ID); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	if !found {
		return fmt.Errorf("variable %s not found", key)
	}
	return nil
}

// BatchOutcome reports one project's result within a fleet-wide update.
type BatchOutcome struct {
	Project string
	Err     error
}

// BatchTally is the final success/failure count of a fleet-wide update.
type BatchTally struct {
	Succeeded int
	Failed    int
	Outcomes  []BatchOutcome
}

// BatchUpdate applies one environment-variable write across every fleet
// project. Projects are processed sequentially in listing order; one
// project's failure never aborts the rest.
func (s *Service) BatchUpdate(ctx context.Context, v vercel.EnvVar) (BatchTally, error) {
	projects, err := s.List(ctx)
	if err != nil {
		return BatchTally{}, err
	}

	var tally BatchTally
	for _, project := range projects {
		err := s.SetVariable(ctx, project.ID, v)
		tally.Outcomes = append(tally.Outcomes, BatchOutcome{Project: project.Name, Err: err})
		if err != nil {
			tally.Failed++
			s.logger.Warn("batch_update_failed",
				zap.String("project", project.Name),
				zap.String("key", v.Key),
				zap.Error(err),
			)
			continue
		}
		tally.Succeeded++
	}
	return tally, nil
}

// TemplateFile is a parsed key=value configuration file ready to sync.
type TemplateFile struct {
	Variables map[string]string
	// Skipped lists keys dropped because their value looked like an
	// unfilled placeholder.
	Skipped []string
}

// SortedKeys returns the variable keys in stable order for preview
// output.
func (t TemplateFile) SortedKeys() []string {
	keys := make([]string, 0, len(t.Variables))
	for k := range t.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseTemplate reads a local key=value file. Blank lines and comments
// are dropped by the parser; values that still look like unfilled
// placeholders are skipped so a half-edited template cannot clobber real
// configuration.
func ParseTemplate(path string) (*TemplateFile, error) {
	raw, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	out := &TemplateFile{Variables: make(map[string]string, len(raw))}
	for key, value := range raw {
		if looksLikePlaceholder(value) {
			out.Skipped = append(out.Skipped, key)
			continue
		}
		out.Variables[key] = value
	}
	sort.Strings(out.Skipped)
	return out, nil
}

func looksLikePlaceholder(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return true
	}
	lower := strings.ToLower(v)
	if strings.HasPrefix(v, "<") && strings.HasSuffix(v, ">") {
		return true
	}
	for _, marker := range []string{"changeme", "change-me", "your-", "your_", "xxx", "todo", "placeholder"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// Sync writes every variable from a parsed template to one project using
// replace semantics. Keys absent from the template are left untouched.
// The first write failure aborts the sync: a partially applied template
// is surfaced immediately instead of silently continuing.
func (s *Service) Sync(ctx context.Context, projectID string, tmpl *TemplateFile) (int, error) {
	applied := 0
	for _, key := range tmpl.SortedKeys() {
		err := s.SetVariable(ctx, projectID, vercel.EnvVar{
			Key:    key,
			Value:  tmpl.Variables[key],
			Target: vercel.AllTargets(),
			Type:   vercel.TypePlain,
		})
		if err != nil {
			return applied, fmt.Errorf("sync %s: %w", key, err)
		}
		applied++
	}
	return applied, nil
}
