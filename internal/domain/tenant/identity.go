package tenant

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

// ProjectPrefix is the shared naming prefix for every tenant project on
// both platforms. Fleet tooling re-associates a hosting project with its
// sibling database project purely by this convention.
const ProjectPrefix = "wealthpro"

const maxProjectNameLen = 63

// Identity holds the operator-supplied facts about one agent. It is
// immutable for the lifetime of a provisioning request.
type Identity struct {
	Email         string
	FirstName     string
	LastName      string
	SubdomainSlug string
	BrandName     string
	BrandColor    string
	Phone         string
}

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
var slugHyphenRuns = regexp.MustCompile(`-{2,}`)

// Validate reports the first missing or malformed required field. It runs
// before any remote call is made.
func (id Identity) Validate() error {
	if strings.TrimSpace(id.Email) == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(id.Email); err != nil {
		return fmt.Errorf("invalid email %q: %w", id.Email, err)
	}
	if strings.TrimSpace(id.FirstName) == "" {
		return errors.New("first name is required")
	}
	if strings.TrimSpace(id.LastName) == "" {
		return errors.New("last name is required")
	}
	if strings.TrimSpace(id.SubdomainSlug) == "" {
		return errors.New("subdomain slug is required")
	}
	if strings.TrimSpace(id.BrandName) == "" {
		return errors.New("brand name is required")
	}
	if Slugify(id.SubdomainSlug) == "" {
		return fmt.Errorf("subdomain slug %q contains no usable characters", id.SubdomainSlug)
	}
	return nil
}

// Slugify normalizes raw operator input into a platform-safe identifier:
// lower-case, alphanumeric and single hyphens only, no leading or trailing
// hyphen. The mapping is deterministic so repeated runs for the same tenant
// derive the same project names.
func Slugify(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, ".", "-")
	s = slugInvalidChars.ReplaceAllString(s, "")
	s = slugHyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	maxSlug := maxProjectNameLen - len(ProjectPrefix) - 1
	if len(s) > maxSlug {
		s = strings.Trim(s[:maxSlug], "-")
	}
	return s
}

// ProjectName derives the shared project name used on both platforms.
func (id Identity) ProjectName() string {
	return ProjectPrefix + "-" + Slugify(id.SubdomainSlug)
}

// CustomDomain derives the tenant's subdomain under the app root domain,
// e.g. "jane.advisors.example.com".
func (id Identity) CustomDomain(rootDomain string) string {
	root := strings.TrimLeft(strings.TrimSpace(rootDomain), ".")
	if root == "" {
		return ""
	}
	return Slugify(id.SubdomainSlug) + "." + root
}

// FullName is used in operator-facing summaries only.
func (id Identity) FullName() string {
	return strings.TrimSpace(id.FirstName + " " + id.LastName)
}
