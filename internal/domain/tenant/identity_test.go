package tenant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"jane", "jane"},
		{"Jane Smith", "jane-smith"},
		{"  jane_smith.advisors  ", "jane-smith-advisors"},
		{"jane---smith", "jane-smith"},
		{"-jane-", "jane"},
		{"Jäne!@#Smith", "jnesmith"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{"Jane Smith", "acme_wealth.group", "UPPER-case"}
	for _, in := range inputs {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once))
	}
}

func TestSlugifyLengthBound(t *testing.T) {
	long := strings.Repeat("a", 200)
	name := Identity{SubdomainSlug: long}.ProjectName()
	assert.LessOrEqual(t, len(name), maxProjectNameLen)
	assert.True(t, strings.HasPrefix(name, ProjectPrefix+"-"))
}

func TestIdentityValidate(t *testing.T) {
	valid := Identity{
		Email:         "jane@example.com",
		FirstName:     "Jane",
		LastName:      "Smith",
		SubdomainSlug: "jane",
		BrandName:     "Jane Smith Wealth",
	}
	require.NoError(t, valid.Validate())

	t.Run("missing email", func(t *testing.T) {
		id := valid
		id.Email = ""
		assert.Error(t, id.Validate())
	})

	t.Run("malformed email", func(t *testing.T) {
		id := valid
		id.Email = "not-an-email"
		assert.Error(t, id.Validate())
	})

	t.Run("missing brand", func(t *testing.T) {
		id := valid
		id.BrandName = "  "
		assert.Error(t, id.Validate())
	})

	t.Run("slug with no usable characters", func(t *testing.T) {
		id := valid
		id.SubdomainSlug = "!!!"
		assert.Error(t, id.Validate())
	})
}

func TestProjectNameDeterministic(t *testing.T) {
	a := Identity{SubdomainSlug: "Jane Smith"}
	b := Identity{SubdomainSlug: "jane-smith"}
	assert.Equal(t, a.ProjectName(), b.ProjectName())
	assert.Equal(t, "wealthpro-jane-smith", a.ProjectName())
}

func TestCustomDomain(t *testing.T) {
	id := Identity{SubdomainSlug: "Jane"}
	assert.Equal(t, "jane.advisors.example.com", id.CustomDomain(".advisors.example.com"))
	assert.Equal(t, "", id.CustomDomain("  "))
}
