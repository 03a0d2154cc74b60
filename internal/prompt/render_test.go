package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roleflow/roleflow/internal/core"
)

func TestRenderSubstitutesKnownVariables(t *testing.T) {
	rendered, missing := Render("Handle {{task}} for {{owner}}", map[string]string{
		"task":  "fix flaky test",
		"owner": "qa-team",
	})
	require.Equal(t, "Handle fix flaky test for qa-team", rendered)
	require.Empty(t, missing)
}

func TestRenderKeepsUnresolvedPlaceholdersVerbatim(t *testing.T) {
	rendered, missing := Render("Do {{task}} in {{ repo }}", map[string]string{"task": "x"})
	require.Equal(t, "Do x in {{ repo }}", rendered)
	require.Contains(t, missing, "repo")
	require.Len(t, missing, 1)
}

func TestRenderToleratesInnerWhitespace(t *testing.T) {
	rendered, _ := Render("{{  task  }}", map[string]string{"task": "x"})
	require.Equal(t, "x", rendered)
}

func TestRenderIgnoresMalformedPlaceholders(t *testing.T) {
	for _, text := range []string{"{task}", "{{1task}}", "{{}}", "{{ task"} {
		rendered, missing := Render(text, map[string]string{"task": "x"})
		require.Equal(t, text, rendered)
		require.Empty(t, missing)
	}
}

func TestRenderAllowsDotsAndDashesInKeys(t *testing.T) {
	rendered, _ := Render("{{repo.name}}-{{env-id}}", map[string]string{
		"repo.name": "payments",
		"env-id":    "prod",
	})
	require.Equal(t, "payments-prod", rendered)
}

func TestRenderIsSinglePass(t *testing.T) {
	rendered, missing := Render("{{a}}", map[string]string{"a": "{{b}}", "b": "nope"})
	require.Equal(t, "{{b}}", rendered)
	require.Empty(t, missing)
}

func TestRenderIdempotentWhenFullyCovered(t *testing.T) {
	vars := map[string]string{"task": "fix", "owner": "qa"}
	once, missing := Render("Handle {{task}} for {{owner}}", vars)
	require.Empty(t, missing)
	twice, missing := Render(once, vars)
	require.Empty(t, missing)
	require.Equal(t, once, twice)
}

func TestMissingKeysUnionsAndSorts(t *testing.T) {
	keys := MissingKeys(
		map[string]struct{}{"zeta": {}, "alpha": {}},
		map[string]struct{}{"alpha": {}, "mid": {}},
	)
	require.Equal(t, []string{"alpha", "mid", "zeta"}, keys)
}

func buildTemplate() *core.Template {
	return &core.Template{
		Name:         "support",
		Description:  "Support role",
		RolePrompt:   "Handle {{task}} for {{owner}}",
		Instructions: "Work in {{root}}",
		Scope:        core.ScopeGeneral,
	}
}

func TestBuildLayoutAndSubstitution(t *testing.T) {
	text, missing := Build(buildTemplate(), "fix flaky test", "", "/work", "default",
		map[string]string{"owner": "qa-team"})
	require.Empty(t, missing)

	lines := strings.Split(text, "\n")
	require.Equal(t, "Role: support", lines[0])
	require.Equal(t, "Description: Support role", lines[1])
	require.Equal(t, "Scope: general", lines[2])
	require.Equal(t, "Profile: default", lines[3])
	require.Equal(t, "", lines[4])
	require.Equal(t, "Role instructions:", lines[5])
	require.Equal(t, "Handle fix flaky test for qa-team", lines[6])
	require.Contains(t, text, "Execution rules:\nWork in /work")
	require.True(t, strings.HasSuffix(text, "Task:\nfix flaky test\n"))
	require.NotContains(t, text, "Extra context:")
}

func TestBuildAppendsExtraSection(t *testing.T) {
	text, missing := Build(buildTemplate(), "t", "focus on {{area}}", "/work", "default",
		map[string]string{"owner": "qa", "area": "billing"})
	require.Empty(t, missing)
	require.True(t, strings.HasSuffix(text, "Extra context:\nfocus on billing\n"))
}

func TestBuildReportsMissingAcrossParts(t *testing.T) {
	template := buildTemplate()
	template.Instructions = "Check {{checklist}}"
	text, missing := Build(template, "do {{work}}", "", "/work", "default", nil)
	require.Equal(t, []string{"checklist", "owner", "work"}, missing)
	require.Contains(t, text, "do {{work}}")
}

func TestBuildUserVariablesOverrideSeeded(t *testing.T) {
	template := buildTemplate()
	template.RolePrompt = "Root is {{root}}"
	text, _ := Build(template, "t", "", "/work", "default",
		map[string]string{"root": "elsewhere", "owner": "qa"})
	require.Contains(t, text, "Root is elsewhere")
}

func TestBuildSpecificScopeHeader(t *testing.T) {
	template := buildTemplate()
	template.Scope = core.ScopeSpecific
	template.SpecificTo = "payments"
	template.RolePrompt = "Target {{specific_to}}"
	text, missing := Build(template, "t", "", "/work", "fast", nil)
	require.Empty(t, missing)
	require.Contains(t, text, "Scope: specific:payments")
	require.Contains(t, text, "Target payments")
}

func TestReadTextArg(t *testing.T) {
	literal, err := ReadTextArg("plain text")
	require.NoError(t, err)
	require.Equal(t, "plain text", literal)

	path := filepath.Join(t.TempDir(), "role.txt")
	require.NoError(t, os.WriteFile(path, []byte("from file"), 0o644))
	fromFile, err := ReadTextArg("@" + path)
	require.NoError(t, err)
	require.Equal(t, "from file", fromFile)

	_, err = ReadTextArg("@" + filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
}

func TestParseVars(t *testing.T) {
	vars, err := ParseVars([]string{"repo=payments", "note=a=b"})
	require.NoError(t, err)
	require.Equal(t, "payments", vars["repo"])
	require.Equal(t, "a=b", vars["note"])

	_, err = ParseVars([]string{"novalue"})
	require.Error(t, err)

	_, err = ParseVars([]string{"=x"})
	require.Error(t, err)
}
