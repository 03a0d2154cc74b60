package generate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roleflow/roleflow/internal/core"
	"github.com/roleflow/roleflow/internal/errors"
)

func TestDeriveNameDropsStopwords(t *testing.T) {
	require.Equal(t, "reviews-database-migrations",
		DeriveName("I want a role that reviews database migrations"))
}

func TestDeriveNameCapsAtFiveWords(t *testing.T) {
	name := DeriveName("one two three four five six seven")
	require.Equal(t, "one-two-three-four-five", name)
}

func TestDeriveNameCapsLength(t *testing.T) {
	name := DeriveName(strings.Repeat("verylongword ", 5))
	require.LessOrEqual(t, len(name), 48)
	require.NotEqual(t, "-", name[len(name)-1:])
}

func TestDeriveNameFallsBackWhenOnlyStopwords(t *testing.T) {
	require.Equal(t, "the-for-and", DeriveName("the for and"))
	require.Equal(t, "generated-role", DeriveName("!!! ???"))
	require.Equal(t, "generated-role", DeriveName(""))
}

func TestDeriveNamePrefixesDigitLeaders(t *testing.T) {
	require.Equal(t, "role-24x7-monitor", DeriveName("24x7 monitor"))
}

func TestExtractJSONObjectDirect(t *testing.T) {
	obj, err := ExtractJSONObject(`{"description": "d", "scope": "general"}`)
	require.NoError(t, err)
	require.Equal(t, "d", obj["description"])
}

func TestExtractJSONObjectFromFence(t *testing.T) {
	payload := "Here you go:\n```json\n{\"description\": \"fenced\"}\n```\nthanks"
	obj, err := ExtractJSONObject(payload)
	require.NoError(t, err)
	require.Equal(t, "fenced", obj["description"])

	payload = "```\n{\"description\": \"bare fence\"}\n```"
	obj, err = ExtractJSONObject(payload)
	require.NoError(t, err)
	require.Equal(t, "bare fence", obj["description"])
}

func TestExtractJSONObjectScansForEmbeddedObject(t *testing.T) {
	payload := `Sure! The template is {"description": "embedded", "scope": "general"} as requested.`
	obj, err := ExtractJSONObject(payload)
	require.NoError(t, err)
	require.Equal(t, "embedded", obj["description"])
}

func TestExtractJSONObjectSkipsNonObjectBraces(t *testing.T) {
	payload := `prefix {not json} then {"description": "real"}`
	obj, err := ExtractJSONObject(payload)
	require.NoError(t, err)
	require.Equal(t, "real", obj["description"])
}

func TestExtractJSONObjectErrors(t *testing.T) {
	_, err := ExtractJSONObject("")
	require.Equal(t, errors.CodeMalformedJSON, errors.CodeOf(err))

	_, err = ExtractJSONObject("   \n ")
	require.Equal(t, errors.CodeMalformedJSON, errors.CodeOf(err))

	_, err = ExtractJSONObject("no json here")
	require.Equal(t, errors.CodeMalformedJSON, errors.CodeOf(err))

	_, err = ExtractJSONObject(`[1, 2, 3]`)
	require.Equal(t, errors.CodeMalformedJSON, errors.CodeOf(err))
}

func TestBuildPromptCreateMode(t *testing.T) {
	prompt, err := BuildPrompt(ModeCreate, "db-reviewer", "review database migrations", nil, Overrides{})
	require.NoError(t, err)
	require.Contains(t, prompt, "Return ONLY a valid JSON object")
	require.Contains(t, prompt, `"mode": "create"`)
	require.Contains(t, prompt, `"template_name": "db-reviewer"`)
	require.Contains(t, prompt, `"existing_template": null`)
	require.Contains(t, prompt, `"scope_override": null`)
}

func TestBuildPromptUpdateModeEmbedsExistingFields(t *testing.T) {
	existing := &core.Template{
		Name:         "db-reviewer",
		Description:  "Reviews migrations",
		RolePrompt:   "You review migrations.",
		Instructions: "Check for locks.",
		Scope:        core.ScopeGeneral,
	}
	prompt, err := BuildPrompt(ModeUpdate, "db-reviewer", "add rollback checks", existing,
		Overrides{Scope: "specific", SpecificTo: "payments"})
	require.NoError(t, err)
	require.Contains(t, prompt, `"mode": "update"`)
	require.Contains(t, prompt, "Reviews migrations")
	require.Contains(t, prompt, `"scope_override": "specific"`)
	require.Contains(t, prompt, `"specific_to_override": "payments"`)
}
