package generate

import (
	"encoding/json"
	"fmt"

	"github.com/roleflow/roleflow/internal/core"
)

// Overrides carries the CLI flags that pin generated fields.
type Overrides struct {
	Scope       string
	SpecificTo  string
	BindProfile string
	RepeatFor   string
	RepeatEvery string
}

// Mode distinguishes creating a new template from updating an existing one.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeUpdate Mode = "update"
)

// BuildPrompt assembles the instruction prompt sent to the runner. The reply
// contract is a bare JSON object with a fixed key set.
func BuildPrompt(mode Mode, templateName, request string, existing *core.Template, overrides Overrides) (string, error) {
	context := map[string]any{
		"mode":                 string(mode),
		"template_name":        templateName,
		"request":              request,
		"existing_template":    nil,
		"scope_override":       nullable(overrides.Scope),
		"specific_to_override": nullable(overrides.SpecificTo),
		"bind_profile_override": nullable(overrides.BindProfile),
		"repeat_for_override":   nullable(overrides.RepeatFor),
		"repeat_every_override": nullable(overrides.RepeatEvery),
	}
	if existing != nil {
		context["existing_template"] = existing.Record()
	}
	contextJSON, err := json.MarshalIndent(context, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode generation context: %w", err)
	}

	return "You are generating a roleflow template specification.\n" +
		"Return ONLY a valid JSON object with exactly these keys:\n" +
		"{\n" +
		"  \"description\": \"string\",\n" +
		"  \"role_prompt\": \"string\",\n" +
		"  \"instructions\": \"string\",\n" +
		"  \"scope\": \"general|specific\",\n" +
		"  \"specific_to\": \"string|null\",\n" +
		"  \"profile\": \"string|null\",\n" +
		"  \"repeat_for\": \"duration|null\",\n" +
		"  \"repeat_every\": \"duration|null\"\n" +
		"}\n" +
		"Rules:\n" +
		"- No markdown, no code fences, no explanation.\n" +
		"- Keep role_prompt and instructions practical and concise.\n" +
		"- Use placeholders like {{task}}, {{root}}, {{specific_to}} only where useful.\n" +
		"- repeat_for/repeat_every should use duration strings like 2h, 30m, 1h30m.\n" +
		"- If scope is general, set specific_to to null.\n" +
		"- If scope is specific, set specific_to to a concrete target.\n\n" +
		fmt.Sprintf("Context:\n%s\n", contextJSON), nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
