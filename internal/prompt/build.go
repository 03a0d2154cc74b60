package prompt

import (
	"fmt"
	"strings"

	"github.com/roleflow/roleflow/internal/core"
)

// Build assembles the full runner prompt for a template. The variable
// environment seeds the fixed keys (task, extra, template, description,
// profile, scope, specific_to, root); user-supplied variables win on
// collision. role_prompt, instructions, task, and a non-empty extra are each
// rendered independently; missing keys are unioned and returned sorted.
func Build(t *core.Template, task, extra, root, profileName string, userVars map[string]string) (string, []string) {
	task = strings.TrimSpace(task)
	extra = strings.TrimSpace(extra)

	vars := map[string]string{
		"task":        task,
		"extra":       extra,
		"template":    t.Name,
		"description": t.Description,
		"profile":     profileName,
		"scope":       string(t.Scope),
		"specific_to": t.SpecificTo,
		"root":        root,
	}
	for key, value := range userVars {
		vars[key] = value
	}

	rolePrompt, missRole := Render(t.RolePrompt, vars)
	instructions, missInst := Render(t.Instructions, vars)
	taskText, missTask := Render(task, vars)
	extraText := ""
	missExtra := map[string]struct{}{}
	if extra != "" {
		extraText, missExtra = Render(extra, vars)
	}

	parts := []string{
		fmt.Sprintf("Role: %s", t.Name),
		fmt.Sprintf("Description: %s", t.Description),
		fmt.Sprintf("Scope: %s", t.ScopeText()),
		fmt.Sprintf("Profile: %s", profileName),
		"",
		"Role instructions:",
		rolePrompt,
		"",
		"Execution rules:",
		instructions,
		"",
		"Task:",
		taskText,
	}
	if extraText != "" {
		parts = append(parts, "", "Extra context:", extraText)
	}

	text := strings.TrimSpace(strings.Join(parts, "\n")) + "\n"
	return text, MissingKeys(missRole, missInst, missTask, missExtra)
}
