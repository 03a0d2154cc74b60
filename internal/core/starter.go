package core

// StarterTemplates are written by `roleflow init`. Pure static data.
var StarterTemplates = []Template{
	{
		Name:        "planning",
		Description: "Plan implementation work in clear, testable steps.",
		RolePrompt: "You are a planning specialist. Break problems into concrete steps, " +
			"highlight tradeoffs, and define verification criteria before coding.",
		Instructions: "Output a short execution plan with risks, assumptions, and checkpoints.",
		Profile:      DefaultProfileName,
		Scope:        ScopeGeneral,
	},
	{
		Name:        "testing",
		Description: "Design and implement targeted tests for reliability.",
		RolePrompt: "You are a testing specialist. Focus on regressions, edge cases, and " +
			"reproducible checks.",
		Instructions: "Prioritize high-signal tests first. Include setup, assertions, and " +
			"commands to run tests.",
		Profile: DefaultProfileName,
		Scope:   ScopeGeneral,
	},
	{
		Name:        "review",
		Description: "Perform code review with findings-first output.",
		RolePrompt: "You are a code reviewer. Identify behavioral bugs, risks, and missing " +
			"tests before style suggestions.",
		Instructions: "List findings ordered by severity with file/line references.",
		Profile:      DefaultProfileName,
		Scope:        ScopeGeneral,
	},
}
