// Package output renders command results for the terminal.
package output

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

// TemplateRow is one line of `template list`.
type TemplateRow struct {
	File        string
	Format      string
	Profile     string
	Scope       string
	Cadence     string
	Description string
}

// ProfileRow is one line of `profile list`.
type ProfileRow struct {
	Name    string
	Default bool
	Command string
	Mode    string
	Args    int
}

// TableFormatter renders results as ASCII tables.
type TableFormatter struct{}

// FormatTemplates renders the template listing.
func (f *TableFormatter) FormatTemplates(rows []TemplateRow) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"File", "Format", "Profile", "Scope", "Cadence", "Description"})
	for _, row := range rows {
		t.AppendRow(table.Row{row.File, row.Format, row.Profile, row.Scope, row.Cadence, row.Description})
	}
	return t.Render()
}

// FormatProfiles renders the profile listing; the default profile is marked.
func (f *TableFormatter) FormatProfiles(rows []ProfileRow) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"", "Name", "Command", "Mode", "Args"})
	for _, row := range rows {
		marker := ""
		if row.Default {
			marker = "*"
		}
		t.AppendRow(table.Row{marker, row.Name, row.Command, row.Mode, row.Args})
	}
	return t.Render()
}
