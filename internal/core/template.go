package core

import (
	"fmt"
	"strings"

	"github.com/roleflow/roleflow/internal/errors"
	"github.com/roleflow/roleflow/internal/mapping"
)

// RequiredFields are the template fields that must be present and non-empty.
var RequiredFields = []string{"name", "description", "role_prompt", "instructions"}

// Template is a validated role template. Optional fields are empty strings
// when unset; Record omits them entirely.
type Template struct {
	Name         string
	Description  string
	RolePrompt   string
	Instructions string
	Profile      string
	Scope        Scope
	SpecificTo   string
	RepeatFor    string
	RepeatEvery  string
}

// Normalize validates and canonicalizes a raw record into a Template.
// fallbackName supplies the name field when the record omits it (templates
// loaded from disk fall back to the file stem). Untyped records never leave
// this boundary: everything downstream works on the Template entity.
func Normalize(raw *mapping.Record, fallbackName string) (*Template, error) {
	t := &Template{}
	required := map[string]*string{
		"name":         &t.Name,
		"description":  &t.Description,
		"role_prompt":  &t.RolePrompt,
		"instructions": &t.Instructions,
	}
	for _, field := range RequiredFields {
		value, ok := raw.Get(field)
		if !ok {
			if field == "name" && fallbackName != "" {
				t.Name = fallbackName
				continue
			}
			return nil, errors.Newf(errors.CodeMissingField, "template is missing required field: %s", field)
		}
		text := strings.TrimSpace(stringify(value))
		if text == "" {
			return nil, errors.Newf(errors.CodeEmptyField, "template field `%s` cannot be empty", field)
		}
		*required[field] = text
	}

	if value, ok := raw.Get("profile"); ok {
		if profile := strings.TrimSpace(stringify(value)); profile != "" {
			t.Profile = profile
		}
	}

	scope := ScopeGeneral
	if value, ok := raw.Get("scope"); ok {
		if text := strings.ToLower(strings.TrimSpace(stringify(value))); text != "" {
			scope = Scope(text)
		}
	}
	if scope != ScopeGeneral && scope != ScopeSpecific {
		return nil, errors.New(errors.CodeInvalidScope, "template scope must be `general` or `specific`")
	}
	t.Scope = scope

	var specificTo string
	if value, ok := raw.Get("specific_to"); ok {
		specificTo = strings.TrimSpace(stringify(value))
	}
	if scope == ScopeSpecific {
		if specificTo == "" {
			return nil, errors.New(errors.CodeMissingSpecificTo,
				"template scope is `specific` but `specific_to` is missing")
		}
		t.SpecificTo = specificTo
	}

	if value, ok := raw.Get("repeat_for"); ok {
		if text := strings.TrimSpace(stringify(value)); text != "" {
			if _, err := ParseDurationSeconds(text, "repeat_for"); err != nil {
				return nil, err
			}
			t.RepeatFor = text
		}
	}
	if value, ok := raw.Get("repeat_every"); ok {
		if text := strings.TrimSpace(stringify(value)); text != "" {
			if _, err := ParseDurationSeconds(text, "repeat_every"); err != nil {
				return nil, err
			}
			t.RepeatEvery = text
		}
	}
	if t.RepeatEvery != "" && t.RepeatFor == "" {
		return nil, errors.New(errors.CodeDanglingRepeatEvery,
			"template has `repeat_every` but `repeat_for` is missing")
	}

	return t, nil
}

// Record emits the template as a flat record in canonical field order,
// containing only populated optional fields.
func (t *Template) Record() *mapping.Record {
	record := mapping.NewRecord()
	record.Set("name", t.Name)
	record.Set("description", t.Description)
	record.Set("role_prompt", t.RolePrompt)
	record.Set("instructions", t.Instructions)
	if t.Profile != "" {
		record.Set("profile", t.Profile)
	}
	record.Set("scope", string(t.Scope))
	if t.Scope == ScopeSpecific && t.SpecificTo != "" {
		record.Set("specific_to", t.SpecificTo)
	}
	if t.RepeatFor != "" {
		record.Set("repeat_for", t.RepeatFor)
	}
	if t.RepeatEvery != "" {
		record.Set("repeat_every", t.RepeatEvery)
	}
	return record
}

// ScopeText renders the scope for listings: "general" or "specific:<target>".
func (t *Template) ScopeText() string {
	if t.Scope == ScopeSpecific {
		return fmt.Sprintf("specific:%s", t.SpecificTo)
	}
	return string(ScopeGeneral)
}

// CadenceText renders the repeat cadence for listings: "once" or
// "repeat:<for>/<every>" with the run-time default cadence filled in.
func (t *Template) CadenceText() string {
	if t.RepeatFor == "" {
		return "once"
	}
	every := t.RepeatEvery
	if every == "" {
		every = DefaultRepeatEvery
	}
	return fmt.Sprintf("repeat:%s/%s", t.RepeatFor, every)
}

// stringify coerces a loaded scalar into its string form.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
