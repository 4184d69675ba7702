package registry

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
	"golang.org/x/text/language"
)

// Severity classifies a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single registry consistency problem. Issues are collected, never thrown.
type Issue struct {
	ToolID   string   `json:"toolId"`
	Category string   `json:"category,omitempty"`
	Locale   string   `json:"locale,omitempty"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func (i Issue) String() string {
	subject := i.ToolID
	if subject == "" && i.Category != "" {
		subject = "category " + i.Category
	}
	if subject == "" {
		subject = "locales"
	}
	if i.Locale != "" {
		subject += "[" + i.Locale + "]"
	}
	if i.Field != "" {
		subject += "." + i.Field
	}
	return fmt.Sprintf("%s: %s: %s", i.Severity, subject, i.Message)
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Count returns the number of error and warning issues.
func Count(issues []Issue) (errs, warnings int) {
	for _, i := range issues {
		switch i.Severity {
		case SeverityError:
			errs++
		case SeverityWarning:
			warnings++
		}
	}
	return errs, warnings
}

// barePath matches "/" or "/seg(/seg)*" with no empty segments, query,
// fragment or trailing slash.
var barePath = regexp.MustCompile(`^/([A-Za-z0-9._~%!$&'()*+,;=:@-]+(/[A-Za-z0-9._~%!$&'()*+,;=:@-]+)*)?$`)

var pathRules = []validation.Rule{
	validation.Required.Error("is required"),
	validation.Match(barePath).Error("must start with / and contain no empty segments, trailing slash, query or fragment"),
}

type requiredContent struct {
	Title            string `json:"title"`
	ShortDescription string `json:"shortDescription"`
}

// Validate checks the registry and its locale table for internal
// consistency. Every check runs independently; the result is sorted.
func (r *Registry) Validate() []Issue {
	v := &validator{reg: r}
	v.checkLocales()
	v.checkCategories()
	v.checkEntries()
	sort.SliceStable(v.issues, func(a, b int) bool {
		x, y := v.issues[a], v.issues[b]
		if x.ToolID != y.ToolID {
			return x.ToolID < y.ToolID
		}
		if x.Category != y.Category {
			return x.Category < y.Category
		}
		if x.Locale != y.Locale {
			return x.Locale < y.Locale
		}
		if x.Field != y.Field {
			return x.Field < y.Field
		}
		return x.Message < y.Message
	})
	return v.issues
}

type validator struct {
	reg    *Registry
	issues []Issue
}

func (v *validator) add(i Issue) {
	v.issues = append(v.issues, i)
}

func (v *validator) checkLocales() {
	table := v.reg.table
	firstSegments := make(map[string]string)
	for _, e := range v.reg.entries {
		if seg := firstSegment(e.Path); seg != "" {
			firstSegments[seg] = e.ID
		}
	}
	for _, c := range v.reg.categories {
		if seg := firstSegment(c.Path); seg != "" {
			firstSegments[seg] = "category " + c.ID
		}
	}
	for _, l := range table.Locales() {
		if _, err := language.Parse(l.HTMLLang); err != nil {
			v.add(Issue{Locale: l.Code, Field: "htmlLangCode", Severity: SeverityError,
				Message: fmt.Sprintf("%q is not a valid BCP-47 tag", l.HTMLLang)})
		}
		if table.Reserved(l.Code) {
			v.add(Issue{Locale: l.Code, Field: "code", Severity: SeverityError,
				Message: "locale code collides with a reserved path segment"})
		}
	}
	for seg, owner := range firstSegments {
		if table.Has(seg) {
			v.add(Issue{Locale: seg, Field: "code", Severity: SeverityError,
				Message: fmt.Sprintf("locale code is also the first path segment of %s", owner)})
		}
	}
}

func (v *validator) checkCategories() {
	seenID := make(map[string]bool)
	seenPath := make(map[string]string)
	used := make(map[string]bool)
	for _, e := range v.reg.entries {
		used[e.Category] = true
	}
	for _, c := range v.reg.categories {
		if seenID[c.ID] {
			v.add(Issue{Category: c.ID, Field: "id", Severity: SeverityError, Message: "duplicate category id"})
		}
		seenID[c.ID] = true
		if err := validation.Validate(c.Path, pathRules...); err != nil {
			v.add(Issue{Category: c.ID, Field: "path", Severity: SeverityError, Message: err.Error()})
		} else if other, dup := seenPath[c.Path]; dup {
			v.add(Issue{Category: c.ID, Field: "path", Severity: SeverityError,
				Message: fmt.Sprintf("path %q already used by category %q", c.Path, other)})
		} else {
			seenPath[c.Path] = c.ID
		}
		if !used[c.ID] {
			v.add(Issue{Category: c.ID, Severity: SeverityWarning, Message: "category has no tools"})
		}
	}
}

func (v *validator) checkEntries() {
	table := v.reg.table
	def := table.DefaultCode()
	categories := make([]any, 0, len(v.reg.categories))
	for _, c := range v.reg.categories {
		categories = append(categories, c.ID)
	}
	seenID := make(map[string]int)
	seenPath := make(map[string]string)

	for _, e := range v.reg.entries {
		// 1. uniqueness and id shape
		seenID[e.ID]++
		if seenID[e.ID] == 2 {
			v.add(Issue{ToolID: e.ID, Field: "id", Severity: SeverityError, Message: "duplicate tool id"})
		}
		if !slug.IsValid(e.ID) {
			v.add(Issue{ToolID: e.ID, Field: "id", Severity: SeverityError, Message: "id is not a URL-safe slug"})
		}

		// 2. default-locale completeness
		defContent, hasDefault := e.LocalizedContent[def]
		if !hasDefault {
			v.add(Issue{ToolID: e.ID, Locale: def, Field: "localizedContent", Severity: SeverityError,
				Message: "missing default-locale content"})
		} else {
			for field, msg := range requiredErrors(defContent) {
				v.add(Issue{ToolID: e.ID, Locale: def, Field: field, Severity: SeverityError, Message: msg})
			}
		}

		// 3. category membership
		err := validation.Validate(e.Category,
			validation.Required.Error("is required"),
			validation.In(categories...).Error("is not a known category"),
		)
		if err != nil {
			v.add(Issue{ToolID: e.ID, Field: "category", Severity: SeverityError,
				Message: fmt.Sprintf("%q %s", e.Category, err.Error())})
		}

		// 4. locale keys and non-default completeness
		for code, content := range e.LocalizedContent {
			if !table.Has(code) {
				v.add(Issue{ToolID: e.ID, Locale: code, Field: "localizedContent", Severity: SeverityError,
					Message: fmt.Sprintf("unknown locale code %q", code)})
				continue
			}
			if code == def {
				continue
			}
			for field := range requiredErrors(content) {
				v.add(Issue{ToolID: e.ID, Locale: code, Field: field, Severity: SeverityWarning,
					Message: "empty; falls back to the default locale"})
			}
			if hasDefault && defContent.LongDescription != "" && strings.TrimSpace(content.LongDescription) == "" {
				v.add(Issue{ToolID: e.ID, Locale: code, Field: "longDescription", Severity: SeverityWarning,
					Message: "missing; falls back to the default locale"})
			}
			if hasDefault && len(defContent.Keywords) > 0 && len(content.Keywords) == 0 {
				v.add(Issue{ToolID: e.ID, Locale: code, Field: "keywords", Severity: SeverityWarning,
					Message: "missing; falls back to the default locale"})
			}
		}

		// 5. path shape
		if err := validation.Validate(e.Path, pathRules...); err != nil {
			v.add(Issue{ToolID: e.ID, Field: "path", Severity: SeverityError, Message: err.Error()})
		} else {
			if clean := path.Clean(e.Path); clean != e.Path {
				v.add(Issue{ToolID: e.ID, Field: "path", Severity: SeverityError,
					Message: fmt.Sprintf("path has dot segments; use %q", clean)})
			}
			if seg := firstSegment(e.Path); table.Has(seg) {
				v.add(Issue{ToolID: e.ID, Field: "path", Severity: SeverityError,
					Message: fmt.Sprintf("path carries locale prefix %q; store paths bare", seg)})
			}
			if other, dup := seenPath[e.Path]; dup && other != e.ID {
				v.add(Issue{ToolID: e.ID, Field: "path", Severity: SeverityError,
					Message: fmt.Sprintf("path %q already used by %q", e.Path, other)})
			} else if !dup {
				seenPath[e.Path] = e.ID
			}
		}

		v.checkSchema(e)
	}
}

func (v *validator) checkSchema(e Entry) {
	if e.Schema == nil {
		return
	}
	if strings.TrimSpace(e.Schema.Type) == "" {
		v.add(Issue{ToolID: e.ID, Field: "schema.type", Severity: SeverityError, Message: "is required when schema is present"})
	}
	if r := e.Schema.AggregateRating; r != nil {
		worst, best := r.Bounds()
		if r.Value < worst || r.Value > best {
			v.add(Issue{ToolID: e.ID, Field: "schema.aggregateRating", Severity: SeverityWarning,
				Message: fmt.Sprintf("rating %.2f outside [%g, %g]", r.Value, worst, best)})
		}
		if r.Count <= 0 {
			v.add(Issue{ToolID: e.ID, Field: "schema.aggregateRating", Severity: SeverityWarning,
				Message: "rating count must be positive"})
		}
	}
}

// requiredErrors returns field -> message for empty required content fields.
func requiredErrors(c Content) map[string]string {
	rc := requiredContent{
		Title:            strings.TrimSpace(c.Title),
		ShortDescription: strings.TrimSpace(c.ShortDescription),
	}
	err := validation.ValidateStruct(&rc,
		validation.Field(&rc.Title, validation.Required.Error("must not be empty")),
		validation.Field(&rc.ShortDescription, validation.Required.Error("must not be empty")),
	)
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return map[string]string{"localizedContent": err.Error()}
	}
	out := make(map[string]string, len(errs))
	for field, fe := range errs {
		out[field] = fe.Error()
	}
	return out
}

func firstSegment(p string) string {
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	return p
}
