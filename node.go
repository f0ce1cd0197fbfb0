package mist

// PlaceholderKind distinguishes the three placeholder variants a
// template body can reference.
type PlaceholderKind int

const (
	// PlaceholderPlain is `{name}`.
	PlaceholderPlain PlaceholderKind = iota
	// PlaceholderJoin is `{name, separator}`.
	PlaceholderJoin
	// PlaceholderConditional is `{if cond}then{else}else{endif}`.
	PlaceholderConditional
)

// Placeholder is one substitution point inside a Template. Exactly the
// fields relevant to its Kind are meaningful.
type Placeholder struct {
	Kind PlaceholderKind

	// Name is the referenced template's name, for Plain and Join, and the
	// condition template's name, for Conditional.
	Name string
	// Sep is the join separator (escapes already expanded), for Join.
	Sep string

	// IsConcat is true for `{if concat(name)}`, for Conditional.
	IsConcat bool
	// Then and Else are the branch sub-templates, owned by this
	// placeholder rather than by the enclosing TemplateGroup — they are
	// not reachable by name lookup.
	Then *Template
	Else *Template

	// target is the weakly-referenced template this placeholder reads
	// values from, bound during TemplateGroup construction. For Plain/Join
	// it is the named template. For Conditional it is the condition
	// template.
	target *Template

	// result is the template whose Values hold what this placeholder
	// contributes to a slot. For Plain/Join, result == target. For
	// Conditional, result is a synthetic template owned by this
	// placeholder, populated fresh on every evaluation pass.
	result *Template
}

// Template is a named multi-valued entity: a fixed skeleton of literal
// chunks with placeholders interleaved, or — when Chunks is empty — a
// degenerate attribute whose Values are supplied externally.
type Template struct {
	Name         string
	Chunks       []string
	Placeholders []*Placeholder

	Values    []string
	evaluated bool
}

// IsAttribute reports whether t is a degenerate template (no chunks, no
// placeholders) whose values come only from the caller.
func (t *Template) IsAttribute() bool {
	return len(t.Chunks) == 0
}

// clearValues empties t's value sequence and resets its evaluation guard;
// used both by the group-wide clear-values reset and internally before
// re-evaluating a conditional's private branch templates.
func (t *Template) clearValues() {
	t.Values = nil
	t.evaluated = false
}

func newAttribute(name string) *Template {
	return &Template{Name: name}
}
