package mist

// EngineOptions configures placeholder marker recognition for a
// TemplateGroup. The zero value is not meant to be used directly —
// callers should start from DefaultOptions.
type EngineOptions struct {
	// BeginMarker and EndMarker delimit a placeholder body, e.g. "<$"
	// and "$>" around `<$name$>`.
	BeginMarker string
	EndMarker   string
}

// DefaultOptions returns the conventional marker pair: "<$" and "$>".
func DefaultOptions() EngineOptions {
	return EngineOptions{BeginMarker: "<$", EndMarker: "$>"}
}

func (o EngineOptions) normalized() EngineOptions {
	if o.BeginMarker == "" && o.EndMarker == "" {
		return DefaultOptions()
	}
	return o
}

// BuildGroup parses every (name, source) pair in sources and links them
// into a TemplateGroup whose main template is mainName. The group is
// ready to accept attribute values and evaluate immediately.
func BuildGroup(mainName string, sources map[string]string, opts EngineOptions) (*TemplateGroup, error) {
	opts = opts.normalized()
	return buildGroup(mainName, sources, opts.BeginMarker, opts.EndMarker)
}

// BuildSingle is the common case of BuildGroup: one named template that
// is also the main template.
func BuildSingle(name, source string, opts EngineOptions) (*TemplateGroup, error) {
	return BuildGroup(name, map[string]string{name: source}, opts)
}

// SetAttribute appends value to the named attribute template's value
// sequence. It is a silent no-op when name is unknown or does not name
// an attribute, so that one shared parameter dictionary can be applied
// across groups with differing attribute sets.
func (g *TemplateGroup) SetAttribute(name, value string) {
	t, ok := g.templates[name]
	if !ok || !t.IsAttribute() {
		return
	}
	t.Values = append(t.Values, value)
	t.evaluated = true
}

// SetAttributes applies every (name, value) pair in dict via
// SetAttribute, in the dictionary's iteration order, so that repeated
// keys build up a multi-valued attribute.
func (g *TemplateGroup) SetAttributes(dict Dictionary) {
	dict.Each(func(name, value string) {
		g.SetAttribute(name, value)
	})
}

// Evaluate computes and returns the main template's value sequence. The
// returned slice is a copy; callers may freely mutate it without
// disturbing the group.
func (g *TemplateGroup) Evaluate() ([]string, error) {
	return evaluateGroup(g)
}

// ClearValues resets every template in the group to its unevaluated,
// valueless state without reparsing anything. Attribute values set via
// SetAttribute are cleared too and must be set again before the next
// Evaluate.
func (g *TemplateGroup) ClearValues() {
	clearGroupValues(g)
}

// Destroy releases the group's internal state. Go's GC reclaims
// templates once unreferenced, but the driver API keeps Destroy as an
// explicit, idempotent operation for callers used to manual lifetime
// management; it is safe to call more than once.
func (g *TemplateGroup) Destroy() {
	g.templates = nil
	g.main = nil
}

// GeneratePath evaluates pathGroup after applying dict and returns its
// single resulting value. It is an error for the main template to
// evaluate to anything other than exactly one value — a path is, by
// construction, one string.
func GeneratePath(pathGroup *TemplateGroup, dict Dictionary) (string, error) {
	pathGroup.ClearValues()
	pathGroup.SetAttributes(dict)
	values, err := pathGroup.Evaluate()
	if err != nil {
		return "", err
	}
	if len(values) != 1 {
		return "", newErrorf(KindMainMultiValued, "generate_path",
			"main template %q evaluated to %d values, expected exactly 1",
			pathGroup.main.Name, len(values))
	}
	return values[0], nil
}

// GenerateFile evaluates contentGroup after applying dict and writes the
// single resulting value to path via w. Like GeneratePath, it requires
// the main template to be single-valued.
func GenerateFile(contentGroup *TemplateGroup, path string, dict Dictionary, w Writer) error {
	contentGroup.ClearValues()
	contentGroup.SetAttributes(dict)
	values, err := contentGroup.Evaluate()
	if err != nil {
		return err
	}
	if len(values) != 1 {
		return newErrorf(KindMainMultiValued, "generate_file",
			"main template %q evaluated to %d values, expected exactly 1",
			contentGroup.main.Name, len(values))
	}
	return w.WriteFile(path, []byte(values[0]))
}
