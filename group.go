package mist

// TemplateGroup is a set of named templates sharing one namespace plus a
// designated main template.
type TemplateGroup struct {
	templates map[string]*Template
	main      *Template

	beginMarker string
	endMarker   string
}

// BeginMarker and EndMarker return the markers this group was built
// with, for collaborators (e.g. the CLI) that need to echo them back.
func (g *TemplateGroup) BeginMarker() string { return g.beginMarker }
func (g *TemplateGroup) EndMarker() string   { return g.endMarker }

// Main returns the group's main template.
func (g *TemplateGroup) Main() *Template { return g.main }

// Template looks up a named template in the group (nil if absent). This
// does not reach conditional branch templates, which are owned by their
// placeholder and never added to the group's name table.
func (g *TemplateGroup) Template(name string) *Template {
	return g.templates[name]
}

// buildGroup parses every (name, source) pair, synthesizes attribute
// templates for unresolved placeholder references, links every
// placeholder to its target, and verifies the main template exists. On
// any failure, no group is returned — there is no partially built group
// for the caller to observe.
func buildGroup(mainName string, sources map[string]string, begin, end string) (*TemplateGroup, error) {
	g := &TemplateGroup{
		templates:   make(map[string]*Template, len(sources)),
		beginMarker: begin,
		endMarker:   end,
	}

	// Step 1: parse every named template.
	for name, src := range sources {
		if !isValidName(name) {
			return nil, newErrorf(KindBadName, "group", "invalid template name %q", name)
		}
		tpl, err := parseNamedTemplate(name, src, begin, end)
		if err != nil {
			return nil, err
		}
		g.templates[name] = tpl
	}

	// Step 2: collect every placeholder name referenced anywhere (including
	// inside conditional branches) and synthesize an attribute template
	// for every one that isn't already a named template in the group.
	refs := make(map[string]bool)
	for _, tpl := range g.templates {
		collectRefs(tpl, refs)
	}
	for name := range refs {
		if _, ok := g.templates[name]; !ok {
			g.templates[name] = newAttribute(name)
		}
	}

	// Step 3: bind every placeholder (including inside conditional
	// branches) to its resolved target/result template.
	for _, tpl := range g.templates {
		linkTemplate(g, tpl)
	}

	// Step 4: verify the main template exists.
	main, ok := g.templates[mainName]
	if !ok {
		return nil, newErrorf(KindNoMainTemplate, "group", "main template %q not found", mainName)
	}
	g.main = main

	return g, nil
}

// collectRefs walks tpl and every conditional branch it (transitively)
// owns, adding every placeholder-referenced name to refs.
func collectRefs(tpl *Template, refs map[string]bool) {
	for _, ph := range tpl.Placeholders {
		refs[ph.Name] = true
		if ph.Kind == PlaceholderConditional {
			collectRefs(ph.Then, refs)
			collectRefs(ph.Else, refs)
		}
	}
}

// linkTemplate binds every placeholder in tpl (and, recursively, in any
// conditional branch it owns) to its resolved template(s).
func linkTemplate(g *TemplateGroup, tpl *Template) {
	for _, ph := range tpl.Placeholders {
		switch ph.Kind {
		case PlaceholderPlain, PlaceholderJoin:
			target := g.templates[ph.Name]
			ph.target = target
			ph.result = target
		case PlaceholderConditional:
			ph.target = g.templates[ph.Name]
			// The result template is owned by the placeholder itself,
			// not the group: it is never reachable by name lookup.
			ph.result = &Template{Name: "cond-result:" + ph.Name}
			linkTemplate(g, ph.Then)
			linkTemplate(g, ph.Else)
		}
	}
}
