package mist

import "strings"

// evaluate computes T.Values for the given template via the engine's
// primary recursion. The cycle guard — setting T.evaluated before
// recursing into placeholders — is what makes evaluation safe over a
// cyclic reference graph: it breaks infinite recursion at the cost of
// leaving the content of cyclic templates dependent on visitation
// order.
func evaluate(t *Template) error {
	if t.evaluated {
		return nil
	}

	if t.IsAttribute() {
		if len(t.Values) == 0 {
			t.Values = []string{""}
		}
		t.evaluated = true
		return nil
	}

	t.clearValues()
	t.evaluated = true // before recursing: breaks cycles

	for _, ph := range t.Placeholders {
		if err := evaluatePlaceholder(ph); err != nil {
			return err
		}
	}

	n := numSlots(t)
	maxLen := templateMaxLength(t)

	values := make([]string, n)
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.Reset()
		b.Grow(maxLen)
		b.WriteString(t.Chunks[0])
		for j, ph := range t.Placeholders {
			b.WriteString(placeholderValueAt(ph, i))
			b.WriteString(t.Chunks[j+1])
		}
		values[i] = b.String()
	}
	t.Values = values
	return nil
}

// evaluatePlaceholder fills in ph.result.Values so the enclosing
// template's emission pass can read from it uniformly, regardless of
// placeholder kind.
func evaluatePlaceholder(ph *Placeholder) error {
	if ph.Kind != PlaceholderConditional {
		return evaluate(ph.result)
	}
	return evaluateConditional(ph)
}

func evaluateConditional(ph *Placeholder) error {
	result := ph.result
	result.clearValues()
	ph.Then.clearValues()
	ph.Else.clearValues()

	if err := evaluate(ph.target); err != nil {
		return err
	}
	cond := ph.target.Values
	if len(cond) == 0 {
		// The condition template is still being evaluated further up a
		// cycle and has no values yet: treat it as a single empty value.
		cond = []string{""}
	}

	if ph.IsConcat {
		branch := ph.Else
		for _, c := range cond {
			if c != "" {
				branch = ph.Then
				break
			}
		}
		if err := evaluate(branch); err != nil {
			return err
		}
		result.Values = append([]string(nil), branch.Values...)
		result.evaluated = true
		return nil
	}

	ncond := len(cond)
	ntotal := ncond
	for _, c := range cond {
		branch := ph.Else
		if c != "" {
			branch = ph.Then
		}
		if err := evaluate(branch); err != nil {
			return err
		}
		if n := len(branch.Values); n > ntotal {
			ntotal = n
		}
	}

	values := make([]string, 0, ntotal)
	c := 0
	cexpr := cond[0] != ""
	for i := 0; i < ntotal; i++ {
		branch := ph.Else
		if cexpr {
			branch = ph.Then
		}
		nvals := len(branch.Values)
		elem := i
		if elem >= nvals {
			elem = nvals - 1
		}
		values = append(values, branch.Values[elem])

		if c+1 < ncond {
			c++
			cexpr = cond[c] != ""
		}
	}
	result.Values = values
	result.evaluated = true
	return nil
}

// numSlots computes N, the number of value slots a template's emission
// pass constructs: one per value of its widest non-join placeholder, or
// 1 if it has none.
func numSlots(t *Template) int {
	n := 1
	for _, ph := range t.Placeholders {
		if ph.Kind == PlaceholderJoin {
			continue
		}
		if m := len(ph.result.Values); m > n {
			n = m
		}
	}
	return n
}

// templateMaxLength computes L, the upper bound used to pre-size the
// string builder for each slot.
func templateMaxLength(t *Template) int {
	total := 0
	for _, c := range t.Chunks {
		total += len(c)
	}
	for _, ph := range t.Placeholders {
		total += placeholderMaxLength(ph)
	}
	return total
}

func placeholderMaxLength(ph *Placeholder) int {
	vals := ph.result.Values
	n := len(vals)
	if n == 0 {
		return 0
	}
	if ph.Kind == PlaceholderJoin {
		total := 0
		for _, v := range vals {
			total += len(v)
		}
		return total + (n-1)*len(ph.Sep)
	}
	maxv := 0
	for _, v := range vals {
		if len(v) > maxv {
			maxv = len(v)
		}
	}
	return maxv
}

// placeholderValueAt returns what placeholder ph contributes to slot i
// of its enclosing template.
func placeholderValueAt(ph *Placeholder, i int) string {
	vals := ph.result.Values
	m := len(vals)
	if m == 0 {
		return ""
	}
	if ph.Kind == PlaceholderJoin {
		return strings.Join(vals, ph.Sep)
	}
	// Plain and Conditional: positional pairing with last-value
	// replication once the enclosing template needs more slots than
	// this placeholder's target has values.
	if i >= m {
		i = m - 1
	}
	return vals[i]
}

// evaluateGroup resets every template's evaluation guard, then evaluates
// the group's main template, returning a defensive copy of its values
// (callers must copy before mutating anything the group owns).
func evaluateGroup(g *TemplateGroup) ([]string, error) {
	for _, t := range g.templates {
		t.evaluated = false
	}
	if err := evaluate(g.main); err != nil {
		return nil, err
	}
	return append([]string(nil), g.main.Values...), nil
}

// clearGroupValues empties every template's value sequence and
// evaluation guard without reparsing anything.
func clearGroupValues(g *TemplateGroup) {
	for _, t := range g.templates {
		t.clearValues()
	}
}
