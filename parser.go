package mist

import "strings"

// parser implements a recursive-descent grammar over an already-lexed
// token stream for a single named template or placeholder branch.
type parser struct {
	name   string
	tokens []*Token
	idx    int
}

// parseNamedTemplate lexes and parses one (name, source) pair into a
// Template, using begin/end as the group's markers.
func parseNamedTemplate(name, src, begin, end string) (*Template, error) {
	tokens, err := lex(name, src, begin, end)
	if err != nil {
		return nil, err
	}
	p := &parser{name: name, tokens: tokens}
	tpl, err := p.parseTemplateNode(name)
	if err != nil {
		return nil, err
	}
	if p.idx != len(p.tokens) {
		tok := p.tokens[p.idx]
		kw := "else"
		if tok.Typ == TokenEndif {
			kw = "endif"
		}
		return nil, syntaxErrorAt(name, tok.Line, tok, "%s without a preceding if", kw)
	}
	return tpl, nil
}

func (p *parser) cur() *Token {
	if p.idx < len(p.tokens) {
		return p.tokens[p.idx]
	}
	return nil
}

// parseTemplateNode consumes `LITERAL ( ph_expr LITERAL )*`, stopping at
// an ELSE/ENDIF token (left for the caller to interpret) or at EOF.
func (p *parser) parseTemplateNode(branchName string) (*Template, error) {
	lit := p.cur()
	if lit == nil || lit.Typ != TokenLiteral {
		return nil, syntaxErrorAt(p.name, 0, lit, "internal error: expected a literal chunk")
	}
	p.idx++

	tpl := &Template{Name: branchName, Chunks: []string{lit.Val}}

	for {
		cur := p.cur()
		if cur == nil || cur.Typ == TokenElse || cur.Typ == TokenEndif {
			return tpl, nil
		}

		ph, err := p.parsePhExpr()
		if err != nil {
			return nil, err
		}
		tpl.Placeholders = append(tpl.Placeholders, ph)

		lit = p.cur()
		if lit == nil || lit.Typ != TokenLiteral {
			return nil, syntaxErrorAt(p.name, 0, lit, "internal error: expected a literal chunk")
		}
		p.idx++
		tpl.Chunks = append(tpl.Chunks, lit.Val)
	}
}

func (p *parser) parsePhExpr() (*Placeholder, error) {
	cur := p.cur()
	if cur.Typ == TokenIf {
		return p.parseConditional()
	}
	return p.parsePlaceholder()
}

// parsePlaceholder parses a plain `{name}` or join `{name: join(sep)}`
// placeholder body.
func (p *parser) parsePlaceholder() (*Placeholder, error) {
	tok := p.cur()
	p.idx++

	expr := tok.Val
	name := expr
	var sep string
	isJoin := false

	if ci := strings.IndexByte(expr, ':'); ci != -1 {
		name = strings.TrimSpace(expr[:ci])
		directive := strings.TrimSpace(expr[ci+1:])

		const joinKeyword = "join"
		if !strings.HasPrefix(directive, joinKeyword) {
			return nil, syntaxErrorAt(p.name, tok.Line, tok, "invalid placeholder: expected 'join' after ':'")
		}
		rest := strings.TrimSpace(directive[len(joinKeyword):])
		if len(rest) < 2 || rest[0] != '(' || rest[len(rest)-1] != ')' {
			return nil, syntaxErrorAt(p.name, tok.Line, tok, "invalid placeholder: malformed join(...)")
		}
		sep = unescapeSeparator(rest[1 : len(rest)-1])
		isJoin = true
	}

	if !isValidName(name) {
		return nil, syntaxErrorAt(p.name, tok.Line, tok, "invalid placeholder name %q", name)
	}

	if isJoin {
		return &Placeholder{Kind: PlaceholderJoin, Name: name, Sep: sep}, nil
	}
	return &Placeholder{Kind: PlaceholderPlain, Name: name}, nil
}

// parseConditional parses `{if expr}then{else}else{endif}` (else branch
// optional).
func (p *parser) parseConditional() (*Placeholder, error) {
	ifTok := p.cur()
	p.idx++

	condName, isConcat := parseCondExpr(ifTok.Val)
	if !isValidName(condName) {
		return nil, syntaxErrorAt(p.name, ifTok.Line, ifTok, "invalid placeholder name %q", condName)
	}

	thenTpl, err := p.parseTemplateNode("then")
	if err != nil {
		return nil, err
	}

	cur := p.cur()
	if cur == nil {
		return nil, syntaxErrorAt(p.name, ifTok.Line, ifTok, "if without endif")
	}

	var elseTpl *Template
	if cur.Typ == TokenElse {
		p.idx++
		elseTpl, err = p.parseTemplateNode("else")
		if err != nil {
			return nil, err
		}
		cur = p.cur()
		if cur == nil {
			return nil, syntaxErrorAt(p.name, ifTok.Line, ifTok, "else without endif")
		}
	} else {
		// No else branch given: synthesize an empty one so the evaluator
		// always has a uniform then/else pair to work with.
		elseTpl = &Template{Name: "else", Chunks: []string{""}}
	}

	if cur.Typ != TokenEndif {
		return nil, syntaxErrorAt(p.name, ifTok.Line, ifTok, "if without endif")
	}
	p.idx++

	return &Placeholder{
		Kind:     PlaceholderConditional,
		Name:     condName,
		IsConcat: isConcat,
		Then:     thenTpl,
		Else:     elseTpl,
	}, nil
}

// parseCondExpr recognizes the `concat(name)` form inside an `if`
// expression; anything that doesn't look exactly like a well-formed
// concat(...) falls back to being treated as a bare name.
func parseCondExpr(expr string) (name string, isConcat bool) {
	const prefix = "concat"
	if len(expr) < len(prefix)+3 || expr[len(expr)-1] != ')' || !strings.HasPrefix(expr, prefix) {
		return expr, false
	}
	mid := strings.TrimSpace(expr[len(prefix) : len(expr)-1])
	if mid == "" || mid[0] != '(' {
		return expr, false
	}
	inner := strings.TrimSpace(mid[1:])
	if inner == "" {
		return expr, false
	}
	return inner, true
}

// isValidName checks the character restrictions on template and
// attribute names: letters, digits, space, '-', '.', '_', not starting
// with '.' or space.
func isValidName(name string) bool {
	if name == "" || name[0] == '.' || name[0] == ' ' {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == ' ', c == '-', c == '.', c == '_':
		default:
			return false
		}
	}
	return true
}

// unescapeSeparator expands \t \n \r \\ escapes in a join separator,
// leaving any other backslash sequence untouched.
func unescapeSeparator(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			i++
			continue
		}
		if i+1 >= len(s) {
			b.WriteByte('\\')
			i++
			continue
		}
		switch s[i+1] {
		case '\\':
			b.WriteByte('\\')
			i += 2
		case 't':
			b.WriteByte('\t')
			i += 2
		case 'n':
			b.WriteByte('\n')
			i += 2
		case 'r':
			b.WriteByte('\r')
			i += 2
		default:
			b.WriteByte('\\')
			i++
		}
	}
	return b.String()
}
