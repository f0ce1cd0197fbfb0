package mist

import "strings"

// lex splits src into a token stream by scanning left to right for
// begin/end marker pairs. The returned slice always starts and ends with
// a TokenLiteral (possibly empty) and alternates strictly LITERAL, PH,
// LITERAL, PH, ..., LITERAL.
//
// Scanning is a straight substring search rather than a character-by-
// character state machine, since placeholder markers are themselves
// arbitrary strings rather than single runes.
func lex(name, src, begin, end string) ([]*Token, error) {
	if begin == "" || end == "" {
		return nil, newErrorf(KindBadName, "lexer", "begin and end markers must be non-empty")
	}

	var tokens []*Token
	rest := src
	consumed := 0 // bytes of src already folded into rest's offset

	for {
		bi := strings.Index(rest, begin)
		if bi == -1 {
			if ei := strings.Index(rest, end); ei != -1 {
				return nil, syntaxErrorAt(name, lineAt(src, consumed+ei), nil,
					"no matching begin marker")
			}
			tokens = append(tokens, &Token{Typ: TokenLiteral, Val: rest, Line: lineAt(src, consumed)})
			return tokens, nil
		}

		if li := strings.Index(rest[:bi], end); li != -1 {
			return nil, syntaxErrorAt(name, lineAt(src, consumed+li), nil,
				"no matching begin marker")
		}

		bodyStart := bi + len(begin)
		ei := strings.Index(rest[bodyStart:], end)
		if ei == -1 {
			return nil, syntaxErrorAt(name, lineAt(src, consumed+bi), nil,
				"no matching end marker")
		}
		ei += bodyStart

		body := rest[bodyStart:ei]
		if strings.Contains(body, begin) {
			return nil, syntaxErrorAt(name, lineAt(src, consumed+ei), nil,
				"nested begin marker inside placeholder")
		}

		tokens = append(tokens, &Token{Typ: TokenLiteral, Val: rest[:bi], Line: lineAt(src, consumed)})

		tok, err := classifyPlaceholder(body, lineAt(src, consumed+bodyStart))
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)

		advance := ei + len(end)
		consumed += advance
		rest = rest[advance:]
	}
}

// lineAt returns the 1-based line number of byte offset pos in src.
func lineAt(src string, pos int) int {
	if pos > len(src) {
		pos = len(src)
	}
	return strings.Count(src[:pos], "\n") + 1
}

// classifyPlaceholder turns the raw text between markers into a Token,
// recognizing the "if", "else" and "endif" keywords; any other
// (non-blank) content is a plain/join placeholder body.
func classifyPlaceholder(raw string, line int) (*Token, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, syntaxErrorAt("lexer", line, nil, "invalid placeholder: empty body")
	}

	word, rest := splitFirstWord(trimmed)
	switch word {
	case "if":
		if rest == "" {
			return nil, syntaxErrorAt("lexer", line, nil, "invalid placeholder: 'if' without an expression")
		}
		return &Token{Typ: TokenIf, Val: rest, Line: line}, nil
	case "else":
		if rest != "" {
			return nil, syntaxErrorAt("lexer", line, nil, "invalid placeholder: 'else' takes no expression")
		}
		return &Token{Typ: TokenElse, Val: "else", Line: line}, nil
	case "endif":
		if rest != "" {
			return nil, syntaxErrorAt("lexer", line, nil, "invalid placeholder: 'endif' takes no expression")
		}
		return &Token{Typ: TokenEndif, Val: "endif", Line: line}, nil
	default:
		return &Token{Typ: TokenPlaceholder, Val: trimmed, Line: line}, nil
	}
}

// splitFirstWord returns the first whitespace-delimited word of s and the
// (trimmed) remainder, s having already been trimmed of outer whitespace.
func splitFirstWord(s string) (word, rest string) {
	i := strings.IndexAny(s, " \t\n\r")
	if i == -1 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}
