// Package mconfig loads the NAME = VALUE parameter files that feed a
// mist.Dictionary, the boundary format defined in the engine's external
// interfaces contract rather than by the engine core itself.
package mconfig

import (
	"bufio"
	"io"
	"strings"

	"github.com/juju/errors"

	"github.com/ispras/mist"
)

// entry is one name/value pair after backslash-continuation joining and
// multiline-body extraction, with the value already resolved to its
// final form.
type entry struct {
	name  string
	value string
	line  int
}

// Load reads a config file from r and returns an order-preserving
// dictionary of every NAME = VALUE entry it contains. sender names the
// collaborator for error reporting (e.g. the file path being loaded).
func Load(sender string, r io.Reader) (*mist.OrderedDict, error) {
	entries, err := scan(sender, r)
	if err != nil {
		return nil, errors.Annotate(err, "read config")
	}
	dict := &mist.OrderedDict{}
	for _, e := range entries {
		dict.Add(e.name, e.value)
	}
	return dict, nil
}

// scan reads r line by line, splitting each logical entry into a name
// and value. Blank and '#'-prefixed lines are skipped before a logical
// line is assembled, so a '\' continuation never reaches across them.
func scan(sender string, r io.Reader) ([]entry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	next := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		lineNo++
		return scanner.Text(), true
	}

	var entries []entry
	for {
		text, ok := next()
		if !ok {
			break
		}
		startLine := lineNo
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		eq := strings.IndexByte(trimmed, '=')
		if eq == -1 {
			return nil, mist.NewErrorf(mist.KindSyntaxError, sender,
				"line %d: missing '=' in config entry", startLine)
		}
		name := strings.TrimSpace(trimmed[:eq])
		if name == "" {
			return nil, mist.NewErrorf(mist.KindSyntaxError, sender,
				"line %d: empty parameter name", startLine)
		}
		head := strings.TrimSpace(trimmed[eq+1:])

		if head == ">>" {
			body, err := readMultilineBody(next)
			if err != nil {
				return nil, mist.NewErrorf(mist.KindSyntaxError, sender, "line %d: %s", startLine, err)
			}
			entries = append(entries, entry{name: name, value: body, line: startLine})
			continue
		}

		value := head
		for strings.HasSuffix(value, `\`) {
			cont, ok := next()
			if !ok {
				return nil, mist.NewErrorf(mist.KindSyntaxError, sender,
					"line %d: dangling '\\' continuation at end of file", startLine)
			}
			value = strings.TrimSpace(strings.TrimSuffix(value, `\`)) + " " + strings.TrimSpace(cont)
		}
		entries = append(entries, entry{name: name, value: value, line: startLine})
	}
	return entries, nil
}

// readMultilineBody consumes lines verbatim until one that, trimmed,
// equals "<<", joining them with "\n". The body is taken verbatim minus
// the leading and trailing newlines — there is no leading/trailing
// newline to strip once the body is built this way, since the
// ">>"/"<<" marker lines themselves are never included.
func readMultilineBody(next func() (string, bool)) (string, error) {
	var body []string
	for {
		line, ok := next()
		if !ok {
			return "", errors.New("unterminated multiline entry, missing '<<'")
		}
		if strings.TrimSpace(line) == "<<" {
			return strings.Join(body, "\n"), nil
		}
		body = append(body, line)
	}
}
