// Package templates renders instruction templates: markdown with optional
// YAML frontmatter, {{name}} placeholders, and {{#name}}...{{/name}}
// conditional spans. Rendering never fails; malformed delimiters pass
// through untouched.
package templates

import (
	"sort"
	"strings"
)

// Render renders body against vars: conditional spans are resolved first,
// then placeholder tokens are substituted literally. An empty or missing
// variable is falsy.
func Render(body string, vars map[string]string) string {
	body = renderConditionals(body, vars)
	return substitutePlaceholders(body, vars)
}

// renderConditionals resolves {{#name}}...{{/name}} spans in a single
// left-to-right scan. A span ends at the first {{/name}} carrying the same
// name, across line breaks. A non-empty variable collapses the span to its
// inner content; an empty or unrecognized variable removes the span
// entirely. An open tag with no matching close, or a tag with a malformed
// name, is left untouched. Each text rewrite strictly shrinks the input, so
// the scan terminates.
func renderConditionals(body string, vars map[string]string) string {
	i := 0
	for i < len(body) {
		open := strings.Index(body[i:], "{{#")
		if open < 0 {
			break
		}
		open += i

		name, n := scanName(body[open+3:])
		if name == "" {
			i = open + 3
			continue
		}
		contentStart := open + 3 + n

		closeTag := "{{/" + name + "}}"
		rel := strings.Index(body[contentStart:], closeTag)
		if rel < 0 {
			i = open + 3
			continue
		}
		closeStart := contentStart + rel

		var repl string
		if vars[name] != "" {
			repl = body[contentStart:closeStart]
		}
		body = body[:open] + repl + body[closeStart+len(closeTag):]
		// Kept content may itself open spans; rescan from the splice point.
		i = open
	}
	return body
}

// substitutePlaceholders replaces {{name}} tokens for every key in vars by
// literal substring replacement, in sorted key order so output is
// deterministic. Tokens naming unknown variables are left as-is.
func substitutePlaceholders(body string, vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		body = strings.ReplaceAll(body, "{{"+k+"}}", vars[k])
	}
	return body
}

// scanName reads a variable name followed by "}}" from the start of s and
// returns the name plus the number of bytes consumed. Names match
// [A-Za-z_][A-Za-z0-9_]*. A malformed tag returns an empty name.
func scanName(s string) (string, int) {
	j := 0
	for j < len(s) && isNameByte(s[j], j == 0) {
		j++
	}
	if j == 0 || !strings.HasPrefix(s[j:], "}}") {
		return "", 0
	}
	return s[:j], j + 2
}

func isNameByte(c byte, first bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		return true
	case c >= '0' && c <= '9':
		return !first
	default:
		return false
	}
}

// ExtractVariables lists the distinct variable names referenced in body, in
// order of first appearance: {{name}} placeholders and {{#name}} conditional
// openers. Close tags are not references.
func ExtractVariables(body string) []string {
	seen := make(map[string]bool)
	var names []string
	i := 0
	for {
		open := strings.Index(body[i:], "{{")
		if open < 0 {
			break
		}
		open += i
		j := open + 2
		if j < len(body) && body[j] == '/' {
			i = j + 1
			continue
		}
		if j < len(body) && body[j] == '#' {
			j++
		}
		name, n := scanName(body[j:])
		if name == "" {
			i = open + 2
			continue
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		i = j + n
	}
	return names
}
