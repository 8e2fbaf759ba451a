// Package sparql validates and executes the read-only pattern-query
// sublanguage the engine accepts from untrusted callers.
//
// The accepted surface is the read-only core of SPARQL: SELECT, ASK,
// CONSTRUCT, and DESCRIBE over basic graph patterns, with PREFIX/BASE
// declarations, DISTINCT, and LIMIT. Update forms are rejected before
// execution, results are truncated while streaming rather than after
// materialization, and execution aborts cleanly on timeout.
package sparql

import (
	"strings"
	"unicode"

	"github.com/larsgeorge/ontos-sub001/errors"
)

// updateKeywords are the write/update forms that must never execute.
var updateKeywords = []string{
	"INSERT", "DELETE", "LOAD", "CLEAR", "CREATE", "DROP",
	"MOVE", "COPY", "ADD", "MODIFY", "WITH",
}

// readForms are the query forms the executor accepts.
var readForms = []string{"SELECT", "ASK", "CONSTRUCT", "DESCRIBE"}

// Validate rejects queries that are empty, contain an update form, or do not
// start (after prologue) with a read-only query form. Syntax-level problems
// beyond this are caught by the parser; both report as validation errors.
func Validate(text string) error {
	stripped := stripLexicalNoise(text)
	if strings.TrimSpace(stripped) == "" {
		return errors.Validation("empty query")
	}

	for _, word := range bareWords(stripped) {
		upper := strings.ToUpper(word)
		for _, kw := range updateKeywords {
			if upper == kw {
				return errors.Validationf("update form %s is not allowed; only read-only queries are accepted", kw)
			}
		}
	}

	form := firstQueryForm(stripped)
	if form == "" {
		return errors.Validation("query must be a SELECT, ASK, CONSTRUCT, or DESCRIBE form")
	}
	return nil
}

// stripLexicalNoise blanks out IRI refs, string literals, and comments so
// keyword scanning cannot be fooled by query data.
func stripLexicalNoise(text string) string {
	var sb strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '<':
			sb.WriteRune(' ')
			for i++; i < len(runes) && runes[i] != '>'; i++ {
			}
		case '"', '\'':
			quote := runes[i]
			sb.WriteRune(' ')
			for i++; i < len(runes); i++ {
				if runes[i] == '\\' {
					i++
					continue
				}
				if runes[i] == quote {
					break
				}
			}
		case '#':
			sb.WriteRune(' ')
			for i++; i < len(runes) && runes[i] != '\n'; i++ {
			}
		default:
			sb.WriteRune(runes[i])
		}
	}
	return sb.String()
}

// bareWords breaks stripped query text into standalone identifier words.
// Words attached to a variable marker or to a prefixed-name colon are parts
// of names, not keywords, and are excluded: "?delete" and "ex:with" must not
// trip the update-keyword scan.
func bareWords(text string) []string {
	isWordRune := func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
	}
	runes := []rune(text)
	var words []string
	for i := 0; i < len(runes); {
		if !isWordRune(runes[i]) {
			i++
			continue
		}
		start := i
		for i < len(runes) && isWordRune(runes[i]) {
			i++
		}
		if start > 0 {
			switch runes[start-1] {
			case '?', '$', ':':
				continue
			}
		}
		if i < len(runes) && runes[i] == ':' {
			continue
		}
		words = append(words, string(runes[start:i]))
	}
	return words
}

// firstQueryForm returns the first read form keyword appearing after any
// PREFIX/BASE prologue, or "" when none is found.
func firstQueryForm(stripped string) string {
	for _, word := range bareWords(stripped) {
		upper := strings.ToUpper(word)
		switch upper {
		case "PREFIX", "BASE":
			continue
		}
		for _, form := range readForms {
			if upper == form {
				return form
			}
		}
		// Prologue words (prefix names etc.) keep scanning; anything else
		// before a form keyword is handled by the parser.
		continue
	}
	return ""
}
