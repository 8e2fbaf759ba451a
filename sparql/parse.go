package sparql

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/larsgeorge/ontos-sub001/errors"
	"github.com/larsgeorge/ontos-sub001/rdf"
	"github.com/larsgeorge/ontos-sub001/vocabulary"
)

// queryForm enumerates the accepted read-only forms.
type queryForm int

const (
	formSelect queryForm = iota
	formAsk
	formConstruct
	formDescribe
)

// String returns the keyword for the form.
func (f queryForm) String() string {
	switch f {
	case formSelect:
		return "SELECT"
	case formAsk:
		return "ASK"
	case formConstruct:
		return "CONSTRUCT"
	case formDescribe:
		return "DESCRIBE"
	default:
		return "unknown"
	}
}

// patTerm is one position of a triple pattern: a variable or a ground term.
type patTerm struct {
	isVar bool
	name  string   // variable name without '?'
	term  rdf.Term // ground term when isVar is false
}

func varTerm(name string) patTerm { return patTerm{isVar: true, name: name} }
func ground(t rdf.Term) patTerm   { return patTerm{term: t} }
func (p patTerm) isGround() bool  { return !p.isVar }

func (p patTerm) String() string {
	if p.isVar {
		return "?" + p.name
	}
	return p.term.String()
}

// pattern is one triple pattern in a basic graph pattern or template.
type pattern struct {
	s, p, o patTerm
}

// parsedQuery is the executable representation of a validated query.
type parsedQuery struct {
	form       queryForm
	distinct   bool
	projection []string // SELECT variables; empty means *
	where      []pattern
	template   []pattern  // CONSTRUCT template
	describe   []rdf.Term // DESCRIBE targets
	limit      int        // 0 means no LIMIT clause
}

// queryParser tokenizes and parses query text. All parse failures surface as
// validation errors; nothing executes until the whole query parsed.
type queryParser struct {
	tokens   []string
	pos      int
	prefixes map[string]string
	base     string
}

// parseQuery parses validated query text into its executable form.
func parseQuery(text string) (*parsedQuery, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	p := &queryParser{tokens: tokens, prefixes: make(map[string]string)}

	if err := p.parsePrologue(); err != nil {
		return nil, err
	}

	switch strings.ToUpper(p.peek()) {
	case "SELECT":
		return p.parseSelect()
	case "ASK":
		return p.parseAsk()
	case "CONSTRUCT":
		return p.parseConstruct()
	case "DESCRIBE":
		return p.parseDescribe()
	default:
		return nil, errors.Validationf("expected a query form, found %q", p.peek())
	}
}

// tokenize splits query text into tokens, keeping IRI refs, literals, and
// variables intact.
func tokenize(text string) ([]string, error) {
	var tokens []string
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			continue
		case r == '#':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
		case r == '{' || r == '}' || r == '.' || r == ';' || r == ',' || r == '*':
			tokens = append(tokens, string(r))
		case r == '<':
			j := i + 1
			for j < len(runes) && runes[j] != '>' {
				j++
			}
			if j >= len(runes) {
				return nil, errors.Validation("unterminated IRI reference")
			}
			tokens = append(tokens, string(runes[i:j+1]))
			i = j
		case r == '"' || r == '\'':
			j := i + 1
			for j < len(runes) && runes[j] != r {
				if runes[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(runes) {
				return nil, errors.Validation("unterminated string literal")
			}
			// Attach any @lang or ^^datatype suffix to the literal token.
			end := j + 1
			for end < len(runes) && !unicode.IsSpace(runes[end]) &&
				runes[end] != '{' && runes[end] != '}' && runes[end] != '.' &&
				runes[end] != ';' && runes[end] != ',' {
				end++
			}
			tokens = append(tokens, string(runes[i:end]))
			i = end - 1
		default:
			j := i
			for j < len(runes) && !unicode.IsSpace(runes[j]) &&
				runes[j] != '{' && runes[j] != '}' && runes[j] != ';' &&
				runes[j] != ',' && runes[j] != '<' && runes[j] != '"' &&
				runes[j] != '\'' && runes[j] != '#' {
				j++
			}
			word := string(runes[i:j])
			// A trailing dot terminates a pattern, not a word.
			for strings.HasSuffix(word, ".") && len(word) > 1 && !strings.Contains(word, ":") {
				word = word[:len(word)-1]
				j--
			}
			tokens = append(tokens, word)
			i = j - 1
		}
	}
	return tokens, nil
}

func (p *queryParser) peek() string {
	if p.pos >= len(p.tokens) {
		return ""
	}
	return p.tokens[p.pos]
}

func (p *queryParser) next() string {
	tok := p.peek()
	if tok != "" {
		p.pos++
	}
	return tok
}

func (p *queryParser) expect(token string) error {
	tok := p.next()
	if !strings.EqualFold(tok, token) {
		return errors.Validationf("expected %q, found %q", token, tok)
	}
	return nil
}

// parsePrologue consumes PREFIX and BASE declarations.
func (p *queryParser) parsePrologue() error {
	for {
		switch strings.ToUpper(p.peek()) {
		case "PREFIX":
			p.next()
			name := p.next()
			if !strings.HasSuffix(name, ":") {
				return errors.Validationf("PREFIX name %q must end with ':'", name)
			}
			iri := p.next()
			if !isIRIRef(iri) {
				return errors.Validationf("PREFIX expects an IRI, found %q", iri)
			}
			p.prefixes[strings.TrimSuffix(name, ":")] = trimIRIRef(iri)
		case "BASE":
			p.next()
			iri := p.next()
			if !isIRIRef(iri) {
				return errors.Validationf("BASE expects an IRI, found %q", iri)
			}
			p.base = trimIRIRef(iri)
		default:
			return nil
		}
	}
}

func (p *queryParser) parseSelect() (*parsedQuery, error) {
	p.next() // SELECT
	q := &parsedQuery{form: formSelect}

	if strings.EqualFold(p.peek(), "DISTINCT") {
		p.next()
		q.distinct = true
	}

	switch {
	case p.peek() == "*":
		p.next()
	case strings.HasPrefix(p.peek(), "?") || strings.HasPrefix(p.peek(), "$"):
		for strings.HasPrefix(p.peek(), "?") || strings.HasPrefix(p.peek(), "$") {
			q.projection = append(q.projection, p.next()[1:])
		}
	default:
		return nil, errors.Validationf("SELECT expects variables or '*', found %q", p.peek())
	}

	if err := p.expect("WHERE"); err != nil {
		return nil, err
	}
	where, err := p.parseGroupGraphPattern()
	if err != nil {
		return nil, err
	}
	q.where = where

	if err := p.parseModifiers(q); err != nil {
		return nil, err
	}
	return q, p.expectEnd()
}

func (p *queryParser) parseAsk() (*parsedQuery, error) {
	p.next() // ASK
	if strings.EqualFold(p.peek(), "WHERE") {
		p.next()
	}
	where, err := p.parseGroupGraphPattern()
	if err != nil {
		return nil, err
	}
	q := &parsedQuery{form: formAsk, where: where}
	return q, p.expectEnd()
}

func (p *queryParser) parseConstruct() (*parsedQuery, error) {
	p.next() // CONSTRUCT
	template, err := p.parseGroupGraphPattern()
	if err != nil {
		return nil, err
	}
	if err := p.expect("WHERE"); err != nil {
		return nil, err
	}
	where, err := p.parseGroupGraphPattern()
	if err != nil {
		return nil, err
	}
	q := &parsedQuery{form: formConstruct, template: template, where: where}
	if err := p.parseModifiers(q); err != nil {
		return nil, err
	}
	return q, p.expectEnd()
}

func (p *queryParser) parseDescribe() (*parsedQuery, error) {
	p.next() // DESCRIBE
	q := &parsedQuery{form: formDescribe}
	for {
		tok := p.peek()
		if tok == "" || strings.EqualFold(tok, "LIMIT") {
			break
		}
		term, err := p.resolveGroundTerm(p.next())
		if err != nil {
			return nil, err
		}
		if term.Kind != rdf.KindIRI {
			return nil, errors.Validation("DESCRIBE targets must be IRIs")
		}
		q.describe = append(q.describe, term)
	}
	if len(q.describe) == 0 {
		return nil, errors.Validation("DESCRIBE requires at least one IRI")
	}
	if err := p.parseModifiers(q); err != nil {
		return nil, err
	}
	return q, p.expectEnd()
}

// parseModifiers consumes an optional LIMIT clause.
func (p *queryParser) parseModifiers(q *parsedQuery) error {
	if strings.EqualFold(p.peek(), "LIMIT") {
		p.next()
		n, err := strconv.Atoi(p.peek())
		if err != nil || n < 0 {
			return errors.Validationf("LIMIT expects a non-negative integer, found %q", p.peek())
		}
		p.next()
		q.limit = n
	}
	return nil
}

func (p *queryParser) expectEnd() error {
	if tok := p.peek(); tok != "" {
		return errors.Validationf("unexpected trailing token %q", tok)
	}
	return nil
}

// parseGroupGraphPattern parses "{ pattern . pattern ... }" with ';' and ','
// abbreviations.
func (p *queryParser) parseGroupGraphPattern() ([]pattern, error) {
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	var patterns []pattern
	for {
		tok := p.peek()
		switch {
		case tok == "":
			return nil, errors.Validation("unterminated group graph pattern")
		case tok == "}":
			p.next()
			return patterns, nil
		case tok == ".":
			p.next()
		case strings.EqualFold(tok, "FILTER") || strings.EqualFold(tok, "OPTIONAL") ||
			strings.EqualFold(tok, "UNION") || strings.EqualFold(tok, "GRAPH"):
			return nil, errors.Validationf("%s is not supported in this query surface", strings.ToUpper(tok))
		default:
			stmt, err := p.parseTriplesSameSubject()
			if err != nil {
				return nil, err
			}
			patterns = append(patterns, stmt...)
		}
	}
}

// parseTriplesSameSubject parses one subject with predicate-object lists.
func (p *queryParser) parseTriplesSameSubject() ([]pattern, error) {
	subj, err := p.parsePatTerm()
	if err != nil {
		return nil, err
	}
	if subj.isGround() && subj.term.Kind == rdf.KindLiteral {
		return nil, errors.Validation("literal cannot appear in subject position")
	}

	var patterns []pattern
	for {
		pred, err := p.parsePatTerm()
		if err != nil {
			return nil, err
		}
		if pred.isGround() && pred.term.Kind != rdf.KindIRI {
			return nil, errors.Validation("predicate must be an IRI or variable")
		}
		for {
			obj, err := p.parsePatTerm()
			if err != nil {
				return nil, err
			}
			patterns = append(patterns, pattern{s: subj, p: pred, o: obj})
			if p.peek() == "," {
				p.next()
				continue
			}
			break
		}
		if p.peek() == ";" {
			p.next()
			if p.peek() == "." || p.peek() == "}" {
				return patterns, nil
			}
			continue
		}
		return patterns, nil
	}
}

// parsePatTerm parses a variable or ground term token.
func (p *queryParser) parsePatTerm() (patTerm, error) {
	tok := p.next()
	if tok == "" {
		return patTerm{}, errors.Validation("unexpected end of query")
	}
	if strings.HasPrefix(tok, "?") || strings.HasPrefix(tok, "$") {
		if len(tok) == 1 {
			return patTerm{}, errors.Validation("empty variable name")
		}
		return varTerm(tok[1:]), nil
	}
	term, err := p.resolveGroundTerm(tok)
	if err != nil {
		return patTerm{}, err
	}
	return ground(term), nil
}

// resolveGroundTerm turns a non-variable token into a term.
func (p *queryParser) resolveGroundTerm(tok string) (rdf.Term, error) {
	switch {
	case tok == "a":
		return rdf.IRI(vocabulary.RdfType), nil
	case isIRIRef(tok):
		return rdf.IRI(p.resolveIRI(trimIRIRef(tok))), nil
	case strings.HasPrefix(tok, "\"") || strings.HasPrefix(tok, "'"):
		return parseLiteralToken(tok, p)
	case strings.HasPrefix(tok, "_:"):
		return rdf.Blank(tok[2:]), nil
	case strings.Contains(tok, ":"):
		idx := strings.Index(tok, ":")
		prefix, local := tok[:idx], tok[idx+1:]
		ns, ok := p.prefixes[prefix]
		if !ok {
			return rdf.Term{}, errors.Validationf("undeclared prefix %q", prefix)
		}
		return rdf.IRI(ns + local), nil
	default:
		return rdf.Term{}, errors.Validationf("unexpected token %q", tok)
	}
}

func (p *queryParser) resolveIRI(iri string) string {
	if p.base == "" || strings.Contains(iri, ":") {
		return iri
	}
	return strings.TrimSuffix(p.base, "/") + "/" + strings.TrimPrefix(iri, "/")
}

// parseLiteralToken parses a quoted literal token with optional @lang or
// ^^datatype suffix (already attached by the tokenizer).
func parseLiteralToken(tok string, p *queryParser) (rdf.Term, error) {
	quote := tok[0]
	end := 1
	for end < len(tok) {
		if tok[end] == '\\' {
			end += 2
			continue
		}
		if tok[end] == quote {
			break
		}
		end++
	}
	if end >= len(tok) {
		return rdf.Term{}, errors.Validation("unterminated string literal")
	}
	value := strings.NewReplacer(`\"`, `"`, `\'`, `'`, `\\`, `\`, `\n`, "\n", `\t`, "\t").Replace(tok[1:end])
	suffix := tok[end+1:]
	switch {
	case suffix == "":
		return rdf.Literal(value), nil
	case strings.HasPrefix(suffix, "@"):
		return rdf.TypedLiteral(value, suffix[1:]), nil
	case strings.HasPrefix(suffix, "^^"):
		dt, err := p.resolveGroundTerm(suffix[2:])
		if err != nil {
			return rdf.Term{}, err
		}
		if dt.Kind != rdf.KindIRI {
			return rdf.Term{}, errors.Validation("datatype must be an IRI")
		}
		return rdf.TypedLiteral(value, dt.Value), nil
	default:
		return rdf.Term{}, errors.Validationf("malformed literal suffix %q", suffix)
	}
}

func isIRIRef(tok string) bool {
	return strings.HasPrefix(tok, "<") && strings.HasSuffix(tok, ">") && len(tok) >= 2
}

func trimIRIRef(tok string) string {
	return strings.TrimSuffix(strings.TrimPrefix(tok, "<"), ">")
}
