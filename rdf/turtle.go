package rdf

import (
	"fmt"
	"strings"
	"unicode"
)

// DecodeTurtle parses a Turtle document subset into triples.
//
// Supported surface: @prefix and @base directives (and their SPARQL-style
// PREFIX/BASE forms), absolute IRIs in angle brackets, prefixed names, the
// "a" keyword, string literals with language tags or datatypes, bare numeric
// and boolean literals, labelled blank nodes ("_:b1"), comments, and the
// ";" / "," predicate and object list separators. Anonymous blank nodes and
// RDF collections are not supported and fail the parse.
func DecodeTurtle(text string) ([]Triple, error) {
	p := &turtleParser{
		lexer:    newTurtleLexer(text),
		prefixes: make(map[string]string),
	}
	return p.parse()
}

// turtleTokenKind enumerates lexical token categories.
type turtleTokenKind int

const (
	tokEOF turtleTokenKind = iota
	tokIRI                 // <...>
	tokPName               // prefix:local or prefix: or :local
	tokBlank               // _:label
	tokLiteral             // "..." (value only; suffixes are separate tokens)
	tokLangTag             // @en
	tokDatatypeMark        // ^^
	tokA                   // the keyword a
	tokDot
	tokSemicolon
	tokComma
	tokDirective // @prefix / @base
	tokWord      // bare word: numbers, booleans, PREFIX/BASE
)

type turtleToken struct {
	kind turtleTokenKind
	text string
	line int
}

type turtleLexer struct {
	input []rune
	pos   int
	line  int
}

func newTurtleLexer(text string) *turtleLexer {
	return &turtleLexer{input: []rune(text), line: 1}
}

func (l *turtleLexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *turtleLexer) advance() rune {
	r := l.input[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *turtleLexer) skipSpaceAndComments() {
	for l.pos < len(l.input) {
		r := l.peek()
		switch {
		case r == '#':
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.pos++
			}
		case unicode.IsSpace(r):
			l.advance()
		default:
			return
		}
	}
}

// next returns the next token, or an error for malformed input.
func (l *turtleLexer) next() (turtleToken, error) {
	l.skipSpaceAndComments()
	if l.pos >= len(l.input) {
		return turtleToken{kind: tokEOF, line: l.line}, nil
	}

	line := l.line
	r := l.peek()
	switch {
	case r == '<':
		return l.lexIRI(line)
	case r == '"' || r == '\'':
		return l.lexString(line)
	case r == '@':
		return l.lexAt(line)
	case r == '.':
		l.advance()
		return turtleToken{kind: tokDot, line: line}, nil
	case r == ';':
		l.advance()
		return turtleToken{kind: tokSemicolon, line: line}, nil
	case r == ',':
		l.advance()
		return turtleToken{kind: tokComma, line: line}, nil
	case r == '^':
		l.advance()
		if l.peek() != '^' {
			return turtleToken{}, fmt.Errorf("line %d: lone '^'", line)
		}
		l.advance()
		return turtleToken{kind: tokDatatypeMark, line: line}, nil
	case r == '[' || r == '(' || r == ']' || r == ')':
		return turtleToken{}, fmt.Errorf("line %d: unsupported syntax %q (anonymous nodes and collections are not accepted)", line, string(r))
	default:
		return l.lexWordLike(line)
	}
}

func (l *turtleLexer) lexIRI(line int) (turtleToken, error) {
	l.advance() // consume '<'
	var sb strings.Builder
	for l.pos < len(l.input) {
		r := l.advance()
		if r == '>' {
			return turtleToken{kind: tokIRI, text: sb.String(), line: line}, nil
		}
		if r == '\n' {
			break
		}
		sb.WriteRune(r)
	}
	return turtleToken{}, fmt.Errorf("line %d: unterminated IRI", line)
}

func (l *turtleLexer) lexString(line int) (turtleToken, error) {
	quote := l.advance()
	var sb strings.Builder
	for l.pos < len(l.input) {
		r := l.advance()
		switch r {
		case quote:
			return turtleToken{kind: tokLiteral, text: sb.String(), line: line}, nil
		case '\\':
			if l.pos >= len(l.input) {
				return turtleToken{}, fmt.Errorf("line %d: dangling escape", line)
			}
			esc := l.advance()
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case '"', '\'', '\\':
				sb.WriteRune(esc)
			default:
				sb.WriteRune('\\')
				sb.WriteRune(esc)
			}
		default:
			sb.WriteRune(r)
		}
	}
	return turtleToken{}, fmt.Errorf("line %d: unterminated string literal", line)
}

func (l *turtleLexer) lexAt(line int) (turtleToken, error) {
	l.advance() // consume '@'
	word := l.takeWhile(func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-'
	})
	switch word {
	case "prefix", "base":
		return turtleToken{kind: tokDirective, text: word, line: line}, nil
	case "":
		return turtleToken{}, fmt.Errorf("line %d: lone '@'", line)
	default:
		return turtleToken{kind: tokLangTag, text: word, line: line}, nil
	}
}

func (l *turtleLexer) lexWordLike(line int) (turtleToken, error) {
	word := l.takeWhile(func(r rune) bool {
		if unicode.IsSpace(r) {
			return false
		}
		switch r {
		case ';', ',', '<', '"', '\'', '#', '^', '[', ']', '(', ')':
			return false
		case '.':
			// A dot ends a statement unless it sits inside a word
			// (decimal number, dotted local name).
			next := rune(0)
			if l.pos+1 < len(l.input) {
				next = l.input[l.pos+1]
			}
			return next != 0 && !unicode.IsSpace(next) && next != '#'
		}
		return true
	})
	if word == "" {
		return turtleToken{}, fmt.Errorf("line %d: unexpected character %q", line, string(l.peek()))
	}
	switch {
	case word == "a":
		return turtleToken{kind: tokA, line: line}, nil
	case strings.HasPrefix(word, "_:"):
		return turtleToken{kind: tokBlank, text: word[2:], line: line}, nil
	case strings.Contains(word, ":"):
		return turtleToken{kind: tokPName, text: word, line: line}, nil
	default:
		return turtleToken{kind: tokWord, text: word, line: line}, nil
	}
}

func (l *turtleLexer) takeWhile(pred func(rune) bool) string {
	var sb strings.Builder
	for l.pos < len(l.input) && pred(l.peek()) {
		sb.WriteRune(l.advance())
	}
	return sb.String()
}

type turtleParser struct {
	lexer    *turtleLexer
	prefixes map[string]string
	base     string
	peeked   *turtleToken
}

func (p *turtleParser) next() (turtleToken, error) {
	if p.peeked != nil {
		tok := *p.peeked
		p.peeked = nil
		return tok, nil
	}
	return p.lexer.next()
}

func (p *turtleParser) peek() (turtleToken, error) {
	if p.peeked == nil {
		tok, err := p.lexer.next()
		if err != nil {
			return turtleToken{}, err
		}
		p.peeked = &tok
	}
	return *p.peeked, nil
}

func (p *turtleParser) parse() ([]Triple, error) {
	var triples []Triple
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokEOF:
			return triples, nil
		case tokDirective:
			if err := p.parseDirective(); err != nil {
				return nil, err
			}
		case tokWord:
			// SPARQL-style PREFIX / BASE keywords (no trailing dot).
			upper := strings.ToUpper(tok.text)
			if upper == "PREFIX" || upper == "BASE" {
				if _, err := p.next(); err != nil {
					return nil, err
				}
				if err := p.parseDirectiveBody(strings.ToLower(upper), false); err != nil {
					return nil, err
				}
				continue
			}
			return nil, fmt.Errorf("line %d: unexpected token %q at statement start", tok.line, tok.text)
		default:
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			triples = append(triples, stmt...)
		}
	}
}

func (p *turtleParser) parseDirective() error {
	tok, err := p.next()
	if err != nil {
		return err
	}
	return p.parseDirectiveBody(tok.text, true)
}

// parseDirectiveBody consumes the remainder of a prefix or base directive.
// Turtle-style directives require a closing dot, SPARQL-style ones forbid it.
func (p *turtleParser) parseDirectiveBody(kind string, wantDot bool) error {
	switch kind {
	case "prefix":
		nameTok, err := p.next()
		if err != nil {
			return err
		}
		if nameTok.kind != tokPName || !strings.HasSuffix(nameTok.text, ":") {
			return fmt.Errorf("line %d: @prefix expects a name ending in ':'", nameTok.line)
		}
		iriTok, err := p.next()
		if err != nil {
			return err
		}
		if iriTok.kind != tokIRI {
			return fmt.Errorf("line %d: @prefix expects an IRI", iriTok.line)
		}
		p.prefixes[strings.TrimSuffix(nameTok.text, ":")] = iriTok.text
	case "base":
		iriTok, err := p.next()
		if err != nil {
			return err
		}
		if iriTok.kind != tokIRI {
			return fmt.Errorf("line %d: @base expects an IRI", iriTok.line)
		}
		p.base = iriTok.text
	default:
		return fmt.Errorf("unknown directive @%s", kind)
	}
	if wantDot {
		dot, err := p.next()
		if err != nil {
			return err
		}
		if dot.kind != tokDot {
			return fmt.Errorf("line %d: directive must end with '.'", dot.line)
		}
	}
	return nil
}

// parseStatement parses one subject with its predicate-object lists, ending
// at the statement dot.
func (p *turtleParser) parseStatement() ([]Triple, error) {
	subjTok, err := p.next()
	if err != nil {
		return nil, err
	}
	subject, err := p.resolveNode(subjTok)
	if err != nil {
		return nil, err
	}
	if subject.Kind == KindLiteral {
		return nil, fmt.Errorf("line %d: literal cannot be a subject", subjTok.line)
	}

	var triples []Triple
	for {
		predTok, err := p.next()
		if err != nil {
			return nil, err
		}
		predicate, err := p.resolvePredicate(predTok)
		if err != nil {
			return nil, err
		}

		for {
			object, err := p.parseObject()
			if err != nil {
				return nil, err
			}
			triples = append(triples, Triple{Subject: subject, Predicate: predicate, Object: object})

			sep, err := p.next()
			if err != nil {
				return nil, err
			}
			if sep.kind == tokComma {
				continue
			}
			switch sep.kind {
			case tokDot:
				return triples, nil
			case tokSemicolon:
				// A trailing semicolon before the dot is legal Turtle.
				after, err := p.peek()
				if err != nil {
					return nil, err
				}
				if after.kind == tokDot {
					if _, err := p.next(); err != nil {
						return nil, err
					}
					return triples, nil
				}
			default:
				return nil, fmt.Errorf("line %d: expected '.', ';' or ',' after object", sep.line)
			}
			break
		}
	}
}

func (p *turtleParser) parseObject() (Term, error) {
	tok, err := p.next()
	if err != nil {
		return Term{}, err
	}
	if tok.kind == tokLiteral {
		return p.parseLiteralSuffix(tok.text)
	}
	return p.resolveNode(tok)
}

// parseLiteralSuffix attaches an optional language tag or datatype to a
// just-lexed string literal.
func (p *turtleParser) parseLiteralSuffix(value string) (Term, error) {
	tok, err := p.peek()
	if err != nil {
		return Term{}, err
	}
	switch tok.kind {
	case tokLangTag:
		if _, err := p.next(); err != nil {
			return Term{}, err
		}
		return TypedLiteral(value, tok.text), nil
	case tokDatatypeMark:
		if _, err := p.next(); err != nil {
			return Term{}, err
		}
		dtTok, err := p.next()
		if err != nil {
			return Term{}, err
		}
		dt, err := p.resolveNode(dtTok)
		if err != nil {
			return Term{}, err
		}
		if dt.Kind != KindIRI {
			return Term{}, fmt.Errorf("line %d: datatype must be an IRI", dtTok.line)
		}
		return TypedLiteral(value, dt.Value), nil
	default:
		return Literal(value), nil
	}
}

// resolveNode turns an IRI, prefixed-name, blank, or bare-word token into a
// term. Bare words cover Turtle's numeric and boolean shorthand literals.
func (p *turtleParser) resolveNode(tok turtleToken) (Term, error) {
	switch tok.kind {
	case tokIRI:
		return IRI(p.resolveIRI(tok.text)), nil
	case tokPName:
		iri, err := p.expandPName(tok.text)
		if err != nil {
			return Term{}, fmt.Errorf("line %d: %w", tok.line, err)
		}
		return IRI(iri), nil
	case tokBlank:
		return Blank(tok.text), nil
	case tokWord:
		return bareWordLiteral(tok)
	default:
		return Term{}, fmt.Errorf("line %d: unexpected token in node position", tok.line)
	}
}

func (p *turtleParser) resolvePredicate(tok turtleToken) (Term, error) {
	if tok.kind == tokA {
		return IRI(rdfTypeIRI), nil
	}
	node, err := p.resolveNode(tok)
	if err != nil {
		return Term{}, err
	}
	if node.Kind != KindIRI {
		return Term{}, fmt.Errorf("line %d: predicate must be an IRI", tok.line)
	}
	return node, nil
}

// resolveIRI applies the document base to IRIs that are clearly relative.
// Anything with a scheme passes through untouched.
func (p *turtleParser) resolveIRI(iri string) string {
	if p.base == "" || strings.Contains(iri, ":") {
		return iri
	}
	return strings.TrimSuffix(p.base, "/") + "/" + strings.TrimPrefix(iri, "/")
}

func (p *turtleParser) expandPName(pname string) (string, error) {
	idx := strings.Index(pname, ":")
	prefix, local := pname[:idx], pname[idx+1:]
	ns, ok := p.prefixes[prefix]
	if !ok {
		return "", fmt.Errorf("undeclared prefix %q", prefix)
	}
	return ns + local, nil
}

const rdfTypeIRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

const (
	xsdInteger = "http://www.w3.org/2001/XMLSchema#integer"
	xsdDecimal = "http://www.w3.org/2001/XMLSchema#decimal"
	xsdBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
)

// bareWordLiteral interprets Turtle's unquoted literal shorthand.
func bareWordLiteral(tok turtleToken) (Term, error) {
	word := tok.text
	switch word {
	case "true", "false":
		return TypedLiteral(word, xsdBoolean), nil
	}
	numeric := true
	dotted := false
	for i, r := range word {
		switch {
		case r >= '0' && r <= '9':
		case r == '.':
			dotted = true
		case (r == '+' || r == '-') && i == 0:
		default:
			numeric = false
		}
	}
	if numeric {
		if dotted {
			return TypedLiteral(word, xsdDecimal), nil
		}
		return TypedLiteral(word, xsdInteger), nil
	}
	return Term{}, fmt.Errorf("line %d: unexpected bare word %q", tok.line, word)
}
