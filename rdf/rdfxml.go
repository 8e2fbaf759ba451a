package rdf

import (
	"encoding/xml"
	"fmt"
	"strings"
)

const rdfNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

// DecodeRDFXML parses an RDF/XML document subset into triples.
//
// Supported surface: an rdf:RDF envelope (or a single node element as root),
// rdf:Description and typed node elements, rdf:about / rdf:ID / rdf:nodeID
// subject attributes, property elements with rdf:resource or rdf:nodeID
// references, literal property values with xml:lang or rdf:datatype, nested
// node elements, and non-RDF attributes on node elements as literal
// properties. rdf:parseType and reification are not supported.
func DecodeRDFXML(text string) ([]Triple, error) {
	decoder := xml.NewDecoder(strings.NewReader(text))
	p := &rdfxmlParser{decoder: decoder}

	for {
		tok, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("rdf/xml: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Space == rdfNamespace && start.Name.Local == "RDF" {
			if err := p.parseNodeElements(start.Name); err != nil {
				return nil, err
			}
		} else {
			// Document whose root is itself a node element.
			if _, err := p.parseNodeElement(start); err != nil {
				return nil, err
			}
		}
		return p.triples, nil
	}
}

type rdfxmlParser struct {
	decoder   *xml.Decoder
	triples   []Triple
	blankSeq  int
	nodeCount int
}

// parseNodeElements consumes node elements until the closing tag of the
// envelope element.
func (p *rdfxmlParser) parseNodeElements(envelope xml.Name) error {
	for {
		tok, err := p.decoder.Token()
		if err != nil {
			return fmt.Errorf("rdf/xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if _, err := p.parseNodeElement(t); err != nil {
				return err
			}
		case xml.EndElement:
			if t.Name == envelope {
				return nil
			}
		}
	}
}

// parseNodeElement parses one node element and its property elements,
// returning the subject term it described.
func (p *rdfxmlParser) parseNodeElement(start xml.StartElement) (Term, error) {
	p.nodeCount++
	subject := p.subjectFor(start)

	// A typed node element asserts rdf:type from its element name.
	if start.Name.Space != rdfNamespace || start.Name.Local != "Description" {
		p.triples = append(p.triples, Triple{
			Subject:   subject,
			Predicate: IRI(rdfTypeIRI),
			Object:    IRI(start.Name.Space + start.Name.Local),
		})
	}

	// Non-RDF attributes abbreviate literal properties.
	for _, attr := range start.Attr {
		if isSyntaxAttr(attr.Name) {
			continue
		}
		p.triples = append(p.triples, Triple{
			Subject:   subject,
			Predicate: IRI(attr.Name.Space + attr.Name.Local),
			Object:    Literal(attr.Value),
		})
	}

	for {
		tok, err := p.decoder.Token()
		if err != nil {
			return Term{}, fmt.Errorf("rdf/xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := p.parsePropertyElement(subject, t); err != nil {
				return Term{}, err
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return subject, nil
			}
		}
	}
}

// parsePropertyElement parses one property element under the given subject.
func (p *rdfxmlParser) parsePropertyElement(subject Term, start xml.StartElement) error {
	predicate := IRI(start.Name.Space + start.Name.Local)

	var lang, datatype string
	var object *Term
	for _, attr := range start.Attr {
		switch {
		case attr.Name.Space == rdfNamespace && attr.Name.Local == "resource":
			o := IRI(attr.Value)
			object = &o
		case attr.Name.Space == rdfNamespace && attr.Name.Local == "nodeID":
			o := Blank(attr.Value)
			object = &o
		case attr.Name.Space == rdfNamespace && attr.Name.Local == "datatype":
			datatype = attr.Value
		case attr.Name.Local == "lang":
			lang = attr.Value
		}
	}

	var text strings.Builder
	sawNested := false
	for {
		tok, err := p.decoder.Token()
		if err != nil {
			return fmt.Errorf("rdf/xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			// Nested node element: its subject is our object.
			nested, err := p.parseNodeElement(t)
			if err != nil {
				return err
			}
			object = &nested
			sawNested = true
		case xml.EndElement:
			if t.Name != start.Name {
				continue
			}
			if object == nil {
				value := text.String()
				if !sawNested {
					value = strings.TrimSpace(value)
				}
				extra := datatype
				if extra == "" {
					extra = lang
				}
				lit := TypedLiteral(value, extra)
				object = &lit
			}
			p.triples = append(p.triples, Triple{Subject: subject, Predicate: predicate, Object: *object})
			return nil
		}
	}
}

// subjectFor derives the subject term from a node element's identifying
// attributes, minting a document-scoped blank node when none are present.
func (p *rdfxmlParser) subjectFor(start xml.StartElement) Term {
	for _, attr := range start.Attr {
		if attr.Name.Space != rdfNamespace {
			continue
		}
		switch attr.Name.Local {
		case "about":
			return IRI(attr.Value)
		case "ID":
			return IRI("#" + attr.Value)
		case "nodeID":
			return Blank(attr.Value)
		}
	}
	p.blankSeq++
	return Blank(fmt.Sprintf("genid%d", p.blankSeq))
}

// isSyntaxAttr reports whether an attribute belongs to the RDF/XML or XML
// syntax layer rather than the data.
func isSyntaxAttr(name xml.Name) bool {
	if name.Space == rdfNamespace {
		return true
	}
	switch name.Space {
	case "xmlns", "xml", "http://www.w3.org/XML/1998/namespace":
		return true
	}
	return name.Local == "xmlns"
}
