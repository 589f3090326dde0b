package schema

import (
	"fmt"
)

// The RPFM schemas ship as RON (Rusty Object Notation). This file consumes
// just enough of that dialect to pull table definitions out of the top-level
// "definitions" map; every other value is tokenized and skipped. It is not a
// general RON parser.

type tokenType int

const (
	tIllegal tokenType = iota
	tEOF
	tIdent  // StringU8, Some, true
	tString // "unit_key"
	tNumber // 13, -1, 2.5
	tLParen
	tRParen
	tLBrack
	tRBrack
	tLBrace
	tRBrace
	tColon
	tComma
)

type token struct {
	typ     tokenType
	literal string
	line    int
}

type lexer struct {
	input string
	pos   int
	line  int
}

func newLexer(input string) *lexer {
	return &lexer{input: input, line: 1}
}

func (l *lexer) next() token {
	l.skipSpaceAndComments()

	if l.pos >= len(l.input) {
		return token{typ: tEOF, line: l.line}
	}

	ch := l.input[l.pos]
	switch ch {
	case '(':
		l.pos++
		return token{typ: tLParen, literal: "(", line: l.line}
	case ')':
		l.pos++
		return token{typ: tRParen, literal: ")", line: l.line}
	case '[':
		l.pos++
		return token{typ: tLBrack, literal: "[", line: l.line}
	case ']':
		l.pos++
		return token{typ: tRBrack, literal: "]", line: l.line}
	case '{':
		l.pos++
		return token{typ: tLBrace, literal: "{", line: l.line}
	case '}':
		l.pos++
		return token{typ: tRBrace, literal: "}", line: l.line}
	case ':':
		l.pos++
		return token{typ: tColon, literal: ":", line: l.line}
	case ',':
		l.pos++
		return token{typ: tComma, literal: ",", line: l.line}
	case '"':
		return l.readString()
	case '\'':
		return l.readChar()
	}

	if isIdentStart(ch) {
		return l.readIdent()
	}
	if ch == '-' || ch == '+' || isDigit(ch) {
		return l.readNumber()
	}

	l.pos++
	return token{typ: tIllegal, literal: string(ch), line: l.line}
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.input) {
		switch ch := l.input[l.pos]; {
		case ch == '\n':
			l.line++
			l.pos++
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.pos++
		case ch == '/' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '/':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
		case ch == '/' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '*':
			l.pos += 2
			for l.pos+1 < len(l.input) && !(l.input[l.pos] == '*' && l.input[l.pos+1] == '/') {
				if l.input[l.pos] == '\n' {
					l.line++
				}
				l.pos++
			}
			l.pos += 2
		default:
			return
		}
	}
}

// readString decodes a double-quoted string. Common escapes are translated;
// anything unrecognized keeps the escaped character as-is, which is enough
// for field and table names.
func (l *lexer) readString() token {
	line := l.line
	l.pos++ // opening quote

	var out []byte
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '"' {
			l.pos++
			return token{typ: tString, literal: string(out), line: line}
		}
		if ch == '\\' && l.pos+1 < len(l.input) {
			l.pos++
			switch esc := l.input[l.pos]; esc {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			default:
				out = append(out, esc)
			}
			l.pos++
			continue
		}
		if ch == '\n' {
			l.line++
		}
		out = append(out, ch)
		l.pos++
	}
	return token{typ: tIllegal, literal: string(out), line: line}
}

func (l *lexer) readChar() token {
	line := l.line
	l.pos++ // opening quote

	var out []byte
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '\'' {
			l.pos++
			return token{typ: tString, literal: string(out), line: line}
		}
		if ch == '\\' && l.pos+1 < len(l.input) {
			l.pos++
		}
		out = append(out, l.input[l.pos])
		l.pos++
	}
	return token{typ: tIllegal, literal: string(out), line: line}
}

func (l *lexer) readIdent() token {
	line := l.line
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.pos++
	}
	return token{typ: tIdent, literal: l.input[start:l.pos], line: line}
}

func (l *lexer) readNumber() token {
	line := l.line
	start := l.pos
	if l.input[l.pos] == '-' || l.input[l.pos] == '+' {
		l.pos++
	}
	for l.pos < len(l.input) && (isDigit(l.input[l.pos]) || l.input[l.pos] == '.' ||
		l.input[l.pos] == 'e' || l.input[l.pos] == 'E' ||
		l.input[l.pos] == '_' || l.input[l.pos] == 'x') {
		l.pos++
	}
	return token{typ: tNumber, literal: l.input[start:l.pos], line: line}
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// ---------------------------------------------------------------------------

type parser struct {
	lex *lexer
	tok token
}

func parseRON(input string) (*Schema, error) {
	p := &parser{lex: newLexer(input)}
	p.advance()

	// The document root is a struct, optionally behind a type name:
	// Schema( version: 4, definitions: {...} ) or an anonymous tuple form.
	if p.tok.typ == tIdent {
		p.advance()
	}
	if p.tok.typ != tLParen {
		return nil, p.errf("expected top-level struct")
	}
	p.advance()

	s := &Schema{Definitions: map[string][]Definition{}}

	for p.tok.typ != tRParen && p.tok.typ != tEOF {
		key, err := p.structKey()
		if err != nil {
			return nil, err
		}
		if key == "definitions" {
			if err := p.parseDefinitions(s); err != nil {
				return nil, err
			}
		} else if err := p.skipValue(); err != nil {
			return nil, err
		}
		p.eat(tComma)
	}

	return s, nil
}

// parseDefinitions reads { "table_name": [ defs... ], ... }.
func (p *parser) parseDefinitions(s *Schema) error {
	if p.tok.typ != tLBrace {
		return p.errf("definitions: expected map")
	}
	p.advance()

	for p.tok.typ != tRBrace && p.tok.typ != tEOF {
		if p.tok.typ != tString {
			return p.errf("definitions: expected table name string")
		}
		name := p.tok.literal
		p.advance()
		if !p.eat(tColon) {
			return p.errf("definitions: expected ':' after %q", name)
		}

		defs, err := p.parseDefinitionList()
		if err != nil {
			return err
		}
		s.Definitions[name] = defs
		p.eat(tComma)
	}
	p.advance() // closing brace
	return nil
}

func (p *parser) parseDefinitionList() ([]Definition, error) {
	if p.tok.typ != tLBrack {
		return nil, p.errf("expected definition list")
	}
	p.advance()

	var defs []Definition
	for p.tok.typ != tRBrack && p.tok.typ != tEOF {
		def, err := p.parseDefinition()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
		p.eat(tComma)
	}
	p.advance() // closing bracket
	return defs, nil
}

func (p *parser) parseDefinition() (Definition, error) {
	var def Definition

	if p.tok.typ == tIdent {
		p.advance()
	}
	if p.tok.typ != tLParen {
		return def, p.errf("expected definition struct")
	}
	p.advance()

	for p.tok.typ != tRParen && p.tok.typ != tEOF {
		key, err := p.structKey()
		if err != nil {
			return def, err
		}
		switch key {
		case "version":
			if p.tok.typ != tNumber {
				return def, p.errf("version: expected number")
			}
			fmt.Sscanf(p.tok.literal, "%d", &def.Version)
			p.advance()
		case "fields":
			fields, err := p.parseFieldList()
			if err != nil {
				return def, err
			}
			def.Fields = fields
		default:
			if err := p.skipValue(); err != nil {
				return def, err
			}
		}
		p.eat(tComma)
	}
	p.advance() // closing paren
	return def, nil
}

func (p *parser) parseFieldList() ([]Field, error) {
	if p.tok.typ != tLBrack {
		return nil, p.errf("fields: expected list")
	}
	p.advance()

	var fields []Field
	for p.tok.typ != tRBrack && p.tok.typ != tEOF {
		field, err := p.parseField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
		p.eat(tComma)
	}
	p.advance() // closing bracket
	return fields, nil
}

func (p *parser) parseField() (Field, error) {
	var field Field

	if p.tok.typ == tIdent {
		p.advance()
	}
	if p.tok.typ != tLParen {
		return field, p.errf("expected field struct")
	}
	p.advance()

	for p.tok.typ != tRParen && p.tok.typ != tEOF {
		key, err := p.structKey()
		if err != nil {
			return field, err
		}
		switch key {
		case "name":
			if p.tok.typ != tString {
				return field, p.errf("field name: expected string")
			}
			field.Name = p.tok.literal
			p.advance()
		case "field_type":
			// The type is an enum variant: a bare tag (StringU8) or a tag
			// with a payload (SequenceU32(...)). Only the tag matters.
			if p.tok.typ != tIdent {
				return field, p.errf("field_type: expected type tag")
			}
			field.Type = p.tok.literal
			p.advance()
			if p.tok.typ == tLParen {
				if err := p.skipGroup(tLParen, tRParen); err != nil {
					return field, err
				}
			}
		default:
			if err := p.skipValue(); err != nil {
				return field, err
			}
		}
		p.eat(tComma)
	}
	p.advance() // closing paren
	return field, nil
}

// structKey reads "<ident>:" and leaves the cursor on the value.
func (p *parser) structKey() (string, error) {
	if p.tok.typ != tIdent {
		return "", p.errf("expected struct key")
	}
	key := p.tok.literal
	p.advance()
	if !p.eat(tColon) {
		return "", p.errf("expected ':' after key %q", key)
	}
	return key, nil
}

// skipValue consumes one value of any shape without interpreting it.
func (p *parser) skipValue() error {
	switch p.tok.typ {
	case tString, tNumber:
		p.advance()
		return nil
	case tIdent:
		// Enum variant, possibly with a payload: None, Some("x"), true.
		p.advance()
		if p.tok.typ == tLParen {
			return p.skipGroup(tLParen, tRParen)
		}
		return nil
	case tLParen:
		return p.skipGroup(tLParen, tRParen)
	case tLBrack:
		return p.skipGroup(tLBrack, tRBrack)
	case tLBrace:
		return p.skipGroup(tLBrace, tRBrace)
	}
	return p.errf("unexpected token %q", p.tok.literal)
}

// skipGroup consumes a balanced group, tracking all three bracket kinds so
// nested containers of any mix are passed over.
func (p *parser) skipGroup(open, close tokenType) error {
	if p.tok.typ != open {
		return p.errf("expected group open")
	}
	depth := 0
	for {
		switch p.tok.typ {
		case tLParen, tLBrack, tLBrace:
			depth++
		case tRParen, tRBrack, tRBrace:
			depth--
		case tEOF:
			return p.errf("unterminated group")
		}
		p.advance()
		if depth == 0 {
			return nil
		}
	}
}

func (p *parser) advance() { p.tok = p.lex.next() }

func (p *parser) eat(t tokenType) bool {
	if p.tok.typ == t {
		p.advance()
		return true
	}
	return false
}

func (p *parser) errf(format string, args ...any) error {
	return fmt.Errorf("schema line %d: %s", p.tok.line, fmt.Sprintf(format, args...))
}
