package texconvert

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// The config syntax is a C-like class tree:
//
//	class TextureHints {
//	  class normalmap : parent {
//	    name = "*_nohq.*";
//	    format = "DXT5";
//	    channelSwizzleA = "1-R";
//	    dynRange = 0;
//	    mipmapFilter = NormalizeNormalMapAlpha;
//	  };
//	};
//
// Values are quoted strings, integers or bare identifiers. Both // and
// /* */ comments are allowed anywhere whitespace is.

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenInt
	tokenString
	tokenPunct
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type lexer struct {
	input string
	pos   int
}

func (l *lexer) errorf(pos int, format string, args ...any) error {
	line := 1 + strings.Count(l.input[:pos], "\n")
	return fmt.Errorf("line %d: %s", line, fmt.Sprintf(format, args...))
}

func (l *lexer) skipSpace() error {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.pos++
		case strings.HasPrefix(l.input[l.pos:], "//"):
			end := strings.IndexByte(l.input[l.pos:], '\n')
			if end < 0 {
				l.pos = len(l.input)
			} else {
				l.pos += end + 1
			}
		case strings.HasPrefix(l.input[l.pos:], "/*"):
			end := strings.Index(l.input[l.pos+2:], "*/")
			if end < 0 {
				return l.errorf(l.pos, "unterminated comment")
			}
			l.pos += end + 4
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) next() (token, error) {
	if err := l.skipSpace(); err != nil {
		return token{}, err
	}
	if l.pos >= len(l.input) {
		return token{kind: tokenEOF, pos: l.pos}, nil
	}

	start := l.pos
	c := rune(l.input[l.pos])
	switch {
	case c == '"':
		end := strings.IndexByte(l.input[l.pos+1:], '"')
		if end < 0 {
			return token{}, l.errorf(start, "unterminated string")
		}
		text := l.input[l.pos+1 : l.pos+1+end]
		l.pos += end + 2
		return token{kind: tokenString, text: text, pos: start}, nil

	case c == '-' || unicode.IsDigit(c):
		l.pos++
		for l.pos < len(l.input) && unicode.IsDigit(rune(l.input[l.pos])) {
			l.pos++
		}
		return token{kind: tokenInt, text: l.input[start:l.pos], pos: start}, nil

	case unicode.IsLetter(c) || c == '_':
		l.pos++
		for l.pos < len(l.input) {
			r := rune(l.input[l.pos])
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				break
			}
			l.pos++
		}
		return token{kind: tokenIdent, text: l.input[start:l.pos], pos: start}, nil

	case strings.ContainsRune("={};:", c):
		l.pos++
		return token{kind: tokenPunct, text: string(c), pos: start}, nil
	}

	return token{}, l.errorf(start, "unexpected character %q", c)
}

// value is a property right-hand side.
type value struct {
	str     string
	integer int
	ident   string
	isStr   bool
	isInt   bool
}

// class is a parsed config class with its properties and child classes in
// declaration order.
type class struct {
	name     string
	parent   string
	props    map[string]value // keys uppercased
	children []class
}

func (c *class) prop(key string) (value, bool) {
	v, ok := c.props[strings.ToUpper(key)]
	return v, ok
}

type parser struct {
	lex *lexer
	tok token
}

func newParser(input string) (*parser, error) {
	p := &parser{lex: &lexer{input: input}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expectPunct(s string) error {
	if p.tok.kind != tokenPunct || p.tok.text != s {
		return p.lex.errorf(p.tok.pos, "expected %q, got %q", s, p.tok.text)
	}
	return p.advance()
}

// parseTopLevel reads semicolon-terminated classes and properties until
// EOF and returns the classes.
func (p *parser) parseTopLevel() ([]class, error) {
	var classes []class
	for p.tok.kind != tokenEOF {
		cls, isClass, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		if isClass {
			classes = append(classes, cls)
		}
		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}
	}
	return classes, nil
}

// parseItem parses one class or property. The trailing semicolon is left
// for the caller.
func (p *parser) parseItem() (class, bool, error) {
	if p.tok.kind != tokenIdent {
		return class{}, false, p.lex.errorf(p.tok.pos, "expected identifier, got %q", p.tok.text)
	}

	if strings.EqualFold(p.tok.text, "class") {
		cls, err := p.parseClass()
		return cls, true, err
	}
	_, _, err := p.parseProperty()
	return class{}, false, err
}

func (p *parser) parseClass() (class, error) {
	// "class" already current
	if err := p.advance(); err != nil {
		return class{}, err
	}
	if p.tok.kind != tokenIdent {
		return class{}, p.lex.errorf(p.tok.pos, "expected class name, got %q", p.tok.text)
	}
	cls := class{name: p.tok.text, props: make(map[string]value)}
	if err := p.advance(); err != nil {
		return class{}, err
	}

	if p.tok.kind == tokenPunct && p.tok.text == ":" {
		if err := p.advance(); err != nil {
			return class{}, err
		}
		if p.tok.kind != tokenIdent {
			return class{}, p.lex.errorf(p.tok.pos, "expected parent class name, got %q", p.tok.text)
		}
		cls.parent = p.tok.text
		if err := p.advance(); err != nil {
			return class{}, err
		}
	}

	if err := p.expectPunct("{"); err != nil {
		return class{}, err
	}

	for !(p.tok.kind == tokenPunct && p.tok.text == "}") {
		if p.tok.kind == tokenEOF {
			return class{}, p.lex.errorf(p.tok.pos, "unexpected end of input in class %s", cls.name)
		}
		if p.tok.kind != tokenIdent {
			return class{}, p.lex.errorf(p.tok.pos, "expected class member, got %q", p.tok.text)
		}

		if strings.EqualFold(p.tok.text, "class") {
			child, err := p.parseClass()
			if err != nil {
				return class{}, err
			}
			cls.children = append(cls.children, child)
		} else {
			key, v, err := p.parseProperty()
			if err != nil {
				return class{}, err
			}
			// First declaration wins on duplicates.
			if _, dup := cls.props[key]; !dup {
				cls.props[key] = v
			}
		}
		if err := p.expectPunct(";"); err != nil {
			return class{}, err
		}
	}
	return cls, p.advance()
}

func (p *parser) parseProperty() (string, value, error) {
	key := strings.ToUpper(p.tok.text)
	if err := p.advance(); err != nil {
		return "", value{}, err
	}
	if err := p.expectPunct("="); err != nil {
		return "", value{}, err
	}

	var v value
	switch p.tok.kind {
	case tokenString:
		v = value{str: p.tok.text, isStr: true}
	case tokenInt:
		n, err := strconv.Atoi(p.tok.text)
		if err != nil {
			return "", value{}, p.lex.errorf(p.tok.pos, "bad integer %q", p.tok.text)
		}
		v = value{integer: n, isInt: true}
	case tokenIdent:
		v = value{ident: p.tok.text}
	default:
		return "", value{}, p.lex.errorf(p.tok.pos, "expected value, got %q", p.tok.text)
	}
	return key, v, p.advance()
}
