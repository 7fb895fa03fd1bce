// Package crossfile reads compiler flags out of meson cross files.
package crossfile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/goplus/winebuild/options"
)

// Section is the cross file section flags are read from.
const Section = "properties"

// Keys are the recognized flag keys, in the order they are reported.
var Keys = []string{options.CArgs, options.CLinkArgs, options.CppArgs, options.CppLinkArgs}

// ErrMalformedValue is returned for a value outside the accepted literal subset.
var ErrMalformedValue = errors.New("malformed value in cross file variable")

// Flags returns the recognized flag lists of the cross file at path. Every
// key of Keys is present in the result. A missing file or section yields
// empty lists; other keys are ignored.
func Flags(path string) (map[string][]string, error) {
	flags := make(map[string][]string, len(Keys))
	for _, k := range Keys {
		flags[k] = []string{}
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return flags, nil
	}
	f, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:        true,
		PreserveSurroundedQuote:    true,
		AllowPythonMultilineValues: true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("read cross file %s: %w", path, err)
	}
	sec, err := f.GetSection(Section)
	if err != nil {
		return flags, nil
	}
	for _, key := range sec.Keys() {
		name := strings.ToLower(key.Name())
		if _, ok := flags[name]; !ok {
			continue
		}
		v, err := ParseValue(key.Value())
		if err != nil {
			return nil, fmt.Errorf("%w %s: %v", ErrMalformedValue, name, err)
		}
		list, err := flatten(v)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %v", ErrMalformedValue, name, err)
		}
		flags[name] = append(flags[name], list...)
	}
	return flags, nil
}

// ParseValue evaluates s as a literal made only of quoted strings, booleans
// (true, false, True, False) and bracketed lists of those. The result is a
// string, a bool or a []any.
func ParseValue(s string) (any, error) {
	p := &parser{src: s}
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return v, nil
}

// flatten turns a value into flag words. false and empty strings carry no
// flag and are dropped; true has no flag text and is rejected.
func flatten(v any) ([]string, error) {
	switch v := v.(type) {
	case string:
		if v == "" {
			return nil, nil
		}
		return []string{v}, nil
	case bool:
		if v {
			return nil, errors.New("true is not a flag")
		}
		return nil, nil
	case []any:
		var out []string
		for _, e := range v {
			words, err := flatten(e)
			if err != nil {
				return nil, err
			}
			out = append(out, words...)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unexpected %T", v)
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && strings.IndexByte(" \t\r\n", p.src[p.pos]) >= 0 {
		p.pos++
	}
}

func (p *parser) value() (any, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, p.errorf("unexpected end of value")
	}
	switch c := p.src[p.pos]; {
	case c == '\'' || c == '"':
		return p.str(c)
	case c == '[':
		return p.list()
	case isIdentStart(c):
		start := p.pos
		for p.pos < len(p.src) && isIdent(p.src[p.pos]) {
			p.pos++
		}
		switch word := p.src[start:p.pos]; word {
		case "true", "True":
			return true, nil
		case "false", "False":
			return false, nil
		default:
			p.pos = start
			return nil, p.errorf("name %q is not allowed", word)
		}
	default:
		return nil, p.errorf("unexpected %q", c)
	}
}

func (p *parser) list() (any, error) {
	p.pos++ // [
	out := []any{}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated list")
		}
		if p.src[p.pos] == ']' {
			p.pos++
			return out, nil
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated list")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case ']':
		default:
			return nil, p.errorf("expected ',' or ']', got %q", p.src[p.pos])
		}
	}
}

func (p *parser) str(quote byte) (any, error) {
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\n':
			return nil, p.errorf("newline in string")
		case c == '\\' && p.pos+1 < len(p.src):
			p.pos++
			switch e := p.src[p.pos]; e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\', '\'', '"':
				b.WriteByte(e)
			default:
				b.WriteByte('\\')
				b.WriteByte(e)
			}
		default:
			b.WriteByte(c)
		}
		p.pos++
	}
	return nil, p.errorf("unterminated string")
}

func isIdentStart(c byte) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isIdent(c byte) bool {
	return isIdentStart(c) || '0' <= c && c <= '9'
}
