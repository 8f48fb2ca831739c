// Package jvm builds and parses JVM method descriptors, the matching key
// used to pair a reflected method with its metadata function record.
package jvm

import (
	"errors"
	"fmt"
	"strings"
)

var ErrBadDescriptor = errors.New("jvm: malformed descriptor")

// Class is a class name as reflection reports it: a primitive keyword
// ("int"), a dotted binary name ("java.lang.String", "a.B$C"), or an array
// binary name ("[I", "[Ljava.lang.String;").
type Class string

var primitiveCodes = map[Class]byte{
	"int":     'I',
	"long":    'J',
	"boolean": 'Z',
	"byte":    'B',
	"char":    'C',
	"float":   'F',
	"double":  'D',
	"short":   'S',
	"void":    'V',
}

var primitiveNames = func() map[byte]Class {
	m := make(map[byte]Class, len(primitiveCodes))
	for k, v := range primitiveCodes {
		m[v] = k
	}
	return m
}()

// Common classes.
const (
	Void         Class = "void"
	Int          Class = "int"
	Long         Class = "long"
	Boolean      Class = "boolean"
	Object       Class = "java.lang.Object"
	String       Class = "java.lang.String"
	Continuation Class = "kotlin.coroutines.Continuation"
)

// IsPrimitive reports whether c is a primitive keyword.
func (c Class) IsPrimitive() bool {
	_, ok := primitiveCodes[c]
	return ok
}

// IsArray reports whether c is an array binary name.
func (c Class) IsArray() bool { return strings.HasPrefix(string(c), "[") }

// Descriptor returns the field descriptor of c.
func (c Class) Descriptor() string {
	switch {
	case c.IsPrimitive():
		return string(primitiveCodes[c])
	case c.IsArray():
		return strings.ReplaceAll(string(c), ".", "/")
	default:
		return "L" + strings.ReplaceAll(string(c), ".", "/") + ";"
	}
}

// ArrayOf returns the array class whose elements are c.
func ArrayOf(c Class) Class {
	switch {
	case c.IsPrimitive():
		return Class("[" + string(primitiveCodes[c]))
	case c.IsArray():
		return "[" + c
	default:
		return Class("[L" + string(c) + ";")
	}
}

// Method is the reflected shape of a method: what a descriptor is built from.
type Method struct {
	Name   string  `json:"name"`
	Params []Class `json:"params"`
	Return Class   `json:"return"`
}

// Descriptor returns name + "(" + params + ")" + return, the same form a
// metadata function record's key takes.
func (m Method) Descriptor() string {
	var sb strings.Builder
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	for _, p := range m.Params {
		sb.WriteString(p.Descriptor())
	}
	sb.WriteByte(')')
	sb.WriteString(m.Return.Descriptor())
	return sb.String()
}

func (m Method) String() string {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = string(p)
	}
	return fmt.Sprintf("%s %s(%s)", m.Return, m.Name, strings.Join(params, ", "))
}

// ParseMethod builds a Method from a name and a method descriptor such as
// "(I[Ljava/lang/String;)Ljava/lang/Object;".
func ParseMethod(name, desc string) (Method, error) {
	if desc == "" || desc[0] != '(' {
		return Method{}, fmt.Errorf("%w: %q", ErrBadDescriptor, desc)
	}
	m := Method{Name: name}
	pos := 1
	for pos < len(desc) && desc[pos] != ')' {
		c, err := parseFieldType(desc, &pos)
		if err != nil {
			return Method{}, err
		}
		m.Params = append(m.Params, c)
	}
	if pos >= len(desc) {
		return Method{}, fmt.Errorf("%w: %q: missing ')'", ErrBadDescriptor, desc)
	}
	pos++
	ret, err := parseFieldType(desc, &pos)
	if err != nil {
		return Method{}, err
	}
	if pos != len(desc) {
		return Method{}, fmt.Errorf("%w: %q: trailing data", ErrBadDescriptor, desc)
	}
	m.Return = ret
	return m, nil
}

// ParseSignature splits "name(desc)ret" and parses it.
func ParseSignature(sig string) (Method, error) {
	i := strings.IndexByte(sig, '(')
	if i <= 0 {
		return Method{}, fmt.Errorf("%w: %q", ErrBadDescriptor, sig)
	}
	return ParseMethod(sig[:i], sig[i:])
}

// parseFieldType reads one field type at *pos and returns it as a Class.
func parseFieldType(desc string, pos *int) (Class, error) {
	if *pos >= len(desc) {
		return "", fmt.Errorf("%w: %q: truncated", ErrBadDescriptor, desc)
	}
	ch := desc[*pos]
	switch {
	case ch == 'L':
		end := strings.IndexByte(desc[*pos:], ';')
		if end < 2 {
			return "", fmt.Errorf("%w: %q: bad class type at %d", ErrBadDescriptor, desc, *pos)
		}
		name := desc[*pos+1 : *pos+end]
		*pos += end + 1
		return Class(strings.ReplaceAll(name, "/", ".")), nil
	case ch == '[':
		start := *pos
		for *pos < len(desc) && desc[*pos] == '[' {
			*pos++
		}
		if _, err := parseFieldType(desc, pos); err != nil {
			return "", err
		}
		// Array binary names keep the descriptor form with dots.
		return Class(strings.ReplaceAll(desc[start:*pos], "/", ".")), nil
	default:
		c, ok := primitiveNames[ch]
		if !ok {
			return "", fmt.Errorf("%w: %q: unknown type %q at %d", ErrBadDescriptor, desc, ch, *pos)
		}
		*pos++
		return c, nil
	}
}
