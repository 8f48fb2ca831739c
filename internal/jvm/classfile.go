package jvm

import (
	"fmt"
	"io"
	"strings"

	parser "github.com/wreulicke/classfile-parser"
)

// ClassMethods is the method table of a compiled class file.
type ClassMethods struct {
	Name    Class         `json:"name"`
	Methods []ClassMethod `json:"methods"`
}

// ClassMethod is one method of a class file.
type ClassMethod struct {
	Method
	Desc      string `json:"descriptor"`
	Synthetic bool   `json:"synthetic,omitempty"`
	Bridge    bool   `json:"bridge,omitempty"`
}

// ReadClassMethods parses a class file and returns its methods, skipping
// constructors and static initializers.
func ReadClassMethods(r io.Reader) (*ClassMethods, error) {
	cf, err := parser.New(r).Parse()
	if err != nil {
		return nil, fmt.Errorf("jvm: parse class file: %w", err)
	}
	cp := cf.ConstantPool

	name, err := cf.ThisClassName()
	if err != nil {
		return nil, fmt.Errorf("jvm: class name: %w", err)
	}
	out := &ClassMethods{Name: Class(strings.ReplaceAll(name, "/", "."))}

	for i, m := range cf.Methods {
		mname, err := m.Name(cp)
		if err != nil {
			return nil, fmt.Errorf("jvm: method %d name: %w", i, err)
		}
		if mname == "<init>" || mname == "<clinit>" {
			continue
		}
		desc, err := m.Descriptor(cp)
		if err != nil {
			return nil, fmt.Errorf("jvm: method %s descriptor: %w", mname, err)
		}
		parsed, err := ParseMethod(mname, desc)
		if err != nil {
			return nil, err
		}
		out.Methods = append(out.Methods, ClassMethod{
			Method:    parsed,
			Desc:      desc,
			Synthetic: m.AccessFlags.Is(parser.ACC_SYNTHETIC),
			Bridge:    m.AccessFlags.Is(parser.ACC_BRIDGE),
		})
	}
	return out, nil
}
