// Package schema walks the class message of a metadata payload and extracts
// the function records needed to answer return-type questions. Everything
// other than functions, their return types, and their JVM signatures is
// skipped without being stored.
package schema

import (
	"fmt"

	"ktmeta/internal/diag"
	"ktmeta/internal/strtab"
	"ktmeta/internal/wire"
)

// Field numbers of the class, function, type and JVM signature messages.
const (
	fieldClassFunction = 9

	fieldFunctionName       = 2
	fieldFunctionReturnType = 3
	fieldFunctionSignature  = 100

	fieldTypeNullable  = 3
	fieldTypeClassName = 6

	fieldSignatureName = 1
	fieldSignatureDesc = 2
)

// ReturnType is the declared return type of a function.
type ReturnType struct {
	Nullable       bool   `json:"nullable"`
	ClassNameIndex int32  `json:"class_name_index"` // -1 when the type is not a class
	ClassName      string `json:"class_name,omitempty"`
	Unit           bool   `json:"unit"`
}

// Signature is the JVM method signature extension of a function.
type Signature struct {
	NameIndex int32 `json:"name_index"` // -1 = use the function's own name
	DescIndex int32 `json:"desc_index"`
}

// Function is one function record with its JVM identity resolved.
//
// Name, Desc and Key are filled in once by ParseClass and never change.
type Function struct {
	NameIndex  int32      `json:"name_index"`
	ReturnType ReturnType `json:"return_type"`
	Signature  *Signature `json:"signature,omitempty"`

	Name string `json:"name"`
	Desc string `json:"desc,omitempty"`
	Key  string `json:"key,omitempty"` // Name+Desc; empty without a signature
}

// NullableOrUnit reports whether an absent result is legitimate for f.
func (f *Function) NullableOrUnit() bool {
	return f.ReturnType.Nullable || f.ReturnType.Unit
}

// Class is the subset of a class message this package extracts.
type Class struct {
	Functions []Function `json:"functions"`
}

// ParseClass walks a class message and resolves every function against t.
func ParseClass(r *wire.Reader, t *strtab.Table, diags *diag.Diags) (*Class, error) {
	c := &Class{}
	for {
		tag, ok, err := r.ReadTag()
		if err != nil {
			return nil, fmt.Errorf("schema: class: %w", err)
		}
		if !ok {
			return c, nil
		}
		if tag.Field != fieldClassFunction {
			if err := r.Skip(); err != nil {
				return nil, fmt.Errorf("schema: class field %d: %w", tag.Field, err)
			}
			continue
		}
		off := r.Position()
		sub, err := r.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("schema: function %d at 0x%x: %w", len(c.Functions), off, err)
		}
		fn, err := parseFunction(sub, diags)
		if err != nil {
			return nil, fmt.Errorf("schema: function %d at 0x%x: %w", len(c.Functions), off, err)
		}
		if err := fn.resolve(t); err != nil {
			return nil, fmt.Errorf("schema: function %d at 0x%x: %w", len(c.Functions), off, err)
		}
		if fn.Signature == nil {
			diags.Addf(off, diag.KindMissing, "function %q has no JVM signature", fn.Name)
		}
		c.Functions = append(c.Functions, fn)
	}
}

func parseFunction(r *wire.Reader, diags *diag.Diags) (Function, error) {
	fn := Function{NameIndex: -1, ReturnType: ReturnType{ClassNameIndex: -1}}
	for {
		tag, ok, err := r.ReadTag()
		if err != nil {
			return fn, err
		}
		if !ok {
			return fn, nil
		}
		switch tag.Field {
		case fieldFunctionName:
			fn.NameIndex, err = r.ReadInt32(wire.IntDefault)
		case fieldFunctionReturnType:
			var sub *wire.Reader
			if sub, err = r.ReadMessage(); err == nil {
				fn.ReturnType, err = parseType(sub)
			}
		case fieldFunctionSignature:
			var sub *wire.Reader
			if sub, err = r.ReadMessage(); err == nil {
				var sig Signature
				sig, err = parseSignature(sub)
				fn.Signature = &sig
			}
		default:
			diags.Addf(r.Position(), diag.KindUnknownField, "function field %d (%s)", tag.Field, tag.Type)
			err = r.Skip()
		}
		if err != nil {
			return fn, err
		}
	}
}

func parseType(r *wire.Reader) (ReturnType, error) {
	t := ReturnType{ClassNameIndex: -1}
	for {
		tag, ok, err := r.ReadTag()
		if err != nil || !ok {
			return t, err
		}
		switch tag.Field {
		case fieldTypeNullable:
			t.Nullable, err = r.ReadBool()
		case fieldTypeClassName:
			t.ClassNameIndex, err = r.ReadInt32(wire.IntDefault)
		default:
			// Arguments, flags and the like are not needed here.
			err = r.Skip()
		}
		if err != nil {
			return t, fmt.Errorf("return type: %w", err)
		}
	}
}

func parseSignature(r *wire.Reader) (Signature, error) {
	sig := Signature{NameIndex: -1, DescIndex: -1}
	for {
		tag, ok, err := r.ReadTag()
		if err != nil || !ok {
			return sig, err
		}
		switch tag.Field {
		case fieldSignatureName:
			sig.NameIndex, err = r.ReadInt32(wire.IntDefault)
		case fieldSignatureDesc:
			sig.DescIndex, err = r.ReadInt32(wire.IntDefault)
		default:
			err = r.Skip()
		}
		if err != nil {
			return sig, fmt.Errorf("signature: %w", err)
		}
	}
}

// resolve fills in the string-derived fields. The signature's name override
// wins over the function's own name.
func (fn *Function) resolve(t *strtab.Table) error {
	var err error
	if fn.ReturnType.ClassNameIndex != -1 {
		if fn.ReturnType.ClassName, err = t.Resolve(fn.ReturnType.ClassNameIndex); err != nil {
			return fmt.Errorf("return type class name: %w", err)
		}
		fn.ReturnType.Unit = fn.ReturnType.ClassName == strtab.UnitName
	}

	nameIndex := fn.NameIndex
	if fn.Signature != nil && fn.Signature.NameIndex != -1 {
		nameIndex = fn.Signature.NameIndex
	}
	if nameIndex == -1 && fn.Signature == nil {
		// Nameless and unmatchable; nothing further to resolve.
		return nil
	}
	if fn.Name, err = t.Resolve(nameIndex); err != nil {
		return fmt.Errorf("name: %w", err)
	}

	if fn.Signature == nil {
		return nil
	}
	if fn.Desc, err = t.Resolve(fn.Signature.DescIndex); err != nil {
		return fmt.Errorf("descriptor: %w", err)
	}
	fn.Key = fn.Name + fn.Desc
	return nil
}
