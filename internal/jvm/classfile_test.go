package jvm

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// classFile assembles a minimal class file with the given methods. Each
// method is {access flags, name, descriptor}.
func classFile(name string, methods [][3]any) []byte {
	var pool [][]byte
	utf8 := func(s string) uint16 {
		e := []byte{1}
		e = binary.BigEndian.AppendUint16(e, uint16(len(s)))
		pool = append(pool, append(e, s...))
		return uint16(len(pool))
	}
	class := func(s string) uint16 {
		n := utf8(s)
		pool = append(pool, binary.BigEndian.AppendUint16([]byte{7}, n))
		return uint16(len(pool))
	}

	this := class(name)
	super := class("java/lang/Object")
	type ref struct{ flags, name, desc uint16 }
	var refs []ref
	for _, m := range methods {
		refs = append(refs, ref{uint16(m[0].(int)), utf8(m[1].(string)), utf8(m[2].(string))})
	}

	b := []byte{0xca, 0xfe, 0xba, 0xbe, 0, 0, 0, 52}
	b = binary.BigEndian.AppendUint16(b, uint16(len(pool)+1))
	for _, e := range pool {
		b = append(b, e...)
	}
	b = binary.BigEndian.AppendUint16(b, 0x0021) // public super
	b = binary.BigEndian.AppendUint16(b, this)
	b = binary.BigEndian.AppendUint16(b, super)
	b = binary.BigEndian.AppendUint16(b, 0) // interfaces
	b = binary.BigEndian.AppendUint16(b, 0) // fields
	b = binary.BigEndian.AppendUint16(b, uint16(len(refs)))
	for _, r := range refs {
		b = binary.BigEndian.AppendUint16(b, r.flags)
		b = binary.BigEndian.AppendUint16(b, r.name)
		b = binary.BigEndian.AppendUint16(b, r.desc)
		b = binary.BigEndian.AppendUint16(b, 0) // attributes
	}
	return binary.BigEndian.AppendUint16(b, 0) // class attributes
}

func TestReadClassMethods(t *testing.T) {
	data := classFile("com/example/Api", [][3]any{
		{0x0001, "<init>", "()V"},
		{0x0011, "user", "(ILkotlin/coroutines/Continuation;)Ljava/lang/Object;"},
		{0x1041, "count", "()Ljava/lang/Object;"},
		{0x0008, "<clinit>", "()V"},
	})

	cm, err := ReadClassMethods(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if cm.Name != "com.example.Api" {
		t.Errorf("name = %s", cm.Name)
	}
	if len(cm.Methods) != 2 {
		t.Fatalf("got %d methods, want 2: %+v", len(cm.Methods), cm.Methods)
	}

	user := cm.Methods[0]
	if user.Name != "user" || user.Return != Object || len(user.Params) != 2 || user.Params[1] != Continuation {
		t.Errorf("user = %+v", user)
	}
	if user.Method.Descriptor() != "user"+user.Desc {
		t.Errorf("descriptor %q does not match %q", user.Method.Descriptor(), user.Desc)
	}
	if user.Synthetic || user.Bridge {
		t.Errorf("user flags: synthetic=%v bridge=%v", user.Synthetic, user.Bridge)
	}

	bridge := cm.Methods[1]
	if !bridge.Synthetic || !bridge.Bridge {
		t.Errorf("count flags: synthetic=%v bridge=%v", bridge.Synthetic, bridge.Bridge)
	}
}

func TestReadClassMethods_Garbage(t *testing.T) {
	if _, err := ReadClassMethods(bytes.NewReader([]byte{0xde, 0xad})); err == nil {
		t.Error("expected an error for a truncated class file")
	}
}
