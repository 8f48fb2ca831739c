package schema

import (
	"errors"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"

	"ktmeta/internal/diag"
	"ktmeta/internal/kmtest"
	"ktmeta/internal/strtab"
	"ktmeta/internal/wire"
)

const (
	suspendDesc = "(ILkotlin/coroutines/Continuation;)Ljava/lang/Object;"
	userClass   = "com/example/User"
)

func decode(t *testing.T, b *kmtest.Builder) *Decoded {
	t.Helper()
	dec, err := Decode(b.Payload(), b.Pool(), Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return dec
}

func TestDecodeFunctions(t *testing.T) {
	b := kmtest.New()
	b.Fun("user", suspendDesc, userClass, true)
	b.Fun("count", "()I", "kotlin/Int", false)
	b.Fun("clear", "()V", strtab.UnitName, false)

	fns := decode(t, b).Class.Functions
	if len(fns) != 3 {
		t.Fatalf("got %d functions, want 3", len(fns))
	}

	user := fns[0]
	if user.Name != "user" || user.Desc != suspendDesc {
		t.Errorf("user: name=%q desc=%q", user.Name, user.Desc)
	}
	if user.Key != "user"+suspendDesc {
		t.Errorf("user key = %q", user.Key)
	}
	if !user.ReturnType.Nullable || user.ReturnType.ClassName != userClass || user.ReturnType.Unit {
		t.Errorf("user return = %+v", user.ReturnType)
	}
	if !user.NullableOrUnit() {
		t.Error("user should be nullable")
	}

	if fns[1].NullableOrUnit() {
		t.Errorf("count return = %+v", fns[1].ReturnType)
	}

	unit := fns[2]
	if !unit.ReturnType.Unit || unit.ReturnType.Nullable || !unit.NullableOrUnit() {
		t.Errorf("clear return = %+v", unit.ReturnType)
	}
}

func TestDecodeUnitFromPredefined(t *testing.T) {
	b := kmtest.New()
	b.AddFunction(kmtest.Function{
		Name:        b.Literal("run"),
		ReturnClass: b.Predefined(2),
		SigName:     -1,
		SigDesc:     b.Literal("()V"),
	})
	fn := decode(t, b).Class.Functions[0]
	if !fn.ReturnType.Unit || fn.ReturnType.ClassName != strtab.UnitName {
		t.Errorf("return = %+v", fn.ReturnType)
	}
}

func TestSignatureNameOverride(t *testing.T) {
	b := kmtest.New()
	b.AddFunction(kmtest.Function{
		Name:        b.Literal("userOrNull"),
		ReturnClass: b.Literal(userClass),
		Nullable:    true,
		SigName:     b.Literal("getUserOrNull"),
		SigDesc:     b.Literal("()Lcom/example/User;"),
	})

	fn := decode(t, b).Class.Functions[0]
	if fn.Name != "getUserOrNull" {
		t.Errorf("name = %q, want the signature's name", fn.Name)
	}
	if fn.Key != "getUserOrNull()Lcom/example/User;" {
		t.Errorf("key = %q", fn.Key)
	}
}

func TestFunctionWithoutSignature(t *testing.T) {
	b := kmtest.New()
	b.AddFunction(kmtest.Function{
		Name:        b.Literal("inlineOnly"),
		ReturnClass: b.Literal("kotlin/String"),
		NoSignature: true,
	})

	var diags diag.Diags
	dec, err := Decode(b.Payload(), b.Pool(), Options{Diags: &diags})
	if err != nil {
		t.Fatal(err)
	}
	fn := dec.Class.Functions[0]
	if fn.Signature != nil || fn.Key != "" || fn.Desc != "" {
		t.Errorf("fn = %+v", fn)
	}
	if fn.Name != "inlineOnly" {
		t.Errorf("name = %q", fn.Name)
	}
	found := false
	for _, d := range diags.Items() {
		if d.Kind == diag.KindMissing {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a missing-signature diagnostic, got %v", diags.Items())
	}
}

func TestFunctionWithoutReturnType(t *testing.T) {
	b := kmtest.New()
	b.AddFunction(kmtest.Function{
		Name:     b.Literal("f"),
		NoReturn: true,
		SigName:  -1,
		SigDesc:  b.Literal("()V"),
	})
	fn := decode(t, b).Class.Functions[0]
	if fn.ReturnType.ClassNameIndex != -1 || fn.NullableOrUnit() {
		t.Errorf("return = %+v", fn.ReturnType)
	}
	if fn.Key != "f()V" {
		t.Errorf("key = %q", fn.Key)
	}
}

func TestNullableTypeParameterReturn(t *testing.T) {
	// A return type without a class name (a type parameter) still carries
	// its nullability.
	b := kmtest.New()
	b.AddFunction(kmtest.Function{
		Name:        b.Literal("firstOrNull"),
		ReturnClass: -1,
		Nullable:    true,
		SigName:     -1,
		SigDesc:     b.Literal("()Ljava/lang/Object;"),
	})
	fn := decode(t, b).Class.Functions[0]
	if !fn.ReturnType.Nullable || fn.ReturnType.ClassName != "" {
		t.Errorf("return = %+v", fn.ReturnType)
	}
}

func TestUnknownFieldsSkipped(t *testing.T) {
	plain := kmtest.New()
	plain.Fun("user", suspendDesc, userClass, true)
	plain.Fun("clear", "()V", strtab.UnitName, false)

	noisy := kmtest.New()
	noisy.Unknown = true
	noisy.Fun("user", suspendDesc, userClass, true)
	noisy.Fun("clear", "()V", strtab.UnitName, false)

	want := decode(t, plain).Class.Functions
	got := decode(t, noisy).Class.Functions
	if len(got) != len(want) {
		t.Fatalf("got %d functions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Key != want[i].Key || got[i].ReturnType != want[i].ReturnType {
			t.Errorf("function %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDecodeTruncated(t *testing.T) {
	b := kmtest.New()
	b.Unknown = true
	b.Fun("user", suspendDesc, userClass, true)
	b.Fun("clear", "()V", strtab.UnitName, false)
	payload := b.Payload()
	total := len(decode(t, b).Class.Functions)

	for n := 0; n < len(payload); n++ {
		dec, err := Decode(payload[:n], b.Pool(), Options{})
		if err == nil {
			// A cut on a class field boundary decodes a shorter class.
			if len(dec.Class.Functions) > total {
				t.Errorf("prefix %d: %d functions", n, len(dec.Class.Functions))
			}
			continue
		}
		if !errors.Is(err, wire.ErrUnexpectedEOF) {
			t.Errorf("prefix %d: got %v, want ErrUnexpectedEOF", n, err)
		}
	}
}

func TestDecodeBadIndex(t *testing.T) {
	b := kmtest.New()
	b.AddFunction(kmtest.Function{Name: 99, ReturnClass: -1, SigName: -1, SigDesc: 98})
	_, err := Decode(b.Payload(), b.Pool(), Options{})
	if !errors.Is(err, strtab.ErrIndexOutOfBounds) {
		t.Errorf("got %v, want ErrIndexOutOfBounds", err)
	}
}

func TestDecodeWireTypeMismatch(t *testing.T) {
	// Empty string table, then field 9 encoded as a varint.
	payload := protowire.AppendBytes(nil, nil)
	payload = protowire.AppendTag(payload, 9, protowire.VarintType)
	payload = protowire.AppendVarint(payload, 1)

	_, err := Decode(payload, nil, Options{})
	if !errors.Is(err, wire.ErrWireTypeMismatch) {
		t.Errorf("got %v, want ErrWireTypeMismatch", err)
	}
}

func TestDecodeEmptyClass(t *testing.T) {
	b := kmtest.New()
	b.Literal("unused")
	dec := decode(t, b)
	if len(dec.Class.Functions) != 0 {
		t.Errorf("got %d functions", len(dec.Class.Functions))
	}
	if dec.Strings.Len() != 1 {
		t.Errorf("table has %d slots", dec.Strings.Len())
	}
}

func TestOverloads(t *testing.T) {
	b := kmtest.New()
	b.Fun("find", "(I)Lcom/example/User;", userClass, true)
	b.Fun("find", "(Ljava/lang/String;)Lcom/example/User;", userClass, false)

	fns := decode(t, b).Class.Functions
	if fns[0].Key == fns[1].Key {
		t.Fatalf("overloads share key %q", fns[0].Key)
	}
	if !fns[0].ReturnType.Nullable || fns[1].ReturnType.Nullable {
		t.Errorf("nullability: %v %v", fns[0].ReturnType.Nullable, fns[1].ReturnType.Nullable)
	}
}
