package classgraph

import (
	"testing"

	"ktmeta/internal/kmtest"
	"ktmeta/internal/schema"
	"ktmeta/internal/strtab"
)

func decodeFunctions(t *testing.T, b *kmtest.Builder) []schema.Function {
	t.Helper()
	dec, err := schema.Decode(b.Payload(), b.Pool(), schema.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return dec.Class.Functions
}

func TestBuild(t *testing.T) {
	b := kmtest.New()
	b.Fun("user", "(I)Lcom/example/User;", "com/example/User", true)
	b.Fun("owner", "()Lcom/example/User;", "com/example/User", false)
	b.Fun("clear", "()V", strtab.UnitName, false)
	fns := decodeFunctions(t, b)

	g := Build("com.example.Api", fns)

	// class, 3 functions, User?, User, Unit
	if len(g.Nodes) != 7 {
		t.Errorf("expected 7 nodes, got %d: %v", len(g.Nodes), g.Nodes)
	}
	if len(g.Edges) != 6 {
		t.Errorf("expected 6 edges, got %d", len(g.Edges))
	}

	want := map[string]string{
		"user(I)Lcom/example/User;": "com/example/User?",
		"owner()Lcom/example/User;": "com/example/User",
		"clear()V":                  strtab.UnitName,
	}
	for _, e := range g.Edges {
		if e.Caller == "com.example.Api" {
			if _, ok := want[e.Callee]; !ok {
				t.Errorf("unexpected function node %q", e.Callee)
			}
			continue
		}
		if ret, ok := want[e.Caller]; !ok || ret != e.Callee {
			t.Errorf("edge %s -> %s, want -> %s", e.Caller, e.Callee, ret)
		}
	}
}

func TestLabels(t *testing.T) {
	tests := []struct {
		fn       schema.Function
		function string
		ret      string
	}{
		{
			schema.Function{Name: "f", Key: "f()V", ReturnType: schema.ReturnType{ClassName: "kotlin/Unit", Unit: true}},
			"f()V", "kotlin/Unit",
		},
		{
			schema.Function{Name: "g", ReturnType: schema.ReturnType{Nullable: true}},
			"g (no signature)", "<type parameter>?",
		},
		{schema.Function{}, "(anonymous)", "<type parameter>"},
	}
	for _, tt := range tests {
		if got := FunctionLabel(&tt.fn); got != tt.function {
			t.Errorf("FunctionLabel = %q, want %q", got, tt.function)
		}
		if got := ReturnLabel(&tt.fn); got != tt.ret {
			t.Errorf("ReturnLabel = %q, want %q", got, tt.ret)
		}
	}
}

func TestDOTOutput(t *testing.T) {
	b := kmtest.New()
	b.Fun("user", "(I)Lcom/example/User;", "com/example/User", true)

	dot, g := DOT("com.example.Api", decodeFunctions(t, b))
	if dot == "" {
		t.Fatal("expected non-empty DOT output")
	}
	if len(g.Nodes) != 3 {
		t.Errorf("expected 3 nodes, got %d", len(g.Nodes))
	}
}
