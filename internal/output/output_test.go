package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Class string   `json:"class"`
	Data  []string `json:"data"`
}

func TestWriteReadJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	in := sample{Class: "com.example.Api", Data: []string{"\x00\x0a\x01", "ÿ"}}
	if err := WriteJSON(dir, "meta.json", in); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var out sample
	if err := ReadJSON(filepath.Join(dir, "meta.json"), &out); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if out.Class != in.Class {
		t.Errorf("class = %q, want %q", out.Class, in.Class)
	}
	if len(out.Data) != 2 || out.Data[0] != in.Data[0] || out.Data[1] != in.Data[1] {
		t.Errorf("data = %q, want %q", out.Data, in.Data)
	}
}

func TestReadJSONErrors(t *testing.T) {
	dir := t.TempDir()
	var v sample
	if err := ReadJSON(filepath.Join(dir, "missing.json"), &v); err == nil {
		t.Error("ReadJSON(missing) = nil, want error")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ReadJSON(bad, &v); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("ReadJSON(bad) = %v, want parse error", err)
	}
}

func TestJSONIndent(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sample{Class: "A"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  \"class\": \"A\"") {
		t.Errorf("JSON output not indented:\n%s", buf.String())
	}
}

func TestWriteText(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteText(dir, "class.dot", "digraph {}\n")
	if err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if path != filepath.Join(dir, "class.dot") {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "digraph {}\n" {
		t.Errorf("content = %q", data)
	}
}
