package summary

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAddCall(t *testing.T) {
	f := Function{Name: "main"}

	if !f.AddCall("helper") {
		t.Error("first add rejected")
	}
	if f.AddCall("helper") {
		t.Error("duplicate accepted")
	}
	if f.AddCall("main") {
		t.Error("self-call accepted")
	}
	if f.AddCall("") {
		t.Error("empty callee accepted")
	}
	if len(f.CalledFunctions) != 1 {
		t.Errorf("called = %v", f.CalledFunctions)
	}
}

func TestNewSerializesEmptyLists(t *testing.T) {
	data, err := json.Marshal(New("a.py"))
	if err != nil {
		t.Fatal(err)
	}

	text := string(data)
	for _, want := range []string{`"functions":[]`, `"classes":[]`, `"imports":[]`} {
		if !strings.Contains(text, want) {
			t.Errorf("serialized form missing %s: %s", want, text)
		}
	}
	if strings.Contains(text, "null") {
		t.Errorf("serialized form contains null: %s", text)
	}
}

func TestFieldNames(t *testing.T) {
	s := New("a.js")
	s.Functions = []Function{{
		Name:    "f",
		Line:    3,
		IsArrow: true,
		Implementation: &Implementation{
			HasConditionals: true,
		},
	}}
	s.Variables = []Variable{{Name: "v", Kind: "const", Shape: ShapeArray}}
	s.EventHandlers = []EventHandler{{Element: "btn", Mechanism: BindListener, Event: "click"}}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}

	text := string(data)
	for _, key := range []string{
		`"file"`, `"lineno"`, `"is_arrow"`, `"has_conditionals"`,
		`"has_try_catch"`, `"value_type"`, `"event_handlers"`,
	} {
		if !strings.Contains(text, key) {
			t.Errorf("missing key %s in %s", key, text)
		}
	}
}
