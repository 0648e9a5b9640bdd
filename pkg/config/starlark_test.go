package config

import (
	"strings"
	"testing"
)

func TestDecode_Starlark(t *testing.T) {
	script := `
apps = ["admin", "web"]

def project(name):
    return {
        "schema": "schema.graphql",
        "base": ["shared"],
        "output": "src/%s/__generated__" % name,
    }

config = {
    "sources": dict([("src/" + a, a) for a in apps] + [("src/shared", "shared")]),
    "projects": {a: project(a) for a in apps},
}
`

	file, err := Decode("graft.config.star", []byte(script))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(file.Sources) != 3 {
		t.Errorf("expected 3 sources, got %v", file.Sources)
	}
	if file.Sources["src/admin"] != "admin" {
		t.Errorf("expected src/admin -> admin, got %q", file.Sources["src/admin"])
	}
	web, ok := file.Projects["web"]
	if !ok {
		t.Fatal("expected project web")
	}
	if web.Output == nil || *web.Output != "src/web/__generated__" {
		t.Errorf("unexpected output %v", web.Output)
	}
	if len(web.Base) != 1 || web.Base[0] != "shared" {
		t.Errorf("unexpected base %v", web.Base)
	}
	if file.Blacklist == nil {
		t.Error("expected blacklist default")
	}
}

func TestDecode_StarlarkErrors(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantMsg string
	}{
		{
			name:    "syntax error",
			script:  "config = {",
			wantMsg: "starlark execution failed",
		},
		{
			name:    "runtime error",
			script:  "config = {\"sources\": 1 + \"x\"}",
			wantMsg: "starlark execution failed",
		},
		{
			name:    "no config",
			script:  "sources = {}",
			wantMsg: `does not define "config"`,
		},
		{
			name:    "config not a dict",
			script:  "config = [1, 2]",
			wantMsg: "must be a dict or struct",
		},
		{
			name:    "non-string key",
			script:  "config = {\"sources\": {1: \"foo\"}, \"projects\": {}}",
			wantMsg: "dict key must be string",
		},
		{
			name:    "unknown field",
			script:  "config = {\"sources\": {}, \"projects\": {}, \"extra\": True}",
			wantMsg: "extra",
		},
		{
			name:    "missing schema",
			script:  "config = {\"sources\": {\"src\": \"foo\"}, \"projects\": {\"foo\": {}}}",
			wantMsg: "projects.foo.schema",
		},
		{
			name: "runaway loop",
			script: `
def spin():
    n = 0
    for i in range(100000000):
        n += i
    return n

config = {"sources": {}, "projects": {}, "n": spin()}
`,
			wantMsg: "starlark execution failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode("graft.config.star", []byte(tt.script))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected error containing %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestLoadBytes_StarlarkParseError(t *testing.T) {
	_, err := LoadBytes(VirtualRoot, "graft.config.star", []byte("config = None"), false)
	if !IsParseError(err) {
		t.Fatalf("expected parse error, got %v", err)
	}
}
