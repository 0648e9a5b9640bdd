package config

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func strPtr(s string) *string { return &s }

func TestDecode_JSON(t *testing.T) {
	doc := `{
	// comments and trailing commas are accepted
	"sources": {"src/foo": "foo", "src/shared": "shared"},
	"blacklist": ["**/node_modules/**"],
	"projects": {
		"foo": {
			"base": ["shared"],
			"output": "src/foo/gen",
			"extensions": ["src/foo/extensions"],
			"schema": "schema.graphql",
		},
	},
}`

	file, err := Decode("graft.config.json", []byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &File{
		Sources:   map[string]SourceSetName{"src/foo": "foo", "src/shared": "shared"},
		Blacklist: []string{"**/node_modules/**"},
		Projects: map[ProjectName]Project{
			"foo": {
				Base:       []SourceSetName{"shared"},
				Output:     strPtr("src/foo/gen"),
				Extensions: []string{"src/foo/extensions"},
				Schema:     "schema.graphql",
			},
		},
	}
	if diff := cmp.Diff(want, file); diff != "" {
		t.Errorf("decoded file mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Defaults(t *testing.T) {
	file, err := Decode("c.json", []byte(`{"sources": {"src/foo": "foo"}, "projects": {"foo": {"schema": "s.graphql"}}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if file.Blacklist == nil || len(file.Blacklist) != 0 {
		t.Errorf("expected empty blacklist, got %#v", file.Blacklist)
	}

	p := file.Projects["foo"]
	if p.Base == nil || len(p.Base) != 0 {
		t.Errorf("expected empty base, got %#v", p.Base)
	}
	if p.Extensions == nil || len(p.Extensions) != 0 {
		t.Errorf("expected empty extensions, got %#v", p.Extensions)
	}
	if p.Output != nil {
		t.Errorf("expected no output, got %q", *p.Output)
	}
}

func TestDecode_FormatsAgree(t *testing.T) {
	jsonDoc := `{
  "sources": {"src/foo": "foo"},
  "blacklist": ["**/*.test.js"],
  "projects": {"foo": {"schema": "schema.graphql", "base": ["shared"]}}
}`

	yamlDoc := `
sources:
  src/foo: foo
blacklist:
  - "**/*.test.js"
projects:
  foo:
    schema: schema.graphql
    base: [shared]
`

	cueDoc := `
sources: "src/foo": "foo"
blacklist: ["**/*.test.js"]
projects: foo: {
	schema: "schema.graphql"
	base: ["shared"]
}
`

	starDoc := `
config = {
    "sources": {"src/foo": "foo"},
    "blacklist": ["**/*.test.js"],
    "projects": {"foo": struct(schema = "schema.graphql", base = ("shared",))},
}
`

	fromJSON, err := Decode("graft.config.json", []byte(jsonDoc))
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	fromYAML, err := Decode("graft.config.yaml", []byte(yamlDoc))
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	fromCUE, err := Decode("graft.config.cue", []byte(cueDoc))
	if err != nil {
		t.Fatalf("cue: %v", err)
	}

	fromStar, err := Decode("graft.config.star", []byte(starDoc))
	if err != nil {
		t.Fatalf("starlark: %v", err)
	}

	if diff := cmp.Diff(fromJSON, fromYAML); diff != "" {
		t.Errorf("yaml differs from json (-json +yaml):\n%s", diff)
	}
	if diff := cmp.Diff(fromJSON, fromCUE); diff != "" {
		t.Errorf("cue differs from json (-json +cue):\n%s", diff)
	}
	if diff := cmp.Diff(fromJSON, fromStar); diff != "" {
		t.Errorf("starlark differs from json (-json +starlark):\n%s", diff)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
		wantMsg string
	}{
		{
			name:    "unknown top-level field",
			path:    "c.json",
			content: `{"sources": {}, "projects": {}, "watch": true}`,
			wantMsg: "watch",
		},
		{
			name:    "unknown project field",
			path:    "c.json",
			content: `{"sources": {"a": "foo"}, "projects": {"foo": {"schema": "s", "language": "ts"}}}`,
			wantMsg: "language",
		},
		{
			name:    "missing sources",
			path:    "c.json",
			content: `{"projects": {}}`,
			wantMsg: "sources",
		},
		{
			name:    "missing projects",
			path:    "c.json",
			content: `{"sources": {}}`,
			wantMsg: "projects",
		},
		{
			name:    "missing schema",
			path:    "c.json",
			content: `{"sources": {"a": "foo"}, "projects": {"foo": {"base": []}}}`,
			wantMsg: "projects.foo.schema",
		},
		{
			name:    "syntax error",
			path:    "c.json",
			content: `{"sources": {`,
		},
		{
			name:    "empty document",
			path:    "c.yaml",
			content: ``,
			wantMsg: "empty",
		},
		{
			name:    "empty json document",
			path:    "c.json",
			content: `  // nothing here`,
		},
		{
			name: "unknown yaml field",
			path: "c.yaml",
			content: `
sources: {}
projects: {}
outputs: x
`,
			wantMsg: "outputs",
		},
		{
			name: "multiple yaml documents",
			path: "c.yml",
			content: `sources: {}
projects: {}
---
sources: {}
`,
			wantMsg: "single document",
		},
		{
			name: "unknown cue field",
			path: "c.cue",
			content: `
sources: {}
projects: {}
extra: 1
`,
			wantMsg: "extra",
		},
		{
			name: "unknown cue project field",
			path: "c.cue",
			content: `
sources: a: "foo"
projects: foo: {schema: "s", watchman: true}
`,
			wantMsg: "watchman",
		},
		{
			name:    "missing cue schema",
			path:    "c.cue",
			content: `sources: a: "foo", projects: foo: {}`,
		},
		{
			name:    "cue type mismatch",
			path:    "c.cue",
			content: `sources: a: 1, projects: {}`,
		},
		{
			name:    "non-string source set",
			path:    "c.json",
			content: `{"sources": {"src/foo": 1}, "projects": {"foo": {"schema": "s"}}}`,
			wantMsg: "sources",
		},
		{
			name:    "non-string schema",
			path:    "c.json",
			content: `{"sources": {"src/foo": "foo"}, "projects": {"foo": {"schema": true}}}`,
			wantMsg: "schema",
		},
		{
			name:    "non-string blacklist entries",
			path:    "c.json",
			content: `{"sources": {"src/foo": "foo"}, "blacklist": [1, false], "projects": {"foo": {"schema": "s"}}}`,
			wantMsg: "blacklist",
		},
		{
			name:    "null schema",
			path:    "c.json",
			content: `{"sources": {"src/foo": "foo"}, "projects": {"foo": {"schema": null}}}`,
			wantMsg: "missing required field projects.foo.schema",
		},
		{
			name:    "starlark int schema",
			path:    "c.star",
			content: `config = {"sources": {"src/foo": "foo"}, "projects": {"foo": {"schema": 1}}}`,
			wantMsg: "schema",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := Decode(tt.path, []byte(tt.content))
			if err == nil {
				t.Fatalf("expected error, got file %#v", file)
			}
			if file != nil {
				t.Errorf("expected no partial result, got %#v", file)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"graft.config.json": FormatJSON,
		"graft.config.YAML": FormatYAML,
		"config.yml":        FormatYAML,
		"config.cue":        FormatCUE,
		"graft.config.star": FormatStarlark,
		"graftrc":           FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestDecodeFormat_Unsupported(t *testing.T) {
	if _, err := DecodeFormat("toml", "c.toml", []byte("")); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestDecode_JSONSyntax(t *testing.T) {
	longKey := strings.Repeat("d", 1100)
	tests := []struct {
		name    string
		content string
		source  string
		set     SourceSetName
	}{
		{
			name:    "escaped slash",
			content: `{"sources": {"src\/foo": "foo"}, "projects": {"foo": {"schema": "s"}}}`,
			source:  "src/foo",
			set:     "foo",
		},
		{
			name:    "long key",
			content: `{"sources": {"` + longKey + `": "foo"}, "projects": {"foo": {"schema": "s"}}}`,
			source:  longKey,
			set:     "foo",
		},
		{
			name:    "unicode escape",
			content: `{"sources": {"src/\u00e9t\u00e9": "foo"}, "projects": {"foo": {"schema": "s"}}}`,
			source:  "src/été",
			set:     "foo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := Decode("graft.config.json", []byte(tt.content))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got := file.Sources[tt.source]; got != tt.set {
				t.Errorf("expected source %q -> %q, got %v", tt.source, tt.set, file.Sources)
			}
		})
	}
}

func TestDecode_EmptySchemaIsPresent(t *testing.T) {
	docs := map[string]string{
		"graft.config.json": `{"sources": {"src/foo": "foo"}, "projects": {"foo": {"schema": ""}}}`,
		"graft.config.yaml": "sources:\n  src/foo: foo\nprojects:\n  foo:\n    schema: \"\"\n",
		"graft.config.cue":  `sources: "src/foo": "foo", projects: foo: schema: ""`,
		"graft.config.star": `config = {"sources": {"src/foo": "foo"}, "projects": {"foo": {"schema": ""}}}`,
	}

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			file, err := Decode(name, []byte(doc))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			p, ok := file.Projects["foo"]
			if !ok {
				t.Fatal("expected project foo")
			}
			if p.Schema != "" {
				t.Errorf("expected empty schema, got %q", p.Schema)
			}
		})
	}
}
