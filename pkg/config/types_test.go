package config

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestConfig_Paths(t *testing.T) {
	cfg := &Config{
		RootDir: "/repo",
		Sources: map[string]SourceSetName{"src/web": "web", "src/admin": "admin", "lib": "shared"},
		Projects: map[ProjectName]Project{
			"web":   {Schema: "schema.graphql"},
			"admin": {Schema: "schema.graphql", Output: strPtr("src/admin/gen")},
			"abs":   {Schema: "schema.graphql", Output: strPtr("/out/abs")},
		},
	}

	if diff := cmp.Diff([]ProjectName{"abs", "admin", "web"}, cfg.ProjectNames()); diff != "" {
		t.Errorf("ProjectNames mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"lib", "src/admin", "src/web"}, cfg.SourceDirs()); diff != "" {
		t.Errorf("SourceDirs mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		project ProjectName
		input   string
		want    string
		found   bool
	}{
		{project: "web", input: "src/web/pages/Home.js", want: "/repo/src/web/pages/__generated__", found: true},
		{project: "admin", input: "src/admin/App.js", want: "/repo/src/admin/gen", found: true},
		{project: "abs", input: "src/abs/App.js", want: "/out/abs", found: true},
		{project: "missing", input: "src/x.js", found: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.project), func(t *testing.T) {
			got, ok := cfg.OutputDir(tt.project, tt.input)
			if ok != tt.found {
				t.Fatalf("OutputDir found = %v, want %v", ok, tt.found)
			}
			if got != filepath.FromSlash(tt.want) && tt.found {
				t.Errorf("OutputDir = %s, want %s", got, tt.want)
			}
		})
	}

	if got := cfg.AbsPath("/etc/../etc/schema.graphql"); got != "/etc/schema.graphql" {
		t.Errorf("AbsPath kept absolute path unclean: %s", got)
	}
	if _, ok := cfg.Project("web"); !ok {
		t.Error("expected project web")
	}
}

func TestIsGeneratedPath(t *testing.T) {
	tests := map[string]bool{
		"src/__generated__/Foo.graphql.js": true,
		"__generated__/x.js":               true,
		"src/generated/x.js":               false,
		"src/__generated__x/y.js":          false,
	}
	for p, want := range tests {
		if got := IsGeneratedPath(p); got != want {
			t.Errorf("IsGeneratedPath(%q) = %v, want %v", p, got, want)
		}
	}
}

func TestValidationError_Messages(t *testing.T) {
	errs := ValidationErrors{
		{Kind: RootNotDirectory, Path: "/root"},
		{Kind: SourceNotExistent, Path: "/root/src"},
		{Kind: SourceNotDirectory, Path: "/root/file.js"},
		{Kind: ProjectWithoutSource, Project: "web"},
	}

	want := `root directory /root is not a directory; ` +
		`source directory /root/src does not exist; ` +
		`source /root/file.js is not a directory; ` +
		`project "web" has no source directory for source set "web"`
	if got := errs.Error(); got != want {
		t.Errorf("unexpected message:\n got: %s\nwant: %s", got, want)
	}

	if n := len(errs.OfKind(SourceNotDirectory)); n != 1 {
		t.Errorf("expected 1 SourceNotDirectory, got %d", n)
	}
}
