// Package config loads and validates the graft compiler configuration.
//
// # Overview
//
// A configuration document declares where source files live, how they are
// grouped into named source sets, which source sets are projects, and
// where each project's schema and generated output live. Loading turns the
// document into a *Config that later compiler stages use without
// re-checking it.
//
// Loading has two stages:
//
//   - Decode parses the document into a File. The schema is closed: an
//     unknown field anywhere in the document is an error, as is a missing
//     sources, projects or project schema field.
//   - Load copies the File into a Config and runs the validation passes.
//     A Config is only returned when every pass succeeded.
//
// # Document Formats
//
// The format is picked from the file extension. JSON is the default and
// may contain comments and trailing commas:
//
//	{
//	    // web app sources
//	    "sources": {"src/web": "web", "src/shared": "shared"},
//	    "blacklist": ["**/node_modules/**"],
//	    "projects": {
//	        "web": {"schema": "schema/web.graphql", "base": ["shared"]},
//	        "shared": {"schema": "schema/web.graphql", "output": "src/shared/gen"},
//	    },
//	}
//
// YAML (.yaml, .yml) and CUE (.cue) documents use the same fields. CUE
// documents are unified with the #Config definition returned by Schema.
// Starlark scripts (.star) must assign the document to a global named
// config:
//
//	apps = ["admin", "web"]
//	config = {
//	    "sources": {"src/" + a: a for a in apps},
//	    "projects": {a: {"schema": "schema.graphql"} for a in apps},
//	}
//
// # Validation
//
// With filesystem validation enabled the root directory must exist. If it
// does not, RootNotDirectory is the only error reported. Otherwise every
// source directory is checked and every project must have a source
// directory mapped to the source set of the same name. All violations are
// collected and returned together.
//
// # Usage Example
//
//	cfg, err := config.LoadFile(".", "graft.config.json")
//	if err != nil {
//	    var cerr *config.Error
//	    if errors.As(err, &cerr) && cerr.Kind == config.KindValidation {
//	        for _, v := range cerr.ValidationErrors {
//	            fmt.Println(v)
//	        }
//	    }
//	    os.Exit(1)
//	}
//
// # Thread Safety
//
// Loading keeps no state between calls. A *Config is immutable and safe to
// share.
package config
