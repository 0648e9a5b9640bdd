package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// Format is the text format of a configuration document.
type Format string

const (
	// FormatJSON is JSON, optionally with comments and trailing commas.
	FormatJSON Format = "json"

	// FormatYAML is YAML.
	FormatYAML Format = "yaml"

	// FormatCUE is a CUE document checked against the #Config definition.
	FormatCUE Format = "cue"

	// FormatStarlark is a Starlark script defining a global named config.
	FormatStarlark Format = "starlark"
)

var validate = validator.New()

// FormatFromPath picks the document format from a file extension. Unknown
// extensions are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".cue":
		return FormatCUE
	case ".star":
		return FormatStarlark
	default:
		return FormatJSON
	}
}

// Decode parses a configuration document. name identifies the document in
// error messages and selects the format (see FormatFromPath). Unknown
// fields and missing required fields are errors; no partial File is
// returned on failure.
func Decode(name string, data []byte) (*File, error) {
	return DecodeFormat(FormatFromPath(name), name, data)
}

// DecodeFormat is like Decode with an explicit format.
func DecodeFormat(format Format, name string, data []byte) (*File, error) {
	var (
		doc *document
		err error
	)
	switch format {
	case FormatJSON:
		// Standardize rewrites its input in place.
		data, err = hujson.Standardize(bytes.Clone(data))
		if err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		doc, err = decodeJSON(data)
	case FormatYAML:
		doc, err = decodeYAML(data)
	case FormatCUE:
		data, err = evalCUE(name, data)
		if err != nil {
			return nil, err
		}
		doc, err = decodeJSON(data)
	case FormatStarlark:
		data, err = evalStarlark(name, data)
		if err != nil {
			return nil, err
		}
		doc, err = decodeJSON(data)
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
	if err != nil {
		return nil, err
	}

	if err := validate.Struct(doc); err != nil {
		return nil, requiredFieldError(err)
	}

	return doc.file(), nil
}

// document is the wire shape of a configuration document. Required
// strings are pointers so that an empty value counts as present.
type document struct {
	Sources   map[string]SourceSetName        `json:"sources" yaml:"sources" validate:"required"`
	Blacklist []string                        `json:"blacklist" yaml:"blacklist"`
	Projects  map[ProjectName]projectDocument `json:"projects" yaml:"projects" validate:"required,dive"`
}

type projectDocument struct {
	Base       []SourceSetName `json:"base" yaml:"base"`
	Output     *string         `json:"output" yaml:"output"`
	Extensions []string        `json:"extensions" yaml:"extensions"`
	Schema     *string         `json:"schema" yaml:"schema" validate:"required"`
}

// decodeJSON decodes exactly one JSON value and rejects any field the
// schema does not know about.
func decodeJSON(data []byte) (*document, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var doc document
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty config document")
		}
		return nil, err
	}

	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("config must contain a single JSON value")
	}

	return &doc, nil
}

// decodeYAML decodes a single YAML document and rejects any field the
// schema does not know about.
func decodeYAML(data []byte) (*document, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var doc document
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty config document")
		}
		return nil, err
	}

	var extra yaml.Node
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("config must contain a single document")
	}

	return &doc, nil
}

// requiredFieldError rewrites validator output in terms of document
// fields.
func requiredFieldError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("missing required field %s", documentField(fe.Namespace())))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// documentField maps a validator namespace such as
// "document.Projects[web].Schema" to the document path
// "projects.web.schema".
func documentField(ns string) string {
	ns = strings.TrimPrefix(ns, "document.")
	ns = strings.NewReplacer("[", ".", "]", "").Replace(ns)
	parts := strings.Split(ns, ".")
	for i, p := range parts {
		switch p {
		case "Sources", "Projects", "Schema":
			parts[i] = strings.ToLower(p)
		}
	}
	return strings.Join(parts, ".")
}

// file converts a validated document, filling in the defaults of omitted
// optional fields.
func (d *document) file() *File {
	f := &File{
		Sources:   d.Sources,
		Blacklist: d.Blacklist,
		Projects:  make(map[ProjectName]Project, len(d.Projects)),
	}
	if f.Blacklist == nil {
		f.Blacklist = []string{}
	}
	for name, p := range d.Projects {
		project := Project{
			Base:       p.Base,
			Output:     p.Output,
			Extensions: p.Extensions,
			Schema:     *p.Schema,
		}
		if project.Base == nil {
			project.Base = []SourceSetName{}
		}
		if project.Extensions == nil {
			project.Extensions = []string{}
		}
		f.Projects[name] = project
	}
	return f
}
