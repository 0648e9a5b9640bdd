package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// configSchema is the closed CUE definition of a configuration document.
// Definitions are closed, so any field not listed here is rejected.
const configSchema = `
// Configuration document of the graft compiler.
#Config: {
	// Directory (relative to the root) to source set name. The most
	// specific directory wins.
	sources!: {[string]: string}

	// Glob patterns excluded from every source set.
	blacklist?: [...string]

	// Projects to compile, keyed by project name.
	projects!: {[string]: #Project}
}

#Project: {
	// Source sets readable by this project but produced by another one.
	base?: [...string]

	// Output directory. Defaults to __generated__ next to each input.
	output?: string

	// Directories with schema extension files.
	extensions?: [...string]

	// Path to the schema file.
	schema!: string
}
`

// cueSchema holds the compiled #Config definition. cue.Context is not safe
// for concurrent use, so compilation and unification run under mu.
var cueSchema struct {
	once sync.Once
	mu   sync.Mutex
	ctx  *cue.Context
	def  cue.Value
	err  error
}

// Schema returns the CUE source of the configuration schema.
func Schema() string {
	return configSchema
}

func compiledSchema() (*cue.Context, cue.Value, error) {
	cueSchema.once.Do(func() {
		ctx := cuecontext.New()
		val := ctx.CompileString(configSchema, cue.Filename("schema.cue"))
		if err := val.Err(); err != nil {
			cueSchema.err = fmt.Errorf("failed to compile config schema: %w", err)
			return
		}
		cueSchema.ctx = ctx
		cueSchema.def = val.LookupPath(cue.ParsePath("#Config"))
	})
	return cueSchema.ctx, cueSchema.def, cueSchema.err
}

// evalCUE evaluates a CUE document, checks it against #Config and returns
// the concrete document as JSON.
func evalCUE(name string, data []byte) ([]byte, error) {
	ctx, def, err := compiledSchema()
	if err != nil {
		return nil, err
	}

	cueSchema.mu.Lock()
	defer cueSchema.mu.Unlock()

	doc := ctx.CompileBytes(data, cue.Filename(name))
	if err := doc.Err(); err != nil {
		return nil, cueError(err)
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueError(err)
	}

	out, err := unified.MarshalJSON()
	if err != nil {
		return nil, cueError(err)
	}
	return out, nil
}

// cueError flattens a CUE error list into one error that keeps file
// positions in the message.
func cueError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	return errors.New(strings.TrimSpace(cueerrors.Details(err, nil)))
}
