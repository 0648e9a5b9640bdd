package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// starlarkConfigVar is the global a Starlark config script must define.
const starlarkConfigVar = "config"

// maxStarlarkSteps bounds the work a config script may do.
const maxStarlarkSteps = 10_000_000

// evalStarlark executes a Starlark config script and returns its config
// value as JSON.
func evalStarlark(name string, data []byte) ([]byte, error) {
	thread := &starlark.Thread{
		Name: "graft-config",
		Print: func(_ *starlark.Thread, msg string) {
			log.Debug().Str("script", name).Msg(msg)
		},
	}
	thread.SetMaxExecutionSteps(maxStarlarkSteps)

	predeclared := starlark.StringDict{
		"struct": starlark.NewBuiltin("struct", starlarkstruct.Make),
	}

	globals, err := starlark.ExecFile(thread, name, data, predeclared)
	if err != nil {
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			return nil, fmt.Errorf("starlark execution failed: %s", evalErr.Backtrace())
		}
		return nil, fmt.Errorf("starlark execution failed: %w", err)
	}

	value, ok := globals[starlarkConfigVar]
	if !ok {
		return nil, fmt.Errorf("script does not define %q", starlarkConfigVar)
	}
	switch value.(type) {
	case *starlark.Dict, *starlarkstruct.Struct:
	default:
		return nil, fmt.Errorf("%s must be a dict or struct, got %s", starlarkConfigVar, value.Type())
	}

	doc, err := fromStarlarkValue(value)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", starlarkConfigVar, err)
	}
	return json.Marshal(doc)
}

// fromStarlarkValue converts a Starlark value to a JSON-encodable Go value.
func fromStarlarkValue(v starlark.Value) (interface{}, error) {
	switch val := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.Bool:
		return bool(val), nil
	case starlark.Int:
		i, ok := val.Int64()
		if !ok {
			return nil, fmt.Errorf("integer too large")
		}
		return i, nil
	case starlark.Float:
		return float64(val), nil
	case starlark.String:
		return string(val), nil
	case *starlark.List:
		return fromStarlarkSequence(val)
	case starlark.Tuple:
		return fromStarlarkSequence(val)
	case *starlark.Dict:
		dict := make(map[string]interface{}, val.Len())
		for _, item := range val.Items() {
			key, ok := item[0].(starlark.String)
			if !ok {
				return nil, fmt.Errorf("dict key must be string, got %s", item[0].Type())
			}
			value, err := fromStarlarkValue(item[1])
			if err != nil {
				return nil, err
			}
			dict[string(key)] = value
		}
		return dict, nil
	case *starlarkstruct.Struct:
		dict := make(map[string]interface{})
		for _, name := range val.AttrNames() {
			attr, err := val.Attr(name)
			if err != nil {
				return nil, err
			}
			value, err := fromStarlarkValue(attr)
			if err != nil {
				return nil, err
			}
			dict[name] = value
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("unsupported starlark type: %s", v.Type())
	}
}

func fromStarlarkSequence(seq starlark.Indexable) ([]interface{}, error) {
	list := make([]interface{}, seq.Len())
	for i := 0; i < seq.Len(); i++ {
		item, err := fromStarlarkValue(seq.Index(i))
		if err != nil {
			return nil, err
		}
		list[i] = item
	}
	return list, nil
}
