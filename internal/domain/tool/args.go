package tool

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/janhq/health-assistant/internal/domain/health"
)

// Coerce converts raw decision fields into typed Args following the
// descriptor's parameter list.
//
// Positional descriptors keep every field, require exactly len(Params) of
// them and fail on the first field that does not coerce. Other descriptors
// drop empty fields first; an optional date that does not parse is left
// unset so the handler can apply its default.
func Coerce(d Descriptor, raw []string) (Args, error) {
	fields := make([]string, 0, len(raw))
	for _, f := range raw {
		fields = append(fields, strings.TrimSpace(f))
	}

	args := Args{values: make(map[string]any, len(d.Params)), raw: fields}

	if d.Positional {
		if len(fields) != len(d.Params) {
			return args, &ValidationError{
				Tool:   d.Name(),
				Field:  "arguments",
				Detail: fmt.Sprintf("expected %d arguments, got %d", len(d.Params), len(fields)),
			}
		}
		for i, p := range d.Params {
			v, err := coerceValue(p.Type, fields[i])
			if err != nil {
				return args, &ValidationError{Tool: d.Name(), Field: p.Name, Detail: err.Error()}
			}
			args.values[p.Name] = v
		}
		return args, nil
	}

	clean := fields[:0:0]
	for _, f := range fields {
		if f != "" {
			clean = append(clean, f)
		}
	}

	for i, p := range d.Params {
		if i >= len(clean) {
			if !p.Optional {
				return args, &ValidationError{Tool: d.Name(), Field: p.Name, Detail: "missing required argument"}
			}
			continue
		}
		v, err := coerceValue(p.Type, clean[i])
		if err != nil {
			if p.Optional {
				continue
			}
			return args, &ValidationError{Tool: d.Name(), Field: p.Name, Detail: err.Error()}
		}
		args.values[p.Name] = v
	}
	return args, nil
}

func coerceValue(t ParamType, raw string) (any, error) {
	switch t {
	case ParamDate:
		return health.ParseDate(raw)
	case ParamFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", raw)
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("%q is not a finite number", raw)
		}
		return f, nil
	case ParamInt:
		i, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not a whole number", raw)
		}
		return i, nil
	default:
		return raw, nil
	}
}
