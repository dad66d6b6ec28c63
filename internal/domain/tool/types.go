package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
)

// Kind is the closed set of tools the assistant may invoke.
type Kind int

const (
	KindUnknown Kind = iota
	KindSleepScore
	KindActivitySteps
	KindLogGymSet
	KindReadinessReport
)

var kindNames = map[Kind]string{
	KindSleepScore:      "get_oura_sleep_score",
	KindActivitySteps:   "get_oura_activity_steps",
	KindLogGymSet:       "log_gym_set",
	KindReadinessReport: "get_readiness_report",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind maps a wire name to its Kind.
func ParseKind(name string) (Kind, bool) {
	name = strings.TrimSpace(name)
	for kind, n := range kindNames {
		if n == name {
			return kind, true
		}
	}
	return KindUnknown, false
}

var (
	ErrDuplicateTool = errors.New("tool already registered")
	ErrToolNotFound  = errors.New("tool not found")
)

// ValidationError reports an argument that failed coercion or validation.
type ValidationError struct {
	Tool   string
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s for %s: %s", e.Field, e.Tool, e.Detail)
}

// ParamType is the declared type a raw argument is coerced to.
type ParamType string

const (
	ParamString ParamType = "string"
	ParamDate   ParamType = "date"
	ParamFloat  ParamType = "float"
	ParamInt    ParamType = "int"
)

// Param is one positional parameter of a tool.
type Param struct {
	Name     string
	Type     ParamType
	Optional bool
}

// Handler runs a tool against already coerced arguments.
type Handler func(ctx context.Context, args Args) (string, error)

// Descriptor is an immutable registry entry.
type Descriptor struct {
	Kind        Kind
	Description string
	Params      []Param
	// Positional tools keep empty fields and require every parameter.
	Positional bool
	Schema     *jsonschema.Schema
	Invoke     Handler
}

// Name is the wire name the decision stage uses.
func (d Descriptor) Name() string {
	return d.Kind.String()
}

// Summary returns the first non-empty line of the description.
func (d Descriptor) Summary() string {
	for _, line := range strings.Split(d.Description, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// Args holds coerced argument values by parameter name.
type Args struct {
	values map[string]any
	raw    []string
}

// NewArgs builds Args from already typed values.
func NewArgs(values map[string]any) Args {
	if values == nil {
		values = map[string]any{}
	}
	return Args{values: values}
}

// Has reports whether name was supplied and coerced.
func (a Args) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

func (a Args) String(name string) string {
	s, _ := a.values[name].(string)
	return s
}

func (a Args) Date(name string) (time.Time, bool) {
	d, ok := a.values[name].(time.Time)
	return d, ok
}

func (a Args) Float(name string) float64 {
	f, _ := a.values[name].(float64)
	return f
}

func (a Args) Int(name string) int {
	i, _ := a.values[name].(int)
	return i
}

// Raw returns the argument fields as they appeared in the decision line.
func (a Args) Raw() []string {
	return a.raw
}

// Call is a parsed tool invocation request.
type Call struct {
	Name string
	Args []string
}

// Result is the string outcome of a dispatched call. Tools never fail past
// the dispatcher; Failed marks outputs that describe an error and Invalid
// narrows that to argument validation.
type Result struct {
	Kind     Kind
	Output   string
	Failed   bool
	Invalid  bool
	Duration time.Duration
}
