// Package toolschema holds the catalog of tools the agent may call.
//
// The catalog is an OpenAPI 3 document whose component schemas describe each
// tool's arguments. It is used to coerce tag-encoded arguments, which always
// arrive as strings, to their declared types and to flag arguments that do
// not match the schema.
package toolschema

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// normalizerExtension names the normalizer kind for a tool's output.
const normalizerExtension = "x-normalizer"

// Param describes one tool argument.
type Param struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool   `json:"required" yaml:"required"`
}

// Tool is a callable tool and its argument schema.
type Tool struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Normalizer  string  `json:"normalizer,omitempty" yaml:"normalizer,omitempty"`
	Params      []Param `json:"params" yaml:"params"`

	schema *openapi3.Schema
}

// Catalog is an immutable set of tools keyed by name.
type Catalog struct {
	tools map[string]*Tool
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := Parse(embeddedCatalog)
	if err != nil {
		panic(fmt.Sprintf("toolschema: embedded catalog: %v", err))
	}
	return c
})

// ErrInvalid marks a document that loads but is not a usable catalog.
var ErrInvalid = errors.New("invalid catalog")

// Default returns the built-in catalog.
func Default() *Catalog {
	return defaultCatalog()
}

// Load reads a catalog document from a YAML or JSON file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from an OpenAPI 3 document. Every schema under
// components.schemas becomes a tool.
func Parse(data []byte) (*Catalog, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil, fmt.Errorf("%w: no tools under components.schemas", ErrInvalid)
	}

	c := &Catalog{tools: make(map[string]*Tool, len(doc.Components.Schemas))}
	for name, ref := range doc.Components.Schemas {
		if ref == nil || ref.Value == nil {
			continue
		}
		c.tools[name] = newTool(name, ref.Value)
	}
	return c, nil
}

func newTool(name string, schema *openapi3.Schema) *Tool {
	t := &Tool{
		Name:        name,
		Description: schema.Description,
		schema:      schema,
	}
	if v, ok := schema.Extensions[normalizerExtension]; ok {
		t.Normalizer = extensionString(v)
	}

	required := make(map[string]bool, len(schema.Required))
	for _, r := range schema.Required {
		required[r] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for n := range schema.Properties {
		names = append(names, n)
	}
	sort.Strings(names)

	t.Params = make([]Param, 0, len(names))
	for _, n := range names {
		p := Param{Name: n, Required: required[n]}
		if ref := schema.Properties[n]; ref != nil && ref.Value != nil {
			p.Type = typeName(ref.Value)
			p.Description = ref.Value.Description
		}
		t.Params = append(t.Params, p)
	}
	return t
}

func extensionString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.RawMessage:
		var s string
		if err := json.Unmarshal(val, &s); err == nil {
			return s
		}
		return strings.Trim(string(val), `"`)
	default:
		return fmt.Sprint(val)
	}
}

func typeName(s *openapi3.Schema) string {
	if s.Type == nil || len(*s.Type) == 0 {
		return "any"
	}
	return strings.Join(s.Type.Slice(), "|")
}

// Lookup returns the tool with the given name.
func (c *Catalog) Lookup(name string) (*Tool, bool) {
	t, ok := c.tools[name]
	return t, ok
}

// Tools returns all tools sorted by name.
func (c *Catalog) Tools() []*Tool {
	out := make([]*Tool, 0, len(c.tools))
	for _, t := range c.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of tools.
func (c *Catalog) Len() int {
	return len(c.tools)
}

// Coerce returns a copy of args in which string values are converted to the
// type their property declares. Values that do not parse are left as strings
// so Validate can report them.
func (t *Tool) Coerce(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
		s, ok := v.(string)
		if !ok {
			continue
		}
		ref := t.schema.Properties[k]
		if ref == nil || ref.Value == nil || ref.Value.Type == nil {
			continue
		}
		if coerced, ok := coerceString(ref.Value.Type, s); ok {
			out[k] = coerced
		}
	}
	return out
}

func coerceString(types *openapi3.Types, s string) (any, bool) {
	trimmed := strings.TrimSpace(s)
	switch {
	case types.Is(openapi3.TypeInteger):
		n, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return nil, false
		}
		return float64(n), true
	case types.Is(openapi3.TypeNumber):
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	case types.Is(openapi3.TypeBoolean):
		b, err := strconv.ParseBool(trimmed)
		if err != nil {
			return nil, false
		}
		return b, true
	case types.Is(openapi3.TypeObject), types.Is(openapi3.TypeArray):
		var v any
		if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
			return nil, false
		}
		return v, true
	default:
		return nil, false
	}
}

// Validate checks args against the tool schema.
func (t *Tool) Validate(args map[string]any) error {
	if args == nil {
		args = map[string]any{}
	}
	if err := t.schema.VisitJSON(args, openapi3.MultiErrors()); err != nil {
		return fmt.Errorf("%s: %w", t.Name, err)
	}
	return nil
}
