// Package argschema reads a tool's JSON input schema so command-line
// arguments can be bound to it. Flag values arrive as text; the IDE expects
// typed JSON.
package argschema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidArgs is matched by every argument that does not fit the schema.
var ErrInvalidArgs = errors.New("invalid tool arguments")

// Error locates an invalid argument. Path is dotted for nested objects and
// indexed for array items, e.g. "options.tags[1]".
type Error struct {
	Path string
	Msg  string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Msg
	}
	return fmt.Sprintf("argument %q %s", e.Path, e.Msg)
}

func (e *Error) Unwrap() error { return ErrInvalidArgs }

// Kind is the JSON type a property declares. Any accepts every value as is.
type Kind string

const (
	Any     Kind = ""
	String  Kind = "string"
	Integer Kind = "integer"
	Number  Kind = "number"
	Boolean Kind = "boolean"
	Array   Kind = "array"
	Object  Kind = "object"
)

// Property is one declared tool argument.
type Property struct {
	Name        string
	Kind        Kind
	Description string
	Required    bool

	// Items describes array elements; nil leaves them unchecked.
	Items *Property
	// Fields describes a nested object; nil leaves it unchecked.
	Fields *Schema
}

// Schema is a decoded object schema. One without properties is open: it
// accepts any argument unchanged.
type Schema struct {
	props map[string]*Property
	names []string
}

// Open returns a schema that accepts any arguments.
func Open() *Schema {
	return &Schema{}
}

// Parse decodes a tool's input schema. Empty and null schemas are open.
func Parse(raw json.RawMessage) (*Schema, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Open(), nil
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing input schema: %w", err)
	}
	if kind := kindOf(doc); kind != Any && kind != Object {
		return nil, &Error{Msg: fmt.Sprintf("tool input schema must be object, got %q", kind)}
	}
	return objectSchema(doc), nil
}

func objectSchema(doc map[string]any) *Schema {
	s := Open()
	props, _ := doc["properties"].(map[string]any)
	if len(props) == 0 {
		return s
	}

	required := map[string]bool{}
	list, _ := doc["required"].([]any)
	for _, item := range list {
		if name, ok := item.(string); ok {
			required[name] = true
		}
	}

	s.props = make(map[string]*Property, len(props))
	for name, raw := range props {
		sub, _ := raw.(map[string]any)
		p := property(sub)
		p.Name = name
		p.Required = required[name]
		s.props[name] = p
		s.names = append(s.names, name)
	}
	sort.Strings(s.names)
	return s
}

func property(doc map[string]any) *Property {
	p := &Property{Kind: kindOf(doc)}
	if doc == nil {
		return p
	}
	p.Description, _ = doc["description"].(string)
	switch p.Kind {
	case Array:
		if items, ok := doc["items"].(map[string]any); ok {
			p.Items = property(items)
		}
	case Object:
		if _, ok := doc["properties"]; ok {
			p.Fields = objectSchema(doc)
		}
	}
	return p
}

// kindOf reads "type", taking the first non-null entry of a type list.
func kindOf(doc map[string]any) Kind {
	switch t := doc["type"].(type) {
	case string:
		return Kind(strings.ToLower(strings.TrimSpace(t)))
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s != "null" {
				return Kind(strings.ToLower(strings.TrimSpace(s)))
			}
		}
	}
	if _, ok := doc["properties"]; ok {
		return Object
	}
	return Any
}

// IsOpen reports whether the schema declares no properties.
func (s *Schema) IsOpen() bool {
	return len(s.props) == 0
}

// Properties returns the declared properties sorted by name.
func (s *Schema) Properties() []*Property {
	out := make([]*Property, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.props[name])
	}
	return out
}

// Lookup returns the property declared as name.
func (s *Schema) Lookup(name string) (*Property, bool) {
	p, ok := s.props[name]
	return p, ok
}

// ResolveFlag maps a flag name to a property. no-<name> resolves to the
// boolean property <name>, negated, unless no-<name> is itself declared.
func (s *Schema) ResolveFlag(name string) (p *Property, negated bool, ok bool) {
	if p, ok := s.props[name]; ok {
		return p, false, true
	}
	base, cut := strings.CutPrefix(name, "no-")
	if !cut {
		return nil, false, false
	}
	if p, ok := s.props[base]; ok && p.Kind == Boolean {
		return p, true, true
	}
	return nil, false, false
}

// Bind converts every value of args to its declared type and checks that
// args names only declared properties and all required ones.
func (s *Schema) Bind(args map[string]any) (map[string]any, error) {
	return s.bind(args, "")
}

func (s *Schema) bind(args map[string]any, path string) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for key, value := range args {
		p, ok := s.props[key]
		if !ok {
			if !s.IsOpen() {
				return nil, &Error{Path: join(path, key), Msg: "is not accepted by the tool"}
			}
			out[key] = value
			continue
		}
		v, err := p.convert(value, join(path, key))
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	if err := s.checkRequired(out, path); err != nil {
		return nil, err
	}
	return out, nil
}

// CheckRequired reports the first required property, by name, missing
// from args.
func (s *Schema) CheckRequired(args map[string]any) error {
	return s.checkRequired(args, "")
}

func (s *Schema) checkRequired(args map[string]any, path string) error {
	for _, name := range s.names {
		if !s.props[name].Required {
			continue
		}
		if _, ok := args[name]; !ok {
			return &Error{Path: join(path, name), Msg: "is required"}
		}
	}
	return nil
}

// Convert turns value, usually flag text, into the property's type. path
// names the value in errors. An array property accepts a list, a JSON array
// text, or a single value, and always returns []any.
func (p *Property) Convert(value any, path string) (any, error) {
	return p.convert(value, path)
}

func (p *Property) convert(value any, path string) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch p.Kind {
	case Array:
		return p.list(value, path)
	case Object:
		return p.object(value, path)
	case String, Integer, Number, Boolean:
		return scalar(p.Kind, value, path)
	default:
		return value, nil
	}
}

func (p *Property) list(value any, path string) ([]any, error) {
	var items []any
	switch v := value.(type) {
	case []any:
		items = v
	case string:
		if text := strings.TrimSpace(v); strings.HasPrefix(text, "[") {
			if err := json.Unmarshal([]byte(text), &items); err != nil {
				return nil, &Error{Path: path, Msg: "must be JSON array: " + err.Error()}
			}
		} else {
			items = []any{v}
		}
	default:
		items = []any{v}
	}
	if p.Items == nil {
		return items, nil
	}

	out := make([]any, len(items))
	for i, item := range items {
		v, err := p.Items.convert(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (p *Property) object(value any, path string) (map[string]any, error) {
	obj, ok := value.(map[string]any)
	if text, isText := value.(string); isText {
		if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &obj); err != nil {
			return nil, &Error{Path: path, Msg: "must be JSON object: " + err.Error()}
		}
		ok = obj != nil
	}
	if !ok {
		return nil, mismatch(path, Object, value)
	}
	if p.Fields == nil {
		return obj, nil
	}
	return p.Fields.bind(obj, path)
}

// scalar converts value to a string, int64, float64 or bool. Text is parsed;
// JSON numbers are checked against the kind.
func scalar(kind Kind, value any, path string) (any, error) {
	if kind == String {
		if _, ok := value.(string); !ok {
			return nil, mismatch(path, kind, value)
		}
		return value, nil
	}

	switch v := value.(type) {
	case string:
		return parseText(kind, strings.TrimSpace(v), path)
	case bool:
		if kind == Boolean {
			return v, nil
		}
	case json.Number:
		return parseText(kind, v.String(), path)
	case float64:
		switch kind {
		case Number:
			return v, nil
		case Integer:
			if v != math.Trunc(v) {
				return nil, &Error{Path: path, Msg: "must be integer"}
			}
			return int64(v), nil
		}
	case int:
		return scalar(kind, int64(v), path)
	case int64:
		switch kind {
		case Number:
			return float64(v), nil
		case Integer:
			return v, nil
		}
	}
	return nil, mismatch(path, kind, value)
}

func parseText(kind Kind, text, path string) (any, error) {
	var (
		v   any
		err error
	)
	switch kind {
	case Integer:
		v, err = strconv.ParseInt(text, 10, 64)
	case Number:
		v, err = strconv.ParseFloat(text, 64)
	case Boolean:
		v, err = strconv.ParseBool(text)
	}
	if err != nil {
		return nil, &Error{Path: path, Msg: fmt.Sprintf("must be %s: %v", kind, err)}
	}
	return v, nil
}

func mismatch(path string, want Kind, got any) error {
	return &Error{Path: path, Msg: fmt.Sprintf("must be %s, got %T", want, got)}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
