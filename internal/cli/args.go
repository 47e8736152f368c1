package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/lydakis/idebridge/internal/argschema"
)

// Names the call command keeps for itself. A tool argument with one of these
// names is passed as --tool-<name>.
var reservedCallFlagNames = map[string]struct{}{
	"help":  {},
	"quiet": {},
}

// callLine is the call command's argument list, split into the command's
// own switches and the tool's arguments. Tool arguments are either flags or
// one JSON object, never both.
type callLine struct {
	flags  []callFlag
	object map[string]any
	quiet  bool
	help   bool
}

type callFlag struct {
	name  string
	value any // text, or true for a bare flag
}

// scanCallLine splits args without looking at the tool. Without flags or a
// JSON argument, a non-terminal stdin is read as the JSON object.
func scanCallLine(args []string, stdin io.Reader, stdinIsTTY bool) (*callLine, error) {
	line := &callLine{}
	var positional []string
	switches := true

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			switches = false
		case switches && (arg == "-q" || arg == "--quiet"):
			line.quiet = true
		case switches && (arg == "-h" || arg == "--help"):
			line.help = true
		case strings.HasPrefix(arg, "--"):
			flag, consumed, err := splitCallFlag(arg, args[i+1:])
			if err != nil {
				return nil, err
			}
			i += consumed
			line.flags = append(line.flags, flag)
		case strings.HasPrefix(arg, "-"):
			return nil, fmt.Errorf("unsupported short flag: %s", arg)
		default:
			positional = append(positional, arg)
		}
	}

	switch {
	case len(positional) > 1:
		return nil, fmt.Errorf("multiple positional arguments are not supported")
	case len(positional) == 1 && len(line.flags) > 0:
		return nil, fmt.Errorf("cannot mix a JSON argument object with --flags")
	case len(positional) == 1:
		obj, err := decodeArgObject(positional[0])
		if err != nil {
			return nil, err
		}
		line.object = obj
	case len(line.flags) == 0 && !line.quiet && !line.help && !stdinIsTTY && stdin != nil:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		if text := strings.TrimSpace(string(data)); text != "" {
			if line.object, err = decodeArgObject(text); err != nil {
				return nil, err
			}
		}
	}
	return line, nil
}

// splitCallFlag reads --name=value, --name value or a bare --name. It
// returns how many of rest it used.
func splitCallFlag(token string, rest []string) (callFlag, int, error) {
	name, value, hasValue := strings.Cut(strings.TrimPrefix(token, "--"), "=")
	if name == "" {
		return callFlag{}, 0, fmt.Errorf("invalid flag: %s", token)
	}
	if hasValue {
		return callFlag{name: name, value: value}, 0, nil
	}
	if len(rest) > 0 && !strings.HasPrefix(rest[0], "--") {
		return callFlag{name: name, value: rest[0]}, 1, nil
	}
	return callFlag{name: name, value: true}, 0, nil
}

func decodeArgObject(text string) (map[string]any, error) {
	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return nil, fmt.Errorf("invalid JSON arguments: %w", err)
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("JSON arguments must be an object")
	}
	return obj, nil
}

// bind builds the argument object sent to a tool whose input schema is
// schema.
func (l *callLine) bind(schema *argschema.Schema) (map[string]any, error) {
	if l.object != nil {
		return schema.Bind(l.object)
	}

	out := make(map[string]any, len(l.flags))
	for _, f := range l.flags {
		name := toolArgName(f.name, schema)
		prop, negated, ok := schema.ResolveFlag(name)
		if !ok {
			if !schema.IsOpen() {
				return nil, &argschema.Error{Path: name, Msg: "is not accepted by the tool"}
			}
			appendArg(out, name, f.value)
			continue
		}

		v, err := prop.Convert(f.value, name)
		if err != nil {
			return nil, err
		}
		if prop.Kind == argschema.Array {
			prev, _ := out[prop.Name].([]any)
			out[prop.Name] = append(prev, v.([]any)...)
			continue
		}
		if _, dup := out[prop.Name]; dup {
			return nil, &argschema.Error{Path: prop.Name, Msg: "is given more than once"}
		}
		if negated {
			b, _ := v.(bool)
			v = !b
		}
		out[prop.Name] = v
	}

	if err := schema.CheckRequired(out); err != nil {
		return nil, err
	}
	return out, nil
}

// toolArgName maps --tool-<name> to <name> when the call command reserves
// <name> or the tool declares it, unless the tool declares tool-<name>.
func toolArgName(flag string, schema *argschema.Schema) string {
	base, ok := strings.CutPrefix(flag, "tool-")
	if !ok || base == "" {
		return flag
	}
	if _, declared := schema.Lookup(flag); declared {
		return flag
	}
	if isReservedCallFlagName(base) {
		return base
	}
	if _, _, declared := schema.ResolveFlag(base); declared {
		return base
	}
	return flag
}

// appendArg collects repeated flags of an undeclared argument into a list.
func appendArg(dst map[string]any, key string, value any) {
	prev, ok := dst[key]
	if !ok {
		dst[key] = value
		return
	}
	if list, isList := prev.([]any); isList {
		dst[key] = append(list, value)
		return
	}
	dst[key] = []any{prev, value}
}

func isReservedCallFlagName(name string) bool {
	_, ok := reservedCallFlagNames[name]
	return ok
}

func stdinIsTTY(r io.Reader) bool {
	file, ok := r.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return true
	}
	return info.Mode()&fs.ModeCharDevice != 0
}
