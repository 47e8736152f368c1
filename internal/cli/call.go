package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/lydakis/idebridge/internal/argschema"
	"github.com/lydakis/idebridge/internal/ide"
	"github.com/lydakis/idebridge/internal/logging"
	"github.com/lydakis/idebridge/internal/response"
	"github.com/spf13/cobra"
)

func newCallCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <tool> [--arg=value ... | '{json}']",
		Short: "Call one IDE tool and print its result",
		Long: "Resolves the IDE endpoint once and forwards a single tool call, the same way an MCP\n" +
			"client's tools/call is forwarded. Arguments are given as --name=value flags, as one\n" +
			"JSON object, or as a JSON object on stdin. Use --tool-help or --tool-quiet for tool\n" +
			"arguments named help or quiet.\n\n" +
			"Global flags go before the tool name.\n\n" +
			"Exits 1 when the tool returns an error or no IDE answers.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(cmd, opts, args[0], args[1:])
		},
	}
	// everything after the tool name belongs to the tool
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func runCall(cmd *cobra.Command, opts *globalOptions, tool string, rawArgs []string) error {
	line, err := scanCallLine(rawArgs, cmd.InOrStdin(), stdinIsTTY(cmd.InOrStdin()))
	if err != nil {
		return withExitCode(ExitUsageErr, err)
	}

	cfg, err := loadSettings(cmd, opts)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogEnabled, cfg.LogLevel)
	if err != nil {
		return withExitCode(ExitUsageErr, err)
	}
	defer func() { _ = logger.Sync() }()

	c := newComponents(cfg, logger)
	if err := c.cache.Refresh(cmd.Context()); err != nil {
		return withExitCode(ExitFailure, err)
	}

	payload := c.cache.Current().Payload
	if line.help {
		return printToolHelp(cmd.OutOrStdout(), tool, payload)
	}

	args, err := line.bind(toolSchema(payload, tool))
	if err != nil {
		return withExitCode(ExitUsageErr, err)
	}

	result := c.forwarder.Forward(cmd.Context(), tool, args)
	out, isErr := response.Unwrap(result)
	switch {
	case isErr && !line.quiet:
		_, _ = cmd.ErrOrStderr().Write(out)
	case !isErr:
		_, _ = cmd.OutOrStdout().Write(out)
	}
	if isErr {
		return withExitCode(ExitFailure, fmt.Errorf("tool %s failed", tool))
	}
	return nil
}

// findTool looks name up in a tool listing. An unparseable listing finds
// nothing; the IDE then judges the call on its own.
func findTool(payload []byte, name string) (ide.ToolDescriptor, bool) {
	tools, err := ide.ParseTools(payload)
	if err != nil {
		return ide.ToolDescriptor{}, false
	}
	for _, tool := range tools {
		if tool.Name == name {
			return tool, true
		}
	}
	return ide.ToolDescriptor{}, false
}

// toolSchema returns the input schema the listing declares for name. Unknown
// tools and unreadable schemas get an open schema.
func toolSchema(payload []byte, name string) *argschema.Schema {
	tool, ok := findTool(payload, name)
	if !ok {
		return argschema.Open()
	}
	schema, err := argschema.Parse(tool.InputSchema)
	if err != nil {
		return argschema.Open()
	}
	return schema
}

func printToolHelp(out io.Writer, name string, payload []byte) error {
	if _, err := ide.ParseTools(payload); err != nil {
		return withExitCode(ExitFailure, err)
	}
	tool, ok := findTool(payload, name)
	if !ok {
		return withExitCode(ExitFailure, fmt.Errorf("unknown tool: %s", name))
	}

	fmt.Fprintf(out, "Usage:\n  idebridge call %s [FLAGS]\n", name)
	if desc := strings.TrimSpace(tool.Description); desc != "" {
		fmt.Fprintf(out, "\n%s\n", desc)
	}

	flags := toolFlags(toolSchema(payload, name))
	if len(flags) > 0 {
		fmt.Fprintln(out, "\nFlags:")
		for _, f := range flags {
			fmt.Fprintf(out, "  %s\n", f)
		}
	}
	return nil
}

// toolFlags renders one help line per declared property, sorted by name.
func toolFlags(schema *argschema.Schema) []string {
	props := schema.Properties()
	lines := make([]string, 0, len(props))
	for _, p := range props {
		line, negative := toolFlagNames(p.Name, p.Kind)
		if negative != "" {
			line += ", " + negative
		}
		if p.Kind != argschema.Any {
			line += " <" + string(p.Kind) + ">"
		}
		if p.Required {
			line += " (required)"
		}
		if p.Description != "" {
			line += "  " + p.Description
		}
		lines = append(lines, line)
	}
	return lines
}

func toolFlagNames(name string, kind argschema.Kind) (base string, negative string) {
	prefix := ""
	if isReservedCallFlagName(name) {
		prefix = "tool-"
	}

	base = "--" + prefix + name
	if kind == argschema.Boolean && !strings.HasPrefix(name, "no-") {
		negative = "--" + prefix + "no-" + name
	}
	return base, negative
}
