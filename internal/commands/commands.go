// Package commands parses and runs console commands such as "load assets/meshes.json" or
// "grid -on=false".
package commands

import (
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-shellwords"
)

// Command is a subcommand with its own flags and a Run function.
// Flags are defined on FlagSet; Run is called after Parse with the remaining positional args
// and returns a message for the console (may be empty).
type Command struct {
	Name    string
	Usage   string
	FlagSet *flag.FlagSet
	Run     func(args []string) (string, error)
}

// Registry holds subcommands by name. Add commands with Register; run with Execute.
type Registry struct {
	cmds map[string]*Command
}

// NewRegistry returns a registry with only the "help" command.
func NewRegistry() *Registry {
	r := &Registry{cmds: make(map[string]*Command)}
	r.Register("help", "help [command]", nil, func(args []string) (string, error) {
		if len(args) > 0 {
			if usage := r.Usage(args[0]); usage != "" {
				return usage, nil
			}
			return "", fmt.Errorf("commands: unknown command: %s", args[0])
		}
		return "commands: " + strings.Join(r.Names(), ", "), nil
	})
	return r
}

// Register adds a subcommand. fs may be nil for commands without flags; its output is
// discarded so parse errors only surface through Execute's error.
func (r *Registry) Register(name, usage string, fs *flag.FlagSet, run func(args []string) (string, error)) {
	if fs == nil {
		fs = flag.NewFlagSet(name, flag.ContinueOnError)
	}
	fs.SetOutput(io.Discard)
	r.cmds[name] = &Command{Name: name, Usage: usage, FlagSet: fs, Run: run}
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cmds))
	for name := range r.cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Usage returns the usage line of name, or "" when it is not registered.
func (r *Registry) Usage(name string) string {
	if cmd, ok := r.cmds[name]; ok {
		return cmd.Usage
	}
	return ""
}

// Parse splits a console line into words with shell quoting rules, so
// `load "my meshes.json"` is two words. A leading "/" is allowed and dropped.
// A blank line returns no words and no error.
func Parse(line string) ([]string, error) {
	line = strings.TrimPrefix(strings.TrimSpace(line), "/")
	args, err := shellwords.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("commands: %w", err)
	}
	return args, nil
}

// Execute runs the subcommand in args[0] with args[1:] as flag/positional arguments.
// Returns Run's message, or an error for unknown command, parse error, or from Run().
func (r *Registry) Execute(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("commands: missing subcommand")
	}
	name := args[0]
	cmd, ok := r.cmds[name]
	if !ok {
		return "", fmt.Errorf("commands: unknown command: %s", name)
	}
	if err := cmd.FlagSet.Parse(args[1:]); err != nil {
		return "", fmt.Errorf("commands: %s: %w", name, err)
	}
	return cmd.Run(cmd.FlagSet.Args())
}
