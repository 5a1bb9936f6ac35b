// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package subcmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
)

// Parser owns a named top-level flag set and a registry of commands. Flags
// and commands are added during a registration phase; Run then parses an
// argv slice and dispatches to the matching command. Flag sets are rebuilt
// from the stored declarations on every Run, so repeated runs with the same
// argv are independent.
type Parser struct {
	name       string
	desc       string
	decls      []flagDecl
	declared   map[string]bool
	shorts     map[string]string
	reg        *registry
	out        io.Writer
	defaultRun func(ns *Namespace) error
}

// flagDecl is a deferred top-level flag definition. define is replayed into
// a fresh pflag.FlagSet each Run.
type flagDecl struct {
	name   string
	define func(fs *pflag.FlagSet)
}

var errNoCommand = errors.New("no command given")

// NewParser returns a Parser for the named program. The built-in "help"
// command is registered up front.
func NewParser(name string) *Parser {
	p := &Parser{
		name:     name,
		declared: make(map[string]bool),
		shorts:   make(map[string]string),
		reg:      newRegistry(),
		out:      os.Stderr,
	}
	// Registering help through the normal path keeps its listing slot.
	if err := p.AddCommand(&helpCommand{p: p}); err != nil {
		panic(err)
	}
	return p
}

// SetOutput redirects help and usage text, which goes to os.Stderr by
// default.
func (p *Parser) SetOutput(w io.Writer) { p.out = w }

// SetDescription sets the one-line program description shown at the top of
// generated help.
func (p *Parser) SetDescription(desc string) { p.desc = desc }

// SetDefault installs a hook invoked when Run is given no command token.
// Without a hook, Run prints the top-level help and returns a usage error.
// The hook receives a namespace holding only the top-level flags.
func (p *Parser) SetDefault(fn func(ns *Namespace) error) { p.defaultRun = fn }

// AddCommand registers cmd under its Name. Registering two commands with
// the same name returns a *DuplicateCommandError.
func (p *Parser) AddCommand(cmd Command) error {
	return p.reg.add(cmd)
}

func (p *Parser) addDecl(name, shorthand string, define func(fs *pflag.FlagSet)) error {
	if name == "" {
		return configErrorf("flag has empty name")
	}
	if p.declared[name] {
		return &DuplicateFlagError{Name: name}
	}
	if shorthand != "" {
		if prev, ok := p.shorts[shorthand]; ok {
			return configErrorf("flag --%s: shorthand -%s already used by --%s", name, shorthand, prev)
		}
		p.shorts[shorthand] = name
	}
	p.declared[name] = true
	p.decls = append(p.decls, flagDecl{name: name, define: define})
	return nil
}

// String declares a top-level string flag.
func (p *Parser) String(name, value, usage string) error {
	return p.addDecl(name, "", func(fs *pflag.FlagSet) { fs.String(name, value, usage) })
}

// StringP declares a top-level string flag with a one-letter shorthand.
func (p *Parser) StringP(name, shorthand, value, usage string) error {
	return p.addDecl(name, shorthand, func(fs *pflag.FlagSet) { fs.StringP(name, shorthand, value, usage) })
}

// Bool declares a top-level bool flag.
func (p *Parser) Bool(name string, value bool, usage string) error {
	return p.addDecl(name, "", func(fs *pflag.FlagSet) { fs.Bool(name, value, usage) })
}

// BoolP declares a top-level bool flag with a one-letter shorthand.
func (p *Parser) BoolP(name, shorthand string, value bool, usage string) error {
	return p.addDecl(name, shorthand, func(fs *pflag.FlagSet) { fs.BoolP(name, shorthand, value, usage) })
}

// Int declares a top-level int flag.
func (p *Parser) Int(name string, value int, usage string) error {
	return p.addDecl(name, "", func(fs *pflag.FlagSet) { fs.Int(name, value, usage) })
}

// IntP declares a top-level int flag with a one-letter shorthand.
func (p *Parser) IntP(name, shorthand string, value int, usage string) error {
	return p.addDecl(name, shorthand, func(fs *pflag.FlagSet) { fs.IntP(name, shorthand, value, usage) })
}

// Duration declares a top-level duration flag.
func (p *Parser) Duration(name string, value time.Duration, usage string) error {
	return p.addDecl(name, "", func(fs *pflag.FlagSet) { fs.Duration(name, value, usage) })
}

// StringSlice declares a top-level string slice flag.
func (p *Parser) StringSlice(name string, value []string, usage string) error {
	return p.addDecl(name, "", func(fs *pflag.FlagSet) { fs.StringSlice(name, value, usage) })
}

// Var declares a top-level flag backed by a custom pflag.Value. Unlike the
// typed declarations, value is shared across runs; callers own its state.
func (p *Parser) Var(value pflag.Value, name, usage string) error {
	return p.addDecl(name, "", func(fs *pflag.FlagSet) { fs.Var(value, name, usage) })
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// topFlagSet materializes the top-level declarations into a fresh flag set.
// Interspersed parsing is off so the first positional token ends the
// top-level phase and names the command.
func (p *Parser) topFlagSet() *pflag.FlagSet {
	fs := newFlagSet(p.name)
	fs.SetInterspersed(false)
	for _, d := range p.decls {
		d.define(fs)
	}
	return fs
}

// commandFlagSet builds cmd's scoped flag set and merges the already-parsed
// top-level flags into it. AddFlagSet shares the *pflag.Flag instances, so
// top-level values parsed earlier stay visible through the merged set. A
// command flag with the same name as a top-level flag shadows it; a command
// flag reusing a top-level shorthand under a different name would make
// AddFlagSet panic, so that clash is caught here and reported instead.
func (p *Parser) commandFlagSet(cmd Command, top *pflag.FlagSet) (*pflag.FlagSet, error) {
	fs := newFlagSet(p.name + " " + cmd.Name())
	cmd.Register(fs)
	var err error
	top.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Shorthand == "" || fs.Lookup(f.Name) != nil {
			return
		}
		if own := fs.ShorthandLookup(f.Shorthand); own != nil {
			err = configErrorf("command %q: flag --%s and top-level flag --%s share shorthand -%s",
				cmd.Name(), own.Name, f.Name, f.Shorthand)
		}
	})
	if err != nil {
		return nil, err
	}
	fs.AddFlagSet(top)
	return fs, nil
}

// Run parses argv against the top-level flags and the registered commands,
// then invokes the selected command with the merged namespace. Usage
// failures print to the configured output and return a *UsageError; errors
// from the command's Run propagate unchanged. A command whose registered
// shorthand collides with a top-level flag's is a configuration error,
// reported when that command is dispatched.
func (p *Parser) Run(argv []string) error {
	top := p.topFlagSet()
	if err := top.Parse(argv); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			p.printHelp()
			return nil
		}
		fmt.Fprintf(p.out, "%v\n\n", err)
		p.printHelp()
		return &UsageError{Err: err}
	}

	rest := top.Args()
	if len(rest) == 0 {
		if p.defaultRun != nil {
			return p.defaultRun(&Namespace{fs: top})
		}
		p.printHelp()
		return &UsageError{Err: errNoCommand}
	}

	name := rest[0]
	cmd, ok := p.reg.get(name)
	if !ok {
		err := fmt.Errorf("unknown command: %s", name)
		fmt.Fprintf(p.out, "%v\n\n", err)
		p.printHelp()
		return &UsageError{Err: err}
	}

	fs, err := p.commandFlagSet(cmd, top)
	if err != nil {
		return err
	}
	if err := fs.Parse(rest[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			p.printCommandHelp(cmd)
			return nil
		}
		fmt.Fprintf(p.out, "%v\n", err)
		p.printHint(name)
		return &UsageError{Cmd: name, Err: err}
	}

	ns := &Namespace{fs: fs}
	if v, ok := cmd.(validator); ok {
		if err := v.validate(ns); err != nil {
			fmt.Fprintf(p.out, "%v\n", err)
			p.printHint(name)
			return &UsageError{Cmd: name, Err: err}
		}
	}
	return cmd.Run(ns)
}

// Main runs with the process arguments and maps the outcome to an exit
// status: 0 on success, 2 on usage errors (already printed by Run), 1 on
// anything a command returned.
func (p *Parser) Main() {
	err := p.Run(os.Args[1:])
	switch {
	case err == nil:
	case errors.Is(err, ErrUsage):
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}

// helpCommand is registered on every Parser. "prog help" prints the
// top-level help; "prog help CMD" prints CMD's help.
type helpCommand struct {
	p *Parser
}

func (h *helpCommand) Name() string { return "help" }

func (h *helpCommand) Help() string { return "Show help for a command" }

func (h *helpCommand) Register(fs *pflag.FlagSet) {}

func (h *helpCommand) Run(ns *Namespace) error {
	args := ns.Args()
	if len(args) == 0 {
		h.p.printHelp()
		return nil
	}
	cmd, ok := h.p.reg.get(args[0])
	if !ok {
		fmt.Fprintf(h.p.out, "unknown command: %s\n\n", args[0])
		h.p.printHelp()
		return &UsageError{Err: fmt.Errorf("unknown command: %s", args[0])}
	}
	h.p.printCommandHelp(cmd)
	return nil
}
