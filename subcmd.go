// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package subcmd

import (
	"github.com/spf13/pflag"
)

// Command is the capability contract a subcommand satisfies. Any type with
// these four methods can be registered; no shared base type is involved.
type Command interface {
	// Name returns the dispatch key. Matching against the first positional
	// token is exact and case-sensitive.
	Name() string

	// Help returns the command's human-readable description. It is shown
	// verbatim in generated help text.
	Help() string

	// Register adds the command's flags to fs. The flag set is scoped to
	// this command but the parsed namespace is shared with the top-level
	// flags, so the command owns the meaning of its flags, not the storage.
	Register(fs *pflag.FlagSet)

	// Run executes the command with the fully parsed namespace. The
	// returned error propagates to the Run caller unchanged.
	Run(ns *Namespace) error
}

// validator is satisfied by commands that check the parsed namespace before
// Run. A returned error is treated as a usage error.
type validator interface {
	validate(ns *Namespace) error
}

// registry maps command names to Commands and preserves registration order
// for help listings.
type registry struct {
	cmds  map[string]Command
	order []string
}

func newRegistry() *registry {
	return &registry{cmds: make(map[string]Command)}
}

func (r *registry) add(cmd Command) error {
	name := cmd.Name()
	if name == "" {
		return configErrorf("command has empty name")
	}
	if _, ok := r.cmds[name]; ok {
		return &DuplicateCommandError{Name: name}
	}
	r.cmds[name] = cmd
	r.order = append(r.order, name)
	return nil
}

func (r *registry) get(name string) (Command, bool) {
	cmd, ok := r.cmds[name]
	return cmd, ok
}

func (r *registry) names() []string {
	return r.order
}
