// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package subcmd

import (
	"fmt"
	"strings"
)

// helpText renders the top-level help. Commands are listed in registration
// order; each description is the command's Help string verbatim.
func (p *Parser) helpText() string {
	var b strings.Builder

	b.WriteString(p.name)
	if p.desc != "" {
		b.WriteString(" - ")
		b.WriteString(p.desc)
	}
	b.WriteString("\n\n")

	b.WriteString("USAGE:\n")
	fmt.Fprintf(&b, "    %s [OPTIONS] COMMAND [ARGS...]\n\n", p.name)

	if names := p.reg.names(); len(names) > 0 {
		b.WriteString("COMMANDS:\n")
		for _, name := range names {
			cmd, _ := p.reg.get(name)
			fmt.Fprintf(&b, "    %-12s %s\n", name, cmd.Help())
		}
		b.WriteString("\n")
	}

	if top := p.topFlagSet(); top.HasFlags() {
		b.WriteString("OPTIONS:\n")
		b.WriteString(top.FlagUsages())
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Run '%s help COMMAND' for more information on a command.\n", p.name)
	return b.String()
}

// commandHelpText renders help for one command: its Help string, a usage
// line, its own flags, then the shared top-level flags.
func (p *Parser) commandHelpText(cmd Command) string {
	var b strings.Builder

	if help := cmd.Help(); help != "" {
		b.WriteString(help)
		b.WriteString("\n\n")
	}

	b.WriteString("USAGE:\n")
	fmt.Fprintf(&b, "    %s %s [OPTIONS]\n\n", p.name, cmd.Name())

	own := newFlagSet(cmd.Name())
	cmd.Register(own)
	if own.HasFlags() {
		b.WriteString("OPTIONS:\n")
		b.WriteString(own.FlagUsages())
		b.WriteString("\n")
	}

	if top := p.topFlagSet(); top.HasFlags() {
		b.WriteString("GLOBAL OPTIONS:\n")
		b.WriteString(top.FlagUsages())
		b.WriteString("\n")
	}

	return b.String()
}

func (p *Parser) printHelp() {
	fmt.Fprint(p.out, p.helpText())
}

func (p *Parser) printCommandHelp(cmd Command) {
	fmt.Fprint(p.out, p.commandHelpText(cmd))
}

func (p *Parser) printHint(name string) {
	fmt.Fprintf(p.out, "Run '%s help %s' for more information.\n", p.name, name)
}
