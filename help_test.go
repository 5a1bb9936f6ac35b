// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package subcmd

import (
	"strings"
	"testing"
)

func TestHelpTextListsCommandsInOrder(t *testing.T) {
	p, _ := newTestParser(t)
	if err := p.AddCommand(&unaryCmd{}); err != nil {
		t.Fatalf("AddCommand() error = %v", err)
	}
	if err := p.AddCommand(&zeroCmd{}); err != nil {
		t.Fatalf("AddCommand() error = %v", err)
	}

	got := p.helpText()
	// The built-in help command registers first.
	help := strings.Index(got, "help")
	unary := strings.Index(got, "unary")
	zero := strings.Index(got, "zero")
	if help < 0 || unary < 0 || zero < 0 {
		t.Fatalf("help missing commands:\n%s", got)
	}
	if !(help < unary && unary < zero) {
		t.Errorf("commands out of registration order:\n%s", got)
	}
}

func TestHelpTextRoundTripsDescriptions(t *testing.T) {
	p, _ := newTestParser(t)
	unary := &unaryCmd{}
	if err := p.AddCommand(unary); err != nil {
		t.Fatalf("AddCommand() error = %v", err)
	}

	if got := p.helpText(); !strings.Contains(got, unary.Help()) {
		t.Errorf("helpText() missing %q:\n%s", unary.Help(), got)
	}
	if got := p.commandHelpText(unary); !strings.Contains(got, unary.Help()) {
		t.Errorf("commandHelpText() missing %q:\n%s", unary.Help(), got)
	}
}

func TestHelpTextDescription(t *testing.T) {
	p, _ := newTestParser(t)
	p.SetDescription("history database tool")

	got := p.helpText()
	if !strings.HasPrefix(got, "prog - history database tool\n") {
		t.Errorf("helpText() = %q, want description header", got)
	}
}

func TestHelpTextTopLevelOptions(t *testing.T) {
	p, _ := newTestParser(t)

	got := p.helpText()
	if strings.Contains(got, "OPTIONS:") {
		t.Errorf("helpText() has options section with no flags:\n%s", got)
	}

	if err := p.String("table", "", "table to operate on"); err != nil {
		t.Fatalf("String() error = %v", err)
	}
	got = p.helpText()
	if !strings.Contains(got, "OPTIONS:") || !strings.Contains(got, "--table") {
		t.Errorf("helpText() missing top-level options:\n%s", got)
	}
}

func TestCommandHelpTextSections(t *testing.T) {
	p, _ := newTestParser(t)
	if err := p.String("table", "", "table to operate on"); err != nil {
		t.Fatalf("String() error = %v", err)
	}
	unary := &unaryCmd{}
	if err := p.AddCommand(unary); err != nil {
		t.Fatalf("AddCommand() error = %v", err)
	}

	got := p.commandHelpText(unary)
	for _, want := range []string{
		"USAGE:",
		"prog unary [OPTIONS]",
		"--target",
		"GLOBAL OPTIONS:",
		"--table",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("commandHelpText() missing %q:\n%s", want, got)
		}
	}
}
