// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command greet shows the function-based API: plain functions become
// commands, their struct parameters become flags.
//
// Try:
//
//	greet say-hello --name Alice -c 3
//	greet help say-hello
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/yeetrun/subcmd"
)

type helloArgs struct {
	Name  string `flag:"name" help:"who to greet"`
	Count int    `flag:"count" default:"1" help:"how many times"`
	Loud  bool   `flag:"loud" help:"shout the greeting"`
}

func (helloArgs) Help() string { return "Print a greeting" }

func say_hello(a helloArgs) error {
	greeting := fmt.Sprintf("Hello, %s!", a.Name)
	if a.Loud {
		greeting = strings.ToUpper(greeting)
	}
	for i := 0; i < a.Count; i++ {
		fmt.Println(greeting)
	}
	return nil
}

func main() {
	w := subcmd.NewWrapper(subcmd.NewParser("greet"))
	if err := w.Add(say_hello); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
	if err := w.Run(os.Args[1:]); err != nil {
		if errors.Is(err, subcmd.ErrUsage) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}
