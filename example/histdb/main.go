// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command histdb shows the command-based API: a top-level flag shared by
// every command plus one hand-written Command implementation.
//
// Try:
//
//	histdb --table histories query --key 1984
//	histdb help query
package main

import (
	"fmt"
	"log"

	"github.com/spf13/pflag"
	"github.com/yeetrun/subcmd"
)

type queryCmd struct{}

func (queryCmd) Name() string { return "query" }
func (queryCmd) Help() string { return "Query a table by key" }

func (queryCmd) Register(fs *pflag.FlagSet) {
	fs.String("key", "", "row key to look up")
}

func (queryCmd) Run(ns *subcmd.Namespace) error {
	table, err := ns.String("table")
	if err != nil {
		return err
	}
	key, err := ns.String("key")
	if err != nil {
		return err
	}
	fmt.Printf("querying %s for %q\n", table, key)
	return nil
}

func main() {
	p := subcmd.NewParser("histdb")
	p.SetDescription("history database tool")
	if err := p.String("table", "histories", "table to operate on"); err != nil {
		log.Fatal(err)
	}
	if err := p.AddCommand(queryCmd{}); err != nil {
		log.Fatal(err)
	}
	p.Main()
}
