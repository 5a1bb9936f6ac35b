// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package subcmd layers subcommand dispatch on top of pflag.
//
// A program builds a [Parser] with its shared top-level flags, registers one
// or more commands, and calls [Parser.Run] with an argv slice. Each command
// owns its name, its help text, its flag schema, and its body; the parser
// owns resolution, help generation, and the merged flag namespace handed to
// the selected command.
//
// # Command-based usage
//
// A command is any type implementing the four-method [Command] contract:
//
//	type queryCmd struct{}
//
//	func (queryCmd) Name() string { return "query" }
//	func (queryCmd) Help() string { return "Look up a key in a table" }
//
//	func (queryCmd) Register(fs *pflag.FlagSet) {
//	    fs.String("key", "", "Key to look up")
//	}
//
//	func (queryCmd) Run(ns *subcmd.Namespace) error {
//	    table, _ := ns.String("table") // top-level flag
//	    key, _ := ns.String("key")     // command flag
//	    fmt.Printf("%s/%s\n", table, key)
//	    return nil
//	}
//
//	func main() {
//	    p := subcmd.NewParser("histdb")
//	    p.String("table", "histories", "Table to operate on")
//	    p.AddCommand(queryCmd{})
//	    p.Main()
//	}
//
// Top-level flags appear before the command token, command flags after it:
//
//	histdb --table histories query --key 1984
//
// # Function-based usage
//
// [Wrapper] turns a plain function into a command. The function takes a
// single struct whose fields become the command's flags, driven by the same
// struct tags throughout:
//
//	type queryArgs struct {
//	    Table string `flag:"table" help:"Table to operate on"`
//	    Key   string `flag:"key" default:"default" help:"Key to look up"`
//	}
//
//	func query(a queryArgs) {
//	    fmt.Printf("%s/%s\n", a.Table, a.Key)
//	}
//
//	func main() {
//	    w := subcmd.NewWrapper(subcmd.NewParser("histdb"))
//	    if err := w.Add(query); err != nil {
//	        log.Fatal(err)
//	    }
//	    w.Main()
//	}
//
// The command name is the function's name with underscores mapped to dashes.
// A field without a `default` tag is a required flag; bool fields are
// presence flags and never required. Pointer fields are optional and stay
// nil when the flag is absent. A field type whose pointer implements
// [pflag.Value] is registered through its own Set method, so callers can
// parse arbitrary value syntaxes:
//
//	type csv struct{ vals []string }
//
//	func (c *csv) Set(s string) error { c.vals = strings.Split(s, ","); return nil }
//	func (c *csv) String() string     { return strings.Join(c.vals, ",") }
//	func (c *csv) Type() string       { return "csv" }
//
// Shorthand flags are derived from the first letter of each flag name unless
// [Wrapper.Abbrev] is disabled.
//
// # Errors
//
// Registration mistakes (duplicate names, unsupported field types) surface
// immediately and match errors.Is(err, [ErrConfig]). Malformed user input
// surfaces as a *[UsageError] matching [ErrUsage]; [Parser.Main] maps it to
// exit status 2. Errors returned by a command's Run propagate to the caller
// unchanged.
package subcmd
