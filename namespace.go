// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package subcmd

import (
	"time"

	"github.com/spf13/pflag"
)

// Namespace is the flat collection of parsed flag values handed to a
// command's Run. It exposes both the top-level flags and the selected
// command's own flags under one lookup, keyed by flag name.
type Namespace struct {
	fs *pflag.FlagSet
}

// String returns the value of the named string flag.
func (ns *Namespace) String(name string) (string, error) {
	return ns.fs.GetString(name)
}

// Bool returns the value of the named bool flag.
func (ns *Namespace) Bool(name string) (bool, error) {
	return ns.fs.GetBool(name)
}

// Int returns the value of the named int flag.
func (ns *Namespace) Int(name string) (int, error) {
	return ns.fs.GetInt(name)
}

// Int64 returns the value of the named int64 flag.
func (ns *Namespace) Int64(name string) (int64, error) {
	return ns.fs.GetInt64(name)
}

// Uint returns the value of the named uint flag.
func (ns *Namespace) Uint(name string) (uint, error) {
	return ns.fs.GetUint(name)
}

// Float64 returns the value of the named float64 flag.
func (ns *Namespace) Float64(name string) (float64, error) {
	return ns.fs.GetFloat64(name)
}

// Duration returns the value of the named duration flag.
func (ns *Namespace) Duration(name string) (time.Duration, error) {
	return ns.fs.GetDuration(name)
}

// StringSlice returns the value of the named string slice flag.
func (ns *Namespace) StringSlice(name string) ([]string, error) {
	return ns.fs.GetStringSlice(name)
}

// Changed reports whether the named flag was set on the command line, as
// opposed to holding its default.
func (ns *Namespace) Changed(name string) bool {
	return ns.fs.Changed(name)
}

// Lookup returns the underlying flag definition, or nil if the name is
// unknown.
func (ns *Namespace) Lookup(name string) *pflag.Flag {
	return ns.fs.Lookup(name)
}

// Args returns the positional arguments left after flag parsing.
func (ns *Namespace) Args() []string {
	return ns.fs.Args()
}

// FlagSet returns the merged flag set backing the namespace.
func (ns *Namespace) FlagSet() *pflag.FlagSet {
	return ns.fs
}
