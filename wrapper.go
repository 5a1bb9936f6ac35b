// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package subcmd

import (
	"fmt"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Wrapper is a function-based front end over a Parser. Add turns a plain
// function into a command: the command name comes from the function's name
// and the flags from the fields of its single struct parameter.
type Wrapper struct {
	// Abbrev derives a one-letter shorthand from the first letter of every
	// flag name. Enabled by NewWrapper; colliding letters within one
	// function are a registration error.
	Abbrev bool

	parser *Parser
}

// NewWrapper returns a Wrapper over p with abbreviations enabled.
func NewWrapper(p *Parser) *Wrapper {
	return &Wrapper{Abbrev: true, parser: p}
}

// Parser returns the wrapped Parser.
func (w *Wrapper) Parser() *Parser { return w.parser }

// Run delegates to the wrapped Parser's Run.
func (w *Wrapper) Run(argv []string) error { return w.parser.Run(argv) }

// Main delegates to the wrapped Parser's Main.
func (w *Wrapper) Main() { w.parser.Main() }

var (
	errorType      = reflect.TypeOf((*error)(nil)).Elem()
	pflagValueType = reflect.TypeOf((*pflag.Value)(nil)).Elem()
	helperType     = reflect.TypeOf((*helper)(nil)).Elem()
	durationType   = reflect.TypeOf(time.Duration(0))
)

// helper supplies a command description for a wrapped function. Go has no
// docstrings, so the function's flags struct may implement Help instead; a
// missing implementation yields an empty description.
type helper interface {
	Help() string
}

// Add registers fn as a command on the wrapped Parser. fn must have the
// shape func(T) or func(T) error where T is a struct; each exported field
// of T becomes one flag, in field order. Field tags mirror the rest of the
// module: `flag:"name"`, `short:"x"`, `default:"v"`, `help:"..."`. A field
// without a default is a required flag. Unsupported field types return an
// *UnsupportedTypeError; anonymous functions and method values are
// rejected because no command name can be derived from them.
func (w *Wrapper) Add(fn any) error {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return configErrorf("wrapper target %T is not a function", fn)
	}
	t := v.Type()
	if t.NumIn() != 1 || t.In(0).Kind() != reflect.Struct {
		return configErrorf("wrapped function must take a single struct argument")
	}
	switch {
	case t.NumOut() == 0:
	case t.NumOut() == 1 && t.Out(0) == errorType:
	default:
		return configErrorf("wrapped function must return nothing or an error")
	}

	name, err := functionName(v)
	if err != nil {
		return err
	}
	argType := t.In(0)
	params, err := buildParams(name, argType, w.Abbrev)
	if err != nil {
		return err
	}

	return w.parser.AddCommand(&funcCommand{
		name:         name,
		help:         helpFor(argType),
		params:       params,
		fn:           v,
		argType:      argType,
		returnsError: t.NumOut() == 1,
	})
}

// functionName derives the command name from fn's symbol name, mapping
// underscores to dashes. Closures and method values have synthesized names
// and are rejected, like the original's lambda ban.
func functionName(fn reflect.Value) (string, error) {
	rf := runtime.FuncForPC(fn.Pointer())
	if rf == nil {
		return "", configErrorf("cannot resolve function name")
	}
	full := rf.Name()
	if i := strings.LastIndex(full, "/"); i >= 0 {
		full = full[i+1:]
	}
	if i := strings.Index(full, "["); i >= 0 {
		full = full[:i]
	}
	base := full[strings.LastIndex(full, ".")+1:]
	if strings.HasSuffix(base, "-fm") {
		return "", configErrorf("cannot derive a command name from method value %s", full)
	}
	if isAnonymousName(base) {
		return "", configErrorf("cannot derive a command name from anonymous function %s", full)
	}
	return strings.ReplaceAll(base, "_", "-"), nil
}

func isAnonymousName(base string) bool {
	s := strings.TrimPrefix(base, "func")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func helpFor(t reflect.Type) string {
	if t.Implements(helperType) {
		return reflect.New(t).Elem().Interface().(helper).Help()
	}
	if reflect.PointerTo(t).Implements(helperType) {
		return reflect.New(t).Interface().(helper).Help()
	}
	return ""
}

type paramKind int

const (
	kindString paramKind = iota
	kindBool
	kindInt
	kindInt64
	kindUint
	kindFloat64
	kindDuration
	kindStringSlice
	kindCustom
)

// param is one derived flag: a field of the wrapped function's flags struct
// plus everything needed to register it and read it back.
type param struct {
	fieldIndex int
	fieldType  reflect.Type // declared field type, possibly a pointer
	elemType   reflect.Type // fieldType with the pointer stripped
	name       string
	shorthand  string
	usage      string
	kind       paramKind
	optional   bool // pointer field: nil when the flag is absent
	required   bool
	hasDef     bool
	defRaw     string // raw `default` tag, used for custom values
	defVal     any    // typed default, parsed at registration
}

func buildParams(cmdName string, t reflect.Type, abbrev bool) ([]param, error) {
	var params []param
	names := make(map[string]bool)
	shorts := make(map[string]string)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Tag.Get("flag")
		if name == "" {
			name = strings.ToLower(field.Name)
		}
		if names[name] {
			return nil, configErrorf("command %q: duplicate flag --%s", cmdName, name)
		}
		names[name] = true

		pr := param{
			fieldIndex: i,
			fieldType:  field.Type,
			elemType:   field.Type,
			name:       name,
			usage:      field.Tag.Get("help"),
		}
		pr.defRaw, pr.hasDef = field.Tag.Lookup("default")

		if reflect.PointerTo(field.Type).Implements(pflagValueType) {
			pr.kind = kindCustom
		} else {
			ft := field.Type
			if ft.Kind() == reflect.Pointer {
				pr.optional = true
				pr.elemType = ft.Elem()
			}
			kind, ok := kindOf(pr.elemType)
			if !ok {
				return nil, &UnsupportedTypeError{Func: cmdName, Field: field.Name, Type: field.Type}
			}
			pr.kind = kind
		}

		// Bools are presence flags and optional pointers default to nil;
		// everything else without a default must be given by the user.
		pr.required = !pr.hasDef && !pr.optional && pr.kind != kindBool

		if pr.hasDef {
			if err := pr.parseDefault(); err != nil {
				return nil, configErrorf("command %q: flag --%s: %v", cmdName, name, err)
			}
		}

		short := field.Tag.Get("short")
		if short == "" && abbrev {
			short = name[:1]
		}
		if short != "" {
			if prev, ok := shorts[short]; ok {
				return nil, configErrorf("command %q: shorthand -%s conflicts between --%s and --%s", cmdName, short, prev, name)
			}
			shorts[short] = name
			pr.shorthand = short
		}

		params = append(params, pr)
	}
	return params, nil
}

func kindOf(t reflect.Type) (paramKind, bool) {
	if t == durationType {
		return kindDuration, true
	}
	switch t.Kind() {
	case reflect.String:
		return kindString, true
	case reflect.Bool:
		return kindBool, true
	case reflect.Int:
		return kindInt, true
	case reflect.Int64:
		return kindInt64, true
	case reflect.Uint:
		return kindUint, true
	case reflect.Float64:
		return kindFloat64, true
	case reflect.Slice:
		if t.Elem().Kind() == reflect.String {
			return kindStringSlice, true
		}
	}
	return 0, false
}

// parseDefault turns the raw `default` tag into a typed value so Register
// never has to fail. Custom values are checked by round-tripping through a
// throwaway instance.
func (pr *param) parseDefault() error {
	switch pr.kind {
	case kindString:
		pr.defVal = pr.defRaw
	case kindBool:
		b, err := strconv.ParseBool(pr.defRaw)
		if err != nil {
			return fmt.Errorf("invalid bool default %q", pr.defRaw)
		}
		pr.defVal = b
	case kindInt:
		n, err := strconv.Atoi(pr.defRaw)
		if err != nil {
			return fmt.Errorf("invalid int default %q", pr.defRaw)
		}
		pr.defVal = n
	case kindInt64:
		n, err := strconv.ParseInt(pr.defRaw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid int64 default %q", pr.defRaw)
		}
		pr.defVal = n
	case kindUint:
		n, err := strconv.ParseUint(pr.defRaw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid uint default %q", pr.defRaw)
		}
		pr.defVal = uint(n)
	case kindFloat64:
		f, err := strconv.ParseFloat(pr.defRaw, 64)
		if err != nil {
			return fmt.Errorf("invalid float default %q", pr.defRaw)
		}
		pr.defVal = f
	case kindDuration:
		d, err := time.ParseDuration(pr.defRaw)
		if err != nil {
			return fmt.Errorf("invalid duration default %q", pr.defRaw)
		}
		pr.defVal = d
	case kindStringSlice:
		var vals []string
		for _, part := range strings.Split(pr.defRaw, ",") {
			if part != "" {
				vals = append(vals, part)
			}
		}
		pr.defVal = vals
	case kindCustom:
		v := reflect.New(pr.elemType).Interface().(pflag.Value)
		if err := v.Set(pr.defRaw); err != nil {
			return fmt.Errorf("invalid default %q: %v", pr.defRaw, err)
		}
	}
	return nil
}

// register defines the flag on fs with its parsed default.
func (pr *param) register(fs *pflag.FlagSet) {
	switch pr.kind {
	case kindCustom:
		v := reflect.New(pr.elemType).Interface().(pflag.Value)
		if pr.hasDef {
			// Validated by parseDefault.
			_ = v.Set(pr.defRaw)
		}
		fs.VarP(v, pr.name, pr.shorthand, pr.usage)
	case kindString:
		def, _ := pr.defVal.(string)
		fs.StringP(pr.name, pr.shorthand, def, pr.usage)
	case kindBool:
		def, _ := pr.defVal.(bool)
		fs.BoolP(pr.name, pr.shorthand, def, pr.usage)
	case kindInt:
		def, _ := pr.defVal.(int)
		fs.IntP(pr.name, pr.shorthand, def, pr.usage)
	case kindInt64:
		def, _ := pr.defVal.(int64)
		fs.Int64P(pr.name, pr.shorthand, def, pr.usage)
	case kindUint:
		def, _ := pr.defVal.(uint)
		fs.UintP(pr.name, pr.shorthand, def, pr.usage)
	case kindFloat64:
		def, _ := pr.defVal.(float64)
		fs.Float64P(pr.name, pr.shorthand, def, pr.usage)
	case kindDuration:
		def, _ := pr.defVal.(time.Duration)
		fs.DurationP(pr.name, pr.shorthand, def, pr.usage)
	case kindStringSlice:
		def, _ := pr.defVal.([]string)
		fs.StringSliceP(pr.name, pr.shorthand, def, pr.usage)
	}
}

// assign copies the parsed value into the flags-struct field.
func (pr *param) assign(field reflect.Value, ns *Namespace) error {
	if pr.kind == kindCustom {
		f := ns.Lookup(pr.name)
		if f == nil {
			return fmt.Errorf("flag --%s not registered", pr.name)
		}
		field.Set(reflect.ValueOf(f.Value).Elem())
		return nil
	}

	if pr.optional && !ns.Changed(pr.name) && !pr.hasDef {
		return nil // stays nil
	}

	var (
		val any
		err error
	)
	switch pr.kind {
	case kindString:
		val, err = ns.String(pr.name)
	case kindBool:
		val, err = ns.Bool(pr.name)
	case kindInt:
		val, err = ns.Int(pr.name)
	case kindInt64:
		val, err = ns.Int64(pr.name)
	case kindUint:
		val, err = ns.Uint(pr.name)
	case kindFloat64:
		val, err = ns.Float64(pr.name)
	case kindDuration:
		val, err = ns.Duration(pr.name)
	case kindStringSlice:
		val, err = ns.StringSlice(pr.name)
	}
	if err != nil {
		return err
	}

	rv := reflect.ValueOf(val)
	if pr.optional {
		pv := reflect.New(pr.elemType)
		pv.Elem().Set(rv.Convert(pr.elemType))
		field.Set(pv)
		return nil
	}
	field.Set(rv.Convert(pr.fieldType))
	return nil
}

// funcCommand adapts a wrapped function to the Command contract.
type funcCommand struct {
	name         string
	help         string
	params       []param
	fn           reflect.Value
	argType      reflect.Type
	returnsError bool
}

func (c *funcCommand) Name() string { return c.name }

func (c *funcCommand) Help() string { return c.help }

func (c *funcCommand) Register(fs *pflag.FlagSet) {
	for i := range c.params {
		c.params[i].register(fs)
	}
}

func (c *funcCommand) validate(ns *Namespace) error {
	for i := range c.params {
		pr := &c.params[i]
		if pr.required && !ns.Changed(pr.name) {
			return fmt.Errorf("required flag --%s not set", pr.name)
		}
	}
	return nil
}

func (c *funcCommand) Run(ns *Namespace) error {
	arg := reflect.New(c.argType).Elem()
	for i := range c.params {
		pr := &c.params[i]
		if err := pr.assign(arg.Field(pr.fieldIndex), ns); err != nil {
			return err
		}
	}
	out := c.fn.Call([]reflect.Value{arg})
	if c.returnsError && !out[0].IsNil() {
		return out[0].Interface().(error)
	}
	return nil
}
