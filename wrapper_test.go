// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package subcmd

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type queryArgs struct {
	Table string `flag:"table" help:"table to query"`
	Key   string `flag:"key" default:"default" help:"row key"`
}

func (queryArgs) Help() string { return "Query a table by key" }

var queryGot []queryArgs

func query(a queryArgs) {
	queryGot = append(queryGot, a)
}

func newTestWrapper(t *testing.T) *Wrapper {
	t.Helper()
	p, _ := newTestParser(t)
	return NewWrapper(p)
}

func TestWrapperQuery(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want queryArgs
	}{
		{
			"long flags",
			[]string{"query", "--table", "histories", "--key", "1984"},
			queryArgs{Table: "histories", Key: "1984"},
		},
		{
			"default applies",
			[]string{"query", "--table", "histories"},
			queryArgs{Table: "histories", Key: "default"},
		},
		{
			"shorthand",
			[]string{"query", "-t", "histories", "-k", "7"},
			queryArgs{Table: "histories", Key: "7"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWrapper(t)
			if err := w.Add(query); err != nil {
				t.Fatalf("Add() error = %v", err)
			}
			queryGot = nil
			if err := w.Run(tt.argv); err != nil {
				t.Fatalf("Run(%v) error = %v", tt.argv, err)
			}
			if len(queryGot) != 1 {
				t.Fatalf("query called %d times, want 1", len(queryGot))
			}
			if diff := cmp.Diff(tt.want, queryGot[0]); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWrapperRequiredFlagMissing(t *testing.T) {
	w := newTestWrapper(t)
	if err := w.Add(query); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	queryGot = nil

	err := w.Run([]string{"query", "--key", "1984"})
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("Run() error = %v, want ErrUsage", err)
	}
	if len(queryGot) != 0 {
		t.Errorf("query called %d times, want 0", len(queryGot))
	}
}

func TestWrapperHelpText(t *testing.T) {
	w := newTestWrapper(t)
	if err := w.Add(query); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if got := w.Parser().helpText(); !strings.Contains(got, "Query a table by key") {
		t.Errorf("help missing description:\n%s", got)
	}
}

type httpGetArgs struct {
	URL string `flag:"url"`
}

var httpGetCalls int

func http_get(a httpGetArgs) {
	httpGetCalls++
}

func TestWrapperUnderscoreName(t *testing.T) {
	w := newTestWrapper(t)
	if err := w.Add(http_get); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	httpGetCalls = 0
	if err := w.Run([]string{"http-get", "--url", "http://x"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if httpGetCalls != 1 {
		t.Errorf("http_get called %d times, want 1", httpGetCalls)
	}
}

type wrapTarget struct{}

func (wrapTarget) run(a queryArgs) {}

func TestWrapperRejectsInvalidFunctions(t *testing.T) {
	tests := []struct {
		name string
		fn   any
	}{
		{"not a function", 42},
		{"no arguments", func() {}},
		{"non-struct argument", func(int) {}},
		{"two arguments", func(a, b queryArgs) {}},
		{"extra return", func(a queryArgs) (int, error) { return 0, nil }},
		{"anonymous function", func(a queryArgs) {}},
		{"method value", wrapTarget{}.run},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWrapper(t)
			err := w.Add(tt.fn)
			if !errors.Is(err, ErrConfig) {
				t.Errorf("Add() error = %v, want ErrConfig", err)
			}
		})
	}
}

type badFieldArgs struct {
	Routes map[string]int `flag:"routes"`
}

func bad_field(a badFieldArgs) {}

func TestWrapperUnsupportedFieldType(t *testing.T) {
	w := newTestWrapper(t)
	err := w.Add(bad_field)
	var uerr *UnsupportedTypeError
	if !errors.As(err, &uerr) {
		t.Fatalf("Add() error = %v, want *UnsupportedTypeError", err)
	}
	if uerr.Field != "Routes" {
		t.Errorf("Field = %q, want %q", uerr.Field, "Routes")
	}
	if !errors.Is(err, ErrConfig) {
		t.Errorf("errors.Is(err, ErrConfig) = false, want true")
	}
}

type transferArgs struct {
	Count   int           `flag:"count" default:"3"`
	Rate    float64       `flag:"rate" default:"1.5"`
	Wait    time.Duration `flag:"wait" default:"2s"`
	Big     int64         `flag:"big" default:"9000000000"`
	Unsig   uint          `flag:"unsig" default:"8"`
	Verbose bool          `flag:"verbose"`
	Tags    []string      `flag:"tags" default:"a,b"`
}

var transferGot transferArgs

func transfer(a transferArgs) {
	transferGot = a
}

func TestWrapperFieldTypes(t *testing.T) {
	w := newTestWrapper(t)
	if err := w.Add(transfer); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	argv := []string{
		"transfer",
		"--count", "5",
		"--wait", "150ms",
		"--verbose",
		"--tags", "x",
		"--tags", "y",
	}
	if err := w.Run(argv); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := transferArgs{
		Count:   5,
		Rate:    1.5,
		Wait:    150 * time.Millisecond,
		Big:     9000000000,
		Unsig:   8,
		Verbose: true,
		Tags:    []string{"x", "y"},
	}
	if diff := cmp.Diff(want, transferGot); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

type limitArgs struct {
	Limit *int `flag:"limit"`
}

var limitGot limitArgs

func scan(a limitArgs) {
	limitGot = a
}

func TestWrapperOptionalPointer(t *testing.T) {
	w := newTestWrapper(t)
	if err := w.Add(scan); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := w.Run([]string{"scan"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if limitGot.Limit != nil {
		t.Errorf("Limit = %v, want nil", *limitGot.Limit)
	}

	if err := w.Run([]string{"scan", "--limit", "5"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if limitGot.Limit == nil || *limitGot.Limit != 5 {
		t.Errorf("Limit = %v, want 5", limitGot.Limit)
	}
}

type hostList struct {
	hosts []string
}

func (h *hostList) Set(s string) error {
	h.hosts = strings.Split(s, ",")
	return nil
}

func (h *hostList) String() string { return strings.Join(h.hosts, ",") }
func (h *hostList) Type() string   { return "hosts" }

type pingArgs struct {
	Hosts hostList `flag:"hosts" default:"localhost"`
}

var pingGot pingArgs

func ping(a pingArgs) {
	pingGot = a
}

func TestWrapperCustomValue(t *testing.T) {
	w := newTestWrapper(t)
	if err := w.Add(ping); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := w.Run([]string{"ping", "--hosts", "a,b,c"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := pingArgs{Hosts: hostList{hosts: []string{"a", "b", "c"}}}
	if diff := cmp.Diff(want, pingGot, cmp.AllowUnexported(hostList{})); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}

	if err := w.Run([]string{"ping"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want = pingArgs{Hosts: hostList{hosts: []string{"localhost"}}}
	if diff := cmp.Diff(want, pingGot, cmp.AllowUnexported(hostList{})); diff != "" {
		t.Errorf("default mismatch (-want +got):\n%s", diff)
	}
}

type clashArgs struct {
	Table   string `flag:"table" default:""`
	Timeout int    `flag:"timeout" default:"0"`
}

func clash(a clashArgs) {}

func TestWrapperShorthandConflict(t *testing.T) {
	w := newTestWrapper(t)
	err := w.Add(clash)
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("Add() error = %v, want ErrConfig", err)
	}

	// With abbreviations off the same struct is fine, but the shorthand
	// is gone.
	w = newTestWrapper(t)
	w.Abbrev = false
	if err := w.Add(clash); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := w.Run([]string{"clash", "-t", "x"}); !errors.Is(err, ErrUsage) {
		t.Errorf("Run(-t) error = %v, want ErrUsage", err)
	}
}

func TestWrapperShorthandClashWithTopLevelFlag(t *testing.T) {
	w := newTestWrapper(t)
	// The derived -t for --table collides with the top-level -t.
	if err := w.Parser().StringP("tag", "t", "", ""); err != nil {
		t.Fatalf("StringP() error = %v", err)
	}
	if err := w.Add(query); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	queryGot = nil

	err := w.Run([]string{"query", "--table", "histories"})
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("Run() error = %v, want ErrConfig", err)
	}
	if len(queryGot) != 0 {
		t.Errorf("query called %d times, want 0", len(queryGot))
	}
}

type badDefaultArgs struct {
	Count int `flag:"count" default:"many"`
}

func bad_default(a badDefaultArgs) {}

func TestWrapperInvalidDefault(t *testing.T) {
	w := newTestWrapper(t)
	if err := w.Add(bad_default); !errors.Is(err, ErrConfig) {
		t.Errorf("Add() error = %v, want ErrConfig", err)
	}
}

type failArgs struct{}

var errWrapped = errors.New("wrapped failure")

func failing(a failArgs) error {
	return errWrapped
}

func TestWrapperErrorPropagates(t *testing.T) {
	w := newTestWrapper(t)
	if err := w.Add(failing); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	err := w.Run([]string{"failing"})
	if !errors.Is(err, errWrapped) {
		t.Fatalf("Run() error = %v, want errWrapped", err)
	}
	if errors.Is(err, ErrUsage) {
		t.Errorf("function error classified as usage error")
	}
}

type duplicateArgs struct {
	A string `flag:"name"`
	B string `flag:"name" short:"b"`
}

func dupe(a duplicateArgs) {}

func TestWrapperDuplicateFlagName(t *testing.T) {
	w := newTestWrapper(t)
	if err := w.Add(dupe); !errors.Is(err, ErrConfig) {
		t.Errorf("Add() error = %v, want ErrConfig", err)
	}
}

func TestWrapperDuplicateCommand(t *testing.T) {
	w := newTestWrapper(t)
	if err := w.Add(query); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	err := w.Add(query)
	var dup *DuplicateCommandError
	if !errors.As(err, &dup) {
		t.Fatalf("Add() error = %v, want *DuplicateCommandError", err)
	}
}

func TestFunctionName(t *testing.T) {
	tests := []struct {
		name string
		fn   any
		want string
	}{
		{"plain", query, "query"},
		{"underscores", http_get, "http-get"},
		{"trailing digits stay", scan2, "scan2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := functionName(reflect.ValueOf(tt.fn))
			if err != nil {
				t.Fatalf("functionName() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("functionName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func scan2(a limitArgs) {}
