// Package options holds the per-project configuration that option scripts
// may inspect and mutate before a project is configured.
package options

import (
	"slices"
	"sort"
	"strings"
)

// Well-known flag keys.
const (
	CFLAGS   = "CFLAGS"
	CPPFLAGS = "CPPFLAGS"
	LDFLAGS  = "LDFLAGS"

	CArgs       = "c_args"
	CppArgs     = "cpp_args"
	CLinkArgs   = "c_link_args"
	CppLinkArgs = "cpp_link_args"
)

// Hook customizes the options of one project. It is called once per project
// with the project name and the project's own Options.
type Hook func(project string, opts *Options)

// Options is the free-form part of a project configuration.
//
// ConfigArgs are tokens appended to the toolchain's base argument list.
// Flags are cumulative flag strings, keyed by the toolchain variable they
// end up in (CFLAGS, c_args, ...). Unknown keys are kept and ignored by
// toolchains that do not consume them.
type Options struct {
	ConfigArgs []string
	flags      map[string]string
}

// New returns Options with the given base config args.
func New(args ...string) *Options {
	return &Options{
		ConfigArgs: slices.Clone(args),
		flags:      make(map[string]string),
	}
}

// AppendArgs appends tokens to ConfigArgs.
func (o *Options) AppendArgs(args ...string) {
	o.ConfigArgs = append(o.ConfigArgs, args...)
}

// Args returns a copy of ConfigArgs.
func (o *Options) Args() []string {
	return slices.Clone(o.ConfigArgs)
}

// AppendFlags appends flags after the current value of key, separated by a
// single space. Blank input leaves the value untouched.
func (o *Options) AppendFlags(key, flags string) {
	o.init()
	o.flags[key] = Merge(o.flags[key], flags)
}

// SetFlags replaces the value of key.
func (o *Options) SetFlags(key, flags string) {
	o.init()
	o.flags[key] = strings.TrimSpace(flags)
}

// Flags returns the value of key, or "" if it was never set.
func (o *Options) Flags(key string) string {
	return o.flags[key]
}

// HasFlags reports whether key holds a non-empty value.
func (o *Options) HasFlags(key string) bool {
	return o.flags[key] != ""
}

// Keys returns the flag keys in sorted order.
func (o *Options) Keys() []string {
	keys := make([]string, 0, len(o.flags))
	for k := range o.flags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy.
func (o *Options) Clone() *Options {
	c := New(o.ConfigArgs...)
	for k, v := range o.flags {
		c.flags[k] = v
	}
	return c
}

func (o *Options) init() {
	if o.flags == nil {
		o.flags = make(map[string]string)
	}
}

// Merge joins the non-blank parts with single spaces, in order.
func Merge(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
