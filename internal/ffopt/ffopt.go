// Package ffopt turns ordered option sets into FFmpeg command-line tokens.
package ffopt

import (
	"strconv"
)

// Option is a single FFmpeg option.
// An Option with an empty Name is positional: its Value is emitted as-is.
type Option struct {
	Name  string
	Value string
}

// Options is an ordered set of options. Iteration order is emission order.
type Options []Option

// Set assigns value to name. An existing entry keeps its position and
// has its value replaced; otherwise the option is appended.
// Positional entries are always appended.
func (o Options) Set(name, value string) Options {
	if name != "" {
		for i := range o {
			if o[i].Name == name {
				o[i].Value = value
				return o
			}
		}
	}
	return append(o, Option{Name: name, Value: value})
}

// Merge applies Set for every entry of others, in order.
func (o Options) Merge(others ...Options) Options {
	for _, other := range others {
		for _, opt := range other {
			o = o.Set(opt.Name, opt.Value)
		}
	}
	return o
}

// Clone returns a copy that shares no storage with o.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	c := make(Options, len(o))
	copy(c, o)
	return c
}

// Positional builds an option run that is emitted verbatim, token by token.
func Positional(tokens ...string) Options {
	opts := make(Options, 0, len(tokens))
	for _, t := range tokens {
		opts = append(opts, Option{Value: t})
	}
	return opts
}

// Flatten converts options to "-name value" token pairs in order.
// Entries with an empty value are skipped. Zero is not empty.
func Flatten(opts Options) []string {
	args := make([]string, 0, len(opts)*2)
	for _, opt := range opts {
		if opt.Value == "" {
			continue
		}
		if opt.Name == "" {
			args = append(args, opt.Value)
			continue
		}
		args = append(args, "-"+opt.Name, opt.Value)
	}
	return args
}

// Int formats an integer value.
func Int(n int) string {
	return strconv.Itoa(n)
}

// Float formats a float in its shortest form ("4", "2.5").
func Float(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Bool formats a boolean as FFmpeg's 0/1.
func Bool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Kbps formats a bitrate in kilobits ("128k").
// Non-positive rates are undeclared and yield an empty value.
func Kbps(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n) + "k"
}
