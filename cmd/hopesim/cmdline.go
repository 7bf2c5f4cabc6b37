package main

import "strings"

// cmdLine parses the positional key=value / bare-flag command line
// grammar spec §4.12/§6 describes: tokens are either "key=value" or a
// bare flag name, never a "-"/"--" switch. A token's optional leading
// dashes are stripped so "--headless" and "headless" are equivalent.
// Grounded on original_source/libs/cmd_line.h's cmd_line_parser.
type cmdLine struct {
	kv    map[string]string
	flags map[string]bool
	used  map[string]bool
}

func parseCmdLine(args []string) *cmdLine {
	c := &cmdLine{kv: map[string]string{}, flags: map[string]bool{}, used: map[string]bool{}}
	for _, arg := range args {
		arg = strings.TrimLeft(arg, "-")
		if arg == "" {
			continue
		}
		key, value, ok := splitArg(arg, '=')
		if ok {
			c.kv[key] = value
		} else {
			c.flags[arg] = true
		}
	}
	return c
}

// splitArg splits s on the first occurrence of delim, matching
// cmd_line.h's split_arg.
func splitArg(s string, delim byte) (key, value string, ok bool) {
	i := strings.IndexByte(s, delim)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

// optional returns the value for name, or def if name was not given as
// a key=value token.
func (c *cmdLine) optional(name, def string) string {
	c.used[name] = true
	if v, ok := c.kv[name]; ok {
		return v
	}
	return def
}

// flag reports whether name was given as a bare flag or as key=true.
func (c *cmdLine) flag(name string) bool {
	c.used[name] = true
	if c.flags[name] {
		return true
	}
	return c.kv[name] == "true"
}

// unrecognized returns every key=value/flag token name that was never
// queried via optional/flag, matching cmd_line.h's recognize/
// unrecognized memoization-based usage check.
func (c *cmdLine) unrecognized() []string {
	var out []string
	for k := range c.kv {
		if !c.used[k] {
			out = append(out, k)
		}
	}
	for k := range c.flags {
		if !c.used[k] {
			out = append(out, k)
		}
	}
	return out
}
