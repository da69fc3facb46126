// Package strings holds the string assertions used while wiring routes
package strings

import std "strings"

// MustString returns s unchanged, panicking with name when s is blank
func MustString(s, name string) string {
	if std.TrimSpace(s) != "" {
		return s
	}
	panic(name + " is required")
}

// MustPrefix turns " library/ " into "/library"
// it panics when nothing but slashes and spaces is left
func MustPrefix(s string) string {
	trimmed := std.Trim(s, " /")
	if trimmed == "" {
		panic("mount prefix is required")
	}
	return "/" + trimmed
}
