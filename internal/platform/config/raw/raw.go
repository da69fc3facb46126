// Package raw reads bootstrap settings for the logger, which config itself logs through
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Env is a prefixed view over the environment with silent defaults
type Env string

// New is the unprefixed view
func New() Env { return "" }

// Prefix narrows the view
func (e Env) Prefix(p string) Env { return e + Env(p) }

// Get returns the trimmed value or def when blank
func (e Env) Get(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(string(e) + key)); v != "" {
		return v
	}
	return def
}

// GetBool accepts strconv bools plus yes and no
func (e Env) GetBool(key string, def bool) bool {
	switch v := strings.ToLower(e.Get(key, "")); v {
	case "":
		return def
	case "yes":
		return true
	case "no":
		return false
	default:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	}
}

// GetInt returns def for blank, malformed or negative values
func (e Env) GetInt(key string, def int) int {
	n, err := strconv.Atoi(e.Get(key, ""))
	if err != nil || n < 0 {
		return def
	}
	return n
}
