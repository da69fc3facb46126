package bind

import (
	"net/url"
	"strconv"
	"strings"

	perr "mixtape/internal/platform/errors"
)

// QueryStrings collects a list param given as key=a,b or repeated key[]=a&key[]=b
// blanks are dropped and nil is returned when nothing is left
func QueryStrings(q url.Values, key string) []string {
	var out []string
	for _, k := range []string{key, key + "[]"} {
		for _, v := range q[k] {
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
		}
	}
	return out
}

// QueryInt parses an optional integer param, absent yields 0
func QueryInt(q url.Values, key string) (int, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, perr.WithField(perr.InvalidInputf("%s must be an integer", key), key)
	}
	return n, nil
}

// QueryBool parses an optional boolean param, absent yields false
func QueryBool(q url.Values, key string) (bool, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, perr.WithField(perr.InvalidInputf("%s must be true or false", key), key)
	}
	return b, nil
}
