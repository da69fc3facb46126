package httpkit

import (
	"net/url"

	"mixtape/internal/platform/net/http/bind"
)

// Validate runs struct validation, failures come back as INVALID_INPUT with the field set
func Validate(v any) error { return bind.Validate(v) }

// QueryStrings reads a list param given comma separated or as repeated key[]
func QueryStrings(q url.Values, key string) []string { return bind.QueryStrings(q, key) }

// QueryInt reads an optional integer param
func QueryInt(q url.Values, key string) (int, error) { return bind.QueryInt(q, key) }

// QueryBool reads an optional boolean param
func QueryBool(q url.Values, key string) (bool, error) { return bind.QueryBool(q, key) }
