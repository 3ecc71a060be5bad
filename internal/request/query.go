// Package request normalizes the inbound pieces of a scheduler request: the
// raw query string and the request body.
package request

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// QueryParams maps decoded query keys to decoded values. Later duplicates
// overwrite earlier ones.
type QueryParams map[string]string

// ParseQuery decodes a raw query string. It never fails: pairs without "=" are
// skipped and a side that cannot be percent-decoded becomes "". The result is
// never nil.
//
// Unlike url.ParseQuery, "+" is kept literally and ";" is not a separator.
func ParseQuery(raw string) QueryParams {
	params := make(QueryParams)
	if raw == "" {
		return params
	}

	for _, pair := range strings.Split(raw, "&") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		params[decode(key)] = decode(value)
	}
	return params
}

func decode(s string) string {
	out, err := url.PathUnescape(s)
	if err != nil || !utf8.ValidString(out) {
		return ""
	}
	return out
}
