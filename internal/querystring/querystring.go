// Package querystring decodes the key/value portion of a navigation fragment.
package querystring

import (
	"net/url"
	"strings"
)

// Decode splits raw on '&' and each pair on its first '='.
// Keys and values are percent-decoded; '+' is left alone, matching how
// fragments are written by hand rather than by form encoders. Text that
// fails to decode is kept verbatim. Empty keys are dropped and the last
// occurrence of a duplicate key wins.
func Decode(raw string) map[string]string {
	out := make(map[string]string)
	if raw == "" {
		return out
	}

	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		k = unescape(k)
		if k == "" {
			continue
		}
		out[k] = unescape(v)
	}
	return out
}

func unescape(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	d, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return d
}
