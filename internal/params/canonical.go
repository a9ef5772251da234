package params

import (
	"net/url"
	"sort"
	"strings"
)

// Canonical encodes values as a query string with sorted keys and only the first value of each key.
// Keys with an empty value are encoded as "key" instead of "key=".
func Canonical(v url.Values) string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	var buf strings.Builder
	for _, key := range keys {
		if buf.Len() > 0 {
			buf.WriteByte('&')
		}

		buf.WriteString(url.QueryEscape(key))
		if value := v.Get(key); value != "" {
			buf.WriteByte('=')
			buf.WriteString(url.QueryEscape(value))
		}
	}

	return buf.String()
}
