package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Key builds the opaque cache key C4 describes: a request's path, its
// query parameters in canonical (sorted) order, and its serialized body,
// collapsed into one string via a content hash so the Cache[string, V]
// instantiation stays simple regardless of how large a search body gets.
func Key(path string, query map[string]string, body string) string {
	var b strings.Builder
	b.WriteString(path)
	b.WriteByte('\n')

	names := make([]string, 0, len(query))
	for k := range query {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(query[k])
		b.WriteByte('&')
	}
	b.WriteByte('\n')
	b.WriteString(body)

	sum := sha256.Sum256([]byte(b.String()))
	return path + ":" + hex.EncodeToString(sum[:])
}
