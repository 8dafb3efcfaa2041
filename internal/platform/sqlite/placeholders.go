package sqlite

import "strings"

// placeholders returns a comma-separated list of n "?" markers for use in
// an IN clause. Overlay-set predicates are built with this helper and bound
// parameters only; values are never concatenated into SQL text.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('?')
	}
	return b.String()
}

// int64Args converts an overlay id list to a []any for ExecContext/QueryContext.
func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
