package catalog

import (
	"iter"
	"strings"
)

// Explode splits every non-null value on sep and yields the tokens in
// order. Empty tokens are skipped, so unlike pandas split-explode a
// trailing separator ("Ana, ") never counts an empty name.
func Explode(values iter.Seq[Optional[string]], sep string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for v := range values {
			s, ok := v.Get()
			if !ok {
				continue
			}
			for _, tok := range strings.Split(s, sep) {
				if tok == "" {
					continue
				}
				if !yield(tok) {
					return
				}
			}
		}
	}
}
