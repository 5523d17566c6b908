// Package identity defines identity environments and the store that
// reconstructs them from flat files. There is no manifest: the set of
// fragment files is the authoritative enumeration, and everything else
// is derived from the identity id.
package identity

import (
	"strings"
)

// Identity is a named Git+SSH configuration profile.
type Identity struct {
	ID       string
	GitName  string
	GitEmail string
}

// Sanitize reduces a raw name to the identity id character set
// [A-Za-z0-9_-]. Everything else is dropped. An empty result means the
// input can't name an identity.
func Sanitize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}
