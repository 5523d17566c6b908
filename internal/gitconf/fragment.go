// Package gitconf manages the Git side of an identity environment: the
// per-identity config fragment, the conditional include wiring it into the
// main Git config, and the scratch-repository read-back used to verify
// that the include actually takes effect.
package gitconf

import (
	"fmt"
	"os"
	"strings"

	"github.com/rileyhilliard/gitid/internal/errors"
)

// Fragment holds the Git user identity stored in a fragment file.
type Fragment struct {
	Name  string
	Email string
}

// WriteFragment writes the fragment file, overwriting any existing content.
func WriteFragment(path string, f Fragment) error {
	body := fmt.Sprintf("[user]\n\tname = %s\n\temail = %s\n", f.Name, f.Email)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrGit,
			"Couldn't write the Git identity fragment: "+path,
			"Check permissions on your home directory")
	}
	return nil
}

// ReadFragment parses a fragment file written by WriteFragment.
// Unknown lines are ignored; missing keys come back empty.
func ReadFragment(path string) (Fragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fragment{}, errors.WrapWithCode(err, errors.ErrGit,
			"Couldn't read the Git identity fragment: "+path,
			"Check that the file exists and is readable")
	}

	var f Fragment
	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "name":
			f.Name = strings.TrimSpace(value)
		case "email":
			f.Email = strings.TrimSpace(value)
		}
	}
	return f, nil
}
