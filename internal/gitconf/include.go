package gitconf

import (
	"fmt"
	"os"
	"strings"

	"github.com/rileyhilliard/gitid/internal/errors"
)

// includeHeader returns the conditional-include section line for a working
// directory. Git requires the trailing slash for gitdir matching to cover
// the whole subtree.
func includeHeader(workDir string) string {
	return fmt.Sprintf("[includeIf \"gitdir:%s/\"]", workDir)
}

// IncludeBlock renders the two-line conditional include for a working
// directory and fragment path.
func IncludeBlock(workDir, fragmentPath string) string {
	return includeHeader(workDir) + "\n\tpath = " + fragmentPath + "\n"
}

// HasInclude reports whether the main config already carries the include
// header for the working directory. The guard is an exact line match, so
// a hand-edited variant with different spacing would not be detected.
func HasInclude(gitConfigPath, workDir string) (bool, error) {
	data, err := os.ReadFile(gitConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.WrapWithCode(err, errors.ErrGit,
			"Couldn't read the main Git config: "+gitConfigPath,
			"Check file permissions")
	}

	header := includeHeader(workDir)
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == header {
			return true, nil
		}
	}
	return false, nil
}

// EnsureInclude appends the conditional include to the main config unless
// the exact header line is already present. Creates the config if needed.
func EnsureInclude(gitConfigPath, workDir, fragmentPath string) error {
	present, err := HasInclude(gitConfigPath, workDir)
	if err != nil {
		return err
	}
	if present {
		return nil
	}

	f, err := os.OpenFile(gitConfigPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrGit,
			"Couldn't open the main Git config: "+gitConfigPath,
			"Check permissions on your home directory")
	}
	defer f.Close()

	block := IncludeBlock(workDir, fragmentPath)
	if size, serr := f.Seek(0, 2); serr == nil && size > 0 {
		block = "\n" + block
	}

	if _, err := f.WriteString(block); err != nil {
		return errors.WrapWithCode(err, errors.ErrGit,
			"Couldn't write to the main Git config: "+gitConfigPath,
			"Check disk space and permissions")
	}
	return nil
}

// RemoveInclude strips the include header for the working directory and
// its following path line from the main config. A missing file or absent
// include is not an error.
func RemoveInclude(gitConfigPath, workDir string) error {
	data, err := os.ReadFile(gitConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.WrapWithCode(err, errors.ErrGit,
			"Couldn't read the main Git config: "+gitConfigPath,
			"Check file permissions")
	}

	header := includeHeader(workDir)
	lines := strings.Split(string(data), "\n")
	var kept []string
	skipPath := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == header {
			skipPath = true
			continue
		}
		if skipPath {
			skipPath = false
			if strings.HasPrefix(trimmed, "path") {
				continue
			}
		}
		kept = append(kept, line)
	}

	out := strings.TrimRight(strings.Join(kept, "\n"), "\n")
	if out != "" {
		out += "\n"
	}
	if err := os.WriteFile(gitConfigPath, []byte(out), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrGit,
			"Couldn't rewrite the main Git config: "+gitConfigPath,
			"Check disk space and permissions")
	}
	return nil
}
