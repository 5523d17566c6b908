// Package keys orchestrates per-identity SSH key material: generation via
// ssh-keygen, permission enforcement, public key read-back, and agent
// registration.
package keys

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rileyhilliard/gitid/internal/errors"
)

// Generate creates an ed25519 keypair at path with no passphrase and the
// email as comment. This is the one hard-fail point of registration: any
// failure here aborts the whole flow.
func Generate(path, email string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.New(errors.ErrSSH,
			fmt.Sprintf("There's already a key at %s", path),
			"Remove it first, or confirm the overwrite when re-adding the environment")
	}

	args := []string{
		"-t", "ed25519",
		"-f", path,
		"-N", "", // no passphrase
		"-C", email,
	}

	cmd := exec.Command("ssh-keygen", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Key generation failed: %s", strings.TrimSpace(string(output))),
			"Ensure ssh-keygen is installed and accessible")
	}

	// Verify the key was created
	if _, err := os.Stat(path); err != nil {
		return errors.New(errors.ErrSSH,
			"ssh-keygen finished but the key file is missing",
			"Check disk space and permissions")
	}

	return TightenPermissions(path)
}

// TightenPermissions sets the private and public key files to mode 600.
func TightenPermissions(keyPath string) error {
	if err := os.Chmod(keyPath, 0o600); err != nil {
		return errors.WrapWithCode(err, errors.ErrSSH,
			"Couldn't set permissions on "+keyPath,
			"Check file ownership")
	}
	pubPath := keyPath + ".pub"
	if _, err := os.Stat(pubPath); err == nil {
		if err := os.Chmod(pubPath, 0o600); err != nil {
			return errors.WrapWithCode(err, errors.ErrSSH,
				"Couldn't set permissions on "+pubPath,
				"Check file ownership")
		}
	}
	return nil
}

// ReadPublicKey reads the contents of a public key file.
func ReadPublicKey(pubPath string) (string, error) {
	data, err := os.ReadFile(pubPath)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrSSH,
			"Failed to read public key: "+pubPath,
			"Check that the file exists and is readable")
	}
	return strings.TrimSpace(string(data)), nil
}

// RemovePair deletes a private/public keypair. Missing files are fine.
func RemovePair(keyPath string) error {
	for _, p := range []string{keyPath, keyPath + ".pub"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return errors.WrapWithCode(err, errors.ErrSSH,
				"Couldn't remove "+p,
				"Check file ownership")
		}
	}
	return nil
}
