package keys

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_RefusesExistingKey(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "id_ed25519_gitid_work")
	require.NoError(t, os.WriteFile(keyPath, []byte("existing"), 0o600))

	err := Generate(keyPath, "jane@example.com")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already a key at")
}

func TestGenerate_RealKeygen(t *testing.T) {
	if _, err := exec.LookPath("ssh-keygen"); err != nil {
		t.Skip("ssh-keygen not installed")
	}

	keyPath := filepath.Join(t.TempDir(), "id_ed25519_gitid_work")
	require.NoError(t, Generate(keyPath, "jane@example.com"))

	info, err := os.Stat(keyPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	pub, err := ReadPublicKey(keyPath + ".pub")
	require.NoError(t, err)
	assert.Contains(t, pub, "ssh-ed25519")
	assert.Contains(t, pub, "jane@example.com", "comment should carry the email")
}

func TestTightenPermissions(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "key")
	require.NoError(t, os.WriteFile(keyPath, []byte("k"), 0o644))
	require.NoError(t, os.WriteFile(keyPath+".pub", []byte("p"), 0o644))

	require.NoError(t, TightenPermissions(keyPath))

	for _, p := range []string{keyPath, keyPath + ".pub"} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), p)
	}
}

func TestTightenPermissions_NoPublicKey(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(keyPath, []byte("k"), 0o644))

	assert.NoError(t, TightenPermissions(keyPath))
}

func TestReadPublicKey_TrimsWhitespace(t *testing.T) {
	pubPath := filepath.Join(t.TempDir(), "id_test.pub")
	require.NoError(t, os.WriteFile(pubPath, []byte("  ssh-ed25519 AAAA... jane@example.com  \n\n"), 0o600))

	content, err := ReadPublicKey(pubPath)
	require.NoError(t, err)
	assert.Equal(t, "ssh-ed25519 AAAA... jane@example.com", content)
}

func TestReadPublicKey_MissingFile(t *testing.T) {
	_, err := ReadPublicKey(filepath.Join(t.TempDir(), "nope.pub"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read public key")
}

func TestRemovePair(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "key")
	require.NoError(t, os.WriteFile(keyPath, []byte("k"), 0o600))
	require.NoError(t, os.WriteFile(keyPath+".pub", []byte("p"), 0o600))

	require.NoError(t, RemovePair(keyPath))

	_, err := os.Stat(keyPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(keyPath + ".pub")
	assert.True(t, os.IsNotExist(err))
}

func TestRemovePair_MissingFilesAreFine(t *testing.T) {
	assert.NoError(t, RemovePair(filepath.Join(t.TempDir(), "ghost")))
}

func TestClearAgent_NoAgentIsFine(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", "")

	assert.NoError(t, ClearAgent())
}

func TestAddToAgent_DeadSocketFallsBack(t *testing.T) {
	// Point at a socket nothing listens on; AddToAgent should fall through
	// to ssh-add and report its failure rather than panic.
	t.Setenv("SSH_AUTH_SOCK", filepath.Join(t.TempDir(), "no.sock"))

	keyPath := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(keyPath, []byte("not a key"), 0o600))

	err := AddToAgent(keyPath, "jane@example.com")
	if _, lookErr := exec.LookPath("ssh-add"); lookErr != nil {
		t.Skip("ssh-add not installed")
	}
	assert.Error(t, err, "a bogus key can't be added by ssh-add either")
}
