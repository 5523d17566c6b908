package gitconf

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFragment_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gitconfig-gitid-work")

	err := WriteFragment(path, Fragment{Name: "Jane Doe", Email: "jane@example.com"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[user]\n\tname = Jane Doe\n\temail = jane@example.com\n", string(data))
}

func TestWriteFragment_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frag")
	require.NoError(t, WriteFragment(path, Fragment{Name: "Old", Email: "old@example.com"}))
	require.NoError(t, WriteFragment(path, Fragment{Name: "New", Email: "new@example.com"}))

	f, err := ReadFragment(path)
	require.NoError(t, err)
	assert.Equal(t, Fragment{Name: "New", Email: "new@example.com"}, f)
}

func TestReadFragment_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frag")
	want := Fragment{Name: "Jane Doe", Email: "jane@example.com"}
	require.NoError(t, WriteFragment(path, want))

	got, err := ReadFragment(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadFragment_MissingFile(t *testing.T) {
	_, err := ReadFragment(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestIncludeBlock(t *testing.T) {
	block := IncludeBlock("/home/jane/code/work", "/home/jane/.gitconfig-gitid-work")

	assert.Equal(t,
		"[includeIf \"gitdir:/home/jane/code/work/\"]\n\tpath = /home/jane/.gitconfig-gitid-work\n",
		block)
}

func TestEnsureInclude_AppendsOnce(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), ".gitconfig")

	require.NoError(t, EnsureInclude(cfg, "/code/work", "/frag/work"))
	require.NoError(t, EnsureInclude(cfg, "/code/work", "/frag/work"))

	data, err := os.ReadFile(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "includeIf"),
		"re-registering must not duplicate the include")
}

func TestEnsureInclude_MultipleIdentities(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), ".gitconfig")

	require.NoError(t, EnsureInclude(cfg, "/code/work", "/frag/work"))
	require.NoError(t, EnsureInclude(cfg, "/code/home", "/frag/home"))

	data, err := os.ReadFile(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "gitdir:/code/work/")
	assert.Contains(t, string(data), "gitdir:/code/home/")
}

func TestHasInclude(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), ".gitconfig")

	ok, err := HasInclude(cfg, "/code/work")
	require.NoError(t, err)
	assert.False(t, ok, "missing file means no include")

	require.NoError(t, EnsureInclude(cfg, "/code/work", "/frag/work"))

	ok, err = HasInclude(cfg, "/code/work")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRemoveInclude(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), ".gitconfig")
	require.NoError(t, EnsureInclude(cfg, "/code/work", "/frag/work"))
	require.NoError(t, EnsureInclude(cfg, "/code/home", "/frag/home"))

	require.NoError(t, RemoveInclude(cfg, "/code/work"))

	data, err := os.ReadFile(cfg)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "gitdir:/code/work/")
	assert.NotContains(t, string(data), "/frag/work")
	assert.Contains(t, string(data), "gitdir:/code/home/")
}

func TestRemoveInclude_MissingFileIsFine(t *testing.T) {
	assert.NoError(t, RemoveInclude(filepath.Join(t.TempDir(), "nope"), "/code/work"))
}

// fakeRunner scripts git output per subcommand.
type fakeRunner struct {
	name   string
	email  string
	failed bool
}

func (f fakeRunner) Git(dir string, args ...string) (string, bool, error) {
	if len(args) > 0 && args[0] == "init" {
		return "", !f.failed, nil
	}
	if len(args) == 3 && args[1] == "--get" {
		switch args[2] {
		case "user.name":
			return f.name, f.name != "", nil
		case "user.email":
			return f.email, f.email != "", nil
		}
	}
	return "", false, nil
}

func TestReadEffectiveIdentity_Fake(t *testing.T) {
	v := NewVerifierWithRunner(fakeRunner{name: "Jane Doe", email: "jane@example.com"})

	got, err := v.ReadEffectiveIdentity(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Fragment{Name: "Jane Doe", Email: "jane@example.com"}, got)
}

func TestReadEffectiveIdentity_UnsetFields(t *testing.T) {
	v := NewVerifierWithRunner(fakeRunner{})

	got, err := v.ReadEffectiveIdentity(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, got.Name)
	assert.Empty(t, got.Email)
}

func TestReadEffectiveIdentity_RemovesScratch(t *testing.T) {
	workDir := t.TempDir()
	v := NewVerifierWithRunner(fakeRunner{name: "Jane Doe", email: "jane@example.com"})

	_, err := v.ReadEffectiveIdentity(workDir)
	require.NoError(t, err)

	entries, err := os.ReadDir(workDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch repository must be removed")
}

func TestReadEffectiveIdentity_RealGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	home := t.TempDir()
	workDir := filepath.Join(home, "code", "work")
	require.NoError(t, os.MkdirAll(workDir, 0o755))

	gitConfig := filepath.Join(home, ".gitconfig")
	fragment := filepath.Join(home, ".gitconfig-gitid-work")
	require.NoError(t, WriteFragment(fragment, Fragment{Name: "Jane Doe", Email: "jane@example.com"}))
	require.NoError(t, EnsureInclude(gitConfig, workDir, fragment))

	v := NewVerifier(gitConfig)
	got, err := v.ReadEffectiveIdentity(workDir)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, "jane@example.com", got.Email)
}

func TestReadEffectiveIdentity_RealGit_NoFragment(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	home := t.TempDir()
	workDir := filepath.Join(home, "code", "bare")
	require.NoError(t, os.MkdirAll(workDir, 0o755))

	gitConfig := filepath.Join(home, ".gitconfig")
	require.NoError(t, os.WriteFile(gitConfig, nil, 0o644))

	v := NewVerifier(gitConfig)
	got, err := v.ReadEffectiveIdentity(workDir)
	require.NoError(t, err)
	assert.Empty(t, got.Name, "no fragment applied means unset")
	assert.Empty(t, got.Email)
}
