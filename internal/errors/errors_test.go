package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrSSH,
		ErrGit,
		ErrAgent,
		ErrExec,
	}

	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
	}

	// Verify codes are unique
	seen := make(map[string]bool)
	for _, code := range codes {
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid configuration in config.yaml",
			suggestion: "Check your configuration file syntax",
		},
		{
			name:       "ssh error",
			code:       ErrSSH,
			message:    "ssh-keygen failed",
			suggestion: "Ensure OpenSSH is installed",
		},
		{
			name:       "git error",
			code:       ErrGit,
			message:    "Couldn't update the main Git config",
			suggestion: "Check permissions on ~/.gitconfig",
		},
		{
			name:       "agent error",
			code:       ErrAgent,
			message:    "No SSH agent is running",
			suggestion: "Start one with: eval $(ssh-agent)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	err := New(ErrSSH, "Key generation failed", "Install ssh-keygen")

	out := err.Error()
	assert.True(t, strings.HasPrefix(out, "✗ Key generation failed"))
	assert.Contains(t, out, "Install ssh-keygen")
}

func TestErrorFormatting_WithCause(t *testing.T) {
	cause := errors.New("exit status 1")
	err := WrapWithCode(cause, ErrGit, "git config read failed", "Check git is installed")

	out := err.Error()
	assert.Contains(t, out, "✗ git config read failed")
	assert.Contains(t, out, "exit status 1")
	assert.Contains(t, out, "Check git is installed")
}

func TestWrap_DefaultsToExecCode(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, "command blew up")

	assert.Equal(t, ErrExec, err.Code)
	assert.Equal(t, cause, err.Cause)
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := WrapWithCode(cause, ErrConfig, "outer", "")

	assert.True(t, errors.Is(err, cause))

	var structured *Error
	require.True(t, errors.As(error(err), &structured))
	assert.Equal(t, ErrConfig, structured.Code)
}

func TestIsCode(t *testing.T) {
	err := New(ErrAgent, "agent unreachable", "")

	assert.True(t, IsCode(err, ErrAgent))
	assert.False(t, IsCode(err, ErrSSH))
	assert.False(t, IsCode(nil, ErrAgent))
	assert.False(t, IsCode(errors.New("plain"), ErrAgent))
}
