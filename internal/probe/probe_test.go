package probe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		output string
		runErr error
		wantOK bool
		detail string
	}{
		{
			name:   "github greeting with nonzero exit",
			output: "Hi jane! You've successfully authenticated, but GitHub does not provide shell access.\n",
			runErr: errors.New("exit status 1"),
			wantOK: true,
			detail: "Hi jane! You've successfully authenticated, but GitHub does not provide shell access.",
		},
		{
			name:   "permission denied",
			output: "git@github.com: Permission denied (publickey).\n",
			runErr: errors.New("exit status 255"),
			wantOK: false,
			detail: "git@github.com: Permission denied (publickey).",
		},
		{
			name:   "host resolution failure",
			output: "ssh: Could not resolve hostname github.com-work: Name or service not known\n",
			runErr: errors.New("exit status 255"),
			wantOK: false,
		},
		{
			name:   "no output falls back to run error",
			output: "",
			runErr: errors.New("exec: \"ssh\": executable file not found in $PATH"),
			wantOK: false,
			detail: "exec: \"ssh\": executable file not found in $PATH",
		},
		{
			name:   "no output and no error",
			output: "",
			runErr: nil,
			wantOK: false,
			detail: "no response from remote",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.output, tt.runErr)
			assert.Equal(t, tt.wantOK, got.OK)
			if tt.detail != "" {
				assert.Equal(t, tt.detail, got.Detail)
			}
		})
	}
}

func TestFake_Scripted(t *testing.T) {
	f := &Fake{Results: map[string]Result{
		"github.com-work": {OK: true, Detail: "Hi jane!"},
	}}

	got := f.Check(context.Background(), "github.com-work")
	assert.True(t, got.OK)

	got = f.Check(context.Background(), "github.com-home")
	assert.False(t, got.OK)
	assert.Equal(t, "unknown alias", got.Detail)
}

func TestResult_Err(t *testing.T) {
	ok := Result{OK: true}
	assert.NoError(t, ok.Err("github.com-work"))

	fail := Result{OK: false, Detail: "Permission denied"}
	err := fail.Err("github.com-work")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "github.com-work")
}

func TestNewSSHProbe_DefaultTimeout(t *testing.T) {
	p := NewSSHProbe(0)
	assert.Equal(t, 15*time.Second, p.Timeout)

	p = NewSSHProbe(3 * time.Second)
	assert.Equal(t, 3*time.Second, p.Timeout)
}
