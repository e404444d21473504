package command

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLine(t *testing.T) {
	assert.Equal(t, "lpadmin -x lib-color", Line("lpadmin", "-x", "lib-color"))
	assert.Equal(t,
		`lpadmin -p q -P "/Library/Printers/PPDs/Xerox Phaser 5550N.gz"`,
		Line("lpadmin", "-p", "q", "-P", "/Library/Printers/PPDs/Xerox Phaser 5550N.gz"))
	assert.Equal(t, `echo ""`, Line("echo", ""))
}

func TestExecRunner_Run(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	r := ExecRunner{Timeout: 5 * time.Second}

	out, err := r.Run(context.Background(), "sh", "-c", "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))

	_, err = r.Run(context.Background(), "sh", "-c", "echo oops >&2; exit 3")
	require.Error(t, err)
	var ce *Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 3, ce.ExitCode)
	assert.Equal(t, "oops", ce.Stderr)
	assert.Equal(t, "oops", Output(err))
}

func TestExecRunner_Timeout(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	r := ExecRunner{Timeout: 50 * time.Millisecond}

	_, err := r.Run(context.Background(), "sleep", "5")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestFakeRunner(t *testing.T) {
	f := NewFakeRunner().
		On(Response{Stdout: "Mac-Lab-01\n"}, "scutil", "--get", "ComputerName").
		On(Response{Stderr: "denied", Exit: 1}, "lpadmin", "-x", "q1")

	out, err := f.Run(context.Background(), "scutil", "--get", "ComputerName")
	require.NoError(t, err)
	assert.Equal(t, "Mac-Lab-01\n", string(out))

	_, err = f.Run(context.Background(), "lpadmin", "-x", "q1")
	require.Error(t, err)
	assert.Equal(t, "denied", Output(err))

	out, err = f.Run(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Empty(t, out)

	assert.Equal(t, []string{"scutil --get ComputerName", "lpadmin -x q1", "unknown"}, f.CallLines())
}
