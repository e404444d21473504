package spooler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oalprint/queuemap/pkg/command"
	"github.com/oalprint/queuemap/pkg/queue"
)

func TestCUPS_List(t *testing.T) {
	tests := []struct {
		name string
		resp command.Response
		want []string
		err  bool
	}{
		{
			name: "queues",
			resp: command.Response{Stdout: "lib-color accepting requests since Mon 01 Jan 2024\nlab-bw accepting requests since Tue\n\n"},
			want: []string{"lib-color", "lab-bw"},
		},
		{
			name: "empty output",
			resp: command.Response{},
			want: []string{},
		},
		{
			name: "no destinations on stderr",
			resp: command.Response{Stderr: "lpstat: No destinations added.", Exit: 1},
			want: []string{},
		},
		{
			name: "no destinations on stdout",
			resp: command.Response{Stdout: "No destinations added.\n"},
			want: []string{},
		},
		{
			name: "scheduler down",
			resp: command.Response{Stderr: "lpstat: Scheduler is not running.", Exit: 1},
			err:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := command.NewFakeRunner().On(tt.resp, "lpstat", "-a")
			got, err := (&CUPS{Runner: r}).List(context.Background())
			if tt.err {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "Scheduler is not running")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCUPS_DeleteAndCreate(t *testing.T) {
	r := command.NewFakeRunner()
	c := &CUPS{Runner: r}
	ctx := context.Background()

	require.NoError(t, c.Delete(ctx, "old queue"))
	require.NoError(t, c.Create(ctx, queue.Install{
		Name:      "lib-color",
		DeviceURI: "smb://fs1/lib-color",
		PPDPath:   "/Library/Printers/PPDs/Contents/Resources/Xerox Phaser 7760GX.gz",
	}))

	assert.Equal(t, []string{
		`lpadmin -x "old queue"`,
		`lpadmin -p lib-color -E -v smb://fs1/lib-color -P "/Library/Printers/PPDs/Contents/Resources/Xerox Phaser 7760GX.gz"`,
	}, r.CallLines())
}

func TestCUPS_CreateFailureCarriesOutput(t *testing.T) {
	r := command.NewFakeRunner().On(
		command.Response{Stderr: "lpadmin: Unable to copy PPD file.", Exit: 1},
		"lpadmin", "-p", "q", "-E", "-v", "smb://s/q", "-P", "/x.ppd")

	err := (&CUPS{Runner: r}).Create(context.Background(), queue.Install{Name: "q", DeviceURI: "smb://s/q", PPDPath: "/x.ppd"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unable to copy PPD file")

	var ce *command.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 1, ce.ExitCode)
}

func TestParseLpstat(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, parseLpstat("  a x\n\tb y\n   \n"))
	assert.Empty(t, parseLpstat(""))
}
