package cli

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oalprint/queuemap/pkg/command"
	"github.com/oalprint/queuemap/pkg/config"
	"github.com/oalprint/queuemap/pkg/errors"
	"github.com/oalprint/queuemap/pkg/header"
	"github.com/oalprint/queuemap/pkg/hostfacts"
	"github.com/oalprint/queuemap/pkg/ppd"
	"github.com/oalprint/queuemap/pkg/provisioner"
	"github.com/oalprint/queuemap/pkg/queue"
	"github.com/oalprint/queuemap/pkg/spooler"
	osver "github.com/oalprint/queuemap/pkg/version"
)

const testConfig = `
service:
  server: printsrv.example.edu
  key: s3cret
`

type staticFacts struct {
	facts *hostfacts.Facts
}

func (s staticFacts) Gather(context.Context) (*hostfacts.Facts, error) {
	return s.facts, nil
}

type recordingFetcher struct {
	descriptors []queue.Descriptor
	err         error

	computerName string
	userName     string
}

func (f *recordingFetcher) FetchQueues(_ context.Context, computerName, userName string) ([]queue.Descriptor, error) {
	f.computerName = computerName
	f.userName = userName
	return f.descriptors, f.err
}

var testFacts = &hostfacts.Facts{
	ComputerName: "LIB-MAC-07",
	UserName:     "jdoe",
	OSVersion:    osver.MustParseVersion("14.5"),
	OS:           "darwin",
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queuemap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

type testApp struct {
	*app
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	config string
}

func newTestApp(t *testing.T, fetcher provisioner.QueueFetcher, sub spooler.Subsystem) *testApp {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	a := newApp(stdout, stderr)
	a.newProvisioner = func(cfg *config.Config, dryRun bool) (*provisioner.Provisioner, error) {
		s := sub
		if dryRun {
			s = spooler.NewDryRun(sub)
		}
		return &provisioner.Provisioner{
			Version:   "v0.0.0-test",
			Facts:     staticFacts{facts: testFacts},
			Directory: fetcher,
			Spooler:   s,
			Catalog:   cfg.Catalog,
			Resolver:  cfg.Resolver(),
			Burst:     1,
			DryRun:    dryRun,
		}, nil
	}
	return &testApp{app: a, stdout: stdout, stderr: stderr, config: writeConfig(t, testConfig)}
}

func (ta *testApp) run(args ...string) int {
	full := append([]string{name, "--no-log-file", "--config", ta.config}, args...)
	return ta.execute(context.Background(), full)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", stderrors.New("boom"), ExitFatal},
		{"structured", errors.New(errors.ErrCodeServiceError, "down"), ExitFatal},
		{"partial", &partialError{failures: 2}, ExitPartial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestRun_ReplacesQueues(t *testing.T) {
	mem := spooler.NewMemory("stale")
	fetcher := &recordingFetcher{descriptors: []queue.Descriptor{
		{Server: "fs1", QueueName: "lib-color", ModelName: "Xerox Phaser 7760GX"},
	}}
	ta := newTestApp(t, fetcher, mem)

	require.Equal(t, ExitOK, ta.run("run"))

	assert.Equal(t, "LIB-MAC-07", fetcher.computerName)
	assert.Equal(t, "jdoe", fetcher.userName)
	assert.Equal(t, []string{"lib-color"}, mem.Names())
	got, _ := mem.Get("lib-color")
	assert.Equal(t, ppd.DefaultModernPrefix+"Xerox Phaser 7760GX.gz", got.PPDPath)
	assert.Empty(t, ta.stdout.String(), "report is only printed on request")
}

func TestRun_StrictPartialFailure(t *testing.T) {
	descriptors := []queue.Descriptor{
		{Server: "fs1", QueueName: "ok"},
		{Server: "fs1", QueueName: "broken"},
	}

	for _, tt := range []struct {
		name string
		args []string
		want int
	}{
		{"lenient", []string{"run"}, ExitOK},
		{"strict", []string{"run", "--strict"}, ExitPartial},
	} {
		t.Run(tt.name, func(t *testing.T) {
			mem := spooler.NewMemory()
			mem.FailCreate = map[string]error{"broken": stderrors.New("lpadmin: unable to connect")}
			ta := newTestApp(t, &recordingFetcher{descriptors: descriptors}, mem)

			assert.Equal(t, tt.want, ta.run(tt.args...))
			assert.Equal(t, []string{"ok"}, mem.Names())
		})
	}
}

func TestRun_ServiceErrorIsFatal(t *testing.T) {
	mem := spooler.NewMemory("keep")
	fetcher := &recordingFetcher{err: errors.New(errors.ErrCodeServiceError, "directory service returned HTTP 500")}
	ta := newTestApp(t, fetcher, mem)

	assert.Equal(t, ExitFatal, ta.run("run"))
	assert.Equal(t, []string{"keep"}, mem.Names())
	assert.Zero(t, mem.Deletes)
	assert.Contains(t, ta.stderr.String(), "HTTP 500")
}

func TestRun_InvalidConfig(t *testing.T) {
	mem := spooler.NewMemory("keep")
	ta := newTestApp(t, &recordingFetcher{}, mem)
	ta.config = writeConfig(t, "logging:\n  level: info\n")

	assert.Equal(t, ExitFatal, ta.run("run"))
	assert.Contains(t, ta.stderr.String(), "invalid configuration")
	assert.Equal(t, []string{"keep"}, mem.Names())
}

func TestRun_DryRunPrintsReport(t *testing.T) {
	mem := spooler.NewMemory("stale")
	fetcher := &recordingFetcher{descriptors: []queue.Descriptor{{Server: "fs1", QueueName: "lib-bw"}}}
	ta := newTestApp(t, fetcher, mem)

	require.Equal(t, ExitOK, ta.run("run", "--dry-run", "--format", "json"))

	assert.Equal(t, []string{"stale"}, mem.Names())
	assert.Zero(t, mem.Deletes+mem.Creates)

	var report provisioner.Report
	require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &report))
	assert.Equal(t, header.KindRunReport, report.Kind)
	assert.True(t, report.DryRun)
	require.NotNil(t, report.Result)
	assert.Equal(t, []string{"stale"}, report.Result.Purged)
	require.Len(t, report.Result.Installed, 1)
	assert.Equal(t, "lib-bw", report.Result.Installed[0].Name)
}

func TestRun_ReportToFile(t *testing.T) {
	mem := spooler.NewMemory()
	ta := newTestApp(t, &recordingFetcher{descriptors: []queue.Descriptor{{Server: "fs1", QueueName: "q1"}}}, mem)
	out := filepath.Join(t.TempDir(), "report.yaml")

	require.Equal(t, ExitOK, ta.run("run", "--output", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kind: RunReport")
	assert.Contains(t, string(data), "q1")
}

func TestUnknownFormat(t *testing.T) {
	ta := newTestApp(t, &recordingFetcher{}, spooler.NewMemory())

	assert.Equal(t, ExitFatal, ta.run("catalog", "--format", "xml"))
	assert.Contains(t, ta.stderr.String(), "unknown output format")
}

func TestFetch_UsesOverrides(t *testing.T) {
	fetcher := &recordingFetcher{descriptors: []queue.Descriptor{{Server: "fs2", QueueName: "lab-1"}}}
	mem := spooler.NewMemory("untouched")
	ta := newTestApp(t, fetcher, mem)

	require.Equal(t, ExitOK, ta.run("fetch", "--computer-name", "KIOSK-1", "--format", "json"))

	assert.Equal(t, "KIOSK-1", fetcher.computerName)
	assert.Equal(t, "jdoe", fetcher.userName)
	assert.Equal(t, []string{"untouched"}, mem.Names())

	var doc queueList
	require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &doc))
	assert.Equal(t, header.KindQueueList, doc.Kind)
	assert.Equal(t, "KIOSK-1", doc.ComputerName)
	assert.Equal(t, []queue.Descriptor{{Server: "fs2", QueueName: "lab-1"}}, doc.Queues)
}

func TestFacts_Linux(t *testing.T) {
	release := filepath.Join(t.TempDir(), "os-release")
	require.NoError(t, os.WriteFile(release, []byte("ID=ubuntu\nVERSION_ID=\"22.04\"\n"), 0o600))

	ta := newTestApp(t, &recordingFetcher{}, spooler.NewMemory())
	ta.newCollector = func() *hostfacts.Collector {
		return &hostfacts.Collector{
			GOOS:         "linux",
			Runner:       command.NewFakeRunner(),
			ReleasePaths: []string{release},
			Hostname:     func() (string, error) { return "lab-07", nil },
			ConsoleOwner: func(string) (string, error) { return "jdoe@CAMPUS.EDU", nil },
			Getenv:       func(string) string { return "" },
		}
	}

	require.Equal(t, ExitOK, ta.run("facts", "--format", "json"))

	var doc factsDoc
	require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &doc))
	assert.Equal(t, header.KindHostFacts, doc.Kind)
	require.NotNil(t, doc.Facts)
	assert.Equal(t, "lab-07", doc.Facts.ComputerName)
	assert.Equal(t, "jdoe", doc.Facts.UserName)
	assert.Equal(t, 22, doc.Facts.OSVersion.Major)
	assert.Equal(t, 4, doc.Facts.OSVersion.Minor)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantDriver string
		wantPPD    string
	}{
		{
			name:       "legacy layout",
			args:       []string{"match", "--os-version", "10.6.8", "--format", "json", "Xerox Phaser 7760GX"},
			wantDriver: "Xerox 7760",
			wantPPD:    ppd.DefaultLegacyPrefix + "Xerox Phaser 7760GX.gz",
		},
		{
			name:       "modern layout",
			args:       []string{"match", "--os-version", "14.5", "--format", "json", "HP Color LaserJet 5550"},
			wantDriver: "HP Color LaserJet 5550",
			wantPPD:    ppd.DefaultModernPrefix + "HP Color LaserJet 5550.gz",
		},
		{
			name:    "no match uses generic",
			args:    []string{"match", "--os-version", "14.5", "--format", "json", "Canon iR-ADV C5535"},
			wantPPD: ppd.DefaultGenericPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t, &recordingFetcher{}, spooler.NewMemory())
			ta.config = writeConfig(t, "logging:\n  level: warn\n")

			require.Equal(t, ExitOK, ta.run(tt.args...))

			var doc matchDoc
			require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &doc))
			assert.Equal(t, header.KindMatch, doc.Kind)
			assert.Equal(t, tt.wantPPD, doc.PPDPath)
			if tt.wantDriver == "" {
				assert.Nil(t, doc.Driver)
				assert.Empty(t, doc.Candidates)
				return
			}
			require.NotNil(t, doc.Driver)
			assert.Equal(t, tt.wantDriver, doc.Driver.Name)
		})
	}
}

func TestMatch_BadInput(t *testing.T) {
	for _, args := range [][]string{
		{"match"},
		{"match", "--os-version", "banana", "Xerox 4112"},
	} {
		ta := newTestApp(t, &recordingFetcher{}, spooler.NewMemory())
		assert.Equal(t, ExitFatal, ta.run(args...), args)
	}
}

func TestCatalog(t *testing.T) {
	ta := newTestApp(t, &recordingFetcher{}, spooler.NewMemory())

	require.Equal(t, ExitOK, ta.run("catalog", "--format", "json"))

	var doc catalogDoc
	require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &doc))
	assert.Equal(t, header.KindCatalog, doc.Kind)
	assert.Equal(t, config.DefaultCatalog(), doc.Drivers)
}
