package reconciler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oalprint/queuemap/pkg/errors"
	"github.com/oalprint/queuemap/pkg/ppd"
	"github.com/oalprint/queuemap/pkg/queue"
	"github.com/oalprint/queuemap/pkg/spooler"
	"github.com/oalprint/queuemap/pkg/version"
)

var testCatalog = []queue.Driver{
	{Name: "Xerox 7760", File: "Xerox Phaser 7760GX.gz", MatchTerms: []string{"7760", "phaser", "xerox"}},
	{Name: "HP Color LaserJet 5550", File: "HP Color LaserJet 5550.gz", MatchTerms: []string{"5550", "hp", "color"}},
}

var modern = version.MustParseVersion("14.5")

func newTestReconciler(sub spooler.Subsystem, opts ...Option) *Reconciler {
	return New(sub, testCatalog, ppd.NewDefaultResolver(), modern, opts...)
}

func TestReconcile_InstalledSetEqualsDescriptors(t *testing.T) {
	mem := spooler.NewMemory("stale-1", "stale-2", "lib-color")
	descriptors := []queue.Descriptor{
		{Server: "fs1", QueueName: "lib-color", ModelName: "Xerox Phaser 7760GX"},
		{Server: "fs2", QueueName: "lab-hp", ModelName: "HP Color LaserJet 5550dtn"},
		{Server: "fs2", QueueName: "lab-bw"},
	}

	res, err := newTestReconciler(mem).Reconcile(context.Background(), descriptors)
	require.NoError(t, err)

	assert.False(t, res.Skipped)
	assert.False(t, res.Failed())
	assert.Equal(t, PhaseDone, res.Phase)
	assert.ElementsMatch(t, []string{"stale-1", "stale-2", "lib-color"}, res.Purged)
	assert.Equal(t, []string{"lab-bw", "lab-hp", "lib-color"}, mem.Names())
	require.Len(t, res.Installed, 3)

	got, ok := mem.Get("lib-color")
	require.True(t, ok)
	assert.Equal(t, "smb://fs1/lib-color", got.DeviceURI)
	assert.Equal(t, "/Library/Printers/PPDs/Contents/Resources/Xerox Phaser 7760GX.gz", got.PPDPath)
	assert.Equal(t, "Xerox 7760", res.Installed[0].Driver)

	got, _ = mem.Get("lab-hp")
	assert.Equal(t, "/Library/Printers/PPDs/Contents/Resources/HP Color LaserJet 5550.gz", got.PPDPath)

	got, _ = mem.Get("lab-bw")
	assert.Equal(t, ppd.DefaultGenericPath, got.PPDPath)
}

func TestReconcile_Idempotent(t *testing.T) {
	mem := spooler.NewMemory("old")
	descriptors := []queue.Descriptor{
		{Server: "fs1", QueueName: "a", ModelName: "Xerox Phaser 7760"},
		{Server: "fs1", QueueName: "b"},
	}
	r := newTestReconciler(mem)

	_, err := r.Reconcile(context.Background(), descriptors)
	require.NoError(t, err)
	first := mem.Names()
	firstA, _ := mem.Get("a")

	res, err := r.Reconcile(context.Background(), descriptors)
	require.NoError(t, err)
	assert.Equal(t, first, mem.Names())
	secondA, _ := mem.Get("a")
	assert.Equal(t, firstA, secondA)
	assert.ElementsMatch(t, []string{"a", "b"}, res.Purged)
}

func TestReconcile_EmptyLeavesQueuesUnchanged(t *testing.T) {
	for _, descriptors := range [][]queue.Descriptor{nil, {}} {
		mem := spooler.NewMemory("keep-1", "keep-2")
		var phases []Phase

		res, err := newTestReconciler(mem, WithPhaseObserver(func(p Phase) {
			phases = append(phases, p)
		})).Reconcile(context.Background(), descriptors)
		require.NoError(t, err)

		assert.True(t, res.Skipped)
		assert.Equal(t, []string{"keep-1", "keep-2"}, mem.Names())
		assert.Zero(t, mem.Deletes)
		assert.Zero(t, mem.Creates)
		assert.Equal(t, []Phase{PhaseIdle, PhaseDone}, phases)
	}
}

func TestReconcile_AllInvalidIsIdle(t *testing.T) {
	mem := spooler.NewMemory("keep")
	res, err := newTestReconciler(mem).Reconcile(context.Background(), []queue.Descriptor{
		{Server: "fs1", QueueName: "bad name"},
		{Server: "fs1", QueueName: ""},
	})
	require.NoError(t, err)

	assert.True(t, res.Skipped)
	assert.Equal(t, []string{"keep"}, mem.Names())
	require.Len(t, res.Failures, 2)
	for _, f := range res.Failures {
		assert.Equal(t, OpValidate, f.Operation)
		assert.True(t, errors.IsCode(f, errors.ErrCodeQueueOperation))
	}
}

func TestReconcile_GenericPPDAndURI(t *testing.T) {
	tests := []struct {
		name string
		os   version.Version
	}{
		{name: "modern", os: modern},
		{name: "legacy", os: version.MustParseVersion("10.6.8")},
		{name: "unknown", os: version.Version{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := spooler.NewMemory()
			r := New(mem, testCatalog, ppd.NewDefaultResolver(), tt.os)

			res, err := r.Reconcile(context.Background(), []queue.Descriptor{{Server: "fs1", QueueName: "lib-color"}})
			require.NoError(t, err)
			require.Len(t, res.Installed, 1)

			got, ok := mem.Get("lib-color")
			require.True(t, ok)
			assert.Equal(t, "smb://fs1/lib-color", got.DeviceURI)
			assert.Equal(t, ppd.DefaultGenericPath, got.PPDPath)
			assert.Empty(t, res.Installed[0].Driver)
		})
	}
}

func TestReconcile_LegacyLayout(t *testing.T) {
	mem := spooler.NewMemory()
	r := New(mem, testCatalog, ppd.NewDefaultResolver(), version.MustParseVersion("10.5"))

	_, err := r.Reconcile(context.Background(), []queue.Descriptor{{Server: "fs1", QueueName: "q", ModelName: "Xerox Phaser 7760"}})
	require.NoError(t, err)

	got, _ := mem.Get("q")
	assert.Equal(t, "/Library/Printers/PPDs/Xerox Phaser 7760GX.gz", got.PPDPath)
}

func TestReconcile_DomainSuffix(t *testing.T) {
	mem := spooler.NewMemory()
	_, err := newTestReconciler(mem, WithDomainSuffix("campus.example.edu")).
		Reconcile(context.Background(), []queue.Descriptor{{Server: "fs1", QueueName: "q"}})
	require.NoError(t, err)

	got, _ := mem.Get("q")
	assert.Equal(t, "smb://fs1.campus.example.edu/q", got.DeviceURI)
}

func TestReconcile_PerQueueFailuresAreNotFatal(t *testing.T) {
	mem := spooler.NewMemory("locked", "old")
	mem.FailDelete["locked"] = fmt.Errorf("queue busy")
	mem.FailCreate["b"] = fmt.Errorf("bad ppd")

	res, err := newTestReconciler(mem).Reconcile(context.Background(), []queue.Descriptor{
		{Server: "fs1", QueueName: "a"},
		{Server: "fs1", QueueName: "b"},
		{Server: "fs1", QueueName: "c"},
	})
	require.NoError(t, err)

	assert.True(t, res.Failed())
	assert.Equal(t, []string{"old"}, res.Purged)
	assert.Equal(t, []string{"a", "c", "locked"}, mem.Names())

	require.Len(t, res.Failures, 2)
	assert.Equal(t, Failure{Queue: "locked", Operation: OpDelete}, Failure{Queue: res.Failures[0].Queue, Operation: res.Failures[0].Operation})
	assert.Equal(t, "b", res.Failures[1].Queue)
	assert.Equal(t, OpCreate, res.Failures[1].Operation)
	assert.Contains(t, res.Failures[1].Error(), "bad ppd")
}

func TestReconcile_ListFailureStillInstalls(t *testing.T) {
	mem := spooler.NewMemory()
	mem.ListErr = fmt.Errorf("scheduler not running")

	res, err := newTestReconciler(mem).Reconcile(context.Background(), []queue.Descriptor{{Server: "fs1", QueueName: "a"}})
	require.NoError(t, err)

	require.Len(t, res.Failures, 1)
	assert.Equal(t, OpList, res.Failures[0].Operation)
	assert.Empty(t, res.Failures[0].Queue)
	require.Len(t, res.Installed, 1)
	assert.Equal(t, 1, mem.Creates)
}

func TestReconcile_Deduplicates(t *testing.T) {
	mem := spooler.NewMemory()
	res, err := newTestReconciler(mem).Reconcile(context.Background(), []queue.Descriptor{
		{Server: "fs1", QueueName: "a"},
		{Server: "fs2", QueueName: "a"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, mem.Creates)
	got, _ := mem.Get("a")
	assert.Equal(t, "smb://fs1/a", got.DeviceURI)
	assert.False(t, res.Failed())
}

func TestReconcile_PhaseOrder(t *testing.T) {
	var phases []Phase
	r := newTestReconciler(spooler.NewMemory("x"), WithPhaseObserver(func(p Phase) {
		phases = append(phases, p)
	}))

	_, err := r.Reconcile(context.Background(), []queue.Descriptor{{Server: "fs1", QueueName: "a"}})
	require.NoError(t, err)
	assert.Equal(t, []Phase{PhaseIdle, PhasePurging, PhaseInstalling, PhaseDone}, phases)
}

func TestReconcile_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mem := spooler.NewMemory("keep")
	_, err := newTestReconciler(mem).Reconcile(ctx, []queue.Descriptor{{Server: "fs1", QueueName: "a"}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"keep"}, mem.Names())
}

func TestReconcile_RateLimited(t *testing.T) {
	mem := spooler.NewMemory("a", "b")
	r := newTestReconciler(mem, WithRateLimit(50, 1))

	start := time.Now()
	_, err := r.Reconcile(context.Background(), []queue.Descriptor{
		{Server: "fs1", QueueName: "c"},
		{Server: "fs1", QueueName: "d"},
	})
	require.NoError(t, err)

	// Four mutations at 50/s with a burst of one take at least 60ms.
	assert.GreaterOrEqual(t, time.Since(start), 55*time.Millisecond)
	assert.Equal(t, []string{"c", "d"}, mem.Names())
}

func TestWithRateLimit_Unlimited(t *testing.T) {
	r := newTestReconciler(spooler.NewMemory(), WithRateLimit(0, 0))
	assert.Equal(t, 1, r.Limiter.Burst())
	assert.True(t, r.Limiter.Limit() > 1e300)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "purging", PhasePurging.String())
	assert.Equal(t, "installing", PhaseInstalling.String())
	assert.Equal(t, "done", PhaseDone.String())
	assert.Equal(t, "phase(9)", Phase(9).String())
}
