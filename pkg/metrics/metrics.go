// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every queuemap metric. It is private so the textfile only
// carries queuemap series.
var Registry = prometheus.NewRegistry()

var (
	// Spooler mutation metrics
	queuesDeleted = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Name: "queuemap_queues_deleted_total",
			Help: "Total number of print queues deleted",
		},
	)

	queuesInstalled = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Name: "queuemap_queues_installed_total",
			Help: "Total number of print queues installed",
		},
	)

	queueFailures = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "queuemap_queue_failures_total",
			Help: "Total number of failed queue operations",
		},
		[]string{"operation"}, // validate, list, delete, create
	)

	// Run metrics
	descriptorsReceived = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "queuemap_descriptors_received",
			Help: "Number of queue descriptors returned by the directory service in the last run",
		},
	)

	runDuration = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "queuemap_run_duration_seconds",
			Help: "Duration of the last run in seconds",
		},
	)

	lastRunSuccess = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "queuemap_last_run_success",
			Help: "1 if the last run completed without a fatal error, 0 otherwise",
		},
	)

	lastRunTimestamp = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "queuemap_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		},
	)
)

func QueueDeleted() {
	queuesDeleted.Inc()
}

func QueueInstalled() {
	queuesInstalled.Inc()
}

// QueueFailed counts a failed operation (validate, list, delete or create).
func QueueFailed(operation string) {
	queueFailures.WithLabelValues(operation).Inc()
}

func DescriptorsReceived(n int) {
	descriptorsReceived.Set(float64(n))
}

// RunFinished records the outcome of a run.
func RunFinished(success bool, duration time.Duration) {
	runDuration.Set(duration.Seconds())
	lastRunTimestamp.SetToCurrentTime()
	if success {
		lastRunSuccess.Set(1)
	} else {
		lastRunSuccess.Set(0)
	}
}

// WriteTextfile writes Registry in the node_exporter textfile format.
// The file is replaced atomically.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	slog.Debug("wrote metrics textfile", "path", path)
	return nil
}
