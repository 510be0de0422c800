// Copyright (c) 2026 PureCrypt Contributors
//
// This file is part of go-purecrypt.
//
// go-purecrypt is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@purecrypt.io for commercial licensing options.

// Package metrics provides Prometheus instrumentation for crypto and
// protocol operations: operation counters, latency histograms, error
// counters, and connection/transfer gauges.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the Prometheus namespace for all purecrypt metrics
	Namespace = "purecrypt"

	// Label names
	LabelOperation = "operation"
	LabelAlgorithm = "algorithm"
	LabelStatus    = "status"
	LabelErrorType = "error_type"
	LabelDirection = "direction"

	// Status values
	StatusSuccess = "success"
	StatusError   = "error"

	// Operation names
	OpGenerate = "generate"
	OpSign     = "sign"
	OpVerify   = "verify"
	OpEncrypt  = "encrypt"
	OpDecrypt  = "decrypt"
	OpHash     = "hash"
	OpLoad     = "load"
	OpSave     = "save"
	OpConnect  = "connect"
	OpAuth     = "auth"
	OpTransfer = "transfer"

	// Transfer directions
	DirectionUpload   = "upload"
	DirectionDownload = "download"
)

var (
	// OperationsTotal tracks crypto operations by type, algorithm, and status.
	// Use RecordOperation to increment this counter with the appropriate labels.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Total number of crypto operations by type, algorithm, and status",
		},
		[]string{LabelOperation, LabelAlgorithm, LabelStatus},
	)

	// OperationDuration tracks the duration of crypto operations in seconds.
	// Buckets cover both fast symmetric operations and slow key generation.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of crypto operations in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{LabelOperation, LabelAlgorithm},
	)

	// ErrorsTotal tracks errors by operation, algorithm, and error type.
	// Error types should be specific (e.g., "invalid_password", "mac_mismatch", "timeout").
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "errors_total",
			Help:      "Total number of errors by operation, algorithm, and error type",
		},
		[]string{LabelOperation, LabelAlgorithm, LabelErrorType},
	)

	// SSHConnectionsActive tracks currently open SSH connections.
	SSHConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "ssh",
			Name:      "connections_active",
			Help:      "Number of currently open SSH connections",
		},
	)

	// SSHHandshakeDuration tracks the duration of the SSH handshake
	// (version exchange through NEWKEYS) in seconds.
	SSHHandshakeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "ssh",
			Name:      "handshake_duration_seconds",
			Help:      "Duration of SSH handshakes in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// SFTPRequestsTotal tracks SFTP requests by operation and status.
	SFTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "sftp",
			Name:      "requests_total",
			Help:      "Total number of SFTP requests by operation and status",
		},
		[]string{LabelOperation, LabelStatus},
	)

	// SFTPBytesTransferred tracks file payload bytes moved over SFTP by direction.
	SFTPBytesTransferred = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "sftp",
			Name:      "bytes_transferred_total",
			Help:      "Total file payload bytes transferred over SFTP by direction",
		},
		[]string{LabelDirection},
	)

	// KeyBitsGenerated tracks the modulus sizes of generated RSA keys.
	KeyBitsGenerated = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "key_bits_generated",
			Help:      "Modulus sizes of generated RSA keys in bits",
			Buckets:   []float64{1024, 2048, 3072, 4096, 8192},
		},
	)

	// enabled tracks whether metrics collection is enabled
	enabled atomic.Bool
)

func init() {
	// Metrics are enabled by default
	enabled.Store(true)
}

// RecordOperation records a crypto operation with its duration and status.
// This is the primary function for tracking operational metrics.
//
// Parameters:
//   - operation: The operation name (use Op* constants)
//   - algorithm: The algorithm identifier (e.g., "rsa-2048", "aes256-cbc", "sha256")
//   - status: The operation status (use Status* constants)
//   - duration: The operation duration in seconds
func RecordOperation(operation, algorithm, status string, duration float64) {
	if !enabled.Load() {
		return
	}
	OperationsTotal.WithLabelValues(operation, algorithm, status).Inc()
	OperationDuration.WithLabelValues(operation, algorithm).Observe(duration)
}

// RecordError records an error event with context about where it occurred.
//
// Parameters:
//   - operation: The operation during which the error occurred (use Op* constants)
//   - algorithm: The algorithm in use when the error occurred
//   - errorType: A specific error type identifier (e.g., "invalid_password", "timeout")
func RecordError(operation, algorithm, errorType string) {
	if !enabled.Load() {
		return
	}
	ErrorsTotal.WithLabelValues(operation, algorithm, errorType).Inc()
}

// RecordSFTPRequest records one SFTP request outcome.
func RecordSFTPRequest(operation, status string) {
	if !enabled.Load() {
		return
	}
	SFTPRequestsTotal.WithLabelValues(operation, status).Inc()
}

// RecordSFTPBytes records file payload bytes moved in one direction
// (use Direction* constants).
func RecordSFTPBytes(direction string, n int) {
	if !enabled.Load() || n <= 0 {
		return
	}
	SFTPBytesTransferred.WithLabelValues(direction).Add(float64(n))
}

// RecordHandshake records a completed SSH handshake.
func RecordHandshake(duration float64) {
	if !enabled.Load() {
		return
	}
	SSHHandshakeDuration.Observe(duration)
}

// RecordKeyGenerated records the modulus size of a freshly generated key.
func RecordKeyGenerated(bits int) {
	if !enabled.Load() {
		return
	}
	KeyBitsGenerated.Observe(float64(bits))
}

// IncrementConnections increments the active SSH connection count.
func IncrementConnections() {
	if !enabled.Load() {
		return
	}
	SSHConnectionsActive.Inc()
}

// DecrementConnections decrements the active SSH connection count.
func DecrementConnections() {
	if !enabled.Load() {
		return
	}
	SSHConnectionsActive.Dec()
}

// Enable enables metrics collection.
func Enable() {
	enabled.Store(true)
}

// Disable disables metrics collection.
// Useful for testing or when metrics are not desired.
func Disable() {
	enabled.Store(false)
}

// IsEnabled returns whether metrics collection is currently enabled.
func IsEnabled() bool {
	return enabled.Load()
}
