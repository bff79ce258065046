// SPDX-License-Identifier: MIT

// Package metrics provides Prometheus metrics for project file I/O.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels for ProjectReadTotal.
const (
	ReadOK         = "ok"
	ReadIO         = "io"
	ReadSyntax     = "syntax"
	ReadNotProject = "not_project"
)

// Result labels for ProjectWriteTotal and ProjectReloadTotal.
const (
	WriteOK    = "ok"
	WriteError = "error"

	ReloadOK    = "ok"
	ReloadError = "error"
)

var (
	// ProjectReadTotal counts project file reads by result.
	ProjectReadTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projfile_read_total",
		Help: "Total number of project file reads, by result.",
	}, []string{"result"})

	// ProjectWriteTotal counts project file writes by result.
	ProjectWriteTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projfile_write_total",
		Help: "Total number of project file writes, by result.",
	}, []string{"result"})

	// LegacyElementTotal counts deprecated element spellings seen while reading.
	LegacyElementTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projfile_legacy_element_total",
		Help: "Total number of deprecated element names accepted while reading, by element.",
	}, []string{"element"})

	// ProjectReloadTotal counts hot reloads triggered by a Holder, by result.
	ProjectReloadTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projfile_reload_total",
		Help: "Total number of project file reloads, by result (ok/error).",
	}, []string{"result"})
)

// RecordRead increments the read counter for result.
func RecordRead(result string) {
	ProjectReadTotal.WithLabelValues(result).Inc()
}

// RecordWrite increments the write counter for result.
func RecordWrite(result string) {
	ProjectWriteTotal.WithLabelValues(result).Inc()
}

// RecordLegacyElement increments the legacy element counter.
func RecordLegacyElement(element string) {
	LegacyElementTotal.WithLabelValues(element).Inc()
}

// RecordReload increments the reload counter for result.
func RecordReload(result string) {
	ProjectReloadTotal.WithLabelValues(result).Inc()
}
